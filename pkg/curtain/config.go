package curtain

import (
	"fmt"
	"os"
	"strings"

	"github.com/BrandonKowalski/curtain/pkg/curtain/constants"
	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// Config is the file and environment form of Options. Every field can be set
// in TOML and overridden by a CURTAIN_* environment variable.
type Config struct {
	LogLevel         string `toml:"log_level" split_words:"true"`         // CURTAIN_LOG_LEVEL
	LogPath          string `toml:"log_path" split_words:"true"`          // CURTAIN_LOG_PATH
	Language         string `toml:"language"`                             // CURTAIN_LANGUAGE
	Debug            bool   `toml:"debug"`                                // CURTAIN_DEBUG
	MetricsNamespace string `toml:"metrics_namespace" split_words:"true"` // CURTAIN_METRICS_NAMESPACE
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		LogLevel:         constants.DefaultLogLevel,
		Language:         constants.DefaultLanguage,
		MetricsNamespace: constants.DefaultMetricsNamespace,
	}
}

// LoadConfig reads the TOML file at path over the defaults, then applies
// environment overrides. An empty path falls back to CURTAIN_CONFIG; if that is
// unset too, only defaults and environment are used.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv(constants.ConfigPathEnvVar)
	}

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("curtain: failed to decode config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			// Logging is not set up yet, so unknown keys are an error rather than a warning.
			return cfg, fmt.Errorf("curtain: unknown keys in config %s: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := envconfig.Process(constants.EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("curtain: failed to load config from environment: %w", err)
	}

	return cfg, nil
}

// Options converts the configuration into Options for Init.
func (c Config) Options() Options {
	return Options{
		LogPath:  c.LogPath,
		LogLevel: c.LogLevel,
		Language: c.Language,
		Debug:    c.Debug,
	}
}
