package curtain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BrandonKowalski/curtain/pkg/curtain/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curtain.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults without a file", func(t *testing.T) {
		t.Setenv(constants.ConfigPathEnvVar, "")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("File values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
log_level = "debug"
language = "ja"
metrics_namespace = "ui"
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "ja", cfg.Language)
		assert.Equal(t, "ui", cfg.MetricsNamespace)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, `log_level = "debug"`)
		t.Setenv("CURTAIN_LOG_LEVEL", "warn")
		t.Setenv("CURTAIN_METRICS_NAMESPACE", "screens")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "screens", cfg.MetricsNamespace)
	})

	t.Run("CURTAIN_CONFIG names the file", func(t *testing.T) {
		path := writeConfig(t, `language = "ja"`)
		t.Setenv(constants.ConfigPathEnvVar, path)

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "ja", cfg.Language)
	})

	t.Run("Unknown keys are rejected", func(t *testing.T) {
		path := writeConfig(t, `log_colour = "red"`)

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log_colour")
	})

	t.Run("Options carries every field", func(t *testing.T) {
		cfg := Config{LogLevel: "info", LogPath: "/tmp/x.log", Language: "ja", Debug: true}
		assert.Equal(t, Options{LogPath: "/tmp/x.log", LogLevel: "info", Language: "ja", Debug: true}, cfg.Options())
	})
}
