package internal

import (
	"embed"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle

	localizerMu sync.RWMutex
	localizer   *i18n.Localizer
)

func getBundle() *i18n.Bundle {
	bundleOnce.Do(func() {
		bundle = i18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

		entries, err := localeFS.ReadDir("locales")
		if err != nil {
			GetInternalLogger().Error("Failed to read embedded locales", "error", err)
			return
		}
		for _, entry := range entries {
			if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+entry.Name()); err != nil {
				GetInternalLogger().Error("Failed to load locale", "file", entry.Name(), "error", err)
			}
		}
	})
	return bundle
}

// SetLanguage selects the language used by Localize. Tags the bundle has no
// messages for fall back to English.
func SetLanguage(tag language.Tag) {
	l := i18n.NewLocalizer(getBundle(), tag.String(), language.English.String())

	localizerMu.Lock()
	localizer = l
	localizerMu.Unlock()
}

// Languages lists the tags that have message files.
func Languages() []language.Tag {
	return getBundle().LanguageTags()
}

// Localize renders messageID with data in the selected language. A message
// that cannot be rendered falls back to the messageID itself.
func Localize(messageID string, data map[string]any) string {
	localizerMu.RLock()
	l := localizer
	localizerMu.RUnlock()

	if l == nil {
		l = i18n.NewLocalizer(getBundle(), language.English.String())
	}

	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		GetInternalLogger().Debug("Failed to localize message", "id", messageID, "error", err)
		return messageID
	}
	return msg
}
