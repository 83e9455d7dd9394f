// Package locale applies the default locale and timezone at boot and
// translates the few user-facing messages the server produces.
package locale

import (
	"fmt"
	"time"

	"portal/internal/auth"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FlashAuthError is the format of the notice shown after a failed login.
const FlashAuthError = "Authentication error: %s"

// Settings are resolved once at boot.
type Settings struct {
	Tag      language.Tag
	Location *time.Location
}

func init() {
	catalog := map[language.Tag]map[string]string{
		language.French: {
			FlashAuthError:               "Erreur d'authentification : %s",
			auth.MessageUserNotFound:     "Utilisateur introuvable.",
			auth.MessageProviderExchange: "Erreur lors de la récupération des identifiants OAuth.",
			auth.MessageGeneric:          "Une erreur d'authentification est survenue.",
		},
	}

	for tag, entries := range catalog {
		for key, msg := range entries {
			_ = message.SetString(tag, key, msg)
		}
	}
}

// Boot parses the default locale and installs the default timezone as
// time.Local. Empty values keep English and the process timezone.
func Boot(defaultLocale, defaultTimezone string) (Settings, error) {
	s := Settings{Tag: language.English, Location: time.Local}

	if defaultLocale != "" {
		tag, err := language.Parse(defaultLocale)
		if err != nil {
			return Settings{}, fmt.Errorf("locale: parse %q: %w", defaultLocale, err)
		}
		s.Tag = tag
	}

	if defaultTimezone != "" {
		loc, err := time.LoadLocation(defaultTimezone)
		if err != nil {
			return Settings{}, fmt.Errorf("locale: load timezone %q: %w", defaultTimezone, err)
		}
		time.Local = loc
		s.Location = loc
	}

	return s, nil
}

// Printer returns a printer for the tag, falling back to English for tags
// without a catalog entry.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// AuthFailureNotice renders the flash text for a failed login.
func AuthFailureNotice(tag language.Tag, messageKey string) string {
	p := Printer(tag)
	return p.Sprintf(FlashAuthError, p.Sprintf(messageKey))
}
