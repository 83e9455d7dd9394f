package middleware

import (
	"portal/internal/locale"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const localeKey = "locale"

// Locale stores the boot locale on every request.
func Locale(settings locale.Settings) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(localeKey, settings.Tag)
		c.Next()
	}
}

// LocaleFromGin returns the request locale, English when unset.
func LocaleFromGin(c *gin.Context) language.Tag {
	if v, ok := c.Get(localeKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return language.English
}
