package pdf

import (
	"time"

	"golang.org/x/text/language"
)

// Formatos cortos de fecha por idioma. El primero es el respaldo.
var (
	dateTags = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
		language.Spanish,
		language.French,
		language.Italian,
		language.Portuguese,
		language.German,
		language.Japanese,
		language.Chinese,
		language.Korean,
	}
	dateLayouts = []string{
		"1/2/2006",
		"02/01/2006",
		"02/01/2006",
		"02/01/2006",
		"02/01/2006",
		"02/01/2006",
		"02.01.2006",
		"2006/01/02",
		"2006/01/02",
		"2006/01/02",
	}
	dateMatcher = language.NewMatcher(dateTags)
)

// DateLayout devuelve el layout de fecha corta para un locale BCP 47 ("en-US", "es-CO").
func DateLayout(locale string) string {
	_, idx := language.MatchStrings(dateMatcher, locale)
	if idx < 0 || idx >= len(dateLayouts) {
		return dateLayouts[0]
	}
	return dateLayouts[idx]
}

// formatDate imprime la fecha de calendario sin convertir de zona.
func formatDate(t time.Time, layout string) string {
	return t.Format(layout)
}
