package display

import (
	"unicode"
	"unicode/utf8"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultWidth = 80

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return wordwrap.String(text, DefaultWidth)
}

// Title returns s with each word capitalized ("iron sword" -> "Iron Sword").
func Title(s string) string {
	// Casers keep state between calls, so each call gets its own.
	return cases.Title(language.English).String(s)
}

// Capitalize returns s with its first character uppercased.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
