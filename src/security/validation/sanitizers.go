package validation

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// strictHTMLPolicy removes every tag.
	strictHTMLPolicy = bluemonday.StrictPolicy()
	// narrativePolicy keeps the formatting markdown renders to (paragraphs, lists, emphasis).
	narrativePolicy = bluemonday.UGCPolicy()
)

// SanitizeText removes all HTML tags and attributes from an input string.
func SanitizeText(s string) string {
	return strictHTMLPolicy.Sanitize(s)
}

// SanitizePastedText prepares user-pasted portfolio data for parsing: it drops
// unprintable characters and markup, then undoes the entity escaping bluemonday
// applies so "&" and quotes reach the parser unchanged.
func SanitizePastedText(s string) string {
	cleaned := strictHTMLPolicy.Sanitize(StripUnprintable(s))
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// SanitizeNarrativeHTML sanitizes HTML rendered from model-generated text.
func SanitizeNarrativeHTML(s string) string {
	return narrativePolicy.Sanitize(s)
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}
