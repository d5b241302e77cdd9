package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/username/carteira/backend/src/logger"
)

// contentRule is a pattern that must not appear in a user-supplied field.
type contentRule struct {
	name    string
	pattern *regexp.Regexp
	// prefixOnly limits the match to the start of the trimmed value.
	prefixOnly bool
}

var (
	xssRule = contentRule{
		name: "markup",
		pattern: regexp.MustCompile(
			`(?i)<script|on(error|load|focus|mouseover)=|(java|vb)script:|<(iframe|object|embed|applet|style|link)|<img\s+src\s*=\s*['"]?\s*(javascript|data):`,
		),
	}
	// Spreadsheets also treat a leading tab or carriage return as a formula trigger.
	// A leading minus stays allowed: it is how negative numbers are written.
	formulaRule = contentRule{
		name:       "formula",
		pattern:    regexp.MustCompile(`^[=+@\t\r]`),
		prefixOnly: true,
	}
)

func (r contentRule) check(s, fieldName, contextID string) error {
	subject := s
	if r.prefixOnly {
		subject = strings.TrimLeft(s, " ")
	}
	if !r.pattern.MatchString(subject) {
		return nil
	}
	preview := s
	if len(preview) > 50 {
		preview = preview[:50] + "..."
	}
	logger.L.Warn("Rejected field content", "rule", r.name, "field", fieldName, "contextID", contextID, "contentPreview", preview)
	return fmt.Errorf("%w: %s pattern detected in field '%s'", ErrValidationFailed, r.name, fieldName)
}

// CheckXSSPatterns rejects values carrying script or embedding markup.
func CheckXSSPatterns(s, fieldName, contextID string) error {
	return xssRule.check(s, fieldName, contextID)
}

// CheckFormulaInjection rejects values a spreadsheet would evaluate as a formula.
func CheckFormulaInjection(s, fieldName, contextID string) error {
	return formulaRule.check(s, fieldName, contextID)
}
