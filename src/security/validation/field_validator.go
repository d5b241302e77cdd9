package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/username/carteira/backend/src/logger"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

// ErrPasteTooLong also matches ErrValidationFailed.
var ErrPasteTooLong = fmt.Errorf("pasted text too long")

const MaxTickerLength = 64

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateFloatString parses a string to float and checks if it's within a range.
// An empty string yields 0 and no error; callers that need a value check emptiness first.
func ValidateFloatString(s, fieldName string, allowNegative bool, minVal, maxVal float64) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, nil
	}

	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s ('%s') is not a valid number: %v", ErrValidationFailed, fieldName, s, err)
	}
	if !allowNegative && val < 0 {
		logger.L.Warn("Negative value not allowed for field", "field", fieldName, "value", val)
		return 0, fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
	}
	if val < minVal || val > maxVal {
		logger.L.Warn("Float value out of range", "field", fieldName, "value", val, "min", minVal, "max", maxVal)
		return 0, fmt.Errorf("%w: %s must be between %.2f and %.2f, got %.2f", ErrValidationFailed, fieldName, minVal, maxVal, val)
	}
	return val, nil
}

// ValidateTicker checks a free-form asset code. Tickers may contain spaces and
// symbols ("Tesouro IPCA+ 2045") but not markup or spreadsheet formulas.
func ValidateTicker(s, contextID string) error {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, "ticker"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(trimmed, MaxTickerLength, "ticker"); err != nil {
		return err
	}
	if err := CheckXSSPatterns(trimmed, "ticker", contextID); err != nil {
		return err
	}
	return CheckFormulaInjection(trimmed, "ticker", contextID)
}

// ValidatePasteLength bounds the size of pasted portfolio text.
func ValidatePasteLength(s string, maxLength int) error {
	if maxLength > 0 && len(s) > maxLength {
		return fmt.Errorf("%w: %w: limit is %d bytes", ErrValidationFailed, ErrPasteTooLong, maxLength)
	}
	return nil
}
