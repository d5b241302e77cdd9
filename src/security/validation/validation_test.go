package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/carteira/backend/src/models"
)

func TestSanitizePastedText(t *testing.T) {
	in := "PETR4 <b>10</b> @ R$ 30,00 & VALE3\x00\x07 <script>alert(1)</script>\n"
	out := SanitizePastedText(in)

	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, "\x00")
	assert.NotContains(t, out, "alert")
	assert.Contains(t, out, "PETR4 10 @ R$ 30,00 & VALE3")
}

func TestSanitizeNarrativeHTML(t *testing.T) {
	out := SanitizeNarrativeHTML(`<p>Olá <strong>mundo</strong></p><script>x()</script><a href="javascript:x()">l</a>`)
	assert.Contains(t, out, "<p>Olá <strong>mundo</strong></p>")
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "javascript:")
}

func TestStripUnprintable(t *testing.T) {
	assert.Equal(t, "a\tb\nc", StripUnprintable("a\tb\x01\nc\x7f"))
}

func TestValidateTicker(t *testing.T) {
	assert.NoError(t, ValidateTicker("PETR4", "t"))
	assert.NoError(t, ValidateTicker("Tesouro IPCA+ 2045", "t"))
	assert.NoError(t, ValidateTicker("CDB Sofisa 110% CDI", "t"))

	for _, bad := range []string{"", "  ", "=HYPERLINK(1)", "<script>x</script>", strings.Repeat("A", 65)} {
		err := ValidateTicker(bad, "t")
		assert.ErrorIs(t, err, ErrValidationFailed, bad)
	}
}

func TestValidateFloatString(t *testing.T) {
	v, err := ValidateFloatString(" 12.5 ", "qty", false, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)

	v, err = ValidateFloatString("", "qty", false, 0, 100)
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = ValidateFloatString("abc", "qty", false, 0, 100)
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = ValidateFloatString("-1", "qty", false, -10, 100)
	assert.ErrorIs(t, err, ErrValidationFailed)
	_, err = ValidateFloatString("101", "qty", false, 0, 100)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidatePasteLength(t *testing.T) {
	assert.NoError(t, ValidatePasteLength("abc", 3))
	assert.NoError(t, ValidatePasteLength("abcdef", 0))
	err := ValidatePasteLength("abcd", 3)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.ErrorIs(t, err, ErrPasteTooLong)
	assert.NotErrorIs(t, ValidateStringNotEmpty(" ", "ticker"), ErrPasteTooLong)
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	err := ValidateStruct(models.SimplifiedAsset{Ticker: "", Quantity: -1, Category: "stocks", Currency: "EUR"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.Contains(t, err.Error(), "ticker failed required")
	assert.Contains(t, err.Error(), "quantity failed gte=0")
	assert.Contains(t, err.Error(), "currency failed oneof=BRL USD")

	assert.NoError(t, ValidateStruct(models.SimplifiedAsset{Ticker: "X", Category: "stocks"}))
}

func TestValidateClientContentType(t *testing.T) {
	assert.NoError(t, ValidateClientContentType("text/csv"))
	assert.NoError(t, ValidateClientContentType("text/plain; charset=utf-8"))
	assert.Error(t, ValidateClientContentType("application/pdf"))
	assert.Error(t, ValidateClientContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))
}

func TestValidateFileContentByMagicBytes(t *testing.T) {
	r := strings.NewReader("ticker;quantidade\nPETR4;10\n")
	detected, err := ValidateFileContentByMagicBytes(r)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", detected)
	pos, _ := r.Seek(0, 1)
	assert.Zero(t, pos)

	_, err = ValidateFileContentByMagicBytes(strings.NewReader("PK\x03\x04\x00\x00binary"))
	assert.Error(t, err)

	_, err = ValidateFileContentByMagicBytes(strings.NewReader(""))
	assert.Error(t, err)
}
