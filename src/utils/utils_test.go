package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	SendJSONError(rec, "algo deu errado", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "algo deu errado", body["error"])
}

func TestGenerateETagIsStable(t *testing.T) {
	a, err := GenerateETag(map[string]int{"a": 1, "b": 2})
	require.NoError(t, err)
	b, err := GenerateETag(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	c, err := GenerateETag(map[string]int{"a": 2})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestETagMatches(t *testing.T) {
	assert.True(t, ETagMatches(`"abc"`, `"abc"`))
	assert.True(t, ETagMatches(`"x", "abc"`, `"abc"`))
	assert.True(t, ETagMatches(`W/"abc"`, `"abc"`))
	assert.True(t, ETagMatches(`*`, `"abc"`))
	assert.False(t, ETagMatches(`"abd"`, `"abc"`))
	assert.False(t, ETagMatches(``, `"abc"`))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "R$1.234,56", FormatBRL(1234.56))
	assert.Equal(t, "R$0,10", FormatBRL(0.1))
	assert.Equal(t, "$10.50", FormatMoney(10.5, "USD"))
	assert.Equal(t, "3.00", FormatMoney(3, "XXX-unknown"))
	assert.Equal(t, "13.97", FormatFixed(13.9699))
	assert.Equal(t, "39.70%", FormatPercent(0.397))
}
