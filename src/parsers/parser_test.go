package parsers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/carteira/backend/src/models"
)

func TestDecodeAssets(t *testing.T) {
	raw := `[{"ticker":"PETR4","quantity":10,"avgPrice":20.5,"currentPrice":30,"category":"stocks","currency":"BRL"},
	{"ticker":"VOO","quantity":0.5,"avgPrice":500,"currentPrice":600,"category":"etfsInt","currency":"usd"}]`

	assets, err := DecodeAssets(raw)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "PETR4", assets[0].Ticker)
	assert.Equal(t, 20.5, assets[0].AvgPrice)
	assert.Equal(t, models.CurrencyUSD, assets[1].Currency)
}

func TestDecodeAssetsRepairsFencedOutput(t *testing.T) {
	raw := "```json\n[{\"ticker\":\"BTC\",\"quantity\":0.1,\"avgPrice\":1,\"currentPrice\":2,\"category\":\"crypto\",\"currency\":\"BRL\"},]\n```"

	assets, err := DecodeAssets(raw)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "BTC", assets[0].Ticker)
}

func TestDecodeAssetsRejectsInvalidRecord(t *testing.T) {
	raw := `[{"ticker":"PETR4","quantity":10,"avgPrice":1,"currentPrice":1,"category":"stocks","currency":"BRL"},
	{"ticker":"","quantity":1,"avgPrice":1,"currentPrice":1,"category":"stocks","currency":"BRL"}]`

	_, err := DecodeAssets(raw)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = DecodeAssets(`[{"ticker":"X","quantity":-3,"avgPrice":1,"currentPrice":1,"category":"stocks","currency":"BRL"}]`)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = DecodeAssets("   ")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestDecodeAssetsKeepsUnknownCategory(t *testing.T) {
	// Category membership is checked during reconstruction, not here.
	assets, err := DecodeAssets(`[{"ticker":"AAPL","quantity":1,"avgPrice":1,"currentPrice":1,"category":"stocks_us","currency":"USD"}]`)
	require.NoError(t, err)
	assert.Equal(t, "stocks_us", assets[0].Category)
}

func TestRegistry(t *testing.T) {
	stub := ParserFunc(func(ctx context.Context, text string) ([]models.SimplifiedAsset, error) {
		return []models.SimplifiedAsset{{Ticker: text}}, nil
	})
	reg := Registry{SourceCSV: stub}

	p, err := reg.Get(SourceCSV)
	require.NoError(t, err)
	out, err := p.Parse(context.Background(), "ABC")
	require.NoError(t, err)
	assert.Equal(t, "ABC", out[0].Ticker)

	_, err = reg.Get(SourceAI)
	assert.ErrorIs(t, err, ErrUnknownSource)
}
