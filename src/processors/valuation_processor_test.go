package processors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/username/carteira/backend/src/models"
)

func TestCalculateBazinPrice(t *testing.T) {
	assert.InDelta(t, 20.0, CalculateBazinPrice(1.2), 1e-9)
	for _, d := range []float64{0, -1, -0.0001} {
		assert.Zero(t, CalculateBazinPrice(d), "dividend %v", d)
	}
}

func TestCalculateGrahamPrice(t *testing.T) {
	got := CalculateGrahamPrice(0.90, 9.62)
	assert.InDelta(t, math.Sqrt(22.5*0.90*9.62), got, 1e-9)
	assert.InDelta(t, 13.97, got, 0.01)

	assert.Zero(t, CalculateGrahamPrice(0, 9.62))
	assert.Zero(t, CalculateGrahamPrice(0.90, 0))
	assert.Zero(t, CalculateGrahamPrice(-1, 9.62))
	assert.Zero(t, CalculateGrahamPrice(0.90, -3))
}

func TestCalculateMarginOfSafety(t *testing.T) {
	assert.InDelta(t, 0.397, CalculateMarginOfSafety(13.97, 10.0), 1e-3)
	assert.Zero(t, CalculateMarginOfSafety(13.97, 0))
	assert.Zero(t, CalculateMarginOfSafety(0, 0))
	assert.Less(t, CalculateMarginOfSafety(8, 10), 0.0)
}

func TestQuickVerdict(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		bazin float64
		gr    float64
		mos   float64
		pl    float64
		roe   float64
		score int
		level models.VerdictLevel
	}{
		{"all rules hold", 10, 20, 14, 0.4, 8, 20, 5, models.VerdictGood},
		{"four rules", 10, 20, 14, 0.4, 20, 20, 4, models.VerdictGood},
		{"two rules", 10, 20, 0, 0, 8, 5, 2, models.VerdictAverage},
		{"nothing", 10, 0, 0, -0.5, 0, 0, 0, models.VerdictBad},
		{"pl must be positive", 10, 0, 0, 0, -3, 0, 0, models.VerdictBad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := QuickVerdict(tt.price, tt.bazin, tt.gr, tt.mos, tt.pl, tt.roe)
			assert.Equal(t, tt.score, v.Score)
			assert.Equal(t, tt.level, v.Level)
			assert.NotEmpty(t, v.Title)
			assert.NotEmpty(t, v.Subtitle)
		})
	}
}

func TestEvaluate(t *testing.T) {
	res := NewValuationProcessor().Evaluate(models.ValuationInput{
		Ticker:            "SAPR4",
		CurrentPrice:      10,
		DividendPerShare:  1.2,
		EPS:               0.90,
		BookValuePerShare: 9.62,
		PriceToEarnings:   7,
		ROE:               16,
	})

	assert.Equal(t, "SAPR4", res.Ticker)
	assert.InDelta(t, 20.0, res.BazinPrice, 1e-9)
	assert.InDelta(t, 13.97, res.GrahamPrice, 0.01)
	assert.InDelta(t, (res.GrahamPrice-10)/10, res.MarginOfSafety, 1e-9)
	assert.Equal(t, 5, res.Verdict.Score)
	assert.Equal(t, models.VerdictGood, res.Verdict.Level)
}

func TestEvaluateDegradesOnMissingFigures(t *testing.T) {
	res := NewValuationProcessor().Evaluate(models.ValuationInput{Ticker: "X", CurrentPrice: 5})
	assert.Zero(t, res.BazinPrice)
	assert.Zero(t, res.GrahamPrice)
	assert.InDelta(t, -1.0, res.MarginOfSafety, 1e-9)
	assert.Equal(t, models.VerdictBad, res.Verdict.Level)
}
