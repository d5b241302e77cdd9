package processors

import (
	"math"

	"github.com/username/carteira/backend/src/models"
)

// bazinYield is the minimum annual dividend yield of the Bazin method.
const bazinYield = 0.06

// grahamFactor is 15 (max P/E) times 1.5 (max P/VP).
const grahamFactor = 22.5

// CalculateBazinPrice returns the ceiling price at which the annual dividend
// per share yields 6%. Non-positive dividends give 0.
func CalculateBazinPrice(dividendPerShare float64) float64 {
	if dividendPerShare <= 0 {
		return 0
	}
	return dividendPerShare / bazinYield
}

// CalculateGrahamPrice returns sqrt(22.5 × EPS × BVPS), or 0 unless both are positive.
func CalculateGrahamPrice(eps, bookValuePerShare float64) float64 {
	if eps <= 0 || bookValuePerShare <= 0 {
		return 0
	}
	return math.Sqrt(grahamFactor * eps * bookValuePerShare)
}

// CalculateMarginOfSafety returns (intrinsic − price) / price as a fraction.
// A positive value hints the asset trades below its intrinsic value.
func CalculateMarginOfSafety(intrinsicValue, currentPrice float64) float64 {
	if currentPrice <= 0 {
		return 0
	}
	return (intrinsicValue - currentPrice) / currentPrice
}

// QuickVerdict scores the computed figures with five rules of thumb.
func QuickVerdict(currentPrice, bazin, graham, marginOfSafety, pl, roe float64) models.Verdict {
	score := 0
	if bazin > currentPrice && bazin > 0 {
		score++
	}
	if graham > currentPrice && graham > 0 {
		score++
	}
	if marginOfSafety > 0.20 {
		score++
	}
	if roe > 15 {
		score++
	}
	if pl > 0 && pl < 15 {
		score++
	}

	switch {
	case score >= 4:
		return models.Verdict{Score: score, Level: models.VerdictGood, Title: "Excelente Oportunidade", Subtitle: "Warren Buffett daria uma espiada."}
	case score >= 2:
		return models.Verdict{Score: score, Level: models.VerdictAverage, Title: "Ponto de Atenção", Subtitle: "Nem 8, nem 80. Fique de olho."}
	default:
		return models.Verdict{Score: score, Level: models.VerdictBad, Title: "Avalie com Cuidado", Subtitle: "Até o urso do mercado está com medo."}
	}
}

type valuationProcessorImpl struct{}

func NewValuationProcessor() ValuationProcessor {
	return &valuationProcessorImpl{}
}

// Evaluate runs the three valuation formulas and the quick verdict. The margin
// of safety is measured against the Graham price.
func (p *valuationProcessorImpl) Evaluate(in models.ValuationInput) models.ValuationResult {
	bazin := CalculateBazinPrice(in.DividendPerShare)
	graham := CalculateGrahamPrice(in.EPS, in.BookValuePerShare)
	mos := CalculateMarginOfSafety(graham, in.CurrentPrice)

	return models.ValuationResult{
		Ticker:          in.Ticker,
		CurrentPrice:    in.CurrentPrice,
		BazinPrice:      bazin,
		GrahamPrice:     graham,
		MarginOfSafety:  mos,
		PriceToEarnings: in.PriceToEarnings,
		ROE:             in.ROE,
		Verdict:         QuickVerdict(in.CurrentPrice, bazin, graham, mos, in.PriceToEarnings, in.ROE),
	}
}
