package processors

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/username/carteira/backend/src/logger"
	"github.com/username/carteira/backend/src/models"
	"gonum.org/v1/gonum/floats"
)

// ErrNoAssetsParsed is returned when the parse produced no records at all.
var ErrNoAssetsParsed = errors.New("no assets parsed")

// ReconstructionResult is the portfolio rebuilt from parsed records.
type ReconstructionResult struct {
	Portfolio models.Portfolio      `json:"portfolio"`
	Accepted  int                   `json:"accepted"`
	Dropped   []models.DroppedAsset `json:"dropped"`
}

type portfolioProcessorImpl struct {
	newID func() string
}

func NewPortfolioProcessor() PortfolioProcessor {
	return &portfolioProcessorImpl{newID: uuid.NewString}
}

// Reconstruct builds a new portfolio from parsed records. Category metadata
// (name, target allocation) is carried over from current; assets and totals
// are rebuilt entirely from parsed. current is never modified.
// A non-empty parse whose records are all dropped yields an emptied portfolio.
func (p *portfolioProcessorImpl) Reconstruct(parsed []models.SimplifiedAsset, current models.Portfolio) (*ReconstructionResult, error) {
	if len(parsed) == 0 {
		return nil, ErrNoAssetsParsed
	}

	next := current.Clone()
	for id, cat := range next {
		cat.Assets = []models.Asset{}
		cat.TotalValue = 0
		cat.Variation = 0
		cat.Profitability = 0
		next[id] = cat
	}

	seed := models.SeedPortfolio()
	result := &ReconstructionResult{Dropped: []models.DroppedAsset{}}

	for _, rec := range parsed {
		catID := models.CategoryID(rec.Category)
		if !models.IsKnownCategory(rec.Category) {
			logger.L.Warn("Dropping parsed asset with unknown category", "ticker", rec.Ticker, "category", rec.Category)
			result.Dropped = append(result.Dropped, models.DroppedAsset{
				Ticker:   rec.Ticker,
				Category: rec.Category,
				Reason:   "unknown category",
			})
			continue
		}

		cat, ok := next[catID]
		if !ok {
			// Known category absent from the current snapshot: restore it from the seed.
			cat = seed[catID]
			cat.Assets = []models.Asset{}
			cat.TotalValue, cat.Variation, cat.Profitability = 0, 0, 0
		}

		cat.Assets = append(cat.Assets, p.toAsset(rec))
		next[catID] = cat
		result.Accepted++
	}

	for id, cat := range next {
		next[id] = recomputeCategory(cat)
	}

	result.Portfolio = next
	return result, nil
}

func (p *portfolioProcessorImpl) toAsset(rec models.SimplifiedAsset) models.Asset {
	currency := rec.Currency
	if currency == "" {
		currency = models.CurrencyBRL
	}

	var profitability float64
	if rec.AvgPrice > 0 {
		profitability = (rec.CurrentPrice/rec.AvgPrice - 1) * 100
	}

	return models.Asset{
		ID:            p.newID(),
		Ticker:        strings.ToUpper(strings.TrimSpace(rec.Ticker)),
		Quantity:      rec.Quantity,
		AvgPrice:      rec.AvgPrice,
		CurrentPrice:  rec.CurrentPrice,
		TotalValue:    rec.Quantity * rec.CurrentPrice,
		Variation:     profitability,
		Profitability: profitability,
		Currency:      currency,
	}
}

// recomputeCategory derives the category aggregates from its assets.
func recomputeCategory(cat models.AssetCategory) models.AssetCategory {
	values := make([]float64, len(cat.Assets))
	invested := make([]float64, len(cat.Assets))
	for i, a := range cat.Assets {
		values[i] = a.TotalValue
		invested[i] = a.Quantity * a.AvgPrice
	}

	cat.TotalValue = floats.Sum(values)
	totalInvested := floats.Sum(invested)

	cat.Profitability = 0
	if totalInvested > 0 {
		cat.Profitability = (cat.TotalValue/totalInvested - 1) * 100
	}
	cat.Variation = cat.Profitability
	return cat
}
