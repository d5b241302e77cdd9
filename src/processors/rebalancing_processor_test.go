package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/carteira/backend/src/models"
)

// threeCategoryPortfolio totals 1000. With a 400 contribution the new total is
// 1400, leaving stocks 300 short, fiis 100 short and crypto exactly on target.
func threeCategoryPortfolio() models.Portfolio {
	return models.Portfolio{
		models.CategoryStocks: {ID: models.CategoryStocks, Name: "Ações", TotalValue: 400, TargetAllocation: 50},
		models.CategoryFIIs:   {ID: models.CategoryFIIs, Name: "FIIs", TotalValue: 250, TargetAllocation: 25},
		models.CategoryCrypto: {ID: models.CategoryCrypto, Name: "Criptomoedas", TotalValue: 350, TargetAllocation: 25},
	}
}

func allocate(p models.Portfolio, contribution float64, selected ...models.CategoryID) RebalancingResult {
	return NewRebalancingProcessor().Allocate(RebalancingRequest{
		Portfolio:    p,
		TotalValue:   p.TotalValue(),
		Contribution: contribution,
		Selected:     selected,
	})
}

func TestAllocateProportionalSplit(t *testing.T) {
	res := allocate(threeCategoryPortfolio(), 400, models.CategoryStocks, models.CategoryFIIs, models.CategoryCrypto)

	require.Equal(t, OutcomeSuggested, res.Outcome)
	require.Len(t, res.Suggestions, 2)
	assert.Empty(t, res.Message)
	assert.InDelta(t, 1400, res.NewTotalValue, 1e-9)

	assert.Equal(t, models.CategoryStocks, res.Suggestions[0].CategoryID)
	assert.InDelta(t, 300, res.Suggestions[0].AmountToInvest, 1e-9)
	assert.InDelta(t, 0.5, res.Suggestions[0].NewAllocation, 1e-9)

	assert.Equal(t, models.CategoryFIIs, res.Suggestions[1].CategoryID)
	assert.InDelta(t, 100, res.Suggestions[1].AmountToInvest, 1e-9)
	assert.InDelta(t, 0.25, res.Suggestions[1].NewAllocation, 1e-9)

	var sum float64
	for _, s := range res.Suggestions {
		sum += s.AmountToInvest
	}
	assert.InDelta(t, 400, sum, 1e-9)
	assert.Equal(t, []string{"Ações", "FIIs", "Criptomoedas"}, res.EligibleNames)
}

func TestAllocateExcludedCategoryNeverSuggested(t *testing.T) {
	res := allocate(threeCategoryPortfolio(), 400, models.CategoryFIIs)

	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, models.CategoryFIIs, res.Suggestions[0].CategoryID)
	assert.InDelta(t, 400, res.Suggestions[0].AmountToInvest, 1e-9)
	for _, s := range res.Suggestions {
		assert.NotEqual(t, models.CategoryStocks, s.CategoryID)
	}
}

func TestAllocateNothingUnderweight(t *testing.T) {
	res := allocate(threeCategoryPortfolio(), 400, models.CategoryCrypto)

	assert.Equal(t, OutcomeBalanced, res.Outcome)
	assert.Equal(t, MsgNoContributionNeeded, res.Message)
	assert.NotNil(t, res.Suggestions)
	assert.Empty(t, res.Suggestions)
}

func TestAllocatePreconditions(t *testing.T) {
	p := threeCategoryPortfolio()

	res := allocate(p, 400)
	assert.Equal(t, OutcomeNothingToCompute, res.Outcome)
	assert.Equal(t, MsgEmptySelection, res.Message)
	assert.Empty(t, res.Suggestions)

	res = allocate(p, 0, models.CategoryStocks)
	assert.Equal(t, OutcomeNothingToCompute, res.Outcome)
	assert.Equal(t, MsgInvalidContribution, res.Message)

	res = allocate(p, -10, models.CategoryStocks)
	assert.Equal(t, MsgInvalidContribution, res.Message)

	res = NewRebalancingProcessor().Allocate(RebalancingRequest{
		Portfolio:    models.Portfolio{},
		TotalValue:   0,
		Contribution: 100,
		Selected:     []models.CategoryID{models.CategoryStocks},
	})
	assert.Equal(t, OutcomeNothingToCompute, res.Outcome)
	assert.Equal(t, MsgEmptyPortfolio, res.Message)
}

func TestAllocateTiesKeepCanonicalOrder(t *testing.T) {
	p := models.Portfolio{
		models.CategoryTreasury: {ID: models.CategoryTreasury, Name: "Tesouro Direto", TotalValue: 0, TargetAllocation: 50},
		models.CategoryStocks:   {ID: models.CategoryStocks, Name: "Ações", TotalValue: 0, TargetAllocation: 50},
		models.CategoryCrypto:   {ID: models.CategoryCrypto, Name: "Criptomoedas", TotalValue: 100, TargetAllocation: 0},
	}
	res := allocate(p, 100, models.CategoryTreasury, models.CategoryStocks, models.CategoryCrypto)

	require.Len(t, res.Suggestions, 2)
	assert.Equal(t, models.CategoryStocks, res.Suggestions[0].CategoryID)
	assert.Equal(t, models.CategoryTreasury, res.Suggestions[1].CategoryID)
	assert.InDelta(t, res.Suggestions[0].AmountToInvest, res.Suggestions[1].AmountToInvest, 1e-9)
}

func TestAllocateIsDeterministic(t *testing.T) {
	seed := models.SeedPortfolio()
	all := append([]models.CategoryID(nil), models.CategoryOrder...)

	first := allocate(seed, 1000, all...)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, allocate(seed, 1000, all...))
	}
	require.NotEmpty(t, first.Suggestions)
	for i := 1; i < len(first.Suggestions); i++ {
		assert.GreaterOrEqual(t, first.Suggestions[i-1].AmountToInvest, first.Suggestions[i].AmountToInvest)
	}
}
