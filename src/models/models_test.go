package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneIsDeep(t *testing.T) {
	p := SeedPortfolio()
	c := p.Clone()

	stocks := c[CategoryStocks]
	stocks.Assets[0].Quantity = 999
	stocks.Name = "changed"
	c[CategoryStocks] = stocks
	delete(c, CategoryCrypto)

	assert.Equal(t, 14.0, p[CategoryStocks].Assets[0].Quantity)
	assert.Equal(t, "Ações", p[CategoryStocks].Name)
	assert.Contains(t, p, CategoryCrypto)
}

func TestCategoriesCanonicalOrder(t *testing.T) {
	p := SeedPortfolio()
	p["zeta"] = AssetCategory{ID: "zeta"}
	p["alpha"] = AssetCategory{ID: "alpha"}

	var ids []CategoryID
	for _, c := range p.Categories() {
		ids = append(ids, c.ID)
	}
	want := append(append([]CategoryID{}, CategoryOrder...), "alpha", "zeta")
	assert.Equal(t, want, ids)
}

func TestSeedCategoryTotalsMatchAssets(t *testing.T) {
	for _, id := range []CategoryID{CategoryStocks, CategoryFIIs, CategoryTreasury, CategoryFixedIncome} {
		cat := SeedPortfolio()[id]
		var sum float64
		for _, a := range cat.Assets {
			sum += a.TotalValue
		}
		assert.InDelta(t, cat.TotalValue, sum, 0.011, string(id))
	}

	var targets float64
	for _, cat := range SeedPortfolio() {
		targets += cat.TargetAllocation
	}
	assert.Equal(t, 100.0, targets)
}

func TestNewPortfolioView(t *testing.T) {
	p := Portfolio{
		CategoryStocks: {ID: CategoryStocks, Name: "Ações", TotalValue: 300, TargetAllocation: 50},
		CategoryFIIs:   {ID: CategoryFIIs, Name: "FIIs", TotalValue: 100, TargetAllocation: 50},
	}

	view := NewPortfolioView(p, 4)
	assert.Equal(t, int64(4), view.Version)
	assert.Equal(t, 400.0, view.TotalValue)
	require.Len(t, view.Categories, 2)
	assert.Equal(t, CategoryStocks, view.Categories[0].ID)
	assert.InDelta(t, 0.75, view.Categories[0].CurrentAllocation, 1e-12)
	assert.NotNil(t, view.Categories[1].Assets)

	empty := NewPortfolioView(Portfolio{CategoryStocks: {ID: CategoryStocks}}, 1)
	assert.Zero(t, empty.Categories[0].CurrentAllocation)
}

func TestIsKnownCategory(t *testing.T) {
	assert.True(t, IsKnownCategory("etfsInt"))
	assert.False(t, IsKnownCategory("ETFSINT"))
	assert.False(t, IsKnownCategory(""))
}

func TestGlossaryCollation(t *testing.T) {
	terms := Glossary("")
	require.Len(t, terms, len(glossary))
	assert.Equal(t, "Ações", terms[0].Term)

	index := map[string]int{}
	for i, g := range terms {
		index[g.Term] = i
	}
	// Accents do not push "Dívida" after the unaccented "Dividend" entries.
	assert.Less(t, index["Dívida Líquida / EBITDA"], index["Dividend Yield (DY)"])
	assert.Less(t, index["Payout"], index["Preço Médio"])
}

func TestGlossaryFilter(t *testing.T) {
	terms := Glossary("  GRAHAM ")
	require.NotEmpty(t, terms)
	for _, g := range terms {
		assert.Contains(t, g.Term+g.Definition, "Graham")
	}
	assert.Empty(t, Glossary("zzzz-nada"))
}
