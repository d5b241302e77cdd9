package models

import (
	"sort"
)

// Currency is the quote currency of an asset. Only BRL and USD are supported.
type Currency string

const (
	CurrencyBRL Currency = "BRL"
	CurrencyUSD Currency = "USD"
)

// CategoryID identifies one of the fixed asset categories.
type CategoryID string

const (
	CategoryStocks      CategoryID = "stocks"
	CategoryFIIs        CategoryID = "fiis"
	CategoryCrypto      CategoryID = "crypto"
	CategoryETFs        CategoryID = "etfs"
	CategoryETFsInt     CategoryID = "etfsInt"
	CategoryTreasury    CategoryID = "treasury"
	CategoryFixedIncome CategoryID = "fixedIncome"
)

// CategoryOrder is the canonical order of the known categories. Every ordered
// view of a Portfolio (listings, allocator tie-breaking) follows it.
var CategoryOrder = []CategoryID{
	CategoryStocks,
	CategoryFIIs,
	CategoryCrypto,
	CategoryETFs,
	CategoryETFsInt,
	CategoryTreasury,
	CategoryFixedIncome,
}

// IsKnownCategory reports whether id belongs to the closed category set.
func IsKnownCategory(id string) bool {
	for _, c := range CategoryOrder {
		if string(c) == id {
			return true
		}
	}
	return false
}

// Asset is a single holding inside a category.
type Asset struct {
	ID            string   `json:"id"`
	Ticker        string   `json:"ticker"`
	Quantity      float64  `json:"quantity"`
	AvgPrice      float64  `json:"avgPrice"`
	CurrentPrice  float64  `json:"currentPrice"`
	TotalValue    float64  `json:"totalValue"`
	Variation     float64  `json:"variation"`
	Profitability float64  `json:"profitability"`
	Currency      Currency `json:"currency,omitempty"`
}

// AssetCategory groups the assets of one category with its aggregates.
// TargetAllocation is a percentage of the total portfolio (10 means 10%).
type AssetCategory struct {
	ID               CategoryID `json:"id"`
	Name             string     `json:"name"`
	Assets           []Asset    `json:"assets"`
	TotalValue       float64    `json:"totalValue"`
	Variation        float64    `json:"variation"`
	Profitability    float64    `json:"profitability"`
	TargetAllocation float64    `json:"targetAllocation"`
}

// Portfolio maps category identifiers to their category. It is treated as an
// immutable snapshot: callers that need to change it work on a Clone.
type Portfolio map[CategoryID]AssetCategory

// Clone returns a deep copy of the portfolio.
func (p Portfolio) Clone() Portfolio {
	out := make(Portfolio, len(p))
	for id, cat := range p {
		assets := make([]Asset, len(cat.Assets))
		copy(assets, cat.Assets)
		cat.Assets = assets
		out[id] = cat
	}
	return out
}

// Categories returns the categories in canonical order. Categories outside the
// known set, if any, come last sorted by id.
func (p Portfolio) Categories() []AssetCategory {
	out := make([]AssetCategory, 0, len(p))
	for _, id := range CategoryOrder {
		if cat, ok := p[id]; ok {
			out = append(out, cat)
		}
	}
	var extra []CategoryID
	for id := range p {
		if !IsKnownCategory(string(id)) {
			extra = append(extra, id)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, id := range extra {
		out = append(out, p[id])
	}
	return out
}

// TotalValue is the sum of every category's TotalValue.
func (p Portfolio) TotalValue() float64 {
	var total float64
	for _, cat := range p.Categories() {
		total += cat.TotalValue
	}
	return total
}

// RebalancingSuggestion is how much of a contribution goes to one category.
// NewAllocation is a fraction (0.15 means 15%).
type RebalancingSuggestion struct {
	CategoryID     CategoryID `json:"categoryId"`
	CategoryName   string     `json:"categoryName"`
	AmountToInvest float64    `json:"amountToInvest"`
	NewAllocation  float64    `json:"newAllocation"`
}

// SimplifiedAsset is the flat record a portfolio parser produces.
type SimplifiedAsset struct {
	Ticker       string   `json:"ticker" validate:"required"`
	Quantity     float64  `json:"quantity" validate:"gte=0"`
	AvgPrice     float64  `json:"avgPrice" validate:"gte=0"`
	CurrentPrice float64  `json:"currentPrice" validate:"gte=0"`
	Category     string   `json:"category" validate:"required"`
	Currency     Currency `json:"currency" validate:"omitempty,oneof=BRL USD"`
}

// CategoryView is a category as shown on the dashboard, with its current share
// of the portfolio as a fraction.
type CategoryView struct {
	AssetCategory
	CurrentAllocation float64 `json:"currentAllocation"`
}

// PortfolioView is the read model returned to clients.
type PortfolioView struct {
	Version    int64          `json:"version"`
	TotalValue float64        `json:"totalValue"`
	Categories []CategoryView `json:"categories"`
}

// NewPortfolioView builds the read model for a snapshot.
func NewPortfolioView(p Portfolio, version int64) PortfolioView {
	total := p.TotalValue()
	view := PortfolioView{Version: version, TotalValue: total}
	for _, cat := range p.Categories() {
		cv := CategoryView{AssetCategory: cat}
		if total > 0 {
			cv.CurrentAllocation = cat.TotalValue / total
		}
		if cv.Assets == nil {
			cv.Assets = []Asset{}
		}
		view.Categories = append(view.Categories, cv)
	}
	return view
}

// DroppedAsset is a parsed record that could not be placed in the portfolio.
type DroppedAsset struct {
	Ticker   string `json:"ticker"`
	Category string `json:"category"`
	Reason   string `json:"reason"`
}
