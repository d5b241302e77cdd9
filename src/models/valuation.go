package models

// ValuationInput holds the figures a user enters in the valuation calculator.
// Missing numeric fields are zero.
type ValuationInput struct {
	Ticker            string  `json:"ticker" validate:"required"`
	CurrentPrice      float64 `json:"currentPrice" validate:"gt=0"`
	DividendPerShare  float64 `json:"dividend"`
	EPS               float64 `json:"lpa"`
	BookValuePerShare float64 `json:"vpa"`
	PriceToEarnings   float64 `json:"pl"`
	ROE               float64 `json:"roe"`
}

// VerdictLevel classifies the quick verdict score.
type VerdictLevel string

const (
	VerdictGood    VerdictLevel = "good"
	VerdictAverage VerdictLevel = "average"
	VerdictBad     VerdictLevel = "bad"
)

// Verdict is the rule-of-thumb summary shown next to the valuation figures.
type Verdict struct {
	Score    int          `json:"score"`
	Level    VerdictLevel `json:"level"`
	Title    string       `json:"title"`
	Subtitle string       `json:"subtitle"`
}

// ValuationResult carries the computed prices. MarginOfSafety is a fraction
// relative to the Graham price.
type ValuationResult struct {
	Ticker          string  `json:"ticker"`
	CurrentPrice    float64 `json:"currentPrice"`
	BazinPrice      float64 `json:"bazinPrice"`
	GrahamPrice     float64 `json:"grahamPrice"`
	MarginOfSafety  float64 `json:"marginOfSafety"`
	PriceToEarnings float64 `json:"pl"`
	ROE             float64 `json:"roe"`
	Verdict         Verdict `json:"verdict"`
}
