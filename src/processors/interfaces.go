package processors

import (
	"github.com/username/carteira/backend/src/models"
)

// ValuationProcessor computes valuation prices and the quick verdict.
type ValuationProcessor interface {
	Evaluate(input models.ValuationInput) models.ValuationResult
}

// RebalancingProcessor splits a contribution across underweight categories.
type RebalancingProcessor interface {
	Allocate(req RebalancingRequest) RebalancingResult
}

// PortfolioProcessor rebuilds a portfolio from parsed assets.
type PortfolioProcessor interface {
	Reconstruct(parsed []models.SimplifiedAsset, current models.Portfolio) (*ReconstructionResult, error)
}
