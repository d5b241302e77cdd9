package processors

import (
	"sort"

	"github.com/username/carteira/backend/src/models"
	"gonum.org/v1/gonum/floats"
)

// RebalancingOutcome tells how an allocation run ended.
type RebalancingOutcome string

const (
	// OutcomeSuggested means at least one category receives part of the contribution.
	OutcomeSuggested RebalancingOutcome = "suggested"
	// OutcomeBalanced means no selected category is below its target.
	OutcomeBalanced RebalancingOutcome = "balanced"
	// OutcomeNothingToCompute means a precondition failed.
	OutcomeNothingToCompute RebalancingOutcome = "nothing_to_compute"
)

const (
	MsgEmptySelection       = "Por favor, selecione ao menos uma categoria para o aporte."
	MsgInvalidContribution  = "Informe um valor de aporte maior que zero."
	MsgEmptyPortfolio       = "A carteira não possui valor atual para calcular o rebalanceamento."
	MsgNoContributionNeeded = "Nenhuma das categorias selecionadas precisa de aporte para rebalanceamento. Você já está bem alinhado com suas metas nessas áreas ou pode revisar sua seleção."
)

// RebalancingRequest holds the inputs of one allocation run.
type RebalancingRequest struct {
	Portfolio    models.Portfolio
	TotalValue   float64
	Contribution float64
	Selected     []models.CategoryID
}

// RebalancingResult is the allocation output. Suggestions is never nil.
type RebalancingResult struct {
	Outcome       RebalancingOutcome             `json:"outcome"`
	Message       string                         `json:"message,omitempty"`
	NewTotalValue float64                        `json:"newTotalValue"`
	Suggestions   []models.RebalancingSuggestion `json:"suggestions"`
	// EligibleNames lists the names of the selected categories in canonical order.
	EligibleNames []string `json:"-"`
}

type rebalancingProcessorImpl struct{}

func NewRebalancingProcessor() RebalancingProcessor {
	return &rebalancingProcessorImpl{}
}

type shortfallEntry struct {
	category  models.AssetCategory
	shortfall float64
}

// Allocate splits the contribution across the selected categories that are
// below their target share of the post-contribution total, proportionally to
// how far below they are. Categories at or above target and unselected
// categories receive nothing.
func (p *rebalancingProcessorImpl) Allocate(req RebalancingRequest) RebalancingResult {
	result := RebalancingResult{Suggestions: []models.RebalancingSuggestion{}}

	switch {
	case len(req.Selected) == 0:
		result.Outcome, result.Message = OutcomeNothingToCompute, MsgEmptySelection
		return result
	case req.Contribution <= 0:
		result.Outcome, result.Message = OutcomeNothingToCompute, MsgInvalidContribution
		return result
	case req.TotalValue <= 0:
		result.Outcome, result.Message = OutcomeNothingToCompute, MsgEmptyPortfolio
		return result
	}

	selected := make(map[models.CategoryID]bool, len(req.Selected))
	for _, id := range req.Selected {
		selected[id] = true
	}

	newTotal := req.TotalValue + req.Contribution
	result.NewTotalValue = newTotal

	var underweight []shortfallEntry
	for _, cat := range req.Portfolio.Categories() {
		if !selected[cat.ID] {
			continue
		}
		result.EligibleNames = append(result.EligibleNames, cat.Name)

		shortfall := cat.TargetAllocation/100*newTotal - cat.TotalValue
		if shortfall > 0 {
			underweight = append(underweight, shortfallEntry{category: cat, shortfall: shortfall})
		}
	}

	if len(underweight) == 0 {
		result.Outcome, result.Message = OutcomeBalanced, MsgNoContributionNeeded
		return result
	}

	shortfalls := make([]float64, len(underweight))
	for i, u := range underweight {
		shortfalls[i] = u.shortfall
	}
	totalShortfall := floats.Sum(shortfalls)

	for _, u := range underweight {
		amount := u.shortfall / totalShortfall * req.Contribution
		result.Suggestions = append(result.Suggestions, models.RebalancingSuggestion{
			CategoryID:     u.category.ID,
			CategoryName:   u.category.Name,
			AmountToInvest: amount,
			NewAllocation:  (u.category.TotalValue + amount) / newTotal,
		})
	}

	sort.SliceStable(result.Suggestions, func(i, j int) bool {
		return result.Suggestions[i].AmountToInvest > result.Suggestions[j].AmountToInvest
	})

	result.Outcome = OutcomeSuggested
	return result
}
