package handlers

import (
	"net/http"

	"github.com/username/carteira/backend/src/models"
	"github.com/username/carteira/backend/src/security/validation"
	"github.com/username/carteira/backend/src/services"
	"github.com/username/carteira/backend/src/utils"
)

const msgInvalidRebalancing = "Informe um valor de aporte válido e categorias conhecidas."

type AnalysisHandler struct {
	portfolios services.PortfolioManager
}

func NewAnalysisHandler(portfolios services.PortfolioManager) *AnalysisHandler {
	return &AnalysisHandler{portfolios: portfolios}
}

// rebalancingRequest omits categories to mean every category; an explicit
// empty list is an empty selection.
type rebalancingRequest struct {
	Contribution float64  `json:"contribution"`
	Categories   []string `json:"categories" validate:"omitempty,dive,oneof=stocks fiis crypto etfs etfsInt treasury fixedIncome"`
}

// HandleRebalance splits a monthly contribution and attaches the AI narrative when available.
func (h *AnalysisHandler) HandleRebalance(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrFail(w, r)
	if !ok {
		return
	}

	var body rebalancingRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := validation.ValidateStruct(body); err != nil {
		utils.SendJSONError(w, msgInvalidRebalancing, http.StatusBadRequest)
		return
	}

	req := services.RebalancingRequest{Contribution: body.Contribution}
	if body.Categories != nil {
		req.Selected = make([]models.CategoryID, 0, len(body.Categories))
		for _, c := range body.Categories {
			req.Selected = append(req.Selected, models.CategoryID(c))
		}
	}

	resp, err := h.portfolios.Rebalance(r.Context(), sessionID, req)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, resp)
}

// HandleValuation computes Bazin, Graham and the margin of safety for a
// ticker and attaches the AI analysis when available.
func (h *AnalysisHandler) HandleValuation(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrFail(w, r)
	if !ok {
		return
	}

	var in models.ValuationInput
	if !decodeJSON(w, r, &in) {
		return
	}

	resp, err := h.portfolios.Evaluate(r.Context(), sessionID, in)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, resp)
}
