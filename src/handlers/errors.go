package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/carteira/backend/src/logger"
	"github.com/username/carteira/backend/src/parsers"
	"github.com/username/carteira/backend/src/processors"
	"github.com/username/carteira/backend/src/security/validation"
	"github.com/username/carteira/backend/src/services"
	"github.com/username/carteira/backend/src/utils"
)

const (
	msgInternalError   = "Erro interno do servidor. Tente novamente mais tarde."
	msgInvalidBody     = "Corpo da requisição inválido."
	msgPasteTooLong    = "O texto enviado é muito longo."
	msgInvalidInput    = "Dados enviados inválidos."
	msgUnknownSource   = "Formato de importação desconhecido. Use \"ai\" ou \"csv\"."
	maxJSONBodyBytes   = 1 << 20
	defaultErrorStatus = http.StatusInternalServerError
)

// sendServiceError maps a service error to its status code and user-facing message.
// Parse failures may wrap validation errors, so they are matched first.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := defaultErrorStatus, msgInternalError
	switch {
	case errors.Is(err, services.ErrInvalidValuation):
		status, msg = http.StatusBadRequest, services.MsgValuationInput
	case errors.Is(err, services.ErrEmptyPortfolioText):
		status, msg = http.StatusBadRequest, services.MsgEmptyPortfolioText
	case errors.Is(err, parsers.ErrUnknownSource):
		status, msg = http.StatusBadRequest, msgUnknownSource
	case errors.Is(err, services.ErrOperationInProgress):
		status, msg = http.StatusConflict, services.MsgOperationInProgress
	case errors.Is(err, processors.ErrNoAssetsParsed):
		status, msg = http.StatusUnprocessableEntity, services.MsgNoAssetsParsed
	case errors.Is(err, services.ErrParseFailed):
		status, msg = http.StatusBadGateway, services.MsgParseFailed
	case errors.Is(err, services.ErrAINotReady):
		status, msg = http.StatusServiceUnavailable, services.MsgAINotReady
	case errors.Is(err, validation.ErrPasteTooLong):
		status, msg = http.StatusBadRequest, msgPasteTooLong
	case errors.Is(err, validation.ErrValidationFailed):
		status, msg = http.StatusBadRequest, msgInvalidInput
	}

	ctxLogger := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway && status != http.StatusServiceUnavailable {
		ctxLogger.Error("Request failed", "path", r.URL.Path, "error", err)
	} else {
		ctxLogger.Info("Request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	utils.SendJSONError(w, msg, status)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.FromContext(r.Context()).Warn("Invalid JSON body", "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, msgInvalidBody, http.StatusBadRequest)
		return false
	}
	return true
}

func sessionIDOrFail(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, MsgSessionRequired, http.StatusUnauthorized)
	}
	return sessionID, ok
}
