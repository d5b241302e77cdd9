package handlers

import (
	"errors"
	"net/http"

	"github.com/username/carteira/backend/src/logger"
	"github.com/username/carteira/backend/src/services"
	"github.com/username/carteira/backend/src/utils"
)

const msgAPIKeyRequired = "Por favor, insira sua chave de API do Gemini."

type SessionHandler struct {
	sessions services.SessionManager
}

func NewSessionHandler(sessions services.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type createSessionRequest struct {
	APIKey string `json:"apiKey"`
}

// HandleCreateSession exchanges a Gemini API key for a session token.
func (h *SessionHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.sessions.Create(r.Context(), req.APIKey)
	if err != nil {
		if errors.Is(err, services.ErrAPIKeyRequired) {
			utils.SendJSONError(w, msgAPIKeyRequired, http.StatusBadRequest)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to create session", "error", err)
		utils.SendJSONError(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, http.StatusCreated, token)
}

// HandleEndSession ends the caller's session and deletes its data.
func (h *SessionHandler) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrFail(w, r)
	if !ok {
		return
	}
	if err := h.sessions.End(r.Context(), sessionID); err != nil {
		sendServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
