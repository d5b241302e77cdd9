package handlers

import (
	"net/http"

	"github.com/username/carteira/backend/src/models"
	"github.com/username/carteira/backend/src/utils"
)

// HandleGetGlossary lists glossary terms, optionally filtered by ?q=.
func HandleGetGlossary(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, http.StatusOK, models.Glossary(r.URL.Query().Get("q")))
}
