package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/username/carteira/backend/src/logger"
	"github.com/username/carteira/backend/src/models"
	"github.com/username/carteira/backend/src/parsers"
	"github.com/username/carteira/backend/src/security/validation"
	"github.com/username/carteira/backend/src/services"
	"github.com/username/carteira/backend/src/utils"
)

const msgFileType = "Tipo de arquivo não permitido. Envie um arquivo CSV ou de texto."

type PortfolioHandler struct {
	portfolios    services.PortfolioManager
	maxUploadSize int64
}

func NewPortfolioHandler(portfolios services.PortfolioManager, maxUploadSize int64) *PortfolioHandler {
	return &PortfolioHandler{portfolios: portfolios, maxUploadSize: maxUploadSize}
}

// HandleGetPortfolio returns the session's portfolio. Clients revalidate with If-None-Match.
func (h *PortfolioHandler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrFail(w, r)
	if !ok {
		return
	}
	ctxLogger := logger.FromContext(r.Context())

	snap, err := h.portfolios.GetPortfolio(r.Context(), sessionID)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	view := models.NewPortfolioView(snap.Portfolio, snap.Version)

	w.Header().Set("Cache-Control", "no-cache, private")

	etag, err := utils.GenerateETag(view)
	if err != nil {
		ctxLogger.Warn("Proceeding without ETag check due to ETag generation error", "error", err)
	} else {
		quotedETag := fmt.Sprintf("%q", etag)
		w.Header().Set("ETag", quotedETag)
		if utils.ETagMatches(r.Header.Get("If-None-Match"), quotedETag) {
			ctxLogger.Debug("ETag match for portfolio", "version", snap.Version)
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	utils.SendJSON(w, http.StatusOK, view)
}

// HandleResetPortfolio restores the initial portfolio.
func (h *PortfolioHandler) HandleResetPortfolio(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrFail(w, r)
	if !ok {
		return
	}
	snap, err := h.portfolios.Reset(r.Context(), sessionID)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, models.NewPortfolioView(snap.Portfolio, snap.Version))
}

func (h *PortfolioHandler) HandleGetUpdates(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrFail(w, r)
	if !ok {
		return
	}
	updates, err := h.portfolios.Updates(r.Context(), sessionID)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, updates)
}

// HandleGetOperations reports the state of each AI operation of the session.
func (h *PortfolioHandler) HandleGetOperations(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrFail(w, r)
	if !ok {
		return
	}
	utils.SendJSON(w, http.StatusOK, h.portfolios.OperationStates(sessionID))
}

type updatePortfolioRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// HandleUpdatePortfolio rebuilds the portfolio from pasted text (JSON body)
// or an uploaded CSV/text file (multipart, field "file").
func (h *PortfolioHandler) HandleUpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrFail(w, r)
	if !ok {
		return
	}

	var req services.UpdateRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		text, source, ok := h.readUpload(w, r)
		if !ok {
			return
		}
		req = services.UpdateRequest{Text: text, Source: source}
	} else {
		var body updatePortfolioRequest
		if !decodeJSON(w, r, &body) {
			return
		}
		req = services.UpdateRequest{Text: body.Text, Source: parsers.Source(body.Source)}
	}

	resp, err := h.portfolios.Update(r.Context(), sessionID, req)
	if err != nil {
		sendServiceError(w, r, err)
		return
	}
	utils.SendJSON(w, http.StatusOK, resp)
}

// readUpload validates the uploaded file and returns its text. Files default
// to the CSV parser.
func (h *PortfolioHandler) readUpload(w http.ResponseWriter, r *http.Request) (string, parsers.Source, bool) {
	ctxLogger := logger.FromContext(r.Context())
	tooLarge := fmt.Sprintf("Arquivo muito grande (máx. %d KB).", h.maxUploadSize/1024)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+4096)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", h.maxUploadSize)
		utils.SendJSONError(w, tooLarge, http.StatusBadRequest)
		return "", "", false
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Envie o arquivo no campo 'file'.", http.StatusBadRequest)
		return "", "", false
	}
	defer file.Close()

	if fileHeader.Size > h.maxUploadSize {
		utils.SendJSONError(w, tooLarge, http.StatusBadRequest)
		return "", "", false
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		ctxLogger.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, msgFileType, http.StatusBadRequest)
		return "", "", false
	}

	detected, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		ctxLogger.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, msgFileType, http.StatusBadRequest)
		return "", "", false
	}
	ctxLogger.Info("File content validated by magic bytes", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detected)

	data, err := io.ReadAll(file)
	if err != nil {
		ctxLogger.Error("Failed to read uploaded file", "error", err)
		utils.SendJSONError(w, msgInternalError, http.StatusInternalServerError)
		return "", "", false
	}

	source := parsers.Source(r.FormValue("source"))
	if source == "" {
		source = parsers.SourceCSV
	}
	return string(data), source, true
}
