package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"riskform/internal/service"

	"github.com/gorilla/mux"
)

// SchemaHandler handles questionnaire schema endpoints
type SchemaHandler struct {
	schemaSvc *service.SchemaService
}

// NewSchemaHandler creates a new schema handler
func NewSchemaHandler(schemaSvc *service.SchemaService) *SchemaHandler {
	return &SchemaHandler{schemaSvc: schemaSvc}
}

// GetDocument handles GET /v1/schema
func (h *SchemaHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.schemaSvc.Document(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ImportDocument handles PUT /v1/schema
func (h *SchemaHandler) ImportDocument(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	problems, err := h.schemaSvc.ImportDocument(r.Context(), payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(problems) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"problems": problems})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}

// List handles GET /v1/questionnaires
func (h *SchemaHandler) List(w http.ResponseWriter, r *http.Request) {
	doc, err := h.schemaSvc.Document(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	keys := make([]string, 0, len(doc.Questionnaires))
	for key := range doc.Questionnaires {
		keys = append(keys, key)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questionnaires": keys})
}

// Get handles GET /v1/questionnaires/{key}
func (h *SchemaHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	q, err := h.schemaSvc.Questionnaire(r.Context(), key)
	if errors.Is(err, service.ErrQuestionnaireNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Publish handles PUT /v1/questionnaires/{key}
func (h *SchemaHandler) Publish(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	problems, err := h.schemaSvc.Publish(r.Context(), key, payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(problems) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"problems": problems})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "published"})
}

// Validate handles POST /v1/questionnaires/{key}/validate
func (h *SchemaHandler) Validate(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	problems, err := h.schemaSvc.Validate(key, payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if problems == nil {
		problems = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"problems": problems})
}

// RenameQuestionRequest is the request body for renaming a question key
type RenameQuestionRequest struct {
	NewKey string `json:"newKey"`
}

// RenameQuestion handles POST /v1/questionnaires/{key}/questions/{questionKey}/rename
func (h *SchemaHandler) RenameQuestion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req RenameQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rewritten, err := h.schemaSvc.RenameQuestion(r.Context(), vars["key"], vars["questionKey"], req.NewKey)
	if errors.Is(err, service.ErrQuestionnaireNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rewrittenClauses": rewritten})
}
