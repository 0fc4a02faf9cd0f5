package handler

import (
	"encoding/json"
	"net/http"

	"riskform/internal/cache"

	"github.com/gorilla/mux"
)

// DraftHandler handles in-progress answer draft endpoints, backed by Redis
type DraftHandler struct {
	drafts cache.DraftCache
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(drafts cache.DraftCache) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

// Save handles PUT /v1/questionnaires/{key}/draft/{sessionId}
func (h *DraftHandler) Save(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var answers map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.drafts.Save(r.Context(), vars["key"], vars["sessionId"], answers); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// Get handles GET /v1/questionnaires/{key}/draft/{sessionId}
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	answers, err := h.drafts.Get(r.Context(), vars["key"], vars["sessionId"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if answers == nil {
		writeError(w, http.StatusNotFound, "draft not found")
		return
	}
	writeJSON(w, http.StatusOK, answers)
}

// Delete handles DELETE /v1/questionnaires/{key}/draft/{sessionId}
func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.drafts.Delete(r.Context(), vars["key"], vars["sessionId"]); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
