package handler

import (
	"net/http"

	"riskform/internal/service"

	"github.com/gorilla/mux"
)

// RiskHandler handles aggregated risk endpoints
type RiskHandler struct {
	riskSvc *service.RiskService
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(riskSvc *service.RiskService) *RiskHandler {
	return &RiskHandler{riskSvc: riskSvc}
}

// ForSystem handles GET /v1/systems/{systemId}/risks
func (h *RiskHandler) ForSystem(w http.ResponseWriter, r *http.Request) {
	systemID := mux.Vars(r)["systemId"]

	if r.URL.Query().Get("format") == "markdown" {
		summary, err := h.riskSvc.MarkdownForSystem(r.Context(), systemID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(summary))
		return
	}

	risks, err := h.riskSvc.ForSystem(r.Context(), systemID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"risks": risks})
}
