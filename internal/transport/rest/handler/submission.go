package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"riskform/internal/service"

	"github.com/gorilla/mux"
)

// SubmissionHandler handles submission and evaluation endpoints
type SubmissionHandler struct {
	submissionSvc *service.SubmissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionSvc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionSvc: submissionSvc}
}

// SubmitRequest is the request body for submitting or evaluating answers
type SubmitRequest struct {
	SystemID string                 `json:"systemId"`
	Answers  map[string]interface{} `json:"answers"`
}

// Submit handles POST /v1/questionnaires/{key}/submissions
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	submission, err := h.submissionSvc.Submit(r.Context(), key, req.SystemID, req.Answers)
	if errors.Is(err, service.ErrQuestionnaireNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, submission)
}

// Evaluate handles POST /v1/questionnaires/{key}/evaluate
func (h *SubmissionHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.submissionSvc.Evaluate(r.Context(), key, req.SystemID, req.Answers)
	if errors.Is(err, service.ErrQuestionnaireNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// List handles GET /v1/questionnaires/{key}/submissions
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	submissions, err := h.submissionSvc.List(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": submissions})
}

// Delete handles DELETE /v1/submissions/{id}
func (h *SubmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	err := h.submissionSvc.Delete(r.Context(), id)
	if errors.Is(err, service.ErrSubmissionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
