package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"riskform/internal/model"
	"riskform/internal/service"

	"github.com/gorilla/mux"
)

// RuleHandler handles the group builder endpoints for question show_if and
// risk logic rules
type RuleHandler struct {
	builderSvc *service.BuilderService
}

// NewRuleHandler creates a new rule handler
func NewRuleHandler(builderSvc *service.BuilderService) *RuleHandler {
	return &RuleHandler{builderSvc: builderSvc}
}

// GetQuestionRule handles GET /v1/questionnaires/{key}/questions/{questionKey}/rule
func (h *RuleHandler) GetQuestionRule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.getRule(w, r, vars["key"], service.OwnerQuestion, vars["questionKey"])
}

// PutQuestionRule handles PUT /v1/questionnaires/{key}/questions/{questionKey}/rule
func (h *RuleHandler) PutQuestionRule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.putRule(w, r, vars["key"], service.OwnerQuestion, vars["questionKey"])
}

// GetRiskRule handles GET /v1/questionnaires/{key}/risks/{riskKey}/rule
func (h *RuleHandler) GetRiskRule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.getRule(w, r, vars["key"], service.OwnerRisk, vars["riskKey"])
}

// PutRiskRule handles PUT /v1/questionnaires/{key}/risks/{riskKey}/rule
func (h *RuleHandler) PutRiskRule(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.putRule(w, r, vars["key"], service.OwnerRisk, vars["riskKey"])
}

// AddGroupRequest is the request body for adding a builder group
type AddGroupRequest struct {
	Mode model.Mode `json:"mode"`
}

// AddQuestionGroup handles POST /v1/questionnaires/{key}/questions/{questionKey}/rule/groups
func (h *RuleHandler) AddQuestionGroup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.addGroup(w, r, vars["key"], service.OwnerQuestion, vars["questionKey"])
}

// AddRiskGroup handles POST /v1/questionnaires/{key}/risks/{riskKey}/rule/groups
func (h *RuleHandler) AddRiskGroup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.addGroup(w, r, vars["key"], service.OwnerRisk, vars["riskKey"])
}

// RemoveQuestionGroup handles DELETE /v1/questionnaires/{key}/questions/{questionKey}/rule/groups/{index}
func (h *RuleHandler) RemoveQuestionGroup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.removeGroup(w, r, vars["key"], service.OwnerQuestion, vars["questionKey"], vars["index"])
}

// RemoveRiskGroup handles DELETE /v1/questionnaires/{key}/risks/{riskKey}/rule/groups/{index}
func (h *RuleHandler) RemoveRiskGroup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.removeGroup(w, r, vars["key"], service.OwnerRisk, vars["riskKey"], vars["index"])
}

// MoveGroupRequest is the request body for moving a builder group
type MoveGroupRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// MoveQuestionGroup handles POST /v1/questionnaires/{key}/questions/{questionKey}/rule/groups/move
func (h *RuleHandler) MoveQuestionGroup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.moveGroup(w, r, vars["key"], service.OwnerQuestion, vars["questionKey"])
}

// MoveRiskGroup handles POST /v1/questionnaires/{key}/risks/{riskKey}/rule/groups/move
func (h *RuleHandler) MoveRiskGroup(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.moveGroup(w, r, vars["key"], service.OwnerRisk, vars["riskKey"])
}

func (h *RuleHandler) getRule(w http.ResponseWriter, r *http.Request, formKey string, kind service.OwnerKind, ownerKey string) {
	set, err := h.builderSvc.Rule(r.Context(), formKey, kind, ownerKey)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (h *RuleHandler) putRule(w http.ResponseWriter, r *http.Request, formKey string, kind service.OwnerKind, ownerKey string) {
	var set model.GroupSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.builderSvc.SaveRule(r.Context(), formKey, kind, ownerKey, set); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *RuleHandler) addGroup(w http.ResponseWriter, r *http.Request, formKey string, kind service.OwnerKind, ownerKey string) {
	var req AddGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	set, err := h.builderSvc.AddGroup(r.Context(), formKey, kind, ownerKey, req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (h *RuleHandler) removeGroup(w http.ResponseWriter, r *http.Request, formKey string, kind service.OwnerKind, ownerKey, rawIndex string) {
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid group index")
		return
	}

	set, err := h.builderSvc.RemoveGroup(r.Context(), formKey, kind, ownerKey, index)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (h *RuleHandler) moveGroup(w http.ResponseWriter, r *http.Request, formKey string, kind service.OwnerKind, ownerKey string) {
	var req MoveGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	set, err := h.builderSvc.MoveGroup(r.Context(), formKey, kind, ownerKey, req.From, req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, set)
}
