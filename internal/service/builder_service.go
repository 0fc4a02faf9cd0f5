package service

import (
	"context"
	"fmt"
	"sync"

	"riskform/internal/builder"
	"riskform/internal/model"
)

// OwnerKind says whether a rule belongs to a question (show_if) or a risk
// (logic).
type OwnerKind string

const (
	OwnerQuestion OwnerKind = "question"
	OwnerRisk     OwnerKind = "risk"
)

type stateKey struct {
	formKey string
	kind    OwnerKind
	owner   string
}

// BuilderService owns the per-rule editing state for the group builder.
// Each (questionnaire, owner) pair gets its own state so concurrent editors
// working on different rules never share groups.
type BuilderService struct {
	schemaSvc *SchemaService

	mu     sync.Mutex
	states map[stateKey]builder.State
}

// NewBuilderService creates a new builder service
func NewBuilderService(schemaSvc *SchemaService) *BuilderService {
	return &BuilderService{
		schemaSvc: schemaSvc,
		states:    make(map[stateKey]builder.State),
	}
}

// Rule loads the persisted rule for the owner, decomposes it into builder
// groups and returns the resulting group set. When the tree is too nested
// for the group editor the previous groups are kept and the set is marked
// unsupported.
func (s *BuilderService) Rule(ctx context.Context, formKey string, kind OwnerKind, ownerKey string) (model.GroupSet, error) {
	node, err := s.loadRule(ctx, formKey, kind, ownerKey)
	if err != nil {
		return model.GroupSet{}, err
	}

	key := stateKey{formKey: formKey, kind: kind, owner: ownerKey}
	s.mu.Lock()
	defer s.mu.Unlock()

	state := builder.Load(s.states[key], node)
	s.states[key] = state
	return state.GroupSet(), nil
}

// SaveRule composes the group set into a rule tree and persists it on the
// owner. An unsupported set writes the original tree back untouched.
func (s *BuilderService) SaveRule(ctx context.Context, formKey string, kind OwnerKind, ownerKey string, set model.GroupSet) error {
	key := stateKey{formKey: formKey, kind: kind, owner: ownerKey}

	if set.Unsupported {
		// An unsupported set must never rewrite the stored tree. Reload it
		// so a fresh server instance does not mistake missing builder
		// state for an empty rule.
		if _, err := s.Rule(ctx, formKey, kind, ownerKey); err != nil {
			return err
		}
		s.mu.Lock()
		rule := s.states[key].Rule()
		s.mu.Unlock()
		return s.persistRule(ctx, formKey, kind, ownerKey, rule)
	}

	state := builder.State{Groups: set.Groups, CombineMode: set.CombineMode}
	builder.EnsureLabels(state.Groups)
	rule := state.Rule()

	s.mu.Lock()
	s.states[key] = state
	s.mu.Unlock()

	return s.persistRule(ctx, formKey, kind, ownerKey, rule)
}

// AddGroup appends an empty group with a fresh label to the owner's editing
// state. Group edits stay in-memory until SaveRule; empty groups are an
// editing artifact and never persist.
func (s *BuilderService) AddGroup(ctx context.Context, formKey string, kind OwnerKind, ownerKey string, mode model.Mode) (model.GroupSet, error) {
	return s.edit(ctx, formKey, kind, ownerKey, func(state builder.State) (builder.State, error) {
		return state.AddGroup(mode), nil
	})
}

// RemoveGroup deletes the group at index from the owner's editing state.
func (s *BuilderService) RemoveGroup(ctx context.Context, formKey string, kind OwnerKind, ownerKey string, index int) (model.GroupSet, error) {
	return s.edit(ctx, formKey, kind, ownerKey, func(state builder.State) (builder.State, error) {
		if index < 0 || index >= len(state.Groups) {
			return state, fmt.Errorf("group index %d out of range", index)
		}
		return state.RemoveGroup(index), nil
	})
}

// MoveGroup reorders the groups in the owner's editing state.
func (s *BuilderService) MoveGroup(ctx context.Context, formKey string, kind OwnerKind, ownerKey string, from, to int) (model.GroupSet, error) {
	return s.edit(ctx, formKey, kind, ownerKey, func(state builder.State) (builder.State, error) {
		if from < 0 || from >= len(state.Groups) || to < 0 || to >= len(state.Groups) {
			return state, fmt.Errorf("group move %d->%d out of range", from, to)
		}
		return state.MoveGroup(from, to), nil
	})
}

func (s *BuilderService) edit(ctx context.Context, formKey string, kind OwnerKind, ownerKey string, apply func(builder.State) (builder.State, error)) (model.GroupSet, error) {
	key := stateKey{formKey: formKey, kind: kind, owner: ownerKey}

	s.mu.Lock()
	_, primed := s.states[key]
	s.mu.Unlock()
	if !primed {
		// First edit on a fresh server starts from the persisted rule
		if _, err := s.Rule(ctx, formKey, kind, ownerKey); err != nil {
			return model.GroupSet{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := apply(s.states[key])
	if err != nil {
		return model.GroupSet{}, err
	}
	s.states[key] = state
	return state.GroupSet(), nil
}

func (s *BuilderService) loadRule(ctx context.Context, formKey string, kind OwnerKind, ownerKey string) (*model.RuleNode, error) {
	q, err := s.schemaSvc.Questionnaire(ctx, formKey)
	if err != nil {
		return nil, err
	}
	switch kind {
	case OwnerQuestion:
		question := q.QuestionByKey(ownerKey)
		if question == nil {
			return nil, fmt.Errorf("question '%s' not found in %s", ownerKey, formKey)
		}
		return question.ShowIf, nil
	case OwnerRisk:
		risk := q.RiskByKey(ownerKey)
		if risk == nil {
			return nil, fmt.Errorf("risk '%s' not found in %s", ownerKey, formKey)
		}
		return risk.Logic, nil
	}
	return nil, fmt.Errorf("unknown rule owner kind '%s'", kind)
}

func (s *BuilderService) persistRule(ctx context.Context, formKey string, kind OwnerKind, ownerKey string, rule *model.RuleNode) error {
	switch kind {
	case OwnerQuestion:
		return s.schemaSvc.UpdateQuestionRule(ctx, formKey, ownerKey, rule)
	case OwnerRisk:
		return s.schemaSvc.UpdateRiskRule(ctx, formKey, ownerKey, rule)
	}
	return fmt.Errorf("unknown rule owner kind '%s'", kind)
}
