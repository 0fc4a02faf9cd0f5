package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"riskform/internal/model"
	"riskform/internal/repository"
	"riskform/internal/risk"
	"riskform/internal/rules"

	"github.com/google/uuid"
)

var ErrSubmissionNotFound = errors.New("submission not found")

// EvaluationResult is the outcome of running a questionnaire's rules against
// an answer map without storing anything.
type EvaluationResult struct {
	VisibleQuestions []string              `json:"visible_questions"`
	Risks            []model.TriggeredRisk `json:"risks"`
}

// SubmissionService stores questionnaire responses and evaluates their
// rules. Triggered risks are computed at submit time and stored with the
// submission, so aggregation never has to re-run the rule trees.
type SubmissionService struct {
	repo        repository.SubmissionRepo
	schemaSvc   *SchemaService
	eval        *rules.Evaluator
	broadcaster Broadcaster
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(repo repository.SubmissionRepo, schemaSvc *SchemaService, eval *rules.Evaluator) *SubmissionService {
	return &SubmissionService{
		repo:      repo,
		schemaSvc: schemaSvc,
		eval:      eval,
	}
}

// SetBroadcaster injects the WebSocket broadcaster
func (s *SubmissionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Submit evaluates and stores one questionnaire response. The record name
// is lifted from the reserved answer field; triggered risks are derived
// from the questionnaire's risk logic.
func (s *SubmissionService) Submit(ctx context.Context, formKey, systemID string, answers map[string]interface{}) (*model.Submission, error) {
	q, err := s.schemaSvc.Questionnaire(ctx, formKey)
	if err != nil {
		return nil, err
	}

	answerMap := model.AnswersFromAny(answers)

	recordName := ""
	if raw, ok := answers[model.RecordNameField]; ok {
		if name, ok := raw.(string); ok {
			recordName = strings.TrimSpace(name)
		}
	}

	submission := &model.Submission{
		ID:               strings.ReplaceAll(uuid.New().String(), "-", ""),
		QuestionnaireKey: formKey,
		SystemID:         strings.TrimSpace(systemID),
		RecordName:       recordName,
		SubmittedAt:      time.Now().UTC(),
		Answers:          answers,
		Risks:            risk.Triggered(s.eval, q, answerMap, systemID),
	}

	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToEditors("submission_received", map[string]string{
			"submissionId":     submission.ID,
			"questionnaireKey": formKey,
			"systemId":         submission.SystemID,
		})
	}
	return submission, nil
}

// Evaluate runs the questionnaire's rules against an answer map and returns
// which questions are visible and which risks trigger. Nothing is stored.
func (s *SubmissionService) Evaluate(ctx context.Context, formKey, systemID string, answers map[string]interface{}) (*EvaluationResult, error) {
	q, err := s.schemaSvc.Questionnaire(ctx, formKey)
	if err != nil {
		return nil, err
	}

	answerMap := model.AnswersFromAny(answers)

	visible := make([]string, 0, len(q.Questions))
	for i := range q.Questions {
		if s.eval.ShouldShow(&q.Questions[i], answerMap) {
			visible = append(visible, q.Questions[i].Key)
		}
	}

	return &EvaluationResult{
		VisibleQuestions: visible,
		Risks:            risk.Triggered(s.eval, q, answerMap, systemID),
	}, nil
}

// List returns the questionnaire's submissions, newest first.
func (s *SubmissionService) List(ctx context.Context, formKey string) ([]model.Submission, error) {
	return s.repo.ListByQuestionnaire(ctx, formKey)
}

// Delete removes a stored submission by id.
func (s *SubmissionService) Delete(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrSubmissionNotFound
	}
	return s.repo.Delete(ctx, id)
}
