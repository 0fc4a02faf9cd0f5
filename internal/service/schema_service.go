package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"riskform/internal/cache"
	"riskform/internal/model"
	"riskform/internal/repository"
	"riskform/internal/schema"
)

var ErrQuestionnaireNotFound = errors.New("questionnaire not found")

// SchemaService owns the questionnaire documents: loading raw payloads,
// normalizing them, validating edits before they are persisted and fanning
// out change notifications to connected editors.
type SchemaService struct {
	repo        repository.SchemaRepo
	cache       cache.SchemaCache
	broadcaster Broadcaster
}

// NewSchemaService creates a new schema service
func NewSchemaService(repo repository.SchemaRepo, schemaCache cache.SchemaCache) *SchemaService {
	return &SchemaService{
		repo:  repo,
		cache: schemaCache,
	}
}

// SetBroadcaster injects the WebSocket broadcaster
func (s *SchemaService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Questionnaire returns the normalized questionnaire for a form key. The
// cache is consulted first; a miss falls back to the stored payload.
func (s *SchemaService) Questionnaire(ctx context.Context, formKey string) (*model.Questionnaire, error) {
	if cached, err := s.cache.Get(ctx, formKey); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("schema cache read failed for %s: %v", formKey, err)
	}

	payload, err := s.repo.Get(ctx, formKey)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrQuestionnaireNotFound
	}

	q, err := schema.NormalizeForm(formKey, payload)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", formKey, err)
	}

	if err := s.cache.Set(ctx, formKey, q); err != nil {
		log.Printf("schema cache write failed for %s: %v", formKey, err)
	}
	return q, nil
}

// Document returns every stored questionnaire, normalized.
func (s *SchemaService) Document(ctx context.Context) (*model.Document, error) {
	payloads, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return schema.Normalize(payloads)
}

// Validate normalizes a candidate payload and reports its problems without
// persisting anything.
func (s *SchemaService) Validate(formKey string, payload []byte) ([]string, error) {
	q, err := schema.NormalizeForm(formKey, payload)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", formKey, err)
	}
	return schema.Validate(q), nil
}

// Publish validates a payload and persists its normalized form. Validation
// problems block the write and are returned to the caller.
func (s *SchemaService) Publish(ctx context.Context, formKey string, payload []byte) ([]string, error) {
	q, err := schema.NormalizeForm(formKey, payload)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", formKey, err)
	}
	if problems := schema.Validate(q); len(problems) > 0 {
		return problems, nil
	}
	if err := s.persist(ctx, formKey, q); err != nil {
		return nil, err
	}
	s.notify("schema_published", map[string]string{"questionnaireKey": formKey})
	return nil, nil
}

// ImportDocument validates a full schema document payload and persists
// every questionnaire in it. Legacy flat documents wrap under the default
// questionnaire key during normalization. Validation problems block the
// write and are returned prefixed with their questionnaire key.
func (s *SchemaService) ImportDocument(ctx context.Context, payload []byte) ([]string, error) {
	doc, err := schema.NormalizeDocument(payload)
	if err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}
	if problems := schema.ValidateDocument(doc); len(problems) > 0 {
		return problems, nil
	}

	keys := make([]string, 0, len(doc.Questionnaires))
	for key, q := range doc.Questionnaires {
		if err := s.persist(ctx, key, q); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	s.notify("schema_published", map[string]interface{}{"questionnaireKeys": keys})
	return nil, nil
}

// RenameQuestion renames a question key and rewrites every rule that
// references it, across questions and risks. Returns the number of clause
// rewrites.
func (s *SchemaService) RenameQuestion(ctx context.Context, formKey, oldKey, newKey string) (int, error) {
	q, err := s.Questionnaire(ctx, formKey)
	if err != nil {
		return 0, err
	}
	rewritten, err := schema.RenameQuestion(q, oldKey, newKey)
	if err != nil {
		return 0, err
	}
	if err := s.persist(ctx, formKey, q); err != nil {
		return 0, err
	}
	s.notify("schema_published", map[string]string{"questionnaireKey": formKey})
	return rewritten, nil
}

// UpdateQuestionRule replaces a question's visibility rule. A nil rule
// clears it.
func (s *SchemaService) UpdateQuestionRule(ctx context.Context, formKey, questionKey string, rule *model.RuleNode) error {
	q, err := s.Questionnaire(ctx, formKey)
	if err != nil {
		return err
	}
	question := q.QuestionByKey(questionKey)
	if question == nil {
		return fmt.Errorf("question '%s' not found in %s", questionKey, formKey)
	}
	question.ShowIf = rule
	return s.persist(ctx, formKey, q)
}

// UpdateRiskRule replaces a risk's trigger logic. A nil rule clears it,
// which means the risk never auto-triggers.
func (s *SchemaService) UpdateRiskRule(ctx context.Context, formKey, riskKey string, rule *model.RuleNode) error {
	q, err := s.Questionnaire(ctx, formKey)
	if err != nil {
		return err
	}
	risk := q.RiskByKey(riskKey)
	if risk == nil {
		return fmt.Errorf("risk '%s' not found in %s", riskKey, formKey)
	}
	risk.Logic = rule
	return s.persist(ctx, formKey, q)
}

func (s *SchemaService) persist(ctx context.Context, formKey string, q *model.Questionnaire) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return err
	}
	if err := s.repo.Put(ctx, formKey, payload); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, formKey, q); err != nil {
		log.Printf("schema cache write failed for %s: %v", formKey, err)
	}
	return nil
}

func (s *SchemaService) notify(msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToEditors(msgType, payload)
	}
}
