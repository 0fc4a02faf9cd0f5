package service

import (
	"context"
	"sync"

	"riskform/internal/model"
)

type fakeSchemaRepo struct {
	mu       sync.Mutex
	payloads map[string][]byte
}

func newFakeSchemaRepo() *fakeSchemaRepo {
	return &fakeSchemaRepo{payloads: make(map[string][]byte)}
}

func (r *fakeSchemaRepo) Put(ctx context.Context, formKey string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads[formKey] = append([]byte(nil), payload...)
	return nil
}

func (r *fakeSchemaRepo) Get(ctx context.Context, formKey string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payload, ok := r.payloads[formKey]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}

func (r *fakeSchemaRepo) List(ctx context.Context) (map[string][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string][]byte, len(r.payloads))
	for key, payload := range r.payloads {
		out[key] = append([]byte(nil), payload...)
	}
	return out, nil
}

func (r *fakeSchemaRepo) Delete(ctx context.Context, formKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.payloads, formKey)
	return nil
}

type fakeSchemaCache struct {
	mu      sync.Mutex
	entries map[string]*model.Questionnaire
}

func newFakeSchemaCache() *fakeSchemaCache {
	return &fakeSchemaCache{entries: make(map[string]*model.Questionnaire)}
}

func (c *fakeSchemaCache) Set(ctx context.Context, formKey string, q *model.Questionnaire) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[formKey] = q
	return nil
}

func (c *fakeSchemaCache) Get(ctx context.Context, formKey string) (*model.Questionnaire, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[formKey], nil
}

func (c *fakeSchemaCache) Invalidate(ctx context.Context, formKey string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, formKey)
	return nil
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions []model.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{}
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Newest first, matching the mongo sort on submittedAt
	r.submissions = append([]model.Submission{*submission}, r.submissions...)
	return nil
}

func (r *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.submissions {
		if r.submissions[i].ID == id {
			found := r.submissions[i]
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeSubmissionRepo) ListByQuestionnaire(ctx context.Context, formKey string) ([]model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Submission
	for _, s := range r.submissions {
		if s.QuestionnaireKey == formKey {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) ListBySystem(ctx context.Context, systemID string) ([]model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Submission
	for _, s := range r.submissions {
		if s.SystemID == systemID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.submissions {
		if r.submissions[i].ID == id {
			r.submissions = append(r.submissions[:i], r.submissions[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []string
}

func (b *fakeBroadcaster) BroadcastToEditors(msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msgType)
}

func (b *fakeBroadcaster) sent() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.messages...)
}
