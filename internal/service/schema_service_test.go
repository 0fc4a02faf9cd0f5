package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const testFormKey = "assessment"

func validPayload() []byte {
	return []byte(`{
		"label": "Assessment",
		"questions": [
			{"key": "uses_biometrics", "type": "bool"},
			{"key": "purpose", "type": "single",
			 "show_if": {"field": "uses_biometrics", "operator": "is_true"}}
		],
		"risks": [
			{"key": "r1", "name": "Biometrics", "level": "high",
			 "logic": {"field": "uses_biometrics", "operator": "is_true"}}
		]
	}`)
}

func newTestSchemaService() (*SchemaService, *fakeSchemaRepo, *fakeSchemaCache) {
	repo := newFakeSchemaRepo()
	schemaCache := newFakeSchemaCache()
	return NewSchemaService(repo, schemaCache), repo, schemaCache
}

func TestSchemaService_QuestionnaireNotFound(t *testing.T) {
	svc, _, _ := newTestSchemaService()

	_, err := svc.Questionnaire(context.Background(), "missing")
	if !errors.Is(err, ErrQuestionnaireNotFound) {
		t.Errorf("expected ErrQuestionnaireNotFound, got %v", err)
	}
}

func TestSchemaService_QuestionnaireNormalizesAndCaches(t *testing.T) {
	svc, repo, schemaCache := newTestSchemaService()
	ctx := context.Background()

	if err := repo.Put(ctx, testFormKey, validPayload()); err != nil {
		t.Fatal(err)
	}

	q, err := svc.Questionnaire(ctx, testFormKey)
	if err != nil {
		t.Fatalf("Questionnaire: %v", err)
	}
	if q.Key != testFormKey || q.Label != "Assessment" {
		t.Errorf("unexpected questionnaire: key=%q label=%q", q.Key, q.Label)
	}

	cached, _ := schemaCache.Get(ctx, testFormKey)
	if cached == nil {
		t.Error("questionnaire not written through to cache")
	}
}

func TestSchemaService_PublishRejectsInvalid(t *testing.T) {
	svc, repo, _ := newTestSchemaService()
	ctx := context.Background()

	// show_if references an unknown field
	payload := []byte(`{
		"label": "Broken",
		"questions": [
			{"key": "a", "type": "bool",
			 "show_if": {"field": "ghost", "operator": "is_true"}}
		]
	}`)

	problems, err := svc.Publish(ctx, testFormKey, payload)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(problems) == 0 {
		t.Fatal("expected validation problems")
	}
	if stored, _ := repo.Get(ctx, testFormKey); stored != nil {
		t.Error("invalid payload was persisted")
	}
}

func TestSchemaService_PublishPersistsAndNotifies(t *testing.T) {
	svc, repo, _ := newTestSchemaService()
	broadcaster := &fakeBroadcaster{}
	svc.SetBroadcaster(broadcaster)
	ctx := context.Background()

	problems, err := svc.Publish(ctx, testFormKey, validPayload())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}

	if stored, _ := repo.Get(ctx, testFormKey); stored == nil {
		t.Error("published payload not persisted")
	}
	if sent := broadcaster.sent(); len(sent) != 1 || sent[0] != "schema_published" {
		t.Errorf("broadcasts = %v", sent)
	}
}

func TestSchemaService_RenameQuestionRewritesRules(t *testing.T) {
	svc, _, _ := newTestSchemaService()
	ctx := context.Background()

	if _, err := svc.Publish(ctx, testFormKey, validPayload()); err != nil {
		t.Fatal(err)
	}

	rewritten, err := svc.RenameQuestion(ctx, testFormKey, "uses_biometrics", "biometrics")
	if err != nil {
		t.Fatalf("RenameQuestion: %v", err)
	}
	// One clause in purpose's show_if, one in r1's logic
	if rewritten != 2 {
		t.Errorf("rewritten = %d, want 2", rewritten)
	}

	q, err := svc.Questionnaire(ctx, testFormKey)
	if err != nil {
		t.Fatal(err)
	}
	if q.QuestionByKey("biometrics") == nil {
		t.Error("question was not renamed")
	}
	if q.QuestionByKey("purpose").ShowIf.Clause.Field != "biometrics" {
		t.Error("show_if clause not rewritten")
	}
	if q.Risks[0].Logic.Clause.Field != "biometrics" {
		t.Error("risk logic clause not rewritten")
	}
}

func TestSchemaService_RenameQuestionCollision(t *testing.T) {
	svc, _, _ := newTestSchemaService()
	ctx := context.Background()

	if _, err := svc.Publish(ctx, testFormKey, validPayload()); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.RenameQuestion(ctx, testFormKey, "uses_biometrics", "purpose"); err == nil {
		t.Error("expected collision error")
	}
}

func TestSchemaService_UpdateRuleUnknownOwner(t *testing.T) {
	svc, _, _ := newTestSchemaService()
	ctx := context.Background()

	if _, err := svc.Publish(ctx, testFormKey, validPayload()); err != nil {
		t.Fatal(err)
	}

	if err := svc.UpdateQuestionRule(ctx, testFormKey, "ghost", nil); err == nil {
		t.Error("expected error for unknown question")
	}
	if err := svc.UpdateRiskRule(ctx, testFormKey, "ghost", nil); err == nil {
		t.Error("expected error for unknown risk")
	}
}

func TestSchemaService_ImportDocumentWrapsLegacyFlat(t *testing.T) {
	svc, repo, _ := newTestSchemaService()
	ctx := context.Background()

	// A legacy flat document: questions at the top level, no wrapper map
	payload := []byte(`{
		"page": {"title": "Legacy"},
		"questions": [{"key": "a", "type": "bool"}]
	}`)

	problems, err := svc.ImportDocument(ctx, payload)
	if err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}

	if stored, _ := repo.Get(ctx, "assessment"); stored == nil {
		t.Error("legacy document not persisted under the default key")
	}
	q, err := svc.Questionnaire(ctx, "assessment")
	if err != nil {
		t.Fatal(err)
	}
	if q.Label != "Legacy" {
		t.Errorf("label = %q", q.Label)
	}
}

func TestSchemaService_ImportDocumentMultiForm(t *testing.T) {
	svc, repo, _ := newTestSchemaService()
	broadcaster := &fakeBroadcaster{}
	svc.SetBroadcaster(broadcaster)
	ctx := context.Background()

	payload := []byte(`{
		"questionnaires": {
			"alpha": {"label": "Alpha", "questions": [{"key": "a", "type": "bool"}]},
			"beta": {"label": "Beta", "questions": [{"key": "b", "type": "text"}]}
		}
	}`)

	problems, err := svc.ImportDocument(ctx, payload)
	if err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}

	for _, key := range []string{"alpha", "beta"} {
		if stored, _ := repo.Get(ctx, key); stored == nil {
			t.Errorf("questionnaire %q not persisted", key)
		}
	}
	if sent := broadcaster.sent(); len(sent) != 1 || sent[0] != "schema_published" {
		t.Errorf("broadcasts = %v", sent)
	}
}

func TestSchemaService_ImportDocumentRejectsInvalid(t *testing.T) {
	svc, repo, _ := newTestSchemaService()
	ctx := context.Background()

	payload := []byte(`{
		"questionnaires": {
			"alpha": {
				"label": "Alpha",
				"questions": [
					{"key": "a", "type": "bool"},
					{"key": "a", "type": "text"}
				]
			}
		}
	}`)

	problems, err := svc.ImportDocument(ctx, payload)
	if err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if len(problems) == 0 {
		t.Fatal("expected validation problems")
	}
	if !strings.Contains(problems[0], "alpha") {
		t.Errorf("problem not prefixed with questionnaire key: %q", problems[0])
	}
	if stored, _ := repo.Get(ctx, "alpha"); stored != nil {
		t.Error("invalid document was persisted")
	}
}

func TestSchemaService_DocumentCollectsForms(t *testing.T) {
	svc, repo, _ := newTestSchemaService()
	ctx := context.Background()

	repo.Put(ctx, "alpha", []byte(`{"label": "Alpha", "questions": []}`))
	repo.Put(ctx, "beta", []byte(`{"label": "Beta", "questions": []}`))

	doc, err := svc.Document(ctx)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if len(doc.Questionnaires) != 2 {
		t.Errorf("questionnaires = %d, want 2", len(doc.Questionnaires))
	}
}
