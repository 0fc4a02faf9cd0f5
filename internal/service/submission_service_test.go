package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"riskform/internal/rules"
)

func newTestSubmissionService(t *testing.T) (*SubmissionService, *fakeSubmissionRepo) {
	t.Helper()
	schemaSvc, _, _ := newTestSchemaService()
	if _, err := schemaSvc.Publish(context.Background(), testFormKey, submissionPayload()); err != nil {
		t.Fatal(err)
	}
	repo := newFakeSubmissionRepo()
	eval := rules.NewEvaluator(func(format string, args ...interface{}) {})
	return NewSubmissionService(repo, schemaSvc, eval), repo
}

func submissionPayload() []byte {
	return []byte(`{
		"label": "Assessment",
		"questions": [
			{"key": "record_name", "type": "record_name"},
			{"key": "uses_biometrics", "type": "bool"},
			{"key": "purpose", "type": "single",
			 "show_if": {"field": "uses_biometrics", "operator": "is_true"}}
		],
		"risks": [
			{"key": "r1", "name": "Biometrics", "level": "high",
			 "logic": {"field": "uses_biometrics", "operator": "is_true"}},
			{"key": "r2", "name": "No logic", "level": "limited"}
		]
	}`)
}

func TestSubmissionService_Submit(t *testing.T) {
	svc, repo := newTestSubmissionService(t)
	ctx := context.Background()

	submission, err := svc.Submit(ctx, testFormKey, "sys-1", map[string]interface{}{
		"record_name":     "  Chatbot  ",
		"uses_biometrics": true,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if len(submission.ID) != 32 || strings.Contains(submission.ID, "-") {
		t.Errorf("id = %q, want 32 hex chars", submission.ID)
	}
	if submission.RecordName != "Chatbot" {
		t.Errorf("record name = %q", submission.RecordName)
	}
	if submission.SubmittedAt.Location() != time.UTC {
		t.Errorf("submitted_at not UTC: %v", submission.SubmittedAt)
	}
	if len(submission.Risks) != 1 || submission.Risks[0].Key != "r1" {
		t.Errorf("risks = %+v", submission.Risks)
	}
	if submission.Risks[0].SystemID != "sys-1" {
		t.Errorf("risk subject = %q", submission.Risks[0].SystemID)
	}

	stored, _ := repo.GetByID(ctx, submission.ID)
	if stored == nil {
		t.Error("submission not persisted")
	}
}

func TestSubmissionService_SubmitNotifiesEditors(t *testing.T) {
	svc, _ := newTestSubmissionService(t)
	broadcaster := &fakeBroadcaster{}
	svc.SetBroadcaster(broadcaster)

	if _, err := svc.Submit(context.Background(), testFormKey, "sys-1", map[string]interface{}{}); err != nil {
		t.Fatal(err)
	}
	if sent := broadcaster.sent(); len(sent) != 1 || sent[0] != "submission_received" {
		t.Errorf("broadcasts = %v", sent)
	}
}

func TestSubmissionService_SubmitUnknownQuestionnaire(t *testing.T) {
	svc, _ := newTestSubmissionService(t)

	_, err := svc.Submit(context.Background(), "missing", "sys-1", nil)
	if !errors.Is(err, ErrQuestionnaireNotFound) {
		t.Errorf("expected ErrQuestionnaireNotFound, got %v", err)
	}
}

func TestSubmissionService_Evaluate(t *testing.T) {
	svc, repo := newTestSubmissionService(t)
	ctx := context.Background()

	result, err := svc.Evaluate(ctx, testFormKey, "sys-1", map[string]interface{}{
		"uses_biometrics": false,
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	// purpose is hidden when uses_biometrics is false
	want := []string{"record_name", "uses_biometrics"}
	if len(result.VisibleQuestions) != len(want) {
		t.Fatalf("visible = %v, want %v", result.VisibleQuestions, want)
	}
	for i, key := range want {
		if result.VisibleQuestions[i] != key {
			t.Errorf("visible[%d] = %q, want %q", i, result.VisibleQuestions[i], key)
		}
	}
	if len(result.Risks) != 0 {
		t.Errorf("risks = %+v, want none", result.Risks)
	}

	if list, _ := repo.ListByQuestionnaire(ctx, testFormKey); len(list) != 0 {
		t.Error("Evaluate must not store a submission")
	}
}

func TestSubmissionService_ListNewestFirst(t *testing.T) {
	svc, _ := newTestSubmissionService(t)
	ctx := context.Background()

	first, _ := svc.Submit(ctx, testFormKey, "sys-1", map[string]interface{}{"record_name": "one"})
	second, _ := svc.Submit(ctx, testFormKey, "sys-1", map[string]interface{}{"record_name": "two"})

	list, err := svc.List(ctx, testFormKey)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("list = %d entries", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Error("submissions not newest-first")
	}
}

func TestSubmissionService_Delete(t *testing.T) {
	svc, _ := newTestSubmissionService(t)
	ctx := context.Background()

	submission, _ := svc.Submit(ctx, testFormKey, "sys-1", map[string]interface{}{})

	if err := svc.Delete(ctx, submission.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, submission.ID); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestRiskService_ForSystem(t *testing.T) {
	svc, repo := newTestSubmissionService(t)
	ctx := context.Background()

	// Two submissions for the same system both trigger r1
	svc.Submit(ctx, testFormKey, "sys-1", map[string]interface{}{"uses_biometrics": true})
	svc.Submit(ctx, testFormKey, "sys-1", map[string]interface{}{"uses_biometrics": true})
	svc.Submit(ctx, testFormKey, "other", map[string]interface{}{"uses_biometrics": true})

	riskSvc := NewRiskService(repo)

	risks, err := riskSvc.ForSystem(ctx, "sys-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(risks) != 1 {
		t.Fatalf("risks = %+v, want one deduplicated entry", risks)
	}
	if risks[0].Key != "r1" || risks[0].SystemID != "sys-1" {
		t.Errorf("risk = %+v", risks[0])
	}

	summary, err := riskSvc.MarkdownForSystem(ctx, "sys-1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(summary, "🟠") || !strings.Contains(summary, "Biometrics") {
		t.Errorf("summary = %q", summary)
	}
}
