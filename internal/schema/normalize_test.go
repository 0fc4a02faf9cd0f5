package schema

import (
	"encoding/json"
	"testing"

	"riskform/internal/model"
)

func TestNormalizeDocument_LegacyFlatShape(t *testing.T) {
	payload := []byte(`{
		"page": {"title": "Intake"},
		"questions": [{"key": "q1", "type": "text"}]
	}`)

	doc, err := NormalizeDocument(payload)
	if err != nil {
		t.Fatal(err)
	}
	entry, ok := doc.Questionnaires[DefaultQuestionnaireKey]
	if !ok {
		t.Fatalf("legacy document not wrapped under %q: %v", DefaultQuestionnaireKey, doc.Questionnaires)
	}
	if entry.Label != "Intake" {
		t.Errorf("label = %q, want page title", entry.Label)
	}
	if len(entry.Questions) != 1 || entry.Questions[0].Key != "q1" {
		t.Errorf("questions = %+v", entry.Questions)
	}
	if entry.Risks == nil {
		t.Error("risks should default to an empty list")
	}
}

func TestNormalizeDocument_MultiShape(t *testing.T) {
	payload := []byte(`{
		"questionnaires": {
			"system_registration": {"questions": [], "page": {}},
			"assessment": {"label": "AI Assessment", "questions": [{"key": "q1", "type": "bool"}]}
		}
	}`)

	doc, err := NormalizeDocument(payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Questionnaires) != 2 {
		t.Fatalf("expected 2 questionnaires, got %d", len(doc.Questionnaires))
	}
	if got := doc.Questionnaires["system_registration"].Label; got != "System Registration" {
		t.Errorf("derived label = %q, want title-cased key", got)
	}
	if got := doc.Questionnaires["assessment"].Label; got != "AI Assessment" {
		t.Errorf("explicit label = %q, want AI Assessment", got)
	}
}

func TestNormalizeDocument_Idempotent(t *testing.T) {
	payload := []byte(`{
		"page": {"title": "Intake"},
		"questions": [{"key": "q1", "type": "text", "show_if": {"field": "q0", "operator": "is_true"}}]
	}`)

	once, err := NormalizeDocument(payload)
	if err != nil {
		t.Fatal(err)
	}
	onceJSON, err := json.Marshal(once)
	if err != nil {
		t.Fatal(err)
	}

	twice, err := NormalizeDocument(onceJSON)
	if err != nil {
		t.Fatal(err)
	}
	twiceJSON, err := json.Marshal(twice)
	if err != nil {
		t.Fatal(err)
	}

	if string(onceJSON) != string(twiceJSON) {
		t.Errorf("normalization is not idempotent:\n%s\n%s", onceJSON, twiceJSON)
	}
}

func TestNormalizeForm_UnwrapsNestedQuestionnaire(t *testing.T) {
	payload := []byte(`{
		"questionnaire": {"label": "Wrapped", "questions": [{"key": "q1", "type": "text"}]},
		"meta": {"revision": "3"}
	}`)

	entry, err := NormalizeForm("intake", payload)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Key != "intake" {
		t.Errorf("key = %q, want form key", entry.Key)
	}
	if entry.Label != "Wrapped" {
		t.Errorf("label = %q, want Wrapped", entry.Label)
	}
	if entry.Meta["revision"] != "3" {
		t.Errorf("meta = %v, want revision passthrough", entry.Meta)
	}
	if len(entry.Questions) != 1 {
		t.Errorf("questions = %+v", entry.Questions)
	}
}

func TestNormalizeForm_FlatPayloadIsBody(t *testing.T) {
	payload := []byte(`{"questions": [{"key": "q1", "type": "text"}]}`)

	entry, err := NormalizeForm("my_form", payload)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Label != "My Form" {
		t.Errorf("label = %q, want title-cased form key", entry.Label)
	}
	if entry.Page == nil {
		t.Error("page should default to an empty map")
	}
}

func TestDeriveLabel(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		label string
		page  map[string]interface{}
		want  string
	}{
		{"explicit label wins", "k", "  Custom  ", map[string]interface{}{"title": "T"}, "Custom"},
		{"page title next", "k", "", map[string]interface{}{"title": " Page Title "}, "Page Title"},
		{"title-cased key", "risk_assessment", "", map[string]interface{}{}, "Risk Assessment"},
		{"blank page title skipped", "k", "", map[string]interface{}{"title": "  "}, "K"},
		{"last resort", "", "", map[string]interface{}{}, DefaultLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveLabel(tt.key, tt.label, tt.page); got != tt.want {
				t.Errorf("DeriveLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_MapOfPayloads(t *testing.T) {
	payloads := map[string][]byte{
		"intake":     []byte(`{"questions": [{"key": "q1", "type": "text"}]}`),
		"assessment": []byte(`{"questionnaire": {"label": "Assessment"}}`),
	}

	doc, err := Normalize(payloads)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Questionnaires) != 2 {
		t.Fatalf("expected 2 questionnaires, got %d", len(doc.Questionnaires))
	}
	if doc.Questionnaires["assessment"].Label != "Assessment" {
		t.Errorf("assessment label = %q", doc.Questionnaires["assessment"].Label)
	}
}

func TestQuestionnaireLookups(t *testing.T) {
	q := &model.Questionnaire{
		Questions: []model.Question{{Key: "q1"}, {Key: "q2"}},
		Risks:     []model.Risk{{Key: "r1"}},
	}
	if q.QuestionByKey("q2") == nil {
		t.Error("expected to find q2")
	}
	if q.QuestionByKey("zzz") != nil {
		t.Error("unexpected hit for missing key")
	}
	if q.RiskByKey("r1") == nil {
		t.Error("expected to find r1")
	}
}
