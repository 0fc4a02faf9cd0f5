// Package schema normalizes heterogeneous question-set documents into the
// canonical questionnaire form and validates them.
package schema

import (
	"encoding/json"
	"strings"
	"unicode"

	"riskform/internal/model"
)

// DefaultQuestionnaireKey is the synthetic key legacy single-questionnaire
// documents are filed under.
const DefaultQuestionnaireKey = "assessment"

// DefaultLabel is the last-resort questionnaire label.
const DefaultLabel = "Questionnaire"

// Normalize converts raw per-form payloads, keyed by form key, into one
// canonical document.
func Normalize(payloads map[string][]byte) (*model.Document, error) {
	doc := &model.Document{Questionnaires: make(map[string]*model.Questionnaire, len(payloads))}
	for formKey, payload := range payloads {
		entry, err := NormalizeForm(formKey, payload)
		if err != nil {
			return nil, err
		}
		doc.Questionnaires[formKey] = entry
	}
	return doc, nil
}

// NormalizeForm converts one raw form payload into a questionnaire entry.
// Payloads may nest the body under a "questionnaire" object or be the body
// itself. Normalizing an already-normalized entry is a no-op.
func NormalizeForm(formKey string, payload []byte) (*model.Questionnaire, error) {
	var outer struct {
		Questionnaire json.RawMessage        `json:"questionnaire"`
		Meta          map[string]interface{} `json:"meta"`
	}
	if err := json.Unmarshal(payload, &outer); err != nil {
		return nil, err
	}

	body := payload
	if isObject(outer.Questionnaire) {
		body = outer.Questionnaire
	}

	var entry model.Questionnaire
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, err
	}
	if outer.Meta != nil {
		entry.Meta = outer.Meta
	}
	finalize(formKey, &entry)
	return &entry, nil
}

// NormalizeDocument converts a full schema document. Documents without a
// "questionnaires" map are treated as legacy single-questionnaire documents
// and wrapped under DefaultQuestionnaireKey. The conversion is idempotent.
func NormalizeDocument(payload []byte) (*model.Document, error) {
	var outer struct {
		Questionnaires map[string]json.RawMessage `json:"questionnaires"`
		Page           map[string]interface{}     `json:"page"`
		Questions      []model.Question           `json:"questions"`
		Risks          []model.Risk               `json:"risks"`
	}
	if err := json.Unmarshal(payload, &outer); err != nil {
		return nil, err
	}

	doc := &model.Document{Questionnaires: make(map[string]*model.Questionnaire)}
	if len(outer.Questionnaires) == 0 {
		entry := &model.Questionnaire{
			Page:      outer.Page,
			Questions: outer.Questions,
			Risks:     outer.Risks,
		}
		finalize(DefaultQuestionnaireKey, entry)
		doc.Questionnaires[DefaultQuestionnaireKey] = entry
		return doc, nil
	}

	for key, raw := range outer.Questionnaires {
		var entry model.Questionnaire
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, err
		}
		finalize(key, &entry)
		doc.Questionnaires[key] = &entry
	}
	return doc, nil
}

func finalize(key string, entry *model.Questionnaire) {
	if entry.Key == "" {
		entry.Key = key
	}
	if entry.Page == nil {
		entry.Page = map[string]interface{}{}
	}
	if entry.Questions == nil {
		entry.Questions = []model.Question{}
	}
	if entry.Risks == nil {
		entry.Risks = []model.Risk{}
	}
	entry.Label = DeriveLabel(key, entry.Label, entry.Page)
}

// DeriveLabel picks a human-friendly questionnaire label: the explicit
// label, then the page title, then a title-cased form of the key, then
// DefaultLabel.
func DeriveLabel(key, label string, page map[string]interface{}) string {
	if trimmed := strings.TrimSpace(label); trimmed != "" {
		return trimmed
	}
	if title, ok := page["title"].(string); ok {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			return trimmed
		}
	}
	if key != "" {
		return titleCase(strings.ReplaceAll(key, "_", " "))
	}
	return DefaultLabel
}

func titleCase(s string) string {
	var b strings.Builder
	startOfWord := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			startOfWord = true
			b.WriteRune(r)
		case startOfWord:
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func isObject(raw json.RawMessage) bool {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
