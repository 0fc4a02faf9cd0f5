package schema

import (
	"strings"
	"testing"

	"riskform/internal/model"
)

func showIf(field string) *model.RuleNode {
	return model.LeafNode(model.Clause{Field: field, Operator: model.OpIsTrue})
}

func TestValidate_CleanQuestionnaire(t *testing.T) {
	q := &model.Questionnaire{
		Questions: []model.Question{
			{Key: "q1", Type: model.QuestionTypeBool},
			{Key: "q2", Type: model.QuestionTypeText, ShowIf: showIf("q1")},
		},
		Risks: []model.Risk{
			{Key: "r1", Name: "One", Level: model.RiskLevelHigh, Logic: showIf("q1")},
		},
	}
	if problems := Validate(q); len(problems) != 0 {
		t.Errorf("unexpected problems: %v", problems)
	}
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name string
		q    *model.Questionnaire
		want string
	}{
		{
			"missing question key",
			&model.Questionnaire{Questions: []model.Question{{Type: model.QuestionTypeText}}},
			"must define a key",
		},
		{
			"duplicate question key",
			&model.Questionnaire{Questions: []model.Question{{Key: "q1"}, {Key: "q1"}}},
			"duplicate question key",
		},
		{
			"unknown show_if field",
			&model.Questionnaire{Questions: []model.Question{{Key: "q1", ShowIf: showIf("ghost")}}},
			"unknown field 'ghost'",
		},
		{
			"duplicate risk key",
			&model.Questionnaire{Risks: []model.Risk{
				{Key: "r1", Level: model.RiskLevelHigh},
				{Key: "r1", Level: model.RiskLevelHigh},
			}},
			"duplicate risk key",
		},
		{
			"invalid risk level",
			&model.Questionnaire{Risks: []model.Risk{{Key: "r1", Level: "catastrophic"}}},
			"invalid level",
		},
		{
			"unknown logic field",
			&model.Questionnaire{Risks: []model.Risk{
				{Key: "r1", Level: model.RiskLevelHigh, Logic: showIf("ghost")},
			}},
			"unknown field 'ghost'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := Validate(tt.q)
			found := false
			for _, problem := range problems {
				if strings.Contains(problem, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("problems %v do not mention %q", problems, tt.want)
			}
		})
	}
}

func TestValidateDocument_PrefixesQuestionnaireKey(t *testing.T) {
	doc := &model.Document{Questionnaires: map[string]*model.Questionnaire{
		"intake": {Questions: []model.Question{{Key: "q1"}, {Key: "q1"}}},
	}}
	problems := ValidateDocument(doc)
	if len(problems) != 1 || !strings.HasPrefix(problems[0], "intake: ") {
		t.Errorf("problems = %v", problems)
	}
}

func TestRenameQuestion(t *testing.T) {
	q := &model.Questionnaire{
		Questions: []model.Question{
			{Key: "uses_data", Type: model.QuestionTypeBool},
			{Key: "data_kind", Type: model.QuestionTypeSingle, ShowIf: showIf("uses_data")},
		},
		Risks: []model.Risk{
			{Key: "r1", Level: model.RiskLevelHigh, Logic: showIf("uses_data")},
		},
	}

	rewritten, err := RenameQuestion(q, "uses_data", "processes_data")
	if err != nil {
		t.Fatal(err)
	}
	if rewritten != 2 {
		t.Errorf("rewritten = %d, want 2", rewritten)
	}
	if q.QuestionByKey("processes_data") == nil {
		t.Error("question key not renamed")
	}
	if got := q.Questions[1].ShowIf.Clause.Field; got != "processes_data" {
		t.Errorf("show_if field = %q", got)
	}
	if got := q.Risks[0].Logic.Clause.Field; got != "processes_data" {
		t.Errorf("logic field = %q", got)
	}
}

func TestRenameQuestion_Errors(t *testing.T) {
	q := &model.Questionnaire{Questions: []model.Question{{Key: "a"}, {Key: "b"}}}

	if _, err := RenameQuestion(q, "ghost", "x"); err == nil {
		t.Error("expected error for missing question")
	}
	if _, err := RenameQuestion(q, "a", "b"); err == nil {
		t.Error("expected error for taken key")
	}
	if _, err := RenameQuestion(q, "", "x"); err == nil {
		t.Error("expected error for empty key")
	}
	if rewritten, err := RenameQuestion(q, "a", "a"); err != nil || rewritten != 0 {
		t.Error("same-key rename should be a no-op")
	}
}
