package schema

import (
	"fmt"

	"riskform/internal/model"
	"riskform/internal/rules"
)

// Validate checks one questionnaire for structural problems: missing or
// duplicate keys, rules referencing unknown fields, and invalid risk
// levels. Problems are returned as human-readable messages; the caller
// decides whether they block persistence. Validation never mutates the
// questionnaire.
func Validate(q *model.Questionnaire) []string {
	var problems []string

	questionKeys := make(map[string]bool, len(q.Questions))
	for _, question := range q.Questions {
		if question.Key == "" {
			problems = append(problems, "all questions must define a key")
			continue
		}
		if questionKeys[question.Key] {
			problems = append(problems, fmt.Sprintf("duplicate question key detected: %s", question.Key))
		}
		questionKeys[question.Key] = true
	}

	for _, question := range q.Questions {
		if question.ShowIf == nil {
			continue
		}
		for _, field := range rules.ExtractFields(question.ShowIf) {
			if !questionKeys[field] {
				problems = append(problems, fmt.Sprintf(
					"question '%s' references unknown field '%s' in show_if rules", question.Key, field))
			}
		}
	}

	riskKeys := make(map[string]bool, len(q.Risks))
	for _, risk := range q.Risks {
		if risk.Key == "" {
			problems = append(problems, "all risks must define a key")
		} else {
			if riskKeys[risk.Key] {
				problems = append(problems, fmt.Sprintf("duplicate risk key detected: %s", risk.Key))
			}
			riskKeys[risk.Key] = true
		}
		if !risk.Level.Known() {
			problems = append(problems, fmt.Sprintf("risk '%s' has invalid level '%s'", risk.Key, risk.Level))
		}
		if risk.Logic == nil {
			continue
		}
		for _, field := range rules.ExtractFields(risk.Logic) {
			if !questionKeys[field] {
				problems = append(problems, fmt.Sprintf(
					"risk '%s' references unknown field '%s' in logic rules", risk.Key, field))
			}
		}
	}

	return problems
}

// ValidateDocument validates every questionnaire in the document, prefixing
// each problem with its questionnaire key.
func ValidateDocument(doc *model.Document) []string {
	var problems []string
	for key, questionnaire := range doc.Questionnaires {
		for _, problem := range Validate(questionnaire) {
			problems = append(problems, fmt.Sprintf("%s: %s", key, problem))
		}
	}
	return problems
}

// RenameQuestion changes a question's key and rewrites every show_if and
// logic clause that referenced it. It returns the number of clauses
// rewritten.
func RenameQuestion(q *model.Questionnaire, oldKey, newKey string) (int, error) {
	if oldKey == "" || newKey == "" {
		return 0, fmt.Errorf("question keys must not be empty")
	}
	if oldKey == newKey {
		return 0, nil
	}
	target := q.QuestionByKey(oldKey)
	if target == nil {
		return 0, fmt.Errorf("question '%s' not found", oldKey)
	}
	if q.QuestionByKey(newKey) != nil {
		return 0, fmt.Errorf("question key '%s' already exists", newKey)
	}

	target.Key = newKey
	rewritten := 0
	for i := range q.Questions {
		rewritten += rules.RewriteField(q.Questions[i].ShowIf, oldKey, newKey)
	}
	for i := range q.Risks {
		rewritten += rules.RewriteField(q.Risks[i].Logic, oldKey, newKey)
	}
	return rewritten, nil
}
