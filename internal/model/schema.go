package model

// QuestionType defines the widget family a question renders as. Rendering is
// the host UI's concern; the engine only needs the type for defaults.
type QuestionType string

const (
	QuestionTypeSingle        QuestionType = "single"
	QuestionTypeMultiselect   QuestionType = "multiselect"
	QuestionTypeBool          QuestionType = "bool"
	QuestionTypeText          QuestionType = "text"
	QuestionTypeRecordName    QuestionType = "record_name"
	QuestionTypeStatement     QuestionType = "statement"
	QuestionTypeRelatedRecord QuestionType = "related_record"
)

// Question is one entry in a questionnaire. Key is unique within its
// questionnaire; uniqueness is checked at validation time, never enforced by
// silent renaming.
type Question struct {
	Key                 string       `json:"key"`
	Label               string       `json:"label,omitempty"`
	Type                QuestionType `json:"type"`
	Options             []string     `json:"options,omitempty"`
	Help                string       `json:"help,omitempty"`
	Placeholder         string       `json:"placeholder,omitempty"`
	Required            bool         `json:"required,omitempty"`
	Default             *Value       `json:"default,omitempty"`
	ShowIf              *RuleNode    `json:"show_if,omitempty"`
	RelatedRecordSource string       `json:"related_record_source,omitempty"`
}

// RiskLevel classifies a risk bucket.
type RiskLevel string

const (
	RiskLevelLimited      RiskLevel = "limited"
	RiskLevelHigh         RiskLevel = "high"
	RiskLevelUnacceptable RiskLevel = "unacceptable"
)

// Known reports whether the level names a defined bucket. An unknown level
// is a validation error but never blocks evaluation.
func (l RiskLevel) Known() bool {
	switch l {
	case RiskLevelLimited, RiskLevelHigh, RiskLevelUnacceptable:
		return true
	}
	return false
}

// Risk describes a risk that triggers when its logic evaluates true. A risk
// without logic never auto-triggers; this is deliberately asymmetric with
// show_if, where an absent rule means always shown.
type Risk struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Level       RiskLevel `json:"level"`
	Mitigations []string  `json:"mitigations,omitempty"`
	Logic       *RuleNode `json:"logic,omitempty"`
}

// Questionnaire is the canonical normalized form of one question set.
type Questionnaire struct {
	Key       string                 `json:"key,omitempty"`
	Label     string                 `json:"label"`
	Page      map[string]interface{} `json:"page"`
	Questions []Question             `json:"questions"`
	Risks     []Risk                 `json:"risks"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
}

// QuestionByKey returns the question with the given key, or nil.
func (q *Questionnaire) QuestionByKey(key string) *Question {
	for i := range q.Questions {
		if q.Questions[i].Key == key {
			return &q.Questions[i]
		}
	}
	return nil
}

// RiskByKey returns the risk with the given key, or nil.
func (q *Questionnaire) RiskByKey(key string) *Risk {
	for i := range q.Risks {
		if q.Risks[i].Key == key {
			return &q.Risks[i]
		}
	}
	return nil
}

// Document is a full schema document: a map of questionnaires keyed by
// questionnaire key.
type Document struct {
	Questionnaires map[string]*Questionnaire `json:"questionnaires"`
}
