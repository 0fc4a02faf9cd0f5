package model

import "time"

// RecordNameField is the reserved answer key whose value names the submitted
// record. It is lifted out of the answers on submission.
const RecordNameField = "record_name"

// Submission is one stored questionnaire response. Answers are kept in plain
// JSON form; convert with AnswersFromAny before evaluating rules against
// them.
type Submission struct {
	ID               string                 `json:"id" bson:"_id,omitempty"`
	QuestionnaireKey string                 `json:"questionnaire_key" bson:"questionnaireKey"`
	SystemID         string                 `json:"system_id,omitempty" bson:"systemId,omitempty"`
	RecordName       string                 `json:"record_name,omitempty" bson:"recordName,omitempty"`
	SubmittedAt      time.Time              `json:"submitted_at" bson:"submittedAt"`
	Answers          map[string]interface{} `json:"answers" bson:"answers"`
	Risks            []TriggeredRisk        `json:"risks,omitempty" bson:"risks,omitempty"`
}

// TriggeredRisk is a risk whose logic evaluated true for a submission,
// normalized for display and annotated with the subject it applies to.
type TriggeredRisk struct {
	Key         string   `json:"key,omitempty" bson:"key,omitempty"`
	Name        string   `json:"name" bson:"name"`
	Level       string   `json:"level" bson:"level"`
	LevelLabel  string   `json:"level_label" bson:"levelLabel"`
	SystemID    string   `json:"system_id,omitempty" bson:"systemId,omitempty"`
	Mitigations []string `json:"mitigations,omitempty" bson:"mitigations,omitempty"`
}
