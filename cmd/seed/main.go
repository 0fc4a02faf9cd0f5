package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"riskform/internal/config"
	"riskform/internal/model"
	"riskform/internal/repository"
	"riskform/internal/schema"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	repo := repository.NewSchemaRepo(db)

	q := sampleQuestionnaire()

	payload, err := json.Marshal(q)
	if err != nil {
		log.Fatalf("Failed to marshal questionnaire: %v", err)
	}

	formKey := schema.DefaultQuestionnaireKey
	if err := repo.Put(ctx, formKey, payload); err != nil {
		log.Fatalf("Failed to seed questionnaire: %v", err)
	}

	log.Printf("Seeded questionnaire '%s' with %d questions and %d risks", formKey, len(q.Questions), len(q.Risks))
}

func sampleQuestionnaire() *model.Questionnaire {
	return &model.Questionnaire{
		Key:   schema.DefaultQuestionnaireKey,
		Label: "AI System Assessment",
		Page: map[string]interface{}{
			"title": "AI System Assessment",
			"icon":  "📋",
		},
		Questions: []model.Question{
			{
				Key:      model.RecordNameField,
				Label:    "System name",
				Type:     model.QuestionTypeRecordName,
				Required: true,
			},
			{
				Key:     "deployment_context",
				Label:   "Where is the system deployed?",
				Type:    model.QuestionTypeSingle,
				Options: []string{"internal", "customer_facing", "public"},
			},
			{
				Key:   "uses_biometrics",
				Label: "Does the system process biometric data?",
				Type:  model.QuestionTypeBool,
			},
			{
				Key:     "biometric_purposes",
				Label:   "What is the biometric data used for?",
				Type:    model.QuestionTypeMultiselect,
				Options: []string{"identification", "verification", "categorisation"},
				ShowIf: model.LeafNode(model.Clause{
					Field:    "uses_biometrics",
					Operator: model.OpIsTrue,
				}),
			},
			{
				Key:   "automated_decisions",
				Label: "Does the system make decisions without human review?",
				Type:  model.QuestionTypeBool,
				ShowIf: model.AnyOf(
					model.LeafNode(model.Clause{
						Field:    "deployment_context",
						Operator: model.OpEquals,
						Value:    model.StringValue("customer_facing"),
					}),
					model.LeafNode(model.Clause{
						Field:    "deployment_context",
						Operator: model.OpEquals,
						Value:    model.StringValue("public"),
					}),
				),
			},
		},
		Risks: []model.Risk{
			{
				Key:   "biometric_identification",
				Name:  "Biometric identification of natural persons",
				Level: model.RiskLevelHigh,
				Mitigations: []string{
					"Document the lawful basis for processing",
					"Run a data protection impact assessment",
				},
				Logic: model.AllOf(
					model.LeafNode(model.Clause{
						Field:    "uses_biometrics",
						Operator: model.OpIsTrue,
					}),
					model.LeafNode(model.Clause{
						Field:    "biometric_purposes",
						Operator: model.OpIncludes,
						Value:    model.StringValue("identification"),
					}),
				),
			},
			{
				Key:   "unreviewed_automation",
				Name:  "Automated decisions without human oversight",
				Level: model.RiskLevelUnacceptable,
				Mitigations: []string{
					"Add a human review step before decisions take effect",
				},
				Logic: model.LeafNode(model.Clause{
					Field:    "automated_decisions",
					Operator: model.OpIsTrue,
				}),
			},
		},
	}
}

