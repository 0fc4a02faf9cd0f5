package repository

import (
	"context"

	"riskform/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubmissionRepo handles MongoDB operations for questionnaire submissions.
// List operations return submissions newest-first; risk aggregation depends
// on that order to keep the most recent duplicate.
type SubmissionRepo interface {
	Create(ctx context.Context, submission *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	ListByQuestionnaire(ctx context.Context, formKey string) ([]model.Submission, error)
	ListBySystem(ctx context.Context, systemID string) ([]model.Submission, error)
	Delete(ctx context.Context, id string) error
}

type submissionRepo struct {
	collection *mongo.Collection
}

// NewSubmissionRepo creates a new submission repository
func NewSubmissionRepo(db *mongo.Database) SubmissionRepo {
	return &submissionRepo{
		collection: db.Collection("submissions"),
	}
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	_, err := r.collection.InsertOne(ctx, submission)
	return err
}

func (r *submissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var submission model.Submission
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&submission)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepo) ListByQuestionnaire(ctx context.Context, formKey string) ([]model.Submission, error) {
	return r.list(ctx, bson.M{"questionnaireKey": formKey})
}

func (r *submissionRepo) ListBySystem(ctx context.Context, systemID string) ([]model.Submission, error) {
	return r.list(ctx, bson.M{"systemId": systemID})
}

func (r *submissionRepo) list(ctx context.Context, filter bson.M) ([]model.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var submissions []model.Submission
	if err := cursor.All(ctx, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
