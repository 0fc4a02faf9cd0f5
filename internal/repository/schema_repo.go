package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SchemaRepo handles MongoDB operations for questionnaire schema documents.
// Payloads are stored as raw JSON; normalization happens in the service
// layer so hand-edited documents survive a round trip untouched.
type SchemaRepo interface {
	Put(ctx context.Context, formKey string, payload []byte) error
	Get(ctx context.Context, formKey string) ([]byte, error)
	List(ctx context.Context) (map[string][]byte, error)
	Delete(ctx context.Context, formKey string) error
}

type schemaRepo struct {
	collection *mongo.Collection
}

// NewSchemaRepo creates a new schema repository
func NewSchemaRepo(db *mongo.Database) SchemaRepo {
	return &schemaRepo{
		collection: db.Collection("schemas"),
	}
}

type schemaDoc struct {
	FormKey   string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (r *schemaRepo) Put(ctx context.Context, formKey string, payload []byte) error {
	doc := schemaDoc{
		FormKey:   formKey,
		Payload:   payload,
		UpdatedAt: time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": formKey}, doc, opts)
	return err
}

func (r *schemaRepo) Get(ctx context.Context, formKey string) ([]byte, error) {
	var doc schemaDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": formKey}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Payload, nil
}

func (r *schemaRepo) List(ctx context.Context) (map[string][]byte, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	payloads := make(map[string][]byte)
	for cursor.Next(ctx) {
		var doc schemaDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		payloads[doc.FormKey] = doc.Payload
	}
	return payloads, cursor.Err()
}

func (r *schemaRepo) Delete(ctx context.Context, formKey string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": formKey})
	return err
}
