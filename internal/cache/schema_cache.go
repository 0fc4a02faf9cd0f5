package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"riskform/internal/model"

	"github.com/redis/go-redis/v9"
)

// SchemaCache handles Redis operations for normalized questionnaires, so the
// repository payload is only re-normalized when it changes.
type SchemaCache interface {
	Set(ctx context.Context, formKey string, q *model.Questionnaire) error
	Get(ctx context.Context, formKey string) (*model.Questionnaire, error)
	Invalidate(ctx context.Context, formKey string) error
}

type schemaCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSchemaCache creates a new schema cache
func NewSchemaCache(client *redis.Client) SchemaCache {
	return &schemaCache{
		client: client,
		ttl:    1 * time.Hour,
	}
}

func (c *schemaCache) key(formKey string) string {
	return fmt.Sprintf("schema:%s", formKey)
}

func (c *schemaCache) Set(ctx context.Context, formKey string, q *model.Questionnaire) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(formKey), data, c.ttl).Err()
}

func (c *schemaCache) Get(ctx context.Context, formKey string) (*model.Questionnaire, error) {
	data, err := c.client.Get(ctx, c.key(formKey)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var q model.Questionnaire
	if err := json.Unmarshal([]byte(data), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *schemaCache) Invalidate(ctx context.Context, formKey string) error {
	return c.client.Del(ctx, c.key(formKey)).Err()
}
