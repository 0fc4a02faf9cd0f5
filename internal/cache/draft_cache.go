package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftCache handles Redis operations for in-progress answer drafts, keyed
// by form and editing session.
type DraftCache interface {
	Save(ctx context.Context, formKey, sessionID string, answers map[string]interface{}) error
	Get(ctx context.Context, formKey, sessionID string) (map[string]interface{}, error)
	Delete(ctx context.Context, formKey, sessionID string) error
}

type draftCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftCache creates a new draft cache
func NewDraftCache(client *redis.Client) DraftCache {
	return &draftCache{
		client: client,
		ttl:    24 * time.Hour, // Abandoned drafts expire after 24h
	}
}

func (c *draftCache) key(formKey, sessionID string) string {
	return fmt.Sprintf("draft:%s:%s", formKey, sessionID)
}

func (c *draftCache) Save(ctx context.Context, formKey, sessionID string, answers map[string]interface{}) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(formKey, sessionID), data, c.ttl).Err()
}

func (c *draftCache) Get(ctx context.Context, formKey, sessionID string) (map[string]interface{}, error) {
	data, err := c.client.Get(ctx, c.key(formKey, sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var answers map[string]interface{}
	if err := json.Unmarshal([]byte(data), &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

func (c *draftCache) Delete(ctx context.Context, formKey, sessionID string) error {
	return c.client.Del(ctx, c.key(formKey, sessionID)).Err()
}
