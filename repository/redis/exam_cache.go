package redis

import (
	"context"
	"encoding/json"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/halahlab/backend/domain"
	"github.com/halahlab/backend/repository"
)

type examCache struct {
	inner  repository.ExamRepository
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewExamCache wraps an exam repository with a Redis read-through
// cache. The catalog is read-only from the service layer, so cached
// entries only ever age out, never go stale by mutation.
func NewExamCache(inner repository.ExamRepository, client *redislib.Client, ttl time.Duration) repository.ExamRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &examCache{
		inner:  inner,
		client: client,
		prefix: "exam:",
		ttl:    ttl,
	}
}

func (c *examCache) GetByID(ctx context.Context, id string) (*domain.Exam, error) {
	cached, err := c.client.Get(ctx, c.key(id)).Result()
	if err == nil {
		var exam domain.Exam
		if err := json.Unmarshal([]byte(cached), &exam); err == nil {
			return &exam, nil
		}
		// Unreadable entry; fall through to the source and rewrite it.
	} else if err != redislib.Nil {
		// Cache trouble must not take the catalog down; serve from source.
		return c.inner.GetByID(ctx, id)
	}

	exam, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(exam); err == nil {
		_ = c.client.Set(ctx, c.key(id), payload, c.ttl).Err()
	}
	return exam, nil
}

func (c *examCache) key(id string) string {
	return c.prefix + id
}
