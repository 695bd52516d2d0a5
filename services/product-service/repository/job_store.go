package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
)

const (
	JobQueueKey  = "bulk_import:queue"
	jobKeyPrefix = "bulk_import:job:"
	jobTTL       = 24 * time.Hour
)

// ErrJobNotFound is returned for unknown or expired job ids.
var ErrJobNotFound = errors.New("job not found")

// RedisJobStore keeps import jobs as JSON under bulk_import:job:<id> and
// queues ids on a redis list.
type RedisJobStore struct {
	rdb redis.Cmdable
}

func NewRedisJobStore(rdb redis.Cmdable) *RedisJobStore {
	return &RedisJobStore{rdb: rdb}
}

func JobKey(id string) string {
	return jobKeyPrefix + id
}

func (s *RedisJobStore) Save(ctx context.Context, job *models.ImportJob) error {
	job.UpdatedAt = time.Now().UTC()
	b, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := s.rdb.Set(ctx, JobKey(job.ID), b, jobTTL).Err(); err != nil {
		return fmt.Errorf("store job %s: %w", job.ID, err)
	}
	return nil
}

func (s *RedisJobStore) Get(ctx context.Context, id string) (*models.ImportJob, error) {
	val, err := s.rdb.Get(ctx, JobKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read job %s: %w", id, err)
	}
	var job models.ImportJob
	if err := json.Unmarshal([]byte(val), &job); err != nil {
		return nil, fmt.Errorf("parse job %s: %w", id, err)
	}
	return &job, nil
}

func (s *RedisJobStore) Enqueue(ctx context.Context, id string) error {
	if err := s.rdb.RPush(ctx, JobQueueKey, id).Err(); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}
	return nil
}

func (s *RedisJobStore) Dequeue(ctx context.Context) (string, error) {
	res, err := s.rdb.BLPop(ctx, 0, JobQueueKey).Result()
	if err != nil {
		return "", err
	}
	if len(res) < 2 {
		return "", fmt.Errorf("unexpected BLPOP reply %v", res)
	}
	return res[1], nil
}
