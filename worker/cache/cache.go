package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const statusTTL = 10 * time.Minute

// StatusCache mirrors job status into redis so the API can answer
// polls for in-flight jobs without a row read.
type StatusCache struct {
	client *redis.Client
}

func NewStatusCache(client *redis.Client) *StatusCache {
	return &StatusCache{client: client}
}

func (c *StatusCache) Set(ctx context.Context, jobID string, status string) error {
	return c.client.Set(ctx, "job:status:"+jobID, status, statusTTL).Err()
}
