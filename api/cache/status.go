package cache

import (
	"context"
	"time"

	"finanalyzer/api/database"
	"finanalyzer/api/models"
)

const (
	statusKeyPrefix = "job:status:"
	statusTTL       = 10 * time.Minute
)

// StatusCache keeps the latest known status per job id so the status
// endpoint can answer polls without touching Postgres while a job is
// still in flight.
type StatusCache struct {
	cache *database.Cache
}

func NewStatusCache(cache *database.Cache) *StatusCache {
	return &StatusCache{cache: cache}
}

func (sc *StatusCache) Get(ctx context.Context, jobID string) (models.JobStatus, error) {
	data, err := sc.cache.Get(ctx, statusKeyPrefix+jobID)
	if err != nil {
		return "", err
	}
	return models.JobStatus(data), nil
}

func (sc *StatusCache) Set(ctx context.Context, jobID string, status models.JobStatus) error {
	return sc.cache.Set(ctx, statusKeyPrefix+jobID, string(status), statusTTL)
}

func (sc *StatusCache) Delete(ctx context.Context, jobID string) error {
	return sc.cache.Del(ctx, statusKeyPrefix+jobID)
}
