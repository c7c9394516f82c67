package service

import (
	"context"

	"github.com/google/uuid"

	"finanalyzer/api/dto"
	"finanalyzer/api/kafka"
	"finanalyzer/api/models"
	"finanalyzer/api/repository"
)

// StatusCache is satisfied by cache.StatusCache; the indirection keeps
// redis out of the service tests.
type StatusCache interface {
	Get(ctx context.Context, jobID string) (models.JobStatus, error)
	Set(ctx context.Context, jobID string, status models.JobStatus) error
}

type JobService struct {
	repo     repository.Repository
	cache    StatusCache
	producer kafka.Producer
	topic    string
}

func NewJobService(repo repository.Repository, cache StatusCache, producer kafka.Producer, topic string) *JobService {
	return &JobService{
		repo:     repo,
		cache:    cache,
		producer: producer,
		topic:    topic,
	}
}

// CreateJob persists the job row, warms the status cache and publishes
// the work message. The response reports "processing" for the request
// as a whole even though the row starts out pending; the worker owns
// every transition after this point.
func (s *JobService) CreateJob(ctx context.Context, traceID string, req *dto.CreateJobRequest) (*dto.AnalyzeResponse, error) {
	job := &models.Job{
		TraceID:          traceID,
		OriginalFilename: req.OriginalFilename,
		FilePath:         req.FilePath,
		Query:            req.Query,
		Status:           models.StatusPending,
	}

	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	// Cache warm-up is best effort; a miss just falls through to the row.
	_ = s.cache.Set(ctx, job.ID, models.StatusPending)

	msg := &kafka.JobMessage{
		TaskID:   job.ID,
		TraceID:  traceID,
		FilePath: req.FilePath,
		Query:    req.Query,
	}
	if err := s.producer.SendJobMessage(ctx, s.topic, msg); err != nil {
		return nil, err
	}

	return &dto.AnalyzeResponse{
		Status:   "processing",
		TaskID:   job.ID,
		FilePath: job.FilePath,
		Message:  "Analysis started in background",
	}, nil
}

// GetJobStatus serves polls. Non-terminal statuses may be answered
// from the cache alone; completed and failed jobs always read the row
// because result and error live only there.
func (s *JobService) GetJobStatus(ctx context.Context, jobID string) (*dto.StatusResponse, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, dto.ErrJobNotFound
	}

	if status, err := s.cache.Get(ctx, jobID); err == nil && !status.Terminal() {
		return &dto.StatusResponse{
			TaskID: jobID,
			Status: string(status),
		}, nil
	}

	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, job.ID, job.Status)

	return &dto.StatusResponse{
		TaskID: job.ID,
		Status: string(job.Status),
		Result: job.Result,
		Error:  job.ErrorMessage,
	}, nil
}
