package service

import (
	"context"

	"go.uber.org/zap"

	"finanalyzer/worker/agent"
	"finanalyzer/worker/kafka"
	"finanalyzer/worker/repository"
)

type Crew interface {
	Kickoff(ctx context.Context, inputs agent.Inputs) (string, error)
}

type StatusCache interface {
	Set(ctx context.Context, jobID string, status string) error
}

// Processor is the whole job body: mark processing, run the crew,
// record completed or failed. One linear sequence, no retries; offsets
// commit at dispatch, so a crash mid-job loses the message and the row
// strands at processing rather than being redelivered.
type Processor struct {
	repo   repository.Repository
	cache  StatusCache
	crew   Crew
	logger *zap.Logger
}

func NewProcessor(repo repository.Repository, cache StatusCache, crew Crew, logger *zap.Logger) *Processor {
	return &Processor{
		repo:   repo,
		cache:  cache,
		crew:   crew,
		logger: logger,
	}
}

func (p *Processor) Process(ctx context.Context, msg *kafka.JobMessage) error {
	log := p.logger.With(
		zap.String("task_id", msg.TaskID),
		zap.String("trace_id", msg.TraceID),
	)
	log.Info("processing job", zap.String("file_path", msg.FilePath))

	if err := p.repo.MarkProcessing(ctx, msg.TaskID); err != nil {
		return err
	}
	p.setStatus(ctx, msg.TaskID, "processing", log)

	result, err := p.crew.Kickoff(ctx, agent.Inputs{
		"path":  msg.FilePath,
		"query": msg.Query,
	})
	if err != nil {
		log.Error("analysis failed", zap.Error(err))
		if failErr := p.repo.Fail(ctx, msg.TaskID, err.Error()); failErr != nil {
			return failErr
		}
		p.setStatus(ctx, msg.TaskID, "failed", log)
		return nil
	}

	if err := p.repo.Complete(ctx, msg.TaskID, result); err != nil {
		return err
	}
	p.setStatus(ctx, msg.TaskID, "completed", log)

	log.Info("job completed", zap.Int("result_bytes", len(result)))
	return nil
}

// setStatus mirrors the status into redis; a cache miss only costs the
// API a row read, so failures are logged and swallowed.
func (p *Processor) setStatus(ctx context.Context, jobID, status string, log *zap.Logger) {
	if err := p.cache.Set(ctx, jobID, status); err != nil {
		log.Warn("status cache update failed", zap.String("status", status), zap.Error(err))
	}
}
