package pool

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"finanalyzer/worker/kafka"
)

// WorkerPool caps how many analysis jobs run at once. An LLM call plus
// a document extraction is expensive; the semaphore keeps the worker
// from taking the whole partition's backlog concurrently.
type WorkerPool struct {
	sem    chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
}

func NewWorkerPool(maxWorkers int, logger *zap.Logger) *WorkerPool {
	return &WorkerPool{
		sem:    make(chan struct{}, maxWorkers),
		logger: logger,
	}
}

// Submit runs the handler asynchronously. Jobs are dispatched
// fire-and-forget, so a handler error has no caller left to reach; it
// is logged here instead of being dropped.
func (p *WorkerPool) Submit(ctx context.Context, msg *kafka.JobMessage, handler func(context.Context, *kafka.JobMessage) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		select {
		case p.sem <- struct{}{}:
			defer func() { <-p.sem }()
			if err := handler(ctx, msg); err != nil {
				p.logger.Error("job handler failed",
					zap.String("task_id", msg.TaskID),
					zap.String("trace_id", msg.TraceID),
					zap.Error(err),
				)
			}
		case <-ctx.Done():
		}
	}()
}

func (p *WorkerPool) Wait() {
	p.wg.Wait()
}
