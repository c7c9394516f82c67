package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finanalyzer/api/dto"
	"finanalyzer/api/kafka"
	"finanalyzer/api/models"
)

type fakeRepo struct {
	jobs      map[string]*models.Job
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{jobs: make(map[string]*models.Job)}
}

func (f *fakeRepo) CreateJob(ctx context.Context, job *models.Job) error {
	if f.createErr != nil {
		return f.createErr
	}
	job.ID = uuid.New().String()
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeRepo) GetJob(ctx context.Context, id string) (*models.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, dto.ErrJobNotFound
	}
	return job, nil
}

type fakeCache struct {
	statuses map[string]models.JobStatus
}

func newFakeCache() *fakeCache {
	return &fakeCache{statuses: make(map[string]models.JobStatus)}
}

func (f *fakeCache) Get(ctx context.Context, jobID string) (models.JobStatus, error) {
	status, ok := f.statuses[jobID]
	if !ok {
		return "", errors.New("cache miss")
	}
	return status, nil
}

func (f *fakeCache) Set(ctx context.Context, jobID string, status models.JobStatus) error {
	f.statuses[jobID] = status
	return nil
}

type fakeProducer struct {
	sent    []*kafka.JobMessage
	sendErr error
}

func (f *fakeProducer) SendJobMessage(ctx context.Context, topic string, msg *kafka.JobMessage) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func TestCreateJob_PersistsCachesAndPublishes(t *testing.T) {
	repo := newFakeRepo()
	statusCache := newFakeCache()
	producer := &fakeProducer{}
	svc := NewJobService(repo, statusCache, producer, "analysis_jobs")

	resp, err := svc.CreateJob(context.Background(), "trace-1", &dto.CreateJobRequest{
		OriginalFilename: "report.pdf",
		FilePath:         "data/abc.pdf",
		Query:            "What is the operating margin?",
	})
	require.NoError(t, err)

	assert.Equal(t, "processing", resp.Status)
	assert.NotEmpty(t, resp.TaskID)
	assert.Equal(t, "data/abc.pdf", resp.FilePath)

	job := repo.jobs[resp.TaskID]
	require.NotNil(t, job)
	assert.Equal(t, models.StatusPending, job.Status)
	assert.Equal(t, "trace-1", job.TraceID)

	assert.Equal(t, models.StatusPending, statusCache.statuses[resp.TaskID])

	require.Len(t, producer.sent, 1)
	assert.Equal(t, resp.TaskID, producer.sent[0].TaskID)
	assert.Equal(t, "What is the operating margin?", producer.sent[0].Query)
}

func TestCreateJob_ProducerError(t *testing.T) {
	svc := NewJobService(newFakeRepo(), newFakeCache(), &fakeProducer{sendErr: errors.New("broker down")}, "analysis_jobs")

	_, err := svc.CreateJob(context.Background(), "trace-1", &dto.CreateJobRequest{FilePath: "data/x.pdf"})
	require.Error(t, err)
}

func TestGetJobStatus_CacheFastPathForInFlight(t *testing.T) {
	repo := newFakeRepo()
	statusCache := newFakeCache()
	svc := NewJobService(repo, statusCache, &fakeProducer{}, "analysis_jobs")

	id := uuid.New().String()
	statusCache.statuses[id] = models.StatusProcessing

	// Not in the repo at all; cache alone must answer.
	resp, err := svc.GetJobStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "processing", resp.Status)
	assert.Empty(t, resp.Result)
}

func TestGetJobStatus_TerminalAlwaysReadsRow(t *testing.T) {
	repo := newFakeRepo()
	statusCache := newFakeCache()
	svc := NewJobService(repo, statusCache, &fakeProducer{}, "analysis_jobs")

	job := &models.Job{Status: models.StatusCompleted, Result: "Net income doubled."}
	require.NoError(t, repo.CreateJob(context.Background(), job))
	statusCache.statuses[job.ID] = models.StatusCompleted

	resp, err := svc.GetJobStatus(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "Net income doubled.", resp.Result)
}

func TestGetJobStatus_FailedIncludesError(t *testing.T) {
	repo := newFakeRepo()
	svc := NewJobService(repo, newFakeCache(), &fakeProducer{}, "analysis_jobs")

	job := &models.Job{Status: models.StatusFailed, ErrorMessage: "tool \"financial_document_reader\": no readable text"}
	require.NoError(t, repo.CreateJob(context.Background(), job))

	resp, err := svc.GetJobStatus(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "failed", resp.Status)
	assert.NotEmpty(t, resp.Error)
	assert.Empty(t, resp.Result)
}

func TestGetJobStatus_UnknownID(t *testing.T) {
	svc := NewJobService(newFakeRepo(), newFakeCache(), &fakeProducer{}, "analysis_jobs")

	_, err := svc.GetJobStatus(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, dto.ErrJobNotFound)
}

func TestGetJobStatus_MalformedID(t *testing.T) {
	svc := NewJobService(newFakeRepo(), newFakeCache(), &fakeProducer{}, "analysis_jobs")

	// Not a UUID; must come back as not-found, not reach the database.
	_, err := svc.GetJobStatus(context.Background(), "abc123'; DROP TABLE jobs;--")
	assert.ErrorIs(t, err, dto.ErrJobNotFound)
}
