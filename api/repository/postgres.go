package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"finanalyzer/api/database"
	"finanalyzer/api/dto"
	"finanalyzer/api/models"
)

type PostgresRepo struct {
	db *database.DB
}

func NewPostgresRepo(db *database.DB) Repository {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateJob(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (trace_id, original_filename, file_path, query, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		job.TraceID,
		job.OriginalFilename,
		job.FilePath,
		job.Query,
		job.Status,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return err
	}

	return nil
}

func (r *PostgresRepo) GetJob(ctx context.Context, id string) (*models.Job, error) {
	query := `
		SELECT id, trace_id, original_filename, file_path, query, status, result, error_message,
		       created_at, updated_at, completed_at
		FROM jobs
		WHERE id = $1
	`

	var job models.Job
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.TraceID,
		&job.OriginalFilename,
		&job.FilePath,
		&job.Query,
		&job.Status,
		&job.Result,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dto.ErrJobNotFound
		}
		return nil, err
	}

	return &job, nil
}
