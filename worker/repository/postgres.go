package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrJobNotFound = errors.New("job not found")

// Repository is the worker's single write path into the jobs table.
// Status moves pending -> processing -> {completed, failed}; nothing
// else in the system writes after the row is created.
type Repository interface {
	MarkProcessing(ctx context.Context, jobID string) error
	Complete(ctx context.Context, jobID string, result string) error
	Fail(ctx context.Context, jobID string, errMsg string) error
}

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) MarkProcessing(ctx context.Context, jobID string) error {
	query := `UPDATE jobs SET status = 'processing', updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, query, jobID)
}

func (r *PostgresRepo) Complete(ctx context.Context, jobID string, result string) error {
	query := `
		UPDATE jobs
		SET status = 'completed', result = $2, error_message = '', updated_at = NOW(), completed_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, jobID, result)
}

func (r *PostgresRepo) Fail(ctx context.Context, jobID string, errMsg string) error {
	query := `
		UPDATE jobs
		SET status = 'failed', error_message = $2, updated_at = NOW(), completed_at = NOW()
		WHERE id = $1
	`
	return r.exec(ctx, query, jobID, errMsg)
}

func (r *PostgresRepo) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}
