package repository

import (
	"context"

	"finanalyzer/api/models"
)

type Repository interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
}
