package repository

import (
	"context"

	"github.com/halahlab/backend/domain"
)

type ResultRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Result, error)
	Create(ctx context.Context, result *domain.Result) (string, error)
}
