package repository

import (
	"context"

	"github.com/halahlab/backend/domain"
)

// ExamRepository reads the static exam catalog.
type ExamRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Exam, error)
}
