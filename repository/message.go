package repository

import (
	"context"

	"github.com/halahlab/backend/domain"
)

type MessageRepository interface {
	ListByPatient(ctx context.Context, patientID string) ([]domain.Message, error)
	Create(ctx context.Context, message *domain.Message) (string, error)
}
