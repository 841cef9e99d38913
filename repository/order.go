package repository

import (
	"context"

	"github.com/halahlab/backend/domain"
)

// OrderFilter narrows an order listing. Zero values mean "any".
type OrderFilter struct {
	PatientID string
	Complete  *bool
}

type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, error)
	Create(ctx context.Context, order *domain.Order) (string, error)
	// AttachResult flips the completion flag and sets the result
	// reference; it is the single mutation an order ever receives.
	AttachResult(ctx context.Context, orderID, resultID string) error
}
