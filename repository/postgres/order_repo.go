package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/halahlab/backend/domain"
	"github.com/halahlab/backend/repository"
)

const orderColumns = `id, patient_id, doctor_id, exam_type_id, is_complete, result_id, created_at`

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation of OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) repository.OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return scanOrder(r.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	query := `
	SELECT ` + orderColumns + `
	FROM orders
	WHERE ($1 = '' OR patient_id = $1)
	  AND ($2::boolean IS NULL OR is_complete = $2)
	ORDER BY created_at ASC
	`
	var complete interface{}
	if filter.Complete != nil {
		complete = *filter.Complete
	}

	rows, err := r.pool.Query(ctx, query, filter.PatientID, complete)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) (string, error) {
	if order == nil {
		return "", domain.ErrInvalidPayload
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO orders (id, patient_id, doctor_id, exam_type_id, is_complete)
	VALUES ($1, $2, $3, $4, FALSE)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		order.ID,
		order.PatientID,
		order.DoctorID,
		order.ExamTypeID,
	).Scan(&order.CreatedAt); err != nil {
		return "", err
	}
	return order.ID, nil
}

func (r *orderRepository) AttachResult(ctx context.Context, orderID, resultID string) error {
	// Guarded on is_complete so the mutation stays one-shot even under
	// concurrent attempts.
	const query = `
	UPDATE orders
	SET is_complete = TRUE, result_id = $2
	WHERE id = $1 AND is_complete = FALSE
	RETURNING id
	`
	var id string
	if err := r.pool.QueryRow(ctx, query, orderID, resultID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewError(domain.ErrCodeConflict, "order missing or already complete")
		}
		return err
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	if err := row.Scan(
		&order.ID,
		&order.PatientID,
		&order.DoctorID,
		&order.ExamTypeID,
		&order.IsComplete,
		&order.ResultID,
		&order.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}
