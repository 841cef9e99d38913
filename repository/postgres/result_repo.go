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

type resultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository returns a Postgres-backed implementation of ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) repository.ResultRepository {
	return &resultRepository{pool: pool}
}

func (r *resultRepository) GetByID(ctx context.Context, id string) (*domain.Result, error) {
	const query = `SELECT id, order_id, bacteriologist_id, payload, created_at FROM results WHERE id = $1`

	var result domain.Result
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&result.ID,
		&result.OrderID,
		&result.BacteriologistID,
		&result.Payload,
		&result.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrResultNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) Create(ctx context.Context, result *domain.Result) (string, error) {
	if result == nil {
		return "", domain.ErrInvalidPayload
	}
	if result.ID == "" {
		result.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO results (id, order_id, bacteriologist_id, payload)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		result.ID,
		result.OrderID,
		result.BacteriologistID,
		result.Payload,
	).Scan(&result.CreatedAt); err != nil {
		return "", err
	}
	return result.ID, nil
}
