package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/halahlab/backend/domain"
	"github.com/halahlab/backend/repository"
)

type examRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository returns a Postgres-backed reader for the exam catalog.
func NewExamRepository(pool *pgxpool.Pool) repository.ExamRepository {
	return &examRepository{pool: pool}
}

func (r *examRepository) GetByID(ctx context.Context, id string) (*domain.Exam, error) {
	const query = `SELECT id, name, short_name, scheduled_days FROM exams WHERE id = $1`

	var exam domain.Exam
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&exam.ID,
		&exam.Name,
		&exam.ShortName,
		&exam.ScheduledDays,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExamNotFound
		}
		return nil, err
	}
	return &exam, nil
}
