package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/halahlab/backend/domain"
	"github.com/halahlab/backend/repository"
)

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository returns a Postgres-backed implementation of MessageRepository.
func NewMessageRepository(pool *pgxpool.Pool) repository.MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) ListByPatient(ctx context.Context, patientID string) ([]domain.Message, error) {
	const query = `
	SELECT id, patient_id, text, created_at
	FROM messages
	WHERE patient_id = $1
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.PatientID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) (string, error) {
	if message == nil {
		return "", domain.ErrInvalidPayload
	}
	if message.ID == "" {
		message.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO messages (id, patient_id, text, created_at)
	VALUES ($1, $2, $3, COALESCE($4, NOW()))
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		message.ID,
		message.PatientID,
		message.Text,
		nullTime(message.CreatedAt),
	).Scan(&message.CreatedAt); err != nil {
		return "", err
	}
	return message.ID, nil
}
