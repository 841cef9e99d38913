// Package messages maintains per-patient notification feeds. Writes
// fall back to the durable buffer when the primary store is down, so a
// booked test never loses its announcement.
package messages

import (
	"context"

	"go.uber.org/zap"

	"github.com/halahlab/backend/domain"
	"github.com/halahlab/backend/repository"
	"github.com/halahlab/backend/usecase"
)

type UseCase struct {
	messages repository.MessageRepository
	buffer   usecase.MessageBuffer
	logger   *zap.Logger
}

func New(messages repository.MessageRepository, buffer usecase.MessageBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		messages: messages,
		buffer:   buffer,
		logger:   logger,
	}
}

// Announce appends a message to the patient's feed, buffering it when
// the store rejects the write.
func (uc *UseCase) Announce(ctx context.Context, patientID, text string) error {
	if patientID == "" || text == "" {
		return domain.ErrInvalidPayload
	}

	message := &domain.Message{PatientID: patientID, Text: text}
	if _, err := uc.messages.Create(ctx, message); err != nil {
		if uc.buffer == nil {
			return err
		}
		if bufErr := uc.buffer.BufferMessage(ctx, message); bufErr != nil {
			uc.logger.Error("failed to buffer message", zap.Error(bufErr))
			return err
		}
		uc.logger.Warn("message buffered due to store error", zap.Error(err))
	}
	return nil
}

// ListByPatient returns the patient's feed, newest first. An empty feed
// is a normal outcome, not an error.
func (uc *UseCase) ListByPatient(ctx context.Context, patientID string) ([]domain.Message, error) {
	if patientID == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "patient id is required")
	}
	return uc.messages.ListByPatient(ctx, patientID)
}
