package services

import (
	"context"
	"encoding/json"

	"github.com/halahlab/backend/domain"
	"github.com/halahlab/backend/internal/infrastructure/buffer"
	"github.com/halahlab/backend/usecase"
)

// BufferBridge adapts the message processor to the usecase-facing
// MessageBuffer port.
type BufferBridge struct {
	processor *MessageProcessor
}

func NewBufferBridge(processor *MessageProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferMessage(ctx context.Context, message *domain.Message) error {
	if b.processor == nil || message == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return b.processor.Buffer(buffer.Item{
		ID:        message.ID,
		PatientID: message.PatientID,
		Data:      payload,
	})
}

var _ usecase.MessageBuffer = (*BufferBridge)(nil)
