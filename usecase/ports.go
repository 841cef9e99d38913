package usecase

import (
	"context"

	"github.com/halahlab/backend/domain"
)

// Notification is an outbound email rendered by the caller.
type Notification struct {
	To      string
	Subject string
	HTML    string
}

// Notifier abstracts welcome-email delivery so provisioning stays
// transport-agnostic.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// MessageBuffer abstracts the durable fallback for patient messages so
// use cases stay storage-agnostic.
type MessageBuffer interface {
	BufferMessage(ctx context.Context, message *domain.Message) error
}
