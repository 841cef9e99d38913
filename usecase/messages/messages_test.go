package messages

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halahlab/backend/domain"
)

type mockMessageRepo struct {
	listFn   func(ctx context.Context, patientID string) ([]domain.Message, error)
	createFn func(ctx context.Context, message *domain.Message) (string, error)
}

func (m *mockMessageRepo) ListByPatient(ctx context.Context, patientID string) ([]domain.Message, error) {
	return m.listFn(ctx, patientID)
}

func (m *mockMessageRepo) Create(ctx context.Context, message *domain.Message) (string, error) {
	return m.createFn(ctx, message)
}

type mockBuffer struct {
	buffered []*domain.Message
	err      error
}

func (m *mockBuffer) BufferMessage(ctx context.Context, message *domain.Message) error {
	m.buffered = append(m.buffered, message)
	return m.err
}

func TestAnnounce(t *testing.T) {
	var stored *domain.Message
	repo := &mockMessageRepo{
		createFn: func(ctx context.Context, message *domain.Message) (string, error) {
			stored = message
			return "msg-1", nil
		},
	}
	buffer := &mockBuffer{}
	uc := New(repo, buffer, nil)

	err := uc.Announce(context.Background(), "patient-1", "CBC test has been scheduled")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "patient-1", stored.PatientID)
	assert.Empty(t, buffer.buffered, "healthy store path must not touch the buffer")
}

func TestAnnounceBuffersOnStoreError(t *testing.T) {
	repo := &mockMessageRepo{
		createFn: func(ctx context.Context, message *domain.Message) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	buffer := &mockBuffer{}
	uc := New(repo, buffer, nil)

	err := uc.Announce(context.Background(), "patient-1", "CBC test has been scheduled")
	require.NoError(t, err, "a buffered announcement is a success")
	require.Len(t, buffer.buffered, 1)
	assert.Equal(t, "patient-1", buffer.buffered[0].PatientID)
}

func TestAnnounceFailsWhenBufferAlsoFails(t *testing.T) {
	storeErr := errors.New("connection refused")
	repo := &mockMessageRepo{
		createFn: func(ctx context.Context, message *domain.Message) (string, error) {
			return "", storeErr
		},
	}
	buffer := &mockBuffer{err: errors.New("disk full")}
	uc := New(repo, buffer, nil)

	err := uc.Announce(context.Background(), "patient-1", "CBC test has been scheduled")
	assert.ErrorIs(t, err, storeErr)
}

func TestAnnounceRejectsEmptyInput(t *testing.T) {
	uc := New(&mockMessageRepo{}, &mockBuffer{}, nil)

	assert.ErrorIs(t, uc.Announce(context.Background(), "", "text"), domain.ErrInvalidPayload)
	assert.ErrorIs(t, uc.Announce(context.Background(), "patient-1", ""), domain.ErrInvalidPayload)
}

func TestListByPatient(t *testing.T) {
	repo := &mockMessageRepo{
		listFn: func(ctx context.Context, patientID string) ([]domain.Message, error) {
			return []domain.Message{{ID: "msg-1", PatientID: patientID}}, nil
		},
	}
	uc := New(repo, nil, nil)

	feed, err := uc.ListByPatient(context.Background(), "patient-1")
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestListByPatientEmptyFeedIsNormal(t *testing.T) {
	repo := &mockMessageRepo{
		listFn: func(ctx context.Context, patientID string) ([]domain.Message, error) {
			return []domain.Message{}, nil
		},
	}
	uc := New(repo, nil, nil)

	feed, err := uc.ListByPatient(context.Background(), "patient-1")
	require.NoError(t, err)
	assert.Empty(t, feed)
}
