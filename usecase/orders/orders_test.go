package orders

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halahlab/backend/domain"
	"github.com/halahlab/backend/repository"
)

type mockOrderRepo struct {
	getByIDFn      func(ctx context.Context, id string) (*domain.Order, error)
	listFn         func(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, error)
	createFn       func(ctx context.Context, order *domain.Order) (string, error)
	attachResultFn func(ctx context.Context, orderID, resultID string) error
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockOrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
	return m.listFn(ctx, filter)
}

func (m *mockOrderRepo) Create(ctx context.Context, order *domain.Order) (string, error) {
	return m.createFn(ctx, order)
}

func (m *mockOrderRepo) AttachResult(ctx context.Context, orderID, resultID string) error {
	return m.attachResultFn(ctx, orderID, resultID)
}

type mockExamRepo struct {
	getByIDFn func(ctx context.Context, id string) (*domain.Exam, error)
}

func (m *mockExamRepo) GetByID(ctx context.Context, id string) (*domain.Exam, error) {
	return m.getByIDFn(ctx, id)
}

type mockResultRepo struct {
	getByIDFn func(ctx context.Context, id string) (*domain.Result, error)
	createFn  func(ctx context.Context, result *domain.Result) (string, error)
}

func (m *mockResultRepo) GetByID(ctx context.Context, id string) (*domain.Result, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockResultRepo) Create(ctx context.Context, result *domain.Result) (string, error) {
	return m.createFn(ctx, result)
}

type mockUserRepo struct {
	getByIDFn     func(ctx context.Context, id string) (*domain.User, error)
	findByLoginFn func(ctx context.Context, login string) (*domain.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserRepo) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	return m.findByLoginFn(ctx, login)
}

func (m *mockUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func (m *mockUserRepo) List(ctx context.Context, matches []repository.FieldMatch) ([]domain.User, error) {
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (string, error) {
	return "", nil
}

func (m *mockUserRepo) Update(ctx context.Context, id string, patch repository.UserPatch) error {
	return nil
}

type mockAnnouncer struct {
	mu        sync.Mutex
	announced []string
	err       error
}

func (m *mockAnnouncer) Announce(ctx context.Context, patientID, text string) error {
	m.mu.Lock()
	m.announced = append(m.announced, text)
	m.mu.Unlock()
	return m.err
}

var (
	bloodExam = &domain.Exam{ID: "exam-1", Name: "Complete Blood Count", ShortName: "CBC", ScheduledDays: 3}
	createdAt = time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)
)

func catalogWith(exam *domain.Exam) *mockExamRepo {
	return &mockExamRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Exam, error) {
			if id == exam.ID {
				return exam, nil
			}
			return nil, domain.ErrExamNotFound
		},
	}
}

func TestCreateOrder(t *testing.T) {
	var stored *domain.Order
	orderRepo := &mockOrderRepo{
		createFn: func(ctx context.Context, order *domain.Order) (string, error) {
			stored = order
			return "order-1", nil
		},
	}
	announcer := &mockAnnouncer{}
	uc := New(orderRepo, catalogWith(bloodExam), &mockUserRepo{}, &mockResultRepo{}, announcer, nil)

	id, err := uc.CreateOrder(context.Background(), CreateInput{
		PatientID:  "patient-1",
		DoctorID:   "doctor-1",
		ExamTypeID: "exam-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "order-1", id)
	require.NotNil(t, stored)
	assert.False(t, stored.IsComplete)

	require.Len(t, announcer.announced, 1)
	assert.Equal(t, "Complete Blood Count test has been scheduled. Already available for more details", announcer.announced[0])
}

func TestCreateOrderUnknownExam(t *testing.T) {
	uc := New(&mockOrderRepo{}, catalogWith(bloodExam), &mockUserRepo{}, &mockResultRepo{}, &mockAnnouncer{}, nil)

	_, err := uc.CreateOrder(context.Background(), CreateInput{
		PatientID:  "patient-1",
		DoctorID:   "doctor-1",
		ExamTypeID: "exam-unknown",
	})
	assert.ErrorIs(t, err, domain.ErrExamNotFound)
}

func TestCreateOrderMissingFields(t *testing.T) {
	uc := New(&mockOrderRepo{}, catalogWith(bloodExam), &mockUserRepo{}, &mockResultRepo{}, &mockAnnouncer{}, nil)

	_, err := uc.CreateOrder(context.Background(), CreateInput{PatientID: "patient-1"})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestCreateOrderAnnounceFailureIsNotFatal(t *testing.T) {
	orderRepo := &mockOrderRepo{
		createFn: func(ctx context.Context, order *domain.Order) (string, error) {
			return "order-2", nil
		},
	}
	announcer := &mockAnnouncer{err: errors.New("feed unavailable")}
	uc := New(orderRepo, catalogWith(bloodExam), &mockUserRepo{}, &mockResultRepo{}, announcer, nil)

	id, err := uc.CreateOrder(context.Background(), CreateInput{
		PatientID:  "patient-1",
		DoctorID:   "doctor-1",
		ExamTypeID: "exam-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "order-2", id)
}

func TestListOrdersEmptyIsNotFound(t *testing.T) {
	orderRepo := &mockOrderRepo{
		listFn: func(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
			return nil, nil
		},
	}
	uc := New(orderRepo, catalogWith(bloodExam), &mockUserRepo{}, &mockResultRepo{}, nil, nil)

	_, err := uc.ListOrders(context.Background(), Query{PatientID: "patient-1"})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	assert.EqualError(t, err, "there are no tests for this patient")
}

func TestListOrdersResolvesUsername(t *testing.T) {
	var captured repository.OrderFilter
	orderRepo := &mockOrderRepo{
		listFn: func(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
			captured = filter
			return []domain.Order{{ID: "order-1", PatientID: "patient-9"}}, nil
		},
	}
	users := &mockUserRepo{
		findByLoginFn: func(ctx context.Context, login string) (*domain.User, error) {
			require.Equal(t, "lauramartinez105384712", login)
			return &domain.User{ID: "patient-9"}, nil
		},
	}
	uc := New(orderRepo, catalogWith(bloodExam), users, &mockResultRepo{}, nil, nil)

	list, err := uc.ListOrders(context.Background(), Query{Username: "lauramartinez105384712"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "patient-9", captured.PatientID)
}

func TestAttachResult(t *testing.T) {
	attached := false
	orderRepo := &mockOrderRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Order, error) {
			return &domain.Order{ID: id, IsComplete: false}, nil
		},
		attachResultFn: func(ctx context.Context, orderID, resultID string) error {
			attached = true
			assert.Equal(t, "result-1", resultID)
			return nil
		},
	}
	resultRepo := &mockResultRepo{
		createFn: func(ctx context.Context, result *domain.Result) (string, error) {
			assert.Equal(t, "order-1", result.OrderID)
			assert.Equal(t, "bact-1", result.BacteriologistID)
			return "result-1", nil
		},
	}
	uc := New(orderRepo, catalogWith(bloodExam), &mockUserRepo{}, resultRepo, nil, nil)

	resultID, err := uc.AttachResult(context.Background(), "order-1", "bact-1", json.RawMessage(`{"hemoglobin":14.2}`))
	require.NoError(t, err)
	assert.Equal(t, "result-1", resultID)
	assert.True(t, attached)
}

func TestAttachResultConflictOnCompleteOrder(t *testing.T) {
	resultID := "result-1"
	orderRepo := &mockOrderRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Order, error) {
			return &domain.Order{ID: id, IsComplete: true, ResultID: &resultID}, nil
		},
	}
	uc := New(orderRepo, catalogWith(bloodExam), &mockUserRepo{}, &mockResultRepo{}, nil, nil)

	_, err := uc.AttachResult(context.Background(), "order-1", "bact-1", nil)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
}

func TestGetOrderDetailPending(t *testing.T) {
	orderRepo := &mockOrderRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Order, error) {
			return &domain.Order{
				ID:         id,
				PatientID:  "patient-1",
				DoctorID:   "doctor-1",
				ExamTypeID: "exam-1",
				CreatedAt:  createdAt,
			}, nil
		},
	}
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			switch id {
			case "doctor-1":
				return &domain.User{ID: id, FirstName: "Greg", LastName: "House", DocumentID: "900"}, nil
			case "patient-1":
				return &domain.User{ID: id, FirstName: "Laura", LastName: "Martínez"}, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
	uc := New(orderRepo, catalogWith(bloodExam), users, &mockResultRepo{}, nil, nil)

	detail, err := uc.GetOrderDetail(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Equal(t, "Complete Blood Count", detail.Name)
	assert.Equal(t, "CBC", detail.ShortName)
	assert.False(t, detail.IsComplete)
	assert.Equal(t, "Greg", detail.Doctor.FirstName)
	assert.Equal(t, "900", detail.Doctor.DocumentID)
	assert.Equal(t, "Laura", detail.Patient.FirstName)
	assert.Equal(t, time.Date(2023, 1, 4, 10, 0, 0, 0, time.UTC), detail.AppointmentDate)

	// A pending order serializes without any result fields.
	raw, err := json.Marshal(detail)
	require.NoError(t, err)
	var asMap map[string]any
	require.NoError(t, json.Unmarshal(raw, &asMap))
	assert.NotContains(t, asMap, "bacteriologist")
	assert.NotContains(t, asMap, "resultDate")
	assert.NotContains(t, asMap, "resultId")
}

func TestGetOrderDetailComplete(t *testing.T) {
	resultID := "result-1"
	resultDate := createdAt.Add(48 * time.Hour)
	orderRepo := &mockOrderRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Order, error) {
			return &domain.Order{
				ID:         id,
				PatientID:  "patient-1",
				DoctorID:   "doctor-1",
				ExamTypeID: "exam-1",
				IsComplete: true,
				ResultID:   &resultID,
				CreatedAt:  createdAt,
			}, nil
		},
	}
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			switch id {
			case "doctor-1":
				return &domain.User{ID: id, FirstName: "Greg", LastName: "House", DocumentID: "900"}, nil
			case "patient-1":
				return &domain.User{ID: id, FirstName: "Laura", LastName: "Martínez"}, nil
			case "bact-1":
				return &domain.User{ID: id, FirstName: "Alec", LastName: "Jeffreys", DocumentID: "800"}, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
	results := &mockResultRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Result, error) {
			require.Equal(t, resultID, id)
			return &domain.Result{ID: id, OrderID: "order-1", BacteriologistID: "bact-1", CreatedAt: resultDate}, nil
		},
	}
	uc := New(orderRepo, catalogWith(bloodExam), users, results, nil, nil)

	detail, err := uc.GetOrderDetail(context.Background(), "order-1")
	require.NoError(t, err)

	assert.True(t, detail.IsComplete)
	require.NotNil(t, detail.Bacteriologist)
	assert.Equal(t, "Alec", detail.Bacteriologist.FirstName)
	require.NotNil(t, detail.ResultDate)
	assert.Equal(t, resultDate, *detail.ResultDate)
	require.NotNil(t, detail.ResultID)
	assert.Equal(t, resultID, *detail.ResultID)

	raw, err := json.Marshal(detail)
	require.NoError(t, err)
	var asMap map[string]any
	require.NoError(t, json.Unmarshal(raw, &asMap))
	assert.Contains(t, asMap, "bacteriologist")
	assert.Contains(t, asMap, "resultDate")
	assert.Contains(t, asMap, "resultId")
}

func TestGetOrderDetailCompleteWithoutResultRef(t *testing.T) {
	orderRepo := &mockOrderRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Order, error) {
			return &domain.Order{ID: id, DoctorID: "doctor-1", PatientID: "patient-1", ExamTypeID: "exam-1", IsComplete: true}, nil
		},
	}
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id}, nil
		},
	}
	uc := New(orderRepo, catalogWith(bloodExam), users, &mockResultRepo{}, nil, nil)

	_, err := uc.GetOrderDetail(context.Background(), "order-1")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInternal))
}

func TestListOrderSummariesKeepsOrdering(t *testing.T) {
	resultID := "result-1"
	resultDate := createdAt.Add(24 * time.Hour)
	orderRepo := &mockOrderRepo{
		listFn: func(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
			return []domain.Order{
				{ID: "order-1", ExamTypeID: "exam-1", CreatedAt: createdAt},
				{ID: "order-2", ExamTypeID: "exam-1", IsComplete: true, ResultID: &resultID, CreatedAt: createdAt.Add(time.Hour)},
				{ID: "order-3", ExamTypeID: "exam-1", CreatedAt: createdAt.Add(2 * time.Hour)},
			}, nil
		},
	}
	results := &mockResultRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Result, error) {
			return &domain.Result{ID: id, CreatedAt: resultDate}, nil
		},
	}
	uc := New(orderRepo, catalogWith(bloodExam), &mockUserRepo{}, results, nil, nil)

	summaries, err := uc.ListOrderSummaries(context.Background(), Query{PatientID: "patient-1"})
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, []string{"order-1", "order-2", "order-3"},
		[]string{summaries[0].ID, summaries[1].ID, summaries[2].ID})

	assert.Nil(t, summaries[0].ResultDate)
	assert.Nil(t, summaries[0].ResultID)
	require.NotNil(t, summaries[1].ResultDate)
	assert.Equal(t, resultDate, *summaries[1].ResultDate)
	assert.Equal(t, resultID, *summaries[1].ResultID)
	assert.Nil(t, summaries[2].ResultID)

	for _, s := range summaries {
		assert.Equal(t, "Complete Blood Count", s.Name)
		assert.Equal(t, s.CreatedAt.Add(3*24*time.Hour), s.AppointmentDate)
	}
}

func TestListOrderSummariesEnrichmentFailure(t *testing.T) {
	orderRepo := &mockOrderRepo{
		listFn: func(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, error) {
			return []domain.Order{{ID: "order-1", ExamTypeID: "exam-missing"}}, nil
		},
	}
	uc := New(orderRepo, catalogWith(bloodExam), &mockUserRepo{}, &mockResultRepo{}, nil, nil)

	_, err := uc.ListOrderSummaries(context.Background(), Query{PatientID: "patient-1"})
	assert.ErrorIs(t, err, domain.ErrExamNotFound)
}
