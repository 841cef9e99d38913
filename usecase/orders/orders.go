// Package orders persists test orders and composes the enriched views
// served to clients: a single order merged with its exam definition,
// participants and (when complete) its result.
package orders

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/halahlab/backend/domain"
	"github.com/halahlab/backend/repository"
)

// Announcer pushes a notification into a patient's message feed after
// an order is booked. Delivery is best-effort from this package's
// perspective; the implementation owns durability.
type Announcer interface {
	Announce(ctx context.Context, patientID, text string) error
}

type UseCase struct {
	orders    repository.OrderRepository
	exams     repository.ExamRepository
	users     repository.UserRepository
	results   repository.ResultRepository
	announcer Announcer
	logger    *zap.Logger
}

func New(
	orders repository.OrderRepository,
	exams repository.ExamRepository,
	users repository.UserRepository,
	results repository.ResultRepository,
	announcer Announcer,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		orders:    orders,
		exams:     exams,
		users:     users,
		results:   results,
		announcer: announcer,
		logger:    logger,
	}
}

// CreateInput is the payload for booking a test.
type CreateInput struct {
	PatientID  string `json:"patientId"`
	DoctorID   string `json:"doctorId"`
	ExamTypeID string `json:"examTypeId"`
}

// Validate checks the order payload shape.
func (in CreateInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.PatientID) == "" {
		missing = append(missing, "patientId")
	}
	if strings.TrimSpace(in.DoctorID) == "" {
		missing = append(missing, "doctorId")
	}
	if strings.TrimSpace(in.ExamTypeID) == "" {
		missing = append(missing, "examTypeId")
	}
	if len(missing) > 0 {
		return domain.NewError(domain.ErrCodeInvalid, "missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}

// CreateOrder validates and persists a new order, then announces the
// scheduled test to the patient. The announcement is not allowed to
// fail the booking: the announcer buffers on store trouble, and any
// residual failure is logged.
func (uc *UseCase) CreateOrder(ctx context.Context, in CreateInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	exam, err := uc.exams.GetByID(ctx, in.ExamTypeID)
	if err != nil {
		return "", err
	}

	id, err := uc.orders.Create(ctx, &domain.Order{
		PatientID:  in.PatientID,
		DoctorID:   in.DoctorID,
		ExamTypeID: in.ExamTypeID,
	})
	if err != nil {
		return "", err
	}

	if uc.announcer != nil {
		text := exam.Name + " test has been scheduled. Already available for more details"
		if err := uc.announcer.Announce(ctx, in.PatientID, text); err != nil {
			uc.logger.Error("order announcement failed",
				zap.String("order_id", id), zap.Error(err))
		}
	}

	return id, nil
}

// GetOrder fetches a single raw order record.
func (uc *UseCase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return uc.orders.GetByID(ctx, id)
}

// Query narrows a listing. Patient may be a user id or, when Username
// is set, is resolved through the user store first.
type Query struct {
	PatientID string
	Username  string
	Complete  *bool
}

// ListOrders returns the raw order records matching the query. An empty
// result set is reported as not found.
func (uc *UseCase) ListOrders(ctx context.Context, q Query) ([]domain.Order, error) {
	patientID := q.PatientID
	if q.Username != "" {
		user, err := uc.users.FindByLogin(ctx, q.Username)
		if err != nil {
			return nil, err
		}
		patientID = user.ID
	}

	list, err := uc.orders.List(ctx, repository.OrderFilter{
		PatientID: patientID,
		Complete:  q.Complete,
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.NewError(domain.ErrCodeNotFound, "there are no tests for this patient")
	}
	return list, nil
}

// AttachResult records a result for a pending order and marks it
// complete. This is the single mutation an order receives.
func (uc *UseCase) AttachResult(ctx context.Context, orderID, bacteriologistID string, payload []byte) (string, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.IsComplete {
		return "", domain.NewError(domain.ErrCodeConflict, "order already has a result")
	}

	resultID, err := uc.results.Create(ctx, &domain.Result{
		OrderID:          orderID,
		BacteriologistID: bacteriologistID,
		Payload:          payload,
	})
	if err != nil {
		return "", err
	}

	if err := uc.orders.AttachResult(ctx, orderID, resultID); err != nil {
		return "", err
	}
	return resultID, nil
}
