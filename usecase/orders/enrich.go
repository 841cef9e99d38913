package orders

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/halahlab/backend/domain"
)

// GetOrderDetail composes the full client-facing view of one order:
// exam definition, doctor and patient summaries, the derived
// appointment date and, for complete orders only, the result fields.
func (uc *UseCase) GetOrderDetail(ctx context.Context, id string) (*domain.OrderDetail, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.enrichDetail(ctx, order)
}

// ListOrderSummaries lists matching orders as enriched summaries. Items
// are enriched concurrently; output ordering matches the store's.
func (uc *UseCase) ListOrderSummaries(ctx context.Context, q Query) ([]domain.OrderSummary, error) {
	list, err := uc.ListOrders(ctx, q)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.OrderSummary, len(list))
	g, gctx := errgroup.WithContext(ctx)
	for i, order := range list {
		i, order := i, order
		g.Go(func() error {
			summary, err := uc.enrichSummary(gctx, &order)
			if err != nil {
				return err
			}
			summaries[i] = *summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (uc *UseCase) enrichDetail(ctx context.Context, order *domain.Order) (*domain.OrderDetail, error) {
	exam, err := uc.exams.GetByID(ctx, order.ExamTypeID)
	if err != nil {
		return nil, err
	}
	doctor, err := uc.users.GetByID(ctx, order.DoctorID)
	if err != nil {
		return nil, err
	}
	patient, err := uc.users.GetByID(ctx, order.PatientID)
	if err != nil {
		return nil, err
	}

	detail := &domain.OrderDetail{
		ID:         order.ID,
		Name:       exam.Name,
		ShortName:  exam.ShortName,
		IsComplete: order.IsComplete,
		Doctor: domain.DoctorSummary{
			DocumentID: doctor.DocumentID,
			FirstName:  doctor.FirstName,
			LastName:   doctor.LastName,
		},
		Patient: domain.PatientSummary{
			FirstName: patient.FirstName,
			LastName:  patient.LastName,
		},
		AppointmentDate: domain.AppointmentDate(order, exam),
		CreatedAt:       order.CreatedAt,
	}

	if !order.IsComplete {
		return detail, nil
	}

	result, bacteriologist, err := uc.fetchResult(ctx, order)
	if err != nil {
		return nil, err
	}
	detail.Bacteriologist = &domain.DoctorSummary{
		DocumentID: bacteriologist.DocumentID,
		FirstName:  bacteriologist.FirstName,
		LastName:   bacteriologist.LastName,
	}
	resultDate := result.CreatedAt
	detail.ResultDate = &resultDate
	detail.ResultID = order.ResultID

	return detail, nil
}

func (uc *UseCase) enrichSummary(ctx context.Context, order *domain.Order) (*domain.OrderSummary, error) {
	exam, err := uc.exams.GetByID(ctx, order.ExamTypeID)
	if err != nil {
		return nil, err
	}

	summary := &domain.OrderSummary{
		ID:              order.ID,
		Name:            exam.Name,
		ShortName:       exam.ShortName,
		IsComplete:      order.IsComplete,
		AppointmentDate: domain.AppointmentDate(order, exam),
		CreatedAt:       order.CreatedAt,
	}

	if !order.IsComplete {
		return summary, nil
	}

	if order.ResultID == nil {
		return nil, domain.NewError(domain.ErrCodeInternal, "complete order lacks a result reference")
	}
	result, err := uc.results.GetByID(ctx, *order.ResultID)
	if err != nil {
		return nil, err
	}
	resultDate := result.CreatedAt
	summary.ResultDate = &resultDate
	summary.ResultID = order.ResultID

	return summary, nil
}

// fetchResult loads the result referenced by a complete order and its
// creator. A complete order without a result reference breaks the order
// integrity invariant and is reported as an internal fault.
func (uc *UseCase) fetchResult(ctx context.Context, order *domain.Order) (*domain.Result, *domain.User, error) {
	if order.ResultID == nil {
		return nil, nil, domain.NewError(domain.ErrCodeInternal, "complete order lacks a result reference")
	}
	result, err := uc.results.GetByID(ctx, *order.ResultID)
	if err != nil {
		return nil, nil, err
	}
	bacteriologist, err := uc.users.GetByID(ctx, result.BacteriologistID)
	if err != nil {
		return nil, nil, err
	}
	return result, bacteriologist, nil
}
