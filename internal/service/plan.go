package service

import (
	"context"
	"time"

	"github.com/edledger/edledger/internal/api/dto"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
)

// PlanService manages installment schedules agreed against invoices
type PlanService interface {
	CreatePlan(ctx context.Context, req *dto.CreatePaymentPlanRequest) (*dto.PaymentPlanResponse, error)
	GetPlan(ctx context.Context, id string) (*dto.PaymentPlanResponse, error)
	UpdatePlan(ctx context.Context, id string, req *dto.UpdatePaymentPlanRequest) (*dto.PaymentPlanResponse, error)
	CancelPlan(ctx context.Context, id string) (*dto.PaymentPlanResponse, error)
	DeletePlan(ctx context.Context, id string) error
	ListPlans(ctx context.Context, filter *types.PaymentPlanFilter) (*dto.ListPaymentPlansResponse, error)
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{
		ServiceParams: params,
	}
}

func (s *planService) CreatePlan(ctx context.Context, req *dto.CreatePaymentPlanRequest) (*dto.PaymentPlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.GetByInvoiceNumber(ctx, req.InvoiceNumber)
	if err != nil {
		return nil, err
	}

	if !inv.Editable() {
		return nil, ierr.NewError("invoice is forwarded").
			WithHint("Cannot schedule a plan on a forwarded invoice").
			WithReportableDetails(map[string]any{
				"invoice_number": inv.InvoiceNumber,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	if !inv.BalanceDue.IsPositive() {
		return nil, ierr.NewError("invoice has no balance due").
			WithHint("Only invoices with an outstanding balance can be scheduled").
			WithReportableDetails(map[string]any{
				"invoice_number": inv.InvoiceNumber,
				"balance_due":    inv.BalanceDue.String(),
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	// One live schedule per invoice
	existingFilter := types.NewNoLimitPaymentPlanFilter()
	existingFilter.InvoiceNumber = inv.InvoiceNumber
	existingFilter.PlanStatus = types.PaymentPlanStatusActive
	existing, err := s.PlanRepo.Count(ctx, existingFilter)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ierr.NewError("invoice already has an active plan").
			WithHint("Cancel the existing plan before scheduling a new one").
			WithReportableDetails(map[string]any{
				"invoice_number": inv.InvoiceNumber,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	p := req.ToPaymentPlan(ctx, inv.AdmissionNumber)

	// The schedule must cover the outstanding balance exactly, no more, no less
	if !p.TotalAmount.Equal(inv.BalanceDue) {
		return nil, ierr.NewError("plan total must equal balance due").
			WithHint("Installments must add up to the invoice balance due").
			WithReportableDetails(map[string]any{
				"invoice_number": inv.InvoiceNumber,
				"plan_total":     p.TotalAmount.String(),
				"balance_due":    inv.BalanceDue.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		return s.PlanRepo.CreateWithInstallments(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	return dto.NewPaymentPlanResponse(p), nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*dto.PaymentPlanResponse, error) {
	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentPlanResponse(p), nil
}

func (s *planService) UpdatePlan(ctx context.Context, id string, req *dto.UpdatePaymentPlanRequest) (*dto.PaymentPlanResponse, error) {
	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Notes != nil {
		p.Notes = *req.Notes
	}
	p.UpdatedAt = time.Now().UTC()
	p.UpdatedBy = types.GetUserID(ctx)

	if err := s.PlanRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return dto.NewPaymentPlanResponse(p), nil
}

func (s *planService) CancelPlan(ctx context.Context, id string) (*dto.PaymentPlanResponse, error) {
	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.Cancel(); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()
	p.UpdatedBy = types.GetUserID(ctx)

	if err := s.PlanRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return dto.NewPaymentPlanResponse(p), nil
}

func (s *planService) DeletePlan(ctx context.Context, id string) error {
	if _, err := s.PlanRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.PlanRepo.Delete(ctx, id)
}

func (s *planService) ListPlans(ctx context.Context, filter *types.PaymentPlanFilter) (*dto.ListPaymentPlansResponse, error) {
	if filter == nil {
		filter = types.NewPaymentPlanFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	plans, err := s.PlanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.PlanRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentPlanResponse, 0, len(plans))
	for _, p := range plans {
		items = append(items, dto.NewPaymentPlanResponse(p))
	}

	return &dto.ListPaymentPlansResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}
