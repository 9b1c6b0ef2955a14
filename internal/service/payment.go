package service

import (
	"context"

	"github.com/edledger/edledger/internal/api/dto"
	"github.com/edledger/edledger/internal/domain/payment"
	"github.com/edledger/edledger/internal/types"
)

// PaymentService records payments and allocates them against invoices
type PaymentService interface {
	RecordPayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
	GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error)
	ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error)
	ListAllocationsByInvoice(ctx context.Context, invoiceNumber string) ([]*dto.AllocationResponse, error)
}

type paymentService struct {
	ServiceParams
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{
		ServiceParams: params,
	}
}

// RecordPayment validates the allocation plan against the student's outstanding
// invoices, then writes the payment, its allocations and the invoice balance
// updates in one transaction. With no explicit allocations the amount is spread
// oldest due date first.
func (s *paymentService) RecordPayment(ctx context.Context, req *dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.StudentRepo.GetByAdmissionNumber(ctx, req.AdmissionNumber); err != nil {
		return nil, err
	}

	outstanding, err := s.listOutstanding(ctx, req.AdmissionNumber)
	if err != nil {
		return nil, err
	}

	var plan []payment.ProposedAllocation
	if len(req.Allocations) > 0 {
		plan = make([]payment.ProposedAllocation, 0, len(req.Allocations))
		for _, a := range req.Allocations {
			plan = append(plan, payment.ProposedAllocation{
				InvoiceNumber:   a.InvoiceNumber,
				AllocatedAmount: a.AllocatedAmount,
			})
		}
	} else {
		plan = payment.AutoAllocate(req.Amount, outstanding)
	}

	if err := payment.ValidateAllocations(req.Amount, plan, outstanding); err != nil {
		return nil, err
	}

	p := req.ToPayment(ctx)
	p.ReceiptNumber = types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT)
	for _, a := range plan {
		p.Allocations = append(p.Allocations, &payment.Allocation{
			ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_ALLOCATION),
			PaymentID:       p.ID,
			InvoiceNumber:   a.InvoiceNumber,
			AllocatedAmount: a.AllocatedAmount,
			BaseModel:       types.GetDefaultBaseModel(ctx),
		})
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.PaymentRepo.CreateWithAllocations(ctx, p); err != nil {
			return err
		}
		for _, a := range p.Allocations {
			inv, err := s.InvoiceRepo.GetByInvoiceNumber(ctx, a.InvoiceNumber)
			if err != nil {
				return err
			}
			if err := inv.ApplyPayment(a.AllocatedAmount); err != nil {
				return err
			}
			if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if p.Unallocated().IsPositive() {
		s.Logger.Infow("payment recorded with unallocated remainder",
			"receipt_number", p.ReceiptNumber,
			"admission_number", p.AdmissionNumber,
			"unallocated", p.Unallocated().String())
	}

	return dto.NewPaymentResponse(p), nil
}

// listOutstanding returns the allocator's view of the student's payable invoices
func (s *paymentService) listOutstanding(ctx context.Context, admissionNumber string) ([]payment.OutstandingInvoice, error) {
	filter := types.NewNoLimitInvoiceFilter()
	filter.AdmissionNumber = admissionNumber
	filter.OutstandingOnly = true
	filter.InvoiceStatus = []types.InvoiceStatus{types.InvoiceStatusPending}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	outstanding := make([]payment.OutstandingInvoice, 0, len(invoices))
	for _, inv := range invoices {
		outstanding = append(outstanding, payment.OutstandingInvoice{
			InvoiceNumber: inv.InvoiceNumber,
			DueDate:       inv.DueDate,
			BalanceDue:    inv.BalanceDue,
		})
	}
	return outstanding, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := s.PaymentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewPaymentResponse(p), nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter *types.PaymentFilter) (*dto.ListPaymentsResponse, error) {
	if filter == nil {
		filter = types.NewPaymentFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.PaymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, dto.NewPaymentResponse(p))
	}

	return &dto.ListPaymentsResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *paymentService) ListAllocationsByInvoice(ctx context.Context, invoiceNumber string) ([]*dto.AllocationResponse, error) {
	allocations, err := s.PaymentRepo.ListAllocationsByInvoice(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.AllocationResponse, 0, len(allocations))
	for _, a := range allocations {
		resp = append(resp, &dto.AllocationResponse{
			ID:              a.ID,
			InvoiceNumber:   a.InvoiceNumber,
			AllocatedAmount: a.AllocatedAmount.Round(2),
		})
	}
	return resp, nil
}
