package testutil

import (
	"context"
	"fmt"

	"github.com/edledger/edledger/internal/domain/payment"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
)

// InMemoryPaymentStore implements payment.Repository
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
}

// NewInMemoryPaymentStore creates a new in-memory payment store
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
	}
}

func copyPayment(p *payment.Payment) *payment.Payment {
	if p == nil {
		return nil
	}

	out := *p
	if p.ReferenceNumber != nil {
		ref := *p.ReferenceNumber
		out.ReferenceNumber = &ref
	}
	if p.Metadata != nil {
		out.Metadata = make(types.Metadata, len(p.Metadata))
		for k, v := range p.Metadata {
			out.Metadata[k] = v
		}
	}
	out.Allocations = make([]*payment.Allocation, len(p.Allocations))
	for i, a := range p.Allocations {
		allocCopy := *a
		out.Allocations[i] = &allocCopy
	}
	return &out
}

func (s *InMemoryPaymentStore) CreateWithAllocations(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return fmt.Errorf("payment cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, p.ID, copyPayment(p))
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("payment not found").
			WithHint("Payment not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyPayment(p), nil
}

func paymentFilterFn(ctx context.Context, p *payment.Payment, filter interface{}) bool {
	if p == nil {
		return false
	}
	f, ok := filter.(*types.PaymentFilter)
	if !ok || f == nil {
		return true
	}

	if p.TenantID != types.GetTenantID(ctx) {
		return false
	}
	if f.AdmissionNumber != "" && p.AdmissionNumber != f.AdmissionNumber {
		return false
	}
	if f.AccountID != "" && p.AccountID != f.AccountID {
		return false
	}
	if f.PaymentMethodID != "" && p.PaymentMethodID != f.PaymentMethodID {
		return false
	}
	if f.InvoiceNumber != "" {
		found := false
		for _, a := range p.Allocations {
			if a.InvoiceNumber == f.InvoiceNumber {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && p.PaymentDate.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && p.PaymentDate.After(*f.EndTime) {
			return false
		}
	}
	return true
}

func paymentSortFn(i, j *payment.Payment) bool {
	if i == nil || j == nil {
		return false
	}
	return i.PaymentDate.After(j.PaymentDate)
}

func (s *InMemoryPaymentStore) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	payments, err := s.InMemoryStore.List(ctx, filter, paymentFilterFn, paymentSortFn)
	if err != nil {
		return nil, err
	}
	out := make([]*payment.Payment, len(payments))
	for i, p := range payments {
		out[i] = copyPayment(p)
	}
	return out, nil
}

func (s *InMemoryPaymentStore) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, paymentFilterFn)
}

func (s *InMemoryPaymentStore) ListAllocationsByInvoice(ctx context.Context, invoiceNumber string) ([]*payment.Allocation, error) {
	payments, err := s.InMemoryStore.List(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	var allocations []*payment.Allocation
	for _, p := range payments {
		for _, a := range p.Allocations {
			if a.InvoiceNumber == invoiceNumber {
				allocCopy := *a
				allocations = append(allocations, &allocCopy)
			}
		}
	}
	return allocations, nil
}
