package testutil

import (
	"context"
	"fmt"

	"github.com/edledger/edledger/internal/domain/plan"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.PaymentPlan]
}

// NewInMemoryPlanStore creates a new in-memory payment plan store
func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*plan.PaymentPlan](),
	}
}

// Helper to copy payment plan
func copyPlan(p *plan.PaymentPlan) *plan.PaymentPlan {
	if p == nil {
		return nil
	}

	out := *p
	out.Installments = make([]*plan.Installment, len(p.Installments))
	for i, inst := range p.Installments {
		instCopy := *inst
		out.Installments[i] = &instCopy
	}
	return &out
}

func (s *InMemoryPlanStore) CreateWithInstallments(ctx context.Context, p *plan.PaymentPlan) error {
	if p == nil {
		return fmt.Errorf("payment plan cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, p.ID, copyPlan(p))
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.PaymentPlan, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("payment plan not found").
			WithHint("Payment plan not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyPlan(p), nil
}

func (s *InMemoryPlanStore) Update(ctx context.Context, p *plan.PaymentPlan) error {
	if p == nil {
		return fmt.Errorf("payment plan cannot be nil")
	}
	if err := s.InMemoryStore.Update(ctx, p.ID, copyPlan(p)); err != nil {
		return ierr.NewError("payment plan not found").
			WithHint("Payment plan not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryPlanStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("payment plan not found").
			WithHint("Payment plan not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func planFilterFn(ctx context.Context, p *plan.PaymentPlan, filter interface{}) bool {
	if p == nil {
		return false
	}
	f, ok := filter.(*types.PaymentPlanFilter)
	if !ok || f == nil {
		return true
	}

	if p.TenantID != types.GetTenantID(ctx) {
		return false
	}
	if f.AdmissionNumber != "" && p.AdmissionNumber != f.AdmissionNumber {
		return false
	}
	if f.InvoiceNumber != "" && p.InvoiceNumber != f.InvoiceNumber {
		return false
	}
	if f.PlanStatus != "" && p.PlanStatus != f.PlanStatus {
		return false
	}
	return true
}

func planSortFn(i, j *plan.PaymentPlan) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryPlanStore) List(ctx context.Context, filter *types.PaymentPlanFilter) ([]*plan.PaymentPlan, error) {
	plans, err := s.InMemoryStore.List(ctx, filter, planFilterFn, planSortFn)
	if err != nil {
		return nil, err
	}
	out := make([]*plan.PaymentPlan, len(plans))
	for i, p := range plans {
		out[i] = copyPlan(p)
	}
	return out, nil
}

func (s *InMemoryPlanStore) Count(ctx context.Context, filter *types.PaymentPlanFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, planFilterFn)
}
