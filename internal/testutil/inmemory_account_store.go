package testutil

import (
	"context"
	"fmt"

	"github.com/edledger/edledger/internal/domain/account"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
)

// InMemoryAccountStore implements account.Repository
type InMemoryAccountStore struct {
	*InMemoryStore[*account.Account]
}

// NewInMemoryAccountStore creates a new in-memory account store
func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		InMemoryStore: NewInMemoryStore[*account.Account](),
	}
}

func (s *InMemoryAccountStore) Create(ctx context.Context, acct *account.Account) error {
	if acct == nil {
		return fmt.Errorf("account cannot be nil")
	}
	acctCopy := *acct
	return s.InMemoryStore.Create(ctx, acct.ID, &acctCopy)
}

func (s *InMemoryAccountStore) Get(ctx context.Context, id string) (*account.Account, error) {
	acct, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("account not found").
			WithHint("Account not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	acctCopy := *acct
	return &acctCopy, nil
}

func (s *InMemoryAccountStore) Update(ctx context.Context, acct *account.Account) error {
	if acct == nil {
		return fmt.Errorf("account cannot be nil")
	}
	acctCopy := *acct
	if err := s.InMemoryStore.Update(ctx, acct.ID, &acctCopy); err != nil {
		return ierr.NewError("account not found").
			WithHint("Account not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryAccountStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("account not found").
			WithHint("Account not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryAccountStore) List(ctx context.Context, filter *types.QueryFilter) ([]*account.Account, error) {
	return s.InMemoryStore.List(ctx, filter, func(ctx context.Context, acct *account.Account, _ interface{}) bool {
		return acct != nil && acct.TenantID == types.GetTenantID(ctx)
	}, func(i, j *account.Account) bool {
		return i.Name < j.Name
	})
}

// InMemoryPaymentMethodStore implements account.PaymentMethodRepository
type InMemoryPaymentMethodStore struct {
	*InMemoryStore[*account.PaymentMethod]
}

// NewInMemoryPaymentMethodStore creates a new in-memory payment method store
func NewInMemoryPaymentMethodStore() *InMemoryPaymentMethodStore {
	return &InMemoryPaymentMethodStore{
		InMemoryStore: NewInMemoryStore[*account.PaymentMethod](),
	}
}

func (s *InMemoryPaymentMethodStore) Create(ctx context.Context, method *account.PaymentMethod) error {
	if method == nil {
		return fmt.Errorf("payment method cannot be nil")
	}
	methodCopy := *method
	return s.InMemoryStore.Create(ctx, method.ID, &methodCopy)
}

func (s *InMemoryPaymentMethodStore) Get(ctx context.Context, id string) (*account.PaymentMethod, error) {
	method, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("payment method not found").
			WithHint("Payment method not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	methodCopy := *method
	return &methodCopy, nil
}

func (s *InMemoryPaymentMethodStore) Update(ctx context.Context, method *account.PaymentMethod) error {
	if method == nil {
		return fmt.Errorf("payment method cannot be nil")
	}
	methodCopy := *method
	if err := s.InMemoryStore.Update(ctx, method.ID, &methodCopy); err != nil {
		return ierr.NewError("payment method not found").
			WithHint("Payment method not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryPaymentMethodStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("payment method not found").
			WithHint("Payment method not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryPaymentMethodStore) List(ctx context.Context, filter *types.QueryFilter) ([]*account.PaymentMethod, error) {
	return s.InMemoryStore.List(ctx, filter, func(ctx context.Context, method *account.PaymentMethod, _ interface{}) bool {
		return method != nil && method.TenantID == types.GetTenantID(ctx)
	}, func(i, j *account.PaymentMethod) bool {
		return i.Name < j.Name
	})
}
