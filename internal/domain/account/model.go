package account

import (
	"context"

	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
)

// Account represents a receiving account that payments are deposited into,
// for example a school bank account or a cash box.
type Account struct {
	ID            string `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	AccountNumber string `json:"account_number,omitempty" db:"account_number"`
	BankName      string `json:"bank_name,omitempty" db:"bank_name"`
	types.BaseModel
}

// Validate validates the account
func (a *Account) Validate() error {
	if a.Name == "" {
		return ierr.NewError("invalid account name").
			WithHint("Account name is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentMethod represents a way money is received, for example cash,
// bank transfer or mobile money.
type PaymentMethod struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	types.BaseModel
}

func (m *PaymentMethod) TableName() string {
	return "payment_methods"
}

// Validate validates the payment method
func (m *PaymentMethod) Validate() error {
	if m.Name == "" {
		return ierr.NewError("invalid payment method name").
			WithHint("Payment method name is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Repository defines the interface for account persistence
type Repository interface {
	Create(ctx context.Context, account *Account) error
	Get(ctx context.Context, id string) (*Account, error)
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.QueryFilter) ([]*Account, error)
}

// PaymentMethodRepository defines the interface for payment method persistence
type PaymentMethodRepository interface {
	Create(ctx context.Context, method *PaymentMethod) error
	Get(ctx context.Context, id string) (*PaymentMethod, error)
	Update(ctx context.Context, method *PaymentMethod) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.QueryFilter) ([]*PaymentMethod, error)
}
