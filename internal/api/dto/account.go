package dto

import (
	"context"
	"time"

	"github.com/edledger/edledger/internal/domain/account"
	"github.com/edledger/edledger/internal/types"
	"github.com/edledger/edledger/internal/validator"
)

// CreateAccountRequest represents the request payload for adding a
// receiving account
type CreateAccountRequest struct {
	Name          string `json:"name" validate:"required"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
}

func (r *CreateAccountRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToAccount converts a create account request to a domain account
func (r *CreateAccountRequest) ToAccount(ctx context.Context) *account.Account {
	return &account.Account{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ACCOUNT),
		Name:          r.Name,
		AccountNumber: r.AccountNumber,
		BankName:      r.BankName,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// UpdateAccountRequest represents the request payload for updating a
// receiving account; nil fields are left unchanged
type UpdateAccountRequest struct {
	Name          *string `json:"name,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
	BankName      *string `json:"bank_name,omitempty"`
}

// AccountResponse represents a receiving account in responses
type AccountResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	AccountNumber string    `json:"account_number,omitempty"`
	BankName      string    `json:"bank_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewAccountResponse(a *account.Account) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		Name:          a.Name,
		AccountNumber: a.AccountNumber,
		BankName:      a.BankName,
		CreatedAt:     a.CreatedAt,
	}
}

// CreatePaymentMethodRequest represents the request payload for adding a
// payment method
type CreatePaymentMethodRequest struct {
	Name string `json:"name" validate:"required"`
}

func (r *CreatePaymentMethodRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToPaymentMethod converts the request to a domain payment method
func (r *CreatePaymentMethodRequest) ToPaymentMethod(ctx context.Context) *account.PaymentMethod {
	return &account.PaymentMethod{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_METHOD),
		Name:      r.Name,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// UpdatePaymentMethodRequest represents the request payload for renaming a
// payment method
type UpdatePaymentMethodRequest struct {
	Name *string `json:"name,omitempty"`
}

// PaymentMethodResponse represents a payment method in responses
type PaymentMethodResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPaymentMethodResponse(m *account.PaymentMethod) *PaymentMethodResponse {
	return &PaymentMethodResponse{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}
