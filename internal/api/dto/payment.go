package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edledger/edledger/internal/domain/payment"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
	"github.com/edledger/edledger/internal/validator"
)

// AllocationRequest pins part of a payment to a specific invoice
type AllocationRequest struct {
	InvoiceNumber   string          `json:"invoice_number" validate:"required"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
}

// CreatePaymentRequest represents the request payload for recording a payment.
// When allocations is empty the payment is spread across the student's
// outstanding invoices oldest due date first.
type CreatePaymentRequest struct {
	AdmissionNumber string          `json:"admission_number" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	PaymentDate     *time.Time      `json:"payment_date,omitempty"`
	AccountID       string          `json:"account_id" validate:"required"`
	PaymentMethodID string          `json:"payment_method_id" validate:"required"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	Metadata        types.Metadata  `json:"metadata,omitempty"`
	Allocations     []AllocationRequest `json:"allocations,omitempty"`
}

func (r *CreatePaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			WithHint("Payment amount must be greater than zero").
			WithReportableDetails(map[string]interface{}{
				"amount": r.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	for _, a := range r.Allocations {
		if a.AllocatedAmount.IsNegative() {
			return ierr.NewError("allocated_amount must be non-negative").
				WithHint("Allocated amounts must not be negative").
				WithReportableDetails(map[string]interface{}{
					"invoice_number": a.InvoiceNumber,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// ToPayment converts a create payment request to a domain payment
func (r *CreatePaymentRequest) ToPayment(ctx context.Context) *payment.Payment {
	paymentDate := time.Now().UTC()
	if r.PaymentDate != nil {
		paymentDate = *r.PaymentDate
	}
	return &payment.Payment{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		AdmissionNumber: r.AdmissionNumber,
		Amount:          r.Amount,
		PaymentDate:     paymentDate,
		AccountID:       r.AccountID,
		PaymentMethodID: r.PaymentMethodID,
		ReferenceNumber: r.ReferenceNumber,
		Metadata:        r.Metadata,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

// AllocationResponse represents a payment allocation in responses
type AllocationResponse struct {
	ID              string          `json:"id"`
	InvoiceNumber   string          `json:"invoice_number"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
}

// PaymentResponse represents a payment in responses
type PaymentResponse struct {
	ID              string                `json:"id"`
	ReceiptNumber   string                `json:"receipt_number"`
	AdmissionNumber string                `json:"admission_number"`
	Amount          decimal.Decimal       `json:"amount"`
	PaymentDate     time.Time             `json:"payment_date"`
	AccountID       string                `json:"account_id"`
	PaymentMethodID string                `json:"payment_method_id"`
	ReferenceNumber *string               `json:"reference_number,omitempty"`
	Metadata        types.Metadata        `json:"metadata,omitempty"`
	Unallocated     decimal.Decimal       `json:"unallocated"`
	Allocations     []*AllocationResponse `json:"allocations"`
	CreatedAt       time.Time             `json:"created_at"`
}

func NewPaymentResponse(p *payment.Payment) *PaymentResponse {
	resp := &PaymentResponse{
		ID:              p.ID,
		ReceiptNumber:   p.ReceiptNumber,
		AdmissionNumber: p.AdmissionNumber,
		Amount:          p.Amount.Round(2),
		PaymentDate:     p.PaymentDate,
		AccountID:       p.AccountID,
		PaymentMethodID: p.PaymentMethodID,
		ReferenceNumber: p.ReferenceNumber,
		Metadata:        p.Metadata,
		Unallocated:     p.Unallocated().Round(2),
		Allocations:     make([]*AllocationResponse, 0, len(p.Allocations)),
		CreatedAt:       p.CreatedAt,
	}
	for _, a := range p.Allocations {
		resp.Allocations = append(resp.Allocations, &AllocationResponse{
			ID:              a.ID,
			InvoiceNumber:   a.InvoiceNumber,
			AllocatedAmount: a.AllocatedAmount.Round(2),
		})
	}
	return resp
}

// ListPaymentsResponse represents a paginated list of payments
type ListPaymentsResponse = types.ListResponse[*PaymentResponse]
