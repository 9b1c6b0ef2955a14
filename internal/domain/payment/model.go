package payment

import (
	"time"

	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
	"github.com/shopspring/decimal"
)

// Payment represents one recorded payment receipt from a student account
type Payment struct {
	// Unique identifier for this payment
	ID string `json:"id" db:"id"`
	// Human-readable receipt number, system generated
	ReceiptNumber string `json:"receipt_number" db:"receipt_number"`
	// The student this payment was received from
	AdmissionNumber string `json:"admission_number" db:"admission_number"`
	// The full payment value; allocations sum to at most this amount
	Amount decimal.Decimal `json:"amount" db:"amount"`
	// The date the payment was received
	PaymentDate time.Time `json:"payment_date" db:"payment_date"`
	// The account the money was received into
	AccountID string `json:"account_id" db:"account_id"`
	// The method the payment was made with (cash, bank transfer, ...)
	PaymentMethodID string `json:"payment_method_id" db:"payment_method_id"`
	// Optional external reference, e.g. a bank slip number
	ReferenceNumber *string `json:"reference_number,omitempty" db:"reference_number"`
	// Free-form key-value pairs attached by the caller
	Metadata types.Metadata `json:"metadata,omitempty" db:"metadata"`
	// How this payment was applied across invoices
	Allocations []*Allocation `json:"allocations,omitempty"`

	types.BaseModel
}

// Allocation is the portion of one payment applied to one invoice
type Allocation struct {
	ID              string          `json:"id" db:"id"`
	PaymentID       string          `json:"payment_id" db:"payment_id"`
	InvoiceNumber   string          `json:"invoice_number" db:"invoice_number"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount" db:"allocated_amount"`
	types.BaseModel
}

// AllocatedTotal sums the payment's allocations
func (p *Payment) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allocations {
		total = total.Add(a.AllocatedAmount)
	}
	return total
}

// Unallocated returns the portion of the payment not applied to any invoice.
// A positive remainder is accepted as overpayment.
func (p *Payment) Unallocated() decimal.Decimal {
	return p.Amount.Sub(p.AllocatedTotal())
}

// Validate validates the payment. Allocations summing above the payment amount
// are a negative overpayment and must be rejected before any write, never
// silently clamped.
func (p *Payment) Validate() error {
	if !p.Amount.IsPositive() {
		return ierr.NewError("invalid amount").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if p.AdmissionNumber == "" {
		return ierr.NewError("invalid admission number").
			WithHint("Admission number is required").
			Mark(ierr.ErrValidation)
	}
	if p.AccountID == "" {
		return ierr.NewError("invalid account id").
			WithHint("Account is required").
			Mark(ierr.ErrValidation)
	}
	if p.PaymentMethodID == "" {
		return ierr.NewError("invalid payment method id").
			WithHint("Payment method is required").
			Mark(ierr.ErrValidation)
	}

	for _, a := range p.Allocations {
		if a.AllocatedAmount.IsNegative() {
			return ierr.NewError("invalid allocation").
				WithHint("Allocated amount must be non negative").
				WithReportableDetails(map[string]any{
					"invoice_number": a.InvoiceNumber,
					"allocated":      a.AllocatedAmount.String(),
				}).
				Mark(ierr.ErrValidation)
		}
	}

	if p.AllocatedTotal().GreaterThan(p.Amount) {
		return ierr.NewError("negative overpayment").
			WithHint("Allocations exceed the payment amount").
			WithReportableDetails(map[string]any{
				"amount":    p.Amount.String(),
				"allocated": p.AllocatedTotal().String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// TableName returns the table name for the payment
func (p *Payment) TableName() string {
	return "payments"
}

// TableName returns the table name for the payment allocation
func (a *Allocation) TableName() string {
	return "payment_allocations"
}
