package invoice

import (
	"time"

	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
	"github.com/shopspring/decimal"
)

// BroughtForwardItemName is the reserved catalog item name used for the synthetic
// balance-brought-forward line. It is a system item, not a normal fee.
const BroughtForwardItemName = "Balance Brought Forward"

// Invoice represents the invoice domain model
type Invoice struct {
	ID              string              `json:"id" db:"id"`
	InvoiceNumber   string              `json:"invoice_number" db:"invoice_number"`
	AdmissionNumber string              `json:"admission_number" db:"admission_number"`
	StudentName     string              `json:"student_name" db:"student_name"`
	InvoiceDate     time.Time           `json:"invoice_date" db:"invoice_date"`
	DueDate         time.Time           `json:"due_date" db:"due_date"`
	InvoiceStatus   types.InvoiceStatus `json:"invoice_status" db:"invoice_status"`

	// Subtotal is the sum of countable line totals; TotalAmount always equals
	// Subtotal (no tax is modelled). BalanceDue is always recomputed, never edited.
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentMade decimal.Decimal `json:"payment_made" db:"payment_made"`
	BalanceDue  decimal.Decimal `json:"balance_due" db:"balance_due"`

	// BroughtForwardDescription records which invoices a BBF line was carried from
	BroughtForwardDescription *string `json:"brought_forward_description,omitempty" db:"brought_forward_description"`

	LineItems []*LineItem `json:"line_items,omitempty"`
	types.BaseModel
}

// Recalculate derives subtotal, total and balance due from the line items and the
// payment made so far. Running it twice on unchanged line items yields the same
// values.
func (i *Invoice) Recalculate() {
	subtotal := decimal.Zero
	for _, li := range i.LineItems {
		if li.Countable() {
			subtotal = subtotal.Add(li.Total())
		}
	}
	i.Subtotal = subtotal
	i.TotalAmount = subtotal
	i.BalanceDue = i.TotalAmount.Sub(i.PaymentMade).Round(2)
}

// CandidateSubtotal computes the subtotal the given line items would produce
// without mutating the invoice. Used by the edit guard.
func CandidateSubtotal(items []*LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, li := range items {
		if li.Countable() {
			subtotal = subtotal.Add(li.Total())
		}
	}
	return subtotal
}

// Editable reports whether the invoice may still be modified. A forwarded invoice
// is permanently read-only: its balance already lives on another invoice.
func (i *Invoice) Editable() bool {
	return i.InvoiceStatus != types.InvoiceStatusForwarded
}

// IsOverdue reports whether the invoice is past due with a balance remaining, as
// of the given time. Overdue is derived, never stored.
func (i *Invoice) IsOverdue(asOf time.Time) bool {
	return i.InvoiceStatus == types.InvoiceStatusPending &&
		i.DueDate.Before(asOf) &&
		i.BalanceDue.IsPositive()
}

// DisplayStatus returns the status to render, substituting the derived overdue
// state for pending invoices past their due date.
func (i *Invoice) DisplayStatus(asOf time.Time) types.InvoiceStatus {
	if i.IsOverdue(asOf) {
		return types.InvoiceStatusOverdue
	}
	return i.InvoiceStatus
}

// ApplyPayment records an allocated amount against the invoice. The amount must
// fit within the current balance due; crossing zero flips the invoice to paid.
func (i *Invoice) ApplyPayment(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ierr.NewError("allocated amount must be non negative").
			WithHint("Allocated amount must be non negative").
			Mark(ierr.ErrValidation)
	}
	if amount.GreaterThan(i.BalanceDue) {
		return ierr.NewError("allocated amount exceeds balance due").
			WithHint("Cannot allocate more than the invoice balance").
			WithReportableDetails(map[string]any{
				"invoice_number": i.InvoiceNumber,
				"balance_due":    i.BalanceDue.String(),
				"allocated":      amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	i.PaymentMade = i.PaymentMade.Add(amount)
	i.Recalculate()
	if i.BalanceDue.IsZero() {
		i.InvoiceStatus = types.InvoiceStatusPaid
	}
	return nil
}

// MarkForwarded transitions the invoice into its terminal forwarded state
func (i *Invoice) MarkForwarded() error {
	if i.InvoiceStatus == types.InvoiceStatusForwarded {
		return ierr.NewError("invoice already forwarded").
			WithHint("Invoice balance was already carried forward").
			Mark(ierr.ErrInvalidOperation)
	}
	i.InvoiceStatus = types.InvoiceStatusForwarded
	return nil
}

// Validate validates the invoice state
func (i *Invoice) Validate() error {
	if err := i.InvoiceStatus.Validate(); err != nil {
		return err
	}

	if i.TotalAmount.IsNegative() {
		return ierr.NewError("total_amount must be non negative").
			WithHint("Invoice total must be non negative").
			Mark(ierr.ErrValidation)
	}

	if i.PaymentMade.IsNegative() {
		return ierr.NewError("payment_made must be non negative").
			WithHint("Payment made must be non negative").
			Mark(ierr.ErrValidation)
	}

	if !i.TotalAmount.Equal(i.Subtotal) {
		return ierr.NewError("total_amount must equal subtotal").
			WithHint("Invoice totals are inconsistent").
			Mark(ierr.ErrValidation)
	}

	if i.BalanceDue.IsNegative() {
		return ierr.NewError("balance_due must be non negative").
			WithHint("Invoice cannot be more paid than billed").
			WithReportableDetails(map[string]any{
				"invoice_number": i.InvoiceNumber,
				"total_amount":   i.TotalAmount.String(),
				"payment_made":   i.PaymentMade.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if i.DueDate.Before(i.InvoiceDate) {
		return ierr.NewError("due_date must not precede invoice_date").
			WithHint("Due date must be on or after the invoice date").
			Mark(ierr.ErrValidation)
	}

	for _, li := range i.LineItems {
		if err := li.Validate(); err != nil {
			return err
		}
	}

	return nil
}
