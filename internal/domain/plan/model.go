package plan

import (
	"time"

	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
	"github.com/shopspring/decimal"
)

// PaymentPlan represents an agreed installment schedule against an invoice.
// The schedule splits the invoice balance into dated installments; it is a
// commitment record, not a ledger entry, so the invoice balance itself is
// untouched until payments arrive.
type PaymentPlan struct {
	ID              string                  `json:"id" db:"id"`
	InvoiceNumber   string                  `json:"invoice_number" db:"invoice_number"`
	AdmissionNumber string                  `json:"admission_number" db:"admission_number"`
	PlanStatus      types.PaymentPlanStatus `json:"plan_status" db:"plan_status"`

	// TotalAmount is the sum of the installment amounts
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`

	Notes string `json:"notes,omitempty" db:"notes"`

	Installments []*Installment `json:"installments,omitempty"`
	types.BaseModel
}

// Installment is a single dated slice of a payment plan
type Installment struct {
	ID       string          `json:"id" db:"id"`
	PlanID   string          `json:"plan_id" db:"plan_id"`
	Sequence int             `json:"sequence" db:"sequence"`
	DueDate  time.Time       `json:"due_date" db:"due_date"`
	Amount   decimal.Decimal `json:"amount" db:"amount"`
	types.BaseModel
}

// Recalculate derives the plan total from its installments
func (p *PaymentPlan) Recalculate() {
	total := decimal.Zero
	for _, inst := range p.Installments {
		total = total.Add(inst.Amount)
	}
	p.TotalAmount = total
}

// Cancel transitions the plan into its terminal cancelled state
func (p *PaymentPlan) Cancel() error {
	if p.PlanStatus == types.PaymentPlanStatusCancelled {
		return ierr.NewError("payment plan already cancelled").
			WithHint("Payment plan was already cancelled").
			WithReportableDetails(map[string]any{
				"invoice_number": p.InvoiceNumber,
			}).
			Mark(ierr.ErrInvalidOperation)
	}
	p.PlanStatus = types.PaymentPlanStatusCancelled
	return nil
}

// Validate validates the payment plan and its installments. Installments must
// be positive amounts in due date order, and the plan total must match their sum.
func (p *PaymentPlan) Validate() error {
	if err := p.PlanStatus.Validate(); err != nil {
		return err
	}

	if len(p.Installments) == 0 {
		return ierr.NewError("payment plan has no installments").
			WithHint("A payment plan needs at least one installment").
			Mark(ierr.ErrValidation)
	}

	sum := decimal.Zero
	var prevDue time.Time
	for i, inst := range p.Installments {
		if inst.Amount.IsNegative() || inst.Amount.IsZero() {
			return ierr.NewError("installment amount must be positive").
				WithHint("Each installment must be a positive amount").
				WithReportableDetails(map[string]any{
					"sequence": inst.Sequence,
					"amount":   inst.Amount.String(),
				}).
				Mark(ierr.ErrValidation)
		}
		if i > 0 && inst.DueDate.Before(prevDue) {
			return ierr.NewError("installments out of order").
				WithHint("Installment due dates must not go backwards").
				WithReportableDetails(map[string]any{
					"sequence": inst.Sequence,
					"due_date": inst.DueDate,
				}).
				Mark(ierr.ErrValidation)
		}
		prevDue = inst.DueDate
		sum = sum.Add(inst.Amount)
	}

	if !p.TotalAmount.Equal(sum) {
		return ierr.NewError("plan total must equal installment sum").
			WithHint("Payment plan totals are inconsistent").
			Mark(ierr.ErrValidation)
	}

	return nil
}
