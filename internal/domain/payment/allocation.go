package payment

import (
	"sort"
	"time"

	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/shopspring/decimal"
)

// OutstandingInvoice is the allocator's view of an invoice: just enough to decide
// order and capacity.
type OutstandingInvoice struct {
	InvoiceNumber string
	DueDate       time.Time
	BalanceDue    decimal.Decimal
}

// ProposedAllocation is one entry of an allocation plan before it is committed
type ProposedAllocation struct {
	InvoiceNumber   string          `json:"invoice_number"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
}

// AutoAllocate distributes a payment amount across outstanding invoices, oldest
// due date first. Ties on due date preserve input order. Each invoice receives
// min(remaining, balance due); invoices past the point of exhaustion receive no
// entry. The function is pure: it never mutates its inputs.
func AutoAllocate(amount decimal.Decimal, invoices []OutstandingInvoice) []ProposedAllocation {
	ordered := make([]OutstandingInvoice, len(invoices))
	copy(ordered, invoices)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DueDate.Before(ordered[j].DueDate)
	})

	remaining := amount
	allocations := make([]ProposedAllocation, 0, len(ordered))

	for _, inv := range ordered {
		if !remaining.IsPositive() {
			break
		}
		if !inv.BalanceDue.IsPositive() {
			continue
		}

		alloc := decimal.Min(remaining, inv.BalanceDue)
		allocations = append(allocations, ProposedAllocation{
			InvoiceNumber:   inv.InvoiceNumber,
			AllocatedAmount: alloc,
		})
		remaining = remaining.Sub(alloc)
	}

	return allocations
}

// ValidateAllocations checks a proposed plan against the payment amount and the
// invoices' balances before anything is written. Under-allocation is accepted as
// overpayment; over-allocation is a validation error.
func ValidateAllocations(amount decimal.Decimal, allocations []ProposedAllocation, invoices []OutstandingInvoice) error {
	balances := make(map[string]decimal.Decimal, len(invoices))
	for _, inv := range invoices {
		balances[inv.InvoiceNumber] = inv.BalanceDue
	}

	total := decimal.Zero
	for _, a := range allocations {
		if a.AllocatedAmount.IsNegative() {
			return ierr.NewError("invalid allocation").
				WithHint("Allocated amount must be non negative").
				WithReportableDetails(map[string]any{
					"invoice_number": a.InvoiceNumber,
				}).
				Mark(ierr.ErrValidation)
		}

		balance, ok := balances[a.InvoiceNumber]
		if !ok {
			return ierr.NewError("allocation references unknown invoice").
				WithHint("Allocation does not match an outstanding invoice").
				WithReportableDetails(map[string]any{
					"invoice_number": a.InvoiceNumber,
				}).
				Mark(ierr.ErrValidation)
		}

		if a.AllocatedAmount.GreaterThan(balance) {
			return ierr.NewError("allocation exceeds invoice balance").
				WithHint("Cannot allocate more than the invoice balance due").
				WithReportableDetails(map[string]any{
					"invoice_number": a.InvoiceNumber,
					"balance_due":    balance.String(),
					"allocated":      a.AllocatedAmount.String(),
				}).
				Mark(ierr.ErrValidation)
		}

		total = total.Add(a.AllocatedAmount)
	}

	if total.GreaterThan(amount) {
		return ierr.NewError("negative overpayment").
			WithHint("Allocations exceed the payment amount").
			WithReportableDetails(map[string]any{
				"amount":    amount.String(),
				"allocated": total.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
