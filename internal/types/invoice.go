package types

import (
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus represents the current state of an invoice in its lifecycle.
//
// Overdue is deliberately not a stored status: an invoice is overdue when its due
// date has passed and a balance remains, which is a property of "now", not of the
// row. It exists as a constant so filters and responses can speak about it, but it
// is never persisted.
type InvoiceStatus string

const (
	// InvoiceStatusDraft indicates the invoice is being assembled and can be freely edited
	InvoiceStatusDraft InvoiceStatus = "draft"
	// InvoiceStatusPending indicates the invoice is issued and awaiting payment
	InvoiceStatusPending InvoiceStatus = "pending"
	// InvoiceStatusPaid indicates the balance due reached zero through payment allocation
	InvoiceStatusPaid InvoiceStatus = "paid"
	// InvoiceStatusForwarded indicates the remaining balance was carried into another
	// invoice; a terminal, read-only state
	InvoiceStatusForwarded InvoiceStatus = "forwarded"
	// InvoiceStatusOverdue is a derived, display-only status (see above)
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusPending,
		InvoiceStatusPaid,
		InvoiceStatusForwarded,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceFilter represents the filter options for listing invoices
type InvoiceFilter struct {
	*QueryFilter
	*TimeRangeFilter

	// invoice_numbers restricts results to invoices with the specified numbers
	InvoiceNumbers []string `json:"invoice_numbers,omitempty" form:"invoice_numbers"`

	// admission_number filters invoices for a specific student
	AdmissionNumber string `json:"admission_number,omitempty" form:"admission_number"`

	// invoice_status filters by the stored invoice status; multiple values are OR-ed
	InvoiceStatus []InvoiceStatus `json:"invoice_status,omitempty" form:"invoice_status"`

	// outstanding_only restricts results to invoices with balance_due > 0
	OutstandingOnly bool `json:"outstanding_only,omitempty" form:"outstanding_only"`

	// overdue_only restricts results to outstanding invoices past their due date.
	// Overdue is computed against the query time, not stored.
	OverdueOnly bool `json:"overdue_only,omitempty" form:"overdue_only"`
}

// NewInvoiceFilter creates a new invoice filter with default options
func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitInvoiceFilter creates a new invoice filter without pagination
func NewNoLimitInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *InvoiceFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return err
		}
	}
	for _, s := range f.InvoiceStatus {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetLimit implements BaseFilter interface
func (f *InvoiceFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *InvoiceFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

// GetSort implements BaseFilter interface
func (f *InvoiceFilter) GetSort() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetSort()
	}
	return f.QueryFilter.GetSort()
}

// GetOrder implements BaseFilter interface
func (f *InvoiceFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOrder()
	}
	return f.QueryFilter.GetOrder()
}

// GetStatus implements BaseFilter interface
func (f *InvoiceFilter) GetStatus() Status {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetStatus()
	}
	return f.QueryFilter.GetStatus()
}

func (f *InvoiceFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}
