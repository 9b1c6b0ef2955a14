package types

import (
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/samber/lo"
)

// PaymentPlanStatus is the lifecycle status of a payment plan
type PaymentPlanStatus string

const (
	PaymentPlanStatusActive    PaymentPlanStatus = "active"
	PaymentPlanStatusCancelled PaymentPlanStatus = "cancelled"
)

func (s PaymentPlanStatus) String() string {
	return string(s)
}

func (s PaymentPlanStatus) Validate() error {
	allowed := []PaymentPlanStatus{
		PaymentPlanStatusActive,
		PaymentPlanStatusCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid payment plan status").
			WithHint("Please provide a valid payment plan status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentPlanFilter represents the filter options for listing payment plans
type PaymentPlanFilter struct {
	*QueryFilter

	// admission_number filters plans for a specific student
	AdmissionNumber string `json:"admission_number,omitempty" form:"admission_number"`

	// invoice_number filters plans scheduled against a specific invoice
	InvoiceNumber string `json:"invoice_number,omitempty" form:"invoice_number"`

	// plan_status filters plans by lifecycle status
	PlanStatus PaymentPlanStatus `json:"plan_status,omitempty" form:"plan_status"`
}

// NewPaymentPlanFilter creates a new payment plan filter with default options
func NewPaymentPlanFilter() *PaymentPlanFilter {
	return &PaymentPlanFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitPaymentPlanFilter creates a new payment plan filter without pagination
func NewNoLimitPaymentPlanFilter() *PaymentPlanFilter {
	return &PaymentPlanFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *PaymentPlanFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.PlanStatus != "" {
		return f.PlanStatus.Validate()
	}
	return nil
}

// GetLimit implements BaseFilter interface
func (f *PaymentPlanFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *PaymentPlanFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

// GetSort implements BaseFilter interface
func (f *PaymentPlanFilter) GetSort() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetSort()
	}
	return f.QueryFilter.GetSort()
}

// GetOrder implements BaseFilter interface
func (f *PaymentPlanFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOrder()
	}
	return f.QueryFilter.GetOrder()
}

// GetStatus implements BaseFilter interface
func (f *PaymentPlanFilter) GetStatus() Status {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetStatus()
	}
	return f.QueryFilter.GetStatus()
}

func (f *PaymentPlanFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}
