package plan

import (
	"context"

	"github.com/edledger/edledger/internal/types"
)

// Repository defines the interface for payment plan persistence operations
type Repository interface {
	// CreateWithInstallments creates a new plan together with its installments
	CreateWithInstallments(ctx context.Context, plan *PaymentPlan) error

	// Get retrieves a payment plan by ID
	Get(ctx context.Context, id string) (*PaymentPlan, error)

	// Update updates an existing payment plan header
	Update(ctx context.Context, plan *PaymentPlan) error

	// Delete soft deletes a payment plan and its installments
	Delete(ctx context.Context, id string) error

	// List retrieves payment plans based on filter criteria
	List(ctx context.Context, filter *types.PaymentPlanFilter) ([]*PaymentPlan, error)

	// Count returns the total count of payment plans based on filter criteria
	Count(ctx context.Context, filter *types.PaymentPlanFilter) (int, error)
}
