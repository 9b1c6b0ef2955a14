package payment

import (
	"context"

	"github.com/edledger/edledger/internal/types"
)

// Repository defines the interface for payment persistence
type Repository interface {
	// CreateWithAllocations creates a payment together with its allocations
	CreateWithAllocations(ctx context.Context, payment *Payment) error

	// Get retrieves a payment by ID including its allocations
	Get(ctx context.Context, id string) (*Payment, error)

	// List retrieves payments based on filter criteria
	List(ctx context.Context, filter *types.PaymentFilter) ([]*Payment, error)

	// Count returns the total count of payments based on filter criteria
	Count(ctx context.Context, filter *types.PaymentFilter) (int, error)

	// ListAllocationsByInvoice returns all allocations recorded against an invoice
	ListAllocationsByInvoice(ctx context.Context, invoiceNumber string) ([]*Allocation, error)
}
