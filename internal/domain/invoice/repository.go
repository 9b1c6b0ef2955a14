package invoice

import (
	"context"

	"github.com/edledger/edledger/internal/types"
)

// Repository defines the interface for invoice persistence operations
type Repository interface {
	// CreateWithLineItems creates a new invoice together with its line items
	CreateWithLineItems(ctx context.Context, invoice *Invoice) error

	// Get retrieves an invoice by ID
	Get(ctx context.Context, id string) (*Invoice, error)

	// GetByInvoiceNumber retrieves an invoice by its human-readable number
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)

	// Update updates an existing invoice and replaces its line items
	Update(ctx context.Context, invoice *Invoice) error

	// List retrieves invoices based on filter criteria
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// Count returns the total count of invoices based on filter criteria
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)

	// NextInvoiceNumber returns the next system-generated invoice number
	NextInvoiceNumber(ctx context.Context) (string, error)
}
