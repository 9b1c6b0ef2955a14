package invoice

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvoiceNotFound is returned when an invoice is not found
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrInvoiceForwarded is returned on any attempt to modify a forwarded invoice
	ErrInvoiceForwarded = errors.New("invoice is forwarded and read-only")

	// ErrInvoiceAlreadyPaid indicates that the invoice has already been paid
	ErrInvoiceAlreadyPaid = errors.New("invoice already paid")
)

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrInvoiceNotFound)
}

// ForwardMarkError reports invoices whose balance was carried into a new invoice
// but which could not be marked forwarded afterwards. The new invoice is valid;
// the named invoices kept their prior status and need manual correction.
type ForwardMarkError struct {
	NewInvoiceNumber string
	InvoiceNumbers   []string
	Err              error
}

func (e *ForwardMarkError) Error() string {
	return fmt.Sprintf(
		"invoice %s created but failed to mark source invoices forwarded [%s]: %v",
		e.NewInvoiceNumber, strings.Join(e.InvoiceNumbers, ", "), e.Err,
	)
}

func (e *ForwardMarkError) Unwrap() error {
	return e.Err
}

// IsForwardMarkError checks if an error is a partial forward-marking failure
func IsForwardMarkError(err error) bool {
	var fme *ForwardMarkError
	return errors.As(err, &fme)
}
