package invoice

import (
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
	"github.com/shopspring/decimal"
)

var percentHundred = decimal.NewFromInt(100)

// LineItem represents a single fee line in an invoice
type LineItem struct {
	ID              string          `json:"id" db:"id"`
	InvoiceID       string          `json:"invoice_id" db:"invoice_id"`
	ItemName        string          `json:"item_name" db:"item_name"`
	UnitPrice       decimal.Decimal `json:"unit_price" db:"unit_price"`
	Quantity        int             `json:"quantity" db:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent" db:"discount_percent"`
	Description     string          `json:"description,omitempty" db:"description"`
	types.BaseModel
}

// Total computes the line total: unit price x quantity x (1 - discount/100).
// No rounding happens here; rounding to 2 decimal places is applied only when a
// total is persisted or rendered.
func (li *LineItem) Total() decimal.Decimal {
	discountFactor := decimal.NewFromInt(1).Sub(li.DiscountPercent.Div(percentHundred))
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))).Mul(discountFactor)
}

// Countable reports whether the line contributes to the invoice subtotal.
// Items with an empty name or zero quantity are excluded from totals, not rejected.
func (li *LineItem) Countable() bool {
	return li.ItemName != "" && li.Quantity > 0
}

// Validate validates the invoice line item
func (li *LineItem) Validate() error {
	if li.UnitPrice.IsNegative() {
		return ierr.NewError("invoice line item validation failed").
			WithHint("Unit price must be non negative").
			WithReportableDetails(map[string]any{
				"item_name":  li.ItemName,
				"unit_price": li.UnitPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if li.Quantity < 0 {
		return ierr.NewError("invoice line item validation failed").
			WithHint("Quantity must be non negative").
			WithReportableDetails(map[string]any{
				"item_name": li.ItemName,
				"quantity":  li.Quantity,
			}).
			Mark(ierr.ErrValidation)
	}

	if li.DiscountPercent.IsNegative() || li.DiscountPercent.GreaterThan(percentHundred) {
		return ierr.NewError("invoice line item validation failed").
			WithHint("Discount percent must be between 0 and 100").
			WithReportableDetails(map[string]any{
				"item_name":        li.ItemName,
				"discount_percent": li.DiscountPercent.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}
