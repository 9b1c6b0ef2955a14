package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edledger/edledger/internal/domain/invoice"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
	"github.com/edledger/edledger/internal/validator"
)

// CreateInvoiceLineItemRequest represents a single line item on a new invoice
type CreateInvoiceLineItemRequest struct {
	// item_name is the billable item name; rows with an empty name are
	// kept for display but never contribute to the invoice totals
	ItemName string `json:"item_name"`

	// unit_price is the price per unit before any discount
	UnitPrice decimal.Decimal `json:"unit_price"`

	// quantity is the number of units billed
	Quantity int `json:"quantity"`

	// discount_percent is the percentage discount in the range [0, 100]
	DiscountPercent decimal.Decimal `json:"discount_percent"`

	// description is optional free text shown against the row
	Description string `json:"description,omitempty"`
}

func (r *CreateInvoiceLineItemRequest) Validate() error {
	if r.UnitPrice.IsNegative() {
		return ierr.NewError("unit_price must be non-negative").
			WithHint("Unit price must not be negative").
			WithReportableDetails(map[string]interface{}{
				"unit_price": r.UnitPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if r.Quantity < 0 {
		return ierr.NewError("quantity must be non-negative").
			WithHint("Quantity must not be negative").
			Mark(ierr.ErrValidation)
	}
	if r.DiscountPercent.IsNegative() || r.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("discount_percent out of range").
			WithHint("Discount percent must be between 0 and 100").
			WithReportableDetails(map[string]interface{}{
				"discount_percent": r.DiscountPercent.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToLineItem converts a line item request to a domain line item
func (r *CreateInvoiceLineItemRequest) ToLineItem(ctx context.Context, inv *invoice.Invoice) *invoice.LineItem {
	return &invoice.LineItem{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
		InvoiceID:       inv.ID,
		ItemName:        r.ItemName,
		UnitPrice:       r.UnitPrice,
		Quantity:        r.Quantity,
		DiscountPercent: r.DiscountPercent,
		Description:     r.Description,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

// CreateInvoiceRequest represents the request payload for creating a new invoice
type CreateInvoiceRequest struct {
	// admission_number identifies the student this invoice bills
	AdmissionNumber string `json:"admission_number" validate:"required"`

	// invoice_date defaults to the current date when omitted
	InvoiceDate *time.Time `json:"invoice_date,omitempty"`

	// due_date is the date by which payment is expected
	DueDate time.Time `json:"due_date" validate:"required"`

	// line_items contains the individual rows that make up this invoice
	LineItems []CreateInvoiceLineItemRequest `json:"line_items,omitempty"`

	// include_brought_forward pulls the student's unpaid past invoices
	// onto this invoice as a single consolidated row
	IncludeBroughtForward bool `json:"include_brought_forward"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	for i := range r.LineItems {
		if err := r.LineItems[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UpdateInvoiceRequest represents the request payload for editing an invoice.
// The full set of line items replaces the existing rows.
type UpdateInvoiceRequest struct {
	DueDate   *time.Time                     `json:"due_date,omitempty"`
	LineItems []CreateInvoiceLineItemRequest `json:"line_items"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	for i := range r.LineItems {
		if err := r.LineItems[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// InvoiceLineItemResponse represents a line item in responses
type InvoiceLineItemResponse struct {
	ID              string          `json:"id"`
	ItemName        string          `json:"item_name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Description     string          `json:"description,omitempty"`
	Total           decimal.Decimal `json:"total"`
}

func NewInvoiceLineItemResponse(item *invoice.LineItem) *InvoiceLineItemResponse {
	return &InvoiceLineItemResponse{
		ID:              item.ID,
		ItemName:        item.ItemName,
		UnitPrice:       item.UnitPrice,
		Quantity:        item.Quantity,
		DiscountPercent: item.DiscountPercent,
		Description:     item.Description,
		Total:           item.Total().Round(2),
	}
}

// InvoiceResponse represents an invoice in responses
type InvoiceResponse struct {
	ID              string                     `json:"id"`
	InvoiceNumber   string                     `json:"invoice_number"`
	AdmissionNumber string                     `json:"admission_number"`
	StudentName     string                     `json:"student_name"`
	InvoiceDate     time.Time                  `json:"invoice_date"`
	DueDate         time.Time                  `json:"due_date"`
	InvoiceStatus   types.InvoiceStatus        `json:"invoice_status"`
	Subtotal        decimal.Decimal            `json:"subtotal"`
	TotalAmount     decimal.Decimal            `json:"total_amount"`
	PaymentMade     decimal.Decimal            `json:"payment_made"`
	BalanceDue      decimal.Decimal            `json:"balance_due"`
	LineItems       []*InvoiceLineItemResponse `json:"line_items"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// NewInvoiceResponse builds the response for an invoice. The reported
// status is the display status, so a pending invoice past its due date
// with money owing comes back as overdue.
func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		AdmissionNumber: inv.AdmissionNumber,
		StudentName:     inv.StudentName,
		InvoiceDate:     inv.InvoiceDate,
		DueDate:         inv.DueDate,
		InvoiceStatus:   inv.DisplayStatus(time.Now().UTC()),
		Subtotal:        inv.Subtotal.Round(2),
		TotalAmount:     inv.TotalAmount.Round(2),
		PaymentMade:     inv.PaymentMade.Round(2),
		BalanceDue:      inv.BalanceDue.Round(2),
		LineItems:       make([]*InvoiceLineItemResponse, 0, len(inv.LineItems)),
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
	for _, item := range inv.LineItems {
		resp.LineItems = append(resp.LineItems, NewInvoiceLineItemResponse(item))
	}
	return resp
}

// CreateInvoiceResponse wraps the created invoice together with a
// warning when old invoices could not be marked as forwarded.
type CreateInvoiceResponse struct {
	*InvoiceResponse
	Warning string `json:"warning,omitempty"`
}

// ListInvoicesResponse represents a paginated list of invoices
type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]
