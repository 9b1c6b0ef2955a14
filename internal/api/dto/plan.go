package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edledger/edledger/internal/domain/plan"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
	"github.com/edledger/edledger/internal/validator"
)

// CreatePlanInstallmentRequest represents a single installment in a new plan
type CreatePlanInstallmentRequest struct {
	// due_date is the date this installment falls due
	DueDate time.Time `json:"due_date" validate:"required"`

	// amount is the portion of the balance promised by the due date
	Amount decimal.Decimal `json:"amount"`
}

func (r *CreatePlanInstallmentRequest) Validate() error {
	if r.Amount.IsNegative() || r.Amount.IsZero() {
		return ierr.NewError("installment amount must be positive").
			WithHint("Each installment must be a positive amount").
			WithReportableDetails(map[string]interface{}{
				"amount": r.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CreatePaymentPlanRequest represents the request payload for scheduling
// an installment plan against an invoice
type CreatePaymentPlanRequest struct {
	// invoice_number identifies the invoice the plan pays down
	InvoiceNumber string `json:"invoice_number" validate:"required"`

	// notes is optional free text about the agreement
	Notes string `json:"notes,omitempty"`

	// installments is the dated schedule; amounts must cover the
	// invoice balance due exactly
	Installments []CreatePlanInstallmentRequest `json:"installments" validate:"required,min=1"`
}

func (r *CreatePaymentPlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	for i := range r.Installments {
		if err := r.Installments[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToPaymentPlan converts a create payment plan request to a domain plan
func (r *CreatePaymentPlanRequest) ToPaymentPlan(ctx context.Context, admissionNumber string) *plan.PaymentPlan {
	p := &plan.PaymentPlan{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_PLAN),
		InvoiceNumber:   r.InvoiceNumber,
		AdmissionNumber: admissionNumber,
		PlanStatus:      types.PaymentPlanStatusActive,
		Notes:           r.Notes,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
	for i := range r.Installments {
		p.Installments = append(p.Installments, &plan.Installment{
			ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN_INSTALLMENT),
			PlanID:    p.ID,
			Sequence:  i + 1,
			DueDate:   r.Installments[i].DueDate,
			Amount:    r.Installments[i].Amount,
			BaseModel: types.GetDefaultBaseModel(ctx),
		})
	}
	p.Recalculate()
	return p
}

// UpdatePaymentPlanRequest represents the request payload for editing plan notes
type UpdatePaymentPlanRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// PlanInstallmentResponse represents an installment in responses
type PlanInstallmentResponse struct {
	ID       string          `json:"id"`
	Sequence int             `json:"sequence"`
	DueDate  time.Time       `json:"due_date"`
	Amount   decimal.Decimal `json:"amount"`
}

// PaymentPlanResponse represents a payment plan in responses
type PaymentPlanResponse struct {
	ID              string                     `json:"id"`
	InvoiceNumber   string                     `json:"invoice_number"`
	AdmissionNumber string                     `json:"admission_number"`
	PlanStatus      types.PaymentPlanStatus    `json:"plan_status"`
	TotalAmount     decimal.Decimal            `json:"total_amount"`
	Notes           string                     `json:"notes,omitempty"`
	Installments    []*PlanInstallmentResponse `json:"installments"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

func NewPaymentPlanResponse(p *plan.PaymentPlan) *PaymentPlanResponse {
	resp := &PaymentPlanResponse{
		ID:              p.ID,
		InvoiceNumber:   p.InvoiceNumber,
		AdmissionNumber: p.AdmissionNumber,
		PlanStatus:      p.PlanStatus,
		TotalAmount:     p.TotalAmount.Round(2),
		Notes:           p.Notes,
		Installments:    make([]*PlanInstallmentResponse, 0, len(p.Installments)),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	for _, inst := range p.Installments {
		resp.Installments = append(resp.Installments, &PlanInstallmentResponse{
			ID:       inst.ID,
			Sequence: inst.Sequence,
			DueDate:  inst.DueDate,
			Amount:   inst.Amount.Round(2),
		})
	}
	return resp
}

// ListPaymentPlansResponse represents a paginated list of payment plans
type ListPaymentPlansResponse = types.ListResponse[*PaymentPlanResponse]
