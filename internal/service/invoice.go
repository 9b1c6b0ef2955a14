package service

import (
	"context"
	"strings"
	"time"

	"github.com/edledger/edledger/internal/api/dto"
	"github.com/edledger/edledger/internal/domain/catalog"
	"github.com/edledger/edledger/internal/domain/invoice"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
	"github.com/shopspring/decimal"
)

// InvoiceService handles invoice lifecycle operations
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*dto.InvoiceResponse, error)
	UpdateInvoice(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	stud, err := s.StudentRepo.GetByAdmissionNumber(ctx, req.AdmissionNumber)
	if err != nil {
		return nil, err
	}

	invoiceDate := time.Now().UTC()
	if req.InvoiceDate != nil {
		invoiceDate = *req.InvoiceDate
	}

	inv := &invoice.Invoice{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		AdmissionNumber: stud.AdmissionNumber,
		StudentName:     stud.FullName(),
		InvoiceDate:     invoiceDate,
		DueDate:         req.DueDate,
		InvoiceStatus:   types.InvoiceStatusPending,
		PaymentMade:     decimal.Zero,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}

	for i := range req.LineItems {
		inv.LineItems = append(inv.LineItems, req.LineItems[i].ToLineItem(ctx, inv))
	}

	// Carrying forward happens in two phases. The resolved balance is billed on
	// this invoice first; only after it persists are the source invoices marked
	// forwarded, so a crash can leave extra pending invoices but never lose money.
	var sourceNumbers []string
	if req.IncludeBroughtForward {
		amount, sources, err := s.resolveBroughtForward(ctx, stud.AdmissionNumber, invoiceDate)
		if err != nil {
			return nil, err
		}
		if amount.IsPositive() {
			if err := s.ensureBroughtForwardItem(ctx); err != nil {
				return nil, err
			}
			desc := "Invoices: " + strings.Join(sources, ", ")
			inv.LineItems = append(inv.LineItems, &invoice.LineItem{
				ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
				InvoiceID:       inv.ID,
				ItemName:        invoice.BroughtForwardItemName,
				UnitPrice:       amount,
				Quantity:        1,
				DiscountPercent: decimal.Zero,
				Description:     desc,
				BaseModel:       types.GetDefaultBaseModel(ctx),
			})
			inv.BroughtForwardDescription = &desc
			sourceNumbers = sources
		}
	}

	// An invoice must bill something. After brought-forward resolution the
	// invoice needs at least one countable line, so a request with no named
	// line items and nothing to carry forward is rejected before any write.
	hasCountable := false
	for _, li := range inv.LineItems {
		if li.Countable() {
			hasCountable = true
			break
		}
	}
	if !hasCountable {
		return nil, ierr.NewError("invoice has no billable line items").
			WithHint("Add at least one line item with an item name").
			WithReportableDetails(map[string]any{
				"admission_number": stud.AdmissionNumber,
			}).
			Mark(ierr.ErrValidation)
	}

	inv.Recalculate()
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	// The sequence is only consumed once the invoice is known to be valid
	invoiceNumber, err := s.InvoiceRepo.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}
	inv.InvoiceNumber = invoiceNumber

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		return s.InvoiceRepo.CreateWithLineItems(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.CreateInvoiceResponse{InvoiceResponse: dto.NewInvoiceResponse(inv)}

	if len(sourceNumbers) > 0 {
		if err := s.markSourcesForwarded(ctx, inv.InvoiceNumber, sourceNumbers); err != nil {
			s.Logger.Errorw("failed to mark source invoices forwarded",
				"invoice_number", inv.InvoiceNumber,
				"source_invoices", sourceNumbers,
				"error", err)
			resp.Warning = err.Error()
		}
	}

	return resp, nil
}

// resolveBroughtForward sums the positive balances of the student's overdue,
// non-forwarded invoices as of the given time and returns the invoice numbers
// the balance is drawn from.
func (s *invoiceService) resolveBroughtForward(ctx context.Context, admissionNumber string, asOf time.Time) (decimal.Decimal, []string, error) {
	filter := types.NewNoLimitInvoiceFilter()
	filter.AdmissionNumber = admissionNumber
	filter.OverdueOnly = true

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return decimal.Zero, nil, err
	}

	total := decimal.Zero
	numbers := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		if !inv.IsOverdue(asOf) {
			continue
		}
		total = total.Add(inv.BalanceDue)
		numbers = append(numbers, inv.InvoiceNumber)
	}
	return total, numbers, nil
}

// ensureBroughtForwardItem guarantees the reserved catalog item exists before a
// brought-forward line references it. Failure here aborts invoice creation.
func (s *invoiceService) ensureBroughtForwardItem(ctx context.Context) error {
	_, err := s.CatalogRepo.GetOrCreateByName(ctx, &catalog.Item{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CATALOG_ITEM),
		Name:         invoice.BroughtForwardItemName,
		DefaultPrice: decimal.Zero,
		System:       true,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Could not prepare the balance brought forward item").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// markSourcesForwarded flips each carried-from invoice into its terminal state.
// Partial failure is reported, not fatal: the new invoice already holds the
// balance and must survive.
func (s *invoiceService) markSourcesForwarded(ctx context.Context, newInvoiceNumber string, sourceNumbers []string) error {
	var failed []string
	var lastErr error

	for _, number := range sourceNumbers {
		src, err := s.InvoiceRepo.GetByInvoiceNumber(ctx, number)
		if err != nil {
			failed = append(failed, number)
			lastErr = err
			continue
		}
		if err := src.MarkForwarded(); err != nil {
			failed = append(failed, number)
			lastErr = err
			continue
		}
		if err := s.InvoiceRepo.Update(ctx, src); err != nil {
			failed = append(failed, number)
			lastErr = err
		}
	}

	if len(failed) > 0 {
		return &invoice.ForwardMarkError{
			NewInvoiceNumber: newInvoiceNumber,
			InvoiceNumbers:   failed,
			Err:              lastErr,
		}
	}
	return nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) GetInvoiceByNumber(ctx context.Context, invoiceNumber string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.GetByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !inv.Editable() {
		return nil, ierr.NewError("invoice is forwarded").
			WithHint("Forwarded invoices are read-only").
			WithReportableDetails(map[string]any{
				"invoice_number": inv.InvoiceNumber,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	items := make([]*invoice.LineItem, 0, len(req.LineItems))
	for i := range req.LineItems {
		items = append(items, req.LineItems[i].ToLineItem(ctx, inv))
	}

	// Reject edits that would bill less than what has already been paid. The
	// alternative is a negative balance due, which the ledger never allows.
	candidate := invoice.CandidateSubtotal(items)
	if candidate.LessThan(inv.PaymentMade) {
		return nil, ierr.NewError("new total below payment made").
			WithHint("Invoice total cannot drop below the amount already paid").
			WithReportableDetails(map[string]any{
				"invoice_number": inv.InvoiceNumber,
				"new_total":      candidate.String(),
				"payment_made":   inv.PaymentMade.String(),
				"shortfall":      inv.PaymentMade.Sub(candidate).String(),
			}).
			Mark(ierr.ErrValidation)
	}

	inv.LineItems = items
	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	}
	inv.Recalculate()
	inv.UpdatedAt = time.Now().UTC()
	inv.UpdatedBy = types.GetUserID(ctx)

	// An edit can land exactly on the amount paid or reopen a paid invoice
	if inv.BalanceDue.IsZero() && inv.PaymentMade.IsPositive() {
		inv.InvoiceStatus = types.InvoiceStatusPaid
	} else if inv.InvoiceStatus == types.InvoiceStatusPaid && inv.BalanceDue.IsPositive() {
		inv.InvoiceStatus = types.InvoiceStatusPending
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		return s.InvoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) (*dto.ListInvoicesResponse, error) {
	if filter == nil {
		filter = types.NewInvoiceFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, dto.NewInvoiceResponse(inv))
	}

	return &dto.ListInvoicesResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}
