package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/edledger/edledger/internal/domain/payment"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/postgres"
	"github.com/edledger/edledger/internal/types"
)

type paymentRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewPaymentRepository(client postgres.IClient, logger *logger.Logger) payment.Repository {
	return &paymentRepository{client: client, logger: logger}
}

type paymentRow struct {
	ID              string         `db:"id"`
	ReceiptNumber   string         `db:"receipt_number"`
	AdmissionNumber string         `db:"admission_number"`
	Amount          string         `db:"amount"`
	PaymentDate     time.Time      `db:"payment_date"`
	AccountID       string         `db:"account_id"`
	PaymentMethodID string         `db:"payment_method_id"`
	ReferenceNumber sql.NullString `db:"reference_number"`
	Metadata        types.Metadata `db:"metadata"`
	TenantID        string         `db:"tenant_id"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	CreatedBy       string         `db:"created_by"`
	UpdatedBy       string         `db:"updated_by"`
}

type allocationRow struct {
	ID              string    `db:"id"`
	PaymentID       string    `db:"payment_id"`
	InvoiceNumber   string    `db:"invoice_number"`
	AllocatedAmount string    `db:"allocated_amount"`
	TenantID        string    `db:"tenant_id"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	CreatedBy       string    `db:"created_by"`
	UpdatedBy       string    `db:"updated_by"`
}

func (r *paymentRow) toDomain() (*payment.Payment, error) {
	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return nil, err
	}

	p := &payment.Payment{
		ID:              r.ID,
		ReceiptNumber:   r.ReceiptNumber,
		AdmissionNumber: r.AdmissionNumber,
		Amount:          amount,
		PaymentDate:     r.PaymentDate,
		AccountID:       r.AccountID,
		PaymentMethodID: r.PaymentMethodID,
		Metadata:        r.Metadata,
		BaseModel: types.BaseModel{
			TenantID:  r.TenantID,
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
	if r.ReferenceNumber.Valid {
		ref := r.ReferenceNumber.String
		p.ReferenceNumber = &ref
	}
	return p, nil
}

func (r *allocationRow) toDomain() (*payment.Allocation, error) {
	amount, err := parseAmount("allocated_amount", r.AllocatedAmount)
	if err != nil {
		return nil, err
	}

	return &payment.Allocation{
		ID:              r.ID,
		PaymentID:       r.PaymentID,
		InvoiceNumber:   r.InvoiceNumber,
		AllocatedAmount: amount,
		BaseModel: types.BaseModel{
			TenantID:  r.TenantID,
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}, nil
}

const insertPaymentQuery = `
INSERT INTO payments (
	id, receipt_number, admission_number, amount, payment_date, account_id,
	payment_method_id, reference_number, metadata, tenant_id, status, created_at,
	updated_at, created_by, updated_by
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
)`

const insertAllocationQuery = `
INSERT INTO payment_allocations (
	id, payment_id, invoice_number, allocated_amount, tenant_id, status,
	created_at, updated_at, created_by, updated_by
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
)`

func (r *paymentRepository) CreateWithAllocations(ctx context.Context, p *payment.Payment) error {
	return r.client.WithTx(ctx, func(ctx context.Context) error {
		q := r.client.Querier(ctx)

		var ref sql.NullString
		if p.ReferenceNumber != nil {
			ref = sql.NullString{String: *p.ReferenceNumber, Valid: true}
		}

		_, err := q.ExecContext(ctx, insertPaymentQuery,
			p.ID, p.ReceiptNumber, p.AdmissionNumber, p.Amount.String(),
			p.PaymentDate, p.AccountID, p.PaymentMethodID, ref, p.Metadata,
			p.TenantID, string(p.Status), p.CreatedAt, p.UpdatedAt,
			p.CreatedBy, p.UpdatedBy,
		)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create payment").
				Mark(ierr.ErrDatabase)
		}

		for _, a := range p.Allocations {
			_, err := q.ExecContext(ctx, insertAllocationQuery,
				a.ID, p.ID, a.InvoiceNumber, a.AllocatedAmount.String(),
				a.TenantID, string(a.Status), a.CreatedAt, a.UpdatedAt,
				a.CreatedBy, a.UpdatedBy,
			)
			if err != nil {
				return ierr.WithError(err).
					WithHint("Failed to create payment allocation").
					Mark(ierr.ErrDatabase)
			}
		}
		return nil
	})
}

const selectPaymentColumns = `
	id, receipt_number, admission_number, amount, payment_date, account_id,
	payment_method_id, reference_number, metadata, tenant_id, status, created_at,
	updated_at, created_by, updated_by`

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	q := r.client.Querier(ctx)

	query := fmt.Sprintf(
		"SELECT %s FROM payments WHERE tenant_id = $1 AND status != 'deleted' AND id = $2",
		selectPaymentColumns,
	)

	var row paymentRow
	err := q.GetContext(ctx, &row, query, types.GetTenantID(ctx), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.WithError(err).
				WithHint("Payment not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment").
			Mark(ierr.ErrDatabase)
	}

	p, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	if err := r.loadAllocations(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) loadAllocations(ctx context.Context, p *payment.Payment) error {
	q := r.client.Querier(ctx)

	query := `
	SELECT id, payment_id, invoice_number, allocated_amount, tenant_id, status,
		created_at, updated_at, created_by, updated_by
	FROM payment_allocations
	WHERE payment_id = $1 AND status != 'deleted'
	ORDER BY created_at, id`

	var rows []allocationRow
	if err := q.SelectContext(ctx, &rows, query, p.ID); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to load payment allocations").
			Mark(ierr.ErrDatabase)
	}

	p.Allocations = make([]*payment.Allocation, 0, len(rows))
	for i := range rows {
		a, err := rows[i].toDomain()
		if err != nil {
			return err
		}
		p.Allocations = append(p.Allocations, a)
	}
	return nil
}

func (r *paymentRepository) buildListQuery(ctx context.Context, filter *types.PaymentFilter) (string, []interface{}) {
	where := "tenant_id = $1 AND status != 'deleted'"
	args := []interface{}{types.GetTenantID(ctx)}

	next := func() int { return len(args) + 1 }

	if filter != nil {
		if filter.AdmissionNumber != "" {
			where += fmt.Sprintf(" AND admission_number = $%d", next())
			args = append(args, filter.AdmissionNumber)
		}
		if filter.AccountID != "" {
			where += fmt.Sprintf(" AND account_id = $%d", next())
			args = append(args, filter.AccountID)
		}
		if filter.PaymentMethodID != "" {
			where += fmt.Sprintf(" AND payment_method_id = $%d", next())
			args = append(args, filter.PaymentMethodID)
		}
		if filter.InvoiceNumber != "" {
			where += fmt.Sprintf(
				" AND id IN (SELECT payment_id FROM payment_allocations WHERE invoice_number = $%d)",
				next(),
			)
			args = append(args, filter.InvoiceNumber)
		}
		if filter.TimeRangeFilter != nil {
			if filter.StartTime != nil {
				where += fmt.Sprintf(" AND payment_date >= $%d", next())
				args = append(args, *filter.StartTime)
			}
			if filter.EndTime != nil {
				where += fmt.Sprintf(" AND payment_date <= $%d", next())
				args = append(args, *filter.EndTime)
			}
		}
	}
	return where, args
}

func (r *paymentRepository) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	q := r.client.Querier(ctx)
	where, args := r.buildListQuery(ctx, filter)

	query := fmt.Sprintf(
		"SELECT %s FROM payments WHERE %s ORDER BY payment_date DESC, id",
		selectPaymentColumns, where,
	)
	if filter != nil && !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var rows []paymentRow
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments").
			Mark(ierr.ErrDatabase)
	}

	payments := make([]*payment.Payment, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		if err := r.loadAllocations(ctx, p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func (r *paymentRepository) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	q := r.client.Querier(ctx)
	where, args := r.buildListQuery(ctx, filter)

	var count int
	query := "SELECT COUNT(*) FROM payments WHERE " + where
	if err := q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count payments").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *paymentRepository) ListAllocationsByInvoice(ctx context.Context, invoiceNumber string) ([]*payment.Allocation, error) {
	q := r.client.Querier(ctx)

	query := `
	SELECT id, payment_id, invoice_number, allocated_amount, tenant_id, status,
		created_at, updated_at, created_by, updated_by
	FROM payment_allocations
	WHERE tenant_id = $1 AND invoice_number = $2 AND status != 'deleted'
	ORDER BY created_at, id`

	var rows []allocationRow
	if err := q.SelectContext(ctx, &rows, query, types.GetTenantID(ctx), invoiceNumber); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list allocations").
			Mark(ierr.ErrDatabase)
	}

	allocations := make([]*payment.Allocation, 0, len(rows))
	for i := range rows {
		a, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	return allocations, nil
}
