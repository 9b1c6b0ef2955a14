package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/edledger/edledger/internal/domain/invoice"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/postgres"
	"github.com/edledger/edledger/internal/types"
)

type invoiceRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{client: client, logger: logger}
}

// invoiceRow is the database shape of an invoice. Monetary values travel as
// numeric strings and are parsed into decimals exactly once, here.
type invoiceRow struct {
	ID                        string         `db:"id"`
	InvoiceNumber             string         `db:"invoice_number"`
	AdmissionNumber           string         `db:"admission_number"`
	StudentName               string         `db:"student_name"`
	InvoiceDate               time.Time      `db:"invoice_date"`
	DueDate                   time.Time      `db:"due_date"`
	InvoiceStatus             string         `db:"invoice_status"`
	Subtotal                  string         `db:"subtotal"`
	TotalAmount               string         `db:"total_amount"`
	PaymentMade               string         `db:"payment_made"`
	BalanceDue                string         `db:"balance_due"`
	BroughtForwardDescription sql.NullString `db:"brought_forward_description"`
	TenantID                  string         `db:"tenant_id"`
	Status                    string         `db:"status"`
	CreatedAt                 time.Time      `db:"created_at"`
	UpdatedAt                 time.Time      `db:"updated_at"`
	CreatedBy                 string         `db:"created_by"`
	UpdatedBy                 string         `db:"updated_by"`
}

type lineItemRow struct {
	ID              string    `db:"id"`
	InvoiceID       string    `db:"invoice_id"`
	ItemName        string    `db:"item_name"`
	UnitPrice       string    `db:"unit_price"`
	Quantity        int       `db:"quantity"`
	DiscountPercent string    `db:"discount_percent"`
	Description     string    `db:"description"`
	TenantID        string    `db:"tenant_id"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	CreatedBy       string    `db:"created_by"`
	UpdatedBy       string    `db:"updated_by"`
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHintf("Stored amount %s is not a valid number", field).
			Mark(ierr.ErrDatabase)
	}
	return d, nil
}

func (r *invoiceRow) toDomain() (*invoice.Invoice, error) {
	subtotal, err := parseAmount("subtotal", r.Subtotal)
	if err != nil {
		return nil, err
	}
	total, err := parseAmount("total_amount", r.TotalAmount)
	if err != nil {
		return nil, err
	}
	paid, err := parseAmount("payment_made", r.PaymentMade)
	if err != nil {
		return nil, err
	}
	balance, err := parseAmount("balance_due", r.BalanceDue)
	if err != nil {
		return nil, err
	}

	inv := &invoice.Invoice{
		ID:              r.ID,
		InvoiceNumber:   r.InvoiceNumber,
		AdmissionNumber: r.AdmissionNumber,
		StudentName:     r.StudentName,
		InvoiceDate:     r.InvoiceDate,
		DueDate:         r.DueDate,
		InvoiceStatus:   types.InvoiceStatus(r.InvoiceStatus),
		Subtotal:        subtotal,
		TotalAmount:     total,
		PaymentMade:     paid,
		BalanceDue:      balance,
		BaseModel: types.BaseModel{
			TenantID:  r.TenantID,
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
	if r.BroughtForwardDescription.Valid {
		desc := r.BroughtForwardDescription.String
		inv.BroughtForwardDescription = &desc
	}
	return inv, nil
}

func (r *lineItemRow) toDomain() (*invoice.LineItem, error) {
	price, err := parseAmount("unit_price", r.UnitPrice)
	if err != nil {
		return nil, err
	}
	discount, err := parseAmount("discount_percent", r.DiscountPercent)
	if err != nil {
		return nil, err
	}

	return &invoice.LineItem{
		ID:              r.ID,
		InvoiceID:       r.InvoiceID,
		ItemName:        r.ItemName,
		UnitPrice:       price,
		Quantity:        r.Quantity,
		DiscountPercent: discount,
		Description:     r.Description,
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

const insertInvoiceQuery = `
INSERT INTO invoices (
	id, invoice_number, admission_number, student_name, invoice_date, due_date,
	invoice_status, subtotal, total_amount, payment_made, balance_due,
	brought_forward_description, tenant_id, status, created_at, updated_at,
	created_by, updated_by
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
)`

const insertLineItemQuery = `
INSERT INTO invoice_line_items (
	id, invoice_id, item_name, unit_price, quantity, discount_percent,
	description, tenant_id, status, created_at, updated_at, created_by, updated_by
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
)`

func (r *invoiceRepository) CreateWithLineItems(ctx context.Context, inv *invoice.Invoice) error {
	return r.client.WithTx(ctx, func(ctx context.Context) error {
		q := r.client.Querier(ctx)

		var bfDesc sql.NullString
		if inv.BroughtForwardDescription != nil {
			bfDesc = sql.NullString{String: *inv.BroughtForwardDescription, Valid: true}
		}

		_, err := q.ExecContext(ctx, insertInvoiceQuery,
			inv.ID, inv.InvoiceNumber, inv.AdmissionNumber, inv.StudentName,
			inv.InvoiceDate, inv.DueDate, string(inv.InvoiceStatus),
			inv.Subtotal.String(), inv.TotalAmount.String(),
			inv.PaymentMade.String(), inv.BalanceDue.String(),
			bfDesc, inv.TenantID, string(inv.Status),
			inv.CreatedAt, inv.UpdatedAt, inv.CreatedBy, inv.UpdatedBy,
		)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create invoice").
				Mark(ierr.ErrDatabase)
		}

		for _, item := range inv.LineItems {
			_, err := q.ExecContext(ctx, insertLineItemQuery,
				item.ID, inv.ID, item.ItemName,
				item.UnitPrice.String(), item.Quantity, item.DiscountPercent.String(),
				item.Description, item.TenantID, string(item.Status),
				item.CreatedAt, item.UpdatedAt, item.CreatedBy, item.UpdatedBy,
			)
			if err != nil {
				return ierr.WithError(err).
					WithHint("Failed to create invoice line item").
					Mark(ierr.ErrDatabase)
			}
		}
		return nil
	})
}

const selectInvoiceColumns = `
	id, invoice_number, admission_number, student_name, invoice_date, due_date,
	invoice_status, subtotal, total_amount, payment_made, balance_due,
	brought_forward_description, tenant_id, status, created_at, updated_at,
	created_by, updated_by`

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	return r.getOne(ctx, "id = $2", id)
}

func (r *invoiceRepository) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*invoice.Invoice, error) {
	return r.getOne(ctx, "invoice_number = $2", invoiceNumber)
}

func (r *invoiceRepository) getOne(ctx context.Context, cond string, arg interface{}) (*invoice.Invoice, error) {
	q := r.client.Querier(ctx)

	query := fmt.Sprintf(
		"SELECT %s FROM invoices WHERE tenant_id = $1 AND status != 'deleted' AND %s",
		selectInvoiceColumns, cond,
	)

	var row invoiceRow
	err := q.GetContext(ctx, &row, query, types.GetTenantID(ctx), arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.WithError(err).
				WithHint("Invoice not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}

	inv, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	if err := r.loadLineItems(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invoiceRepository) loadLineItems(ctx context.Context, inv *invoice.Invoice) error {
	q := r.client.Querier(ctx)

	query := `
	SELECT id, invoice_id, item_name, unit_price, quantity, discount_percent,
		description, tenant_id, status, created_at, updated_at, created_by, updated_by
	FROM invoice_line_items
	WHERE invoice_id = $1 AND status != 'deleted'
	ORDER BY created_at, id`

	var rows []lineItemRow
	if err := q.SelectContext(ctx, &rows, query, inv.ID); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to load invoice line items").
			Mark(ierr.ErrDatabase)
	}

	inv.LineItems = make([]*invoice.LineItem, 0, len(rows))
	for i := range rows {
		item, err := rows[i].toDomain()
		if err != nil {
			return err
		}
		inv.LineItems = append(inv.LineItems, item)
	}
	return nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	return r.client.WithTx(ctx, func(ctx context.Context) error {
		q := r.client.Querier(ctx)

		var bfDesc sql.NullString
		if inv.BroughtForwardDescription != nil {
			bfDesc = sql.NullString{String: *inv.BroughtForwardDescription, Valid: true}
		}

		query := `
		UPDATE invoices SET
			due_date = $3, invoice_status = $4, subtotal = $5, total_amount = $6,
			payment_made = $7, balance_due = $8, brought_forward_description = $9,
			updated_at = $10, updated_by = $11
		WHERE tenant_id = $1 AND id = $2`

		res, err := q.ExecContext(ctx, query,
			inv.TenantID, inv.ID,
			inv.DueDate, string(inv.InvoiceStatus),
			inv.Subtotal.String(), inv.TotalAmount.String(),
			inv.PaymentMade.String(), inv.BalanceDue.String(),
			bfDesc, inv.UpdatedAt, inv.UpdatedBy,
		)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to update invoice").
				Mark(ierr.ErrDatabase)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ierr.NewError("invoice not found").
				WithHint("Invoice not found").
				Mark(ierr.ErrNotFound)
		}

		// Line items are replaced wholesale on edit
		if _, err := q.ExecContext(ctx,
			`DELETE FROM invoice_line_items WHERE invoice_id = $1`, inv.ID); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to replace invoice line items").
				Mark(ierr.ErrDatabase)
		}
		for _, item := range inv.LineItems {
			_, err := q.ExecContext(ctx, insertLineItemQuery,
				item.ID, inv.ID, item.ItemName,
				item.UnitPrice.String(), item.Quantity, item.DiscountPercent.String(),
				item.Description, item.TenantID, string(item.Status),
				item.CreatedAt, item.UpdatedAt, item.CreatedBy, item.UpdatedBy,
			)
			if err != nil {
				return ierr.WithError(err).
					WithHint("Failed to replace invoice line items").
					Mark(ierr.ErrDatabase)
			}
		}
		return nil
	})
}

// buildListQuery renders the filter into a WHERE clause. Overdue is computed
// against the query time since it is never stored.
func (r *invoiceRepository) buildListQuery(ctx context.Context, filter *types.InvoiceFilter) (string, []interface{}) {
	where := "tenant_id = $1 AND status != 'deleted'"
	args := []interface{}{types.GetTenantID(ctx)}

	next := func() int { return len(args) + 1 }

	if filter != nil {
		if filter.AdmissionNumber != "" {
			where += fmt.Sprintf(" AND admission_number = $%d", next())
			args = append(args, filter.AdmissionNumber)
		}
		if len(filter.InvoiceNumbers) > 0 {
			where += fmt.Sprintf(" AND invoice_number = ANY($%d)", next())
			args = append(args, pq.Array(filter.InvoiceNumbers))
		}
		if len(filter.InvoiceStatus) > 0 {
			statuses := make([]string, 0, len(filter.InvoiceStatus))
			for _, s := range filter.InvoiceStatus {
				statuses = append(statuses, string(s))
			}
			where += fmt.Sprintf(" AND invoice_status = ANY($%d)", next())
			args = append(args, pq.Array(statuses))
		}
		if filter.OutstandingOnly {
			where += " AND invoice_status != 'forwarded' AND balance_due::numeric > 0"
		}
		if filter.OverdueOnly {
			where += fmt.Sprintf(" AND invoice_status = 'pending' AND balance_due::numeric > 0 AND due_date < $%d", next())
			args = append(args, time.Now().UTC())
		}
		if filter.TimeRangeFilter != nil {
			if filter.StartTime != nil {
				where += fmt.Sprintf(" AND invoice_date >= $%d", next())
				args = append(args, *filter.StartTime)
			}
			if filter.EndTime != nil {
				where += fmt.Sprintf(" AND invoice_date <= $%d", next())
				args = append(args, *filter.EndTime)
			}
		}
	}
	return where, args
}

func (r *invoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	q := r.client.Querier(ctx)
	where, args := r.buildListQuery(ctx, filter)

	query := fmt.Sprintf(
		"SELECT %s FROM invoices WHERE %s ORDER BY invoice_date, invoice_number",
		selectInvoiceColumns, where,
	)
	if filter != nil && !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var rows []invoiceRow
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}

	invoices := make([]*invoice.Invoice, 0, len(rows))
	for i := range rows {
		inv, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		if err := r.loadLineItems(ctx, inv); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	q := r.client.Querier(ctx)
	where, args := r.buildListQuery(ctx, filter)

	var count int
	query := "SELECT COUNT(*) FROM invoices WHERE " + where
	if err := q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *invoiceRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	q := r.client.Querier(ctx)

	var n int64
	if err := q.GetContext(ctx, &n, "SELECT nextval('invoice_number_seq')"); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to generate invoice number").
			Mark(ierr.ErrDatabase)
	}
	return fmt.Sprintf("INV-%06d", n), nil
}
