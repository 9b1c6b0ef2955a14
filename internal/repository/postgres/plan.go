package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/edledger/edledger/internal/domain/plan"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/postgres"
	"github.com/edledger/edledger/internal/types"
)

type planRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewPlanRepository(client postgres.IClient, logger *logger.Logger) plan.Repository {
	return &planRepository{client: client, logger: logger}
}

type paymentPlanRow struct {
	ID              string    `db:"id"`
	InvoiceNumber   string    `db:"invoice_number"`
	AdmissionNumber string    `db:"admission_number"`
	PlanStatus      string    `db:"plan_status"`
	TotalAmount     string    `db:"total_amount"`
	Notes           string    `db:"notes"`
	TenantID        string    `db:"tenant_id"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	CreatedBy       string    `db:"created_by"`
	UpdatedBy       string    `db:"updated_by"`
}

type installmentRow struct {
	ID        string    `db:"id"`
	PlanID    string    `db:"plan_id"`
	Sequence  int       `db:"sequence"`
	DueDate   time.Time `db:"due_date"`
	Amount    string    `db:"amount"`
	TenantID  string    `db:"tenant_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	CreatedBy string    `db:"created_by"`
	UpdatedBy string    `db:"updated_by"`
}

func (r *paymentPlanRow) toDomain() (*plan.PaymentPlan, error) {
	total, err := parseAmount("total_amount", r.TotalAmount)
	if err != nil {
		return nil, err
	}

	return &plan.PaymentPlan{
		ID:              r.ID,
		InvoiceNumber:   r.InvoiceNumber,
		AdmissionNumber: r.AdmissionNumber,
		PlanStatus:      types.PaymentPlanStatus(r.PlanStatus),
		TotalAmount:     total,
		Notes:           r.Notes,
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

func (r *installmentRow) toDomain() (*plan.Installment, error) {
	amount, err := parseAmount("amount", r.Amount)
	if err != nil {
		return nil, err
	}

	return &plan.Installment{
		ID:       r.ID,
		PlanID:   r.PlanID,
		Sequence: r.Sequence,
		DueDate:  r.DueDate,
		Amount:   amount,
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

const insertPlanQuery = `
INSERT INTO payment_plans (
	id, invoice_number, admission_number, plan_status, total_amount, notes,
	tenant_id, status, created_at, updated_at, created_by, updated_by
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
)`

const insertInstallmentQuery = `
INSERT INTO plan_installments (
	id, plan_id, sequence, due_date, amount, tenant_id, status,
	created_at, updated_at, created_by, updated_by
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
)`

func (r *planRepository) CreateWithInstallments(ctx context.Context, p *plan.PaymentPlan) error {
	return r.client.WithTx(ctx, func(ctx context.Context) error {
		q := r.client.Querier(ctx)

		_, err := q.ExecContext(ctx, insertPlanQuery,
			p.ID, p.InvoiceNumber, p.AdmissionNumber, string(p.PlanStatus),
			p.TotalAmount.String(), p.Notes, p.TenantID, string(p.Status),
			p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy,
		)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create payment plan").
				Mark(ierr.ErrDatabase)
		}

		for _, inst := range p.Installments {
			_, err := q.ExecContext(ctx, insertInstallmentQuery,
				inst.ID, p.ID, inst.Sequence, inst.DueDate, inst.Amount.String(),
				inst.TenantID, string(inst.Status), inst.CreatedAt, inst.UpdatedAt,
				inst.CreatedBy, inst.UpdatedBy,
			)
			if err != nil {
				return ierr.WithError(err).
					WithHint("Failed to create plan installment").
					Mark(ierr.ErrDatabase)
			}
		}
		return nil
	})
}

const selectPlanColumns = `
	id, invoice_number, admission_number, plan_status, total_amount, notes,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *planRepository) Get(ctx context.Context, id string) (*plan.PaymentPlan, error) {
	q := r.client.Querier(ctx)

	query := fmt.Sprintf(
		"SELECT %s FROM payment_plans WHERE tenant_id = $1 AND status != 'deleted' AND id = $2",
		selectPlanColumns,
	)

	var row paymentPlanRow
	err := q.GetContext(ctx, &row, query, types.GetTenantID(ctx), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.WithError(err).
				WithHint("Payment plan not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment plan").
			Mark(ierr.ErrDatabase)
	}

	p, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	if err := r.loadInstallments(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *planRepository) loadInstallments(ctx context.Context, p *plan.PaymentPlan) error {
	q := r.client.Querier(ctx)

	query := `
	SELECT id, plan_id, sequence, due_date, amount, tenant_id, status,
		created_at, updated_at, created_by, updated_by
	FROM plan_installments
	WHERE plan_id = $1 AND status != 'deleted'
	ORDER BY sequence, id`

	var rows []installmentRow
	if err := q.SelectContext(ctx, &rows, query, p.ID); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to load plan installments").
			Mark(ierr.ErrDatabase)
	}

	p.Installments = make([]*plan.Installment, 0, len(rows))
	for i := range rows {
		inst, err := rows[i].toDomain()
		if err != nil {
			return err
		}
		p.Installments = append(p.Installments, inst)
	}
	return nil
}

func (r *planRepository) Update(ctx context.Context, p *plan.PaymentPlan) error {
	q := r.client.Querier(ctx)

	query := `
	UPDATE payment_plans SET
		plan_status = $3, notes = $4, updated_at = $5, updated_by = $6
	WHERE tenant_id = $1 AND id = $2`

	res, err := q.ExecContext(ctx, query,
		p.TenantID, p.ID,
		string(p.PlanStatus), p.Notes, p.UpdatedAt, p.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update payment plan").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("payment plan not found").
			WithHint("Payment plan not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	return r.client.WithTx(ctx, func(ctx context.Context) error {
		q := r.client.Querier(ctx)
		now := time.Now().UTC()
		userID := types.GetUserID(ctx)

		query := `
		UPDATE payment_plans SET status = 'deleted', updated_at = $3, updated_by = $4
		WHERE tenant_id = $1 AND id = $2`

		res, err := q.ExecContext(ctx, query, types.GetTenantID(ctx), id, now, userID)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to delete payment plan").
				Mark(ierr.ErrDatabase)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ierr.NewError("payment plan not found").
				WithHint("Payment plan not found").
				Mark(ierr.ErrNotFound)
		}

		query = `
		UPDATE plan_installments SET status = 'deleted', updated_at = $3, updated_by = $4
		WHERE tenant_id = $1 AND plan_id = $2`

		if _, err := q.ExecContext(ctx, query, types.GetTenantID(ctx), id, now, userID); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to delete plan installments").
				Mark(ierr.ErrDatabase)
		}
		return nil
	})
}

func (r *planRepository) buildListQuery(ctx context.Context, filter *types.PaymentPlanFilter) (string, []interface{}) {
	where := "tenant_id = $1 AND status != 'deleted'"
	args := []interface{}{types.GetTenantID(ctx)}

	next := func() int { return len(args) + 1 }

	if filter != nil {
		if filter.AdmissionNumber != "" {
			where += fmt.Sprintf(" AND admission_number = $%d", next())
			args = append(args, filter.AdmissionNumber)
		}
		if filter.InvoiceNumber != "" {
			where += fmt.Sprintf(" AND invoice_number = $%d", next())
			args = append(args, filter.InvoiceNumber)
		}
		if filter.PlanStatus != "" {
			where += fmt.Sprintf(" AND plan_status = $%d", next())
			args = append(args, string(filter.PlanStatus))
		}
	}
	return where, args
}

func (r *planRepository) List(ctx context.Context, filter *types.PaymentPlanFilter) ([]*plan.PaymentPlan, error) {
	q := r.client.Querier(ctx)
	where, args := r.buildListQuery(ctx, filter)

	query := fmt.Sprintf(
		"SELECT %s FROM payment_plans WHERE %s ORDER BY created_at DESC, id",
		selectPlanColumns, where,
	)
	if filter != nil && !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var rows []paymentPlanRow
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payment plans").
			Mark(ierr.ErrDatabase)
	}

	plans := make([]*plan.PaymentPlan, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		if err := r.loadInstallments(ctx, p); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func (r *planRepository) Count(ctx context.Context, filter *types.PaymentPlanFilter) (int, error) {
	q := r.client.Querier(ctx)
	where, args := r.buildListQuery(ctx, filter)

	var count int
	query := "SELECT COUNT(*) FROM payment_plans WHERE " + where
	if err := q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count payment plans").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}
