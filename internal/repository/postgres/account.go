package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/edledger/edledger/internal/domain/account"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/postgres"
	"github.com/edledger/edledger/internal/types"
)

type accountRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewAccountRepository(client postgres.IClient, logger *logger.Logger) account.Repository {
	return &accountRepository{client: client, logger: logger}
}

type accountRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	AccountNumber string    `db:"account_number"`
	BankName      string    `db:"bank_name"`
	TenantID      string    `db:"tenant_id"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	CreatedBy     string    `db:"created_by"`
	UpdatedBy     string    `db:"updated_by"`
}

func (r *accountRow) toDomain() *account.Account {
	return &account.Account{
		ID:            r.ID,
		Name:          r.Name,
		AccountNumber: r.AccountNumber,
		BankName:      r.BankName,
		BaseModel: types.BaseModel{
			TenantID:  r.TenantID,
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
}

const selectAccountColumns = `
	id, name, account_number, bank_name,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *accountRepository) Create(ctx context.Context, acc *account.Account) error {
	q := r.client.Querier(ctx)

	query := `
	INSERT INTO accounts (
		id, name, account_number, bank_name,
		tenant_id, status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)`

	_, err := q.ExecContext(ctx, query,
		acc.ID, acc.Name, acc.AccountNumber, acc.BankName,
		acc.TenantID, string(acc.Status), acc.CreatedAt, acc.UpdatedAt,
		acc.CreatedBy, acc.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create account").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	q := r.client.Querier(ctx)

	query := fmt.Sprintf(
		"SELECT %s FROM accounts WHERE tenant_id = $1 AND status != 'deleted' AND id = $2",
		selectAccountColumns,
	)

	var row accountRow
	err := q.GetContext(ctx, &row, query, types.GetTenantID(ctx), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.WithError(err).
				WithHint("Account not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get account").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *accountRepository) Update(ctx context.Context, acc *account.Account) error {
	q := r.client.Querier(ctx)

	query := `
	UPDATE accounts SET
		name = $3, account_number = $4, bank_name = $5, updated_at = $6, updated_by = $7
	WHERE tenant_id = $1 AND id = $2`

	res, err := q.ExecContext(ctx, query,
		acc.TenantID, acc.ID,
		acc.Name, acc.AccountNumber, acc.BankName,
		acc.UpdatedAt, acc.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update account").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("account not found").
			WithHint("Account not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	q := r.client.Querier(ctx)

	query := `
	UPDATE accounts SET status = 'deleted', updated_at = $3, updated_by = $4
	WHERE tenant_id = $1 AND id = $2`

	res, err := q.ExecContext(ctx, query,
		types.GetTenantID(ctx), id, time.Now().UTC(), types.GetUserID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete account").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("account not found").
			WithHint("Account not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *accountRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*account.Account, error) {
	q := r.client.Querier(ctx)

	query := fmt.Sprintf(
		"SELECT %s FROM accounts WHERE tenant_id = $1 AND status != 'deleted' ORDER BY name",
		selectAccountColumns,
	)
	if filter != nil && !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var rows []accountRow
	if err := q.SelectContext(ctx, &rows, query, types.GetTenantID(ctx)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list accounts").
			Mark(ierr.ErrDatabase)
	}

	accounts := make([]*account.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, rows[i].toDomain())
	}
	return accounts, nil
}

type paymentMethodRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewPaymentMethodRepository(client postgres.IClient, logger *logger.Logger) account.PaymentMethodRepository {
	return &paymentMethodRepository{client: client, logger: logger}
}

type paymentMethodRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	TenantID  string    `db:"tenant_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
	CreatedBy string    `db:"created_by"`
	UpdatedBy string    `db:"updated_by"`
}

func (r *paymentMethodRow) toDomain() *account.PaymentMethod {
	return &account.PaymentMethod{
		ID:   r.ID,
		Name: r.Name,
		BaseModel: types.BaseModel{
			TenantID:  r.TenantID,
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
}

const selectPaymentMethodColumns = `
	id, name, tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *paymentMethodRepository) Create(ctx context.Context, method *account.PaymentMethod) error {
	q := r.client.Querier(ctx)

	query := `
	INSERT INTO payment_methods (
		id, name, tenant_id, status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8
	)`

	_, err := q.ExecContext(ctx, query,
		method.ID, method.Name,
		method.TenantID, string(method.Status), method.CreatedAt, method.UpdatedAt,
		method.CreatedBy, method.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create payment method").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentMethodRepository) Get(ctx context.Context, id string) (*account.PaymentMethod, error) {
	q := r.client.Querier(ctx)

	query := fmt.Sprintf(
		"SELECT %s FROM payment_methods WHERE tenant_id = $1 AND status != 'deleted' AND id = $2",
		selectPaymentMethodColumns,
	)

	var row paymentMethodRow
	err := q.GetContext(ctx, &row, query, types.GetTenantID(ctx), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.WithError(err).
				WithHint("Payment method not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment method").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *paymentMethodRepository) Update(ctx context.Context, method *account.PaymentMethod) error {
	q := r.client.Querier(ctx)

	query := `
	UPDATE payment_methods SET name = $3, updated_at = $4, updated_by = $5
	WHERE tenant_id = $1 AND id = $2`

	res, err := q.ExecContext(ctx, query,
		method.TenantID, method.ID, method.Name,
		method.UpdatedAt, method.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update payment method").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("payment method not found").
			WithHint("Payment method not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *paymentMethodRepository) Delete(ctx context.Context, id string) error {
	q := r.client.Querier(ctx)

	query := `
	UPDATE payment_methods SET status = 'deleted', updated_at = $3, updated_by = $4
	WHERE tenant_id = $1 AND id = $2`

	res, err := q.ExecContext(ctx, query,
		types.GetTenantID(ctx), id, time.Now().UTC(), types.GetUserID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete payment method").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("payment method not found").
			WithHint("Payment method not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *paymentMethodRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*account.PaymentMethod, error) {
	q := r.client.Querier(ctx)

	query := fmt.Sprintf(
		"SELECT %s FROM payment_methods WHERE tenant_id = $1 AND status != 'deleted' ORDER BY name",
		selectPaymentMethodColumns,
	)
	if filter != nil && !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var rows []paymentMethodRow
	if err := q.SelectContext(ctx, &rows, query, types.GetTenantID(ctx)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payment methods").
			Mark(ierr.ErrDatabase)
	}

	methods := make([]*account.PaymentMethod, 0, len(rows))
	for i := range rows {
		methods = append(methods, rows[i].toDomain())
	}
	return methods, nil
}
