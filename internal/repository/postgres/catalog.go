package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/edledger/edledger/internal/domain/catalog"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/postgres"
	"github.com/edledger/edledger/internal/types"
)

type catalogRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewCatalogRepository(client postgres.IClient, logger *logger.Logger) catalog.Repository {
	return &catalogRepository{client: client, logger: logger}
}

type catalogItemRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	DefaultPrice string    `db:"default_price"`
	Description  string    `db:"description"`
	SortOrder    int       `db:"sort_order"`
	System       bool      `db:"system"`
	TenantID     string    `db:"tenant_id"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	CreatedBy    string    `db:"created_by"`
	UpdatedBy    string    `db:"updated_by"`
}

func (r *catalogItemRow) toDomain() (*catalog.Item, error) {
	price, err := parseAmount("default_price", r.DefaultPrice)
	if err != nil {
		return nil, err
	}
	return &catalog.Item{
		ID:           r.ID,
		Name:         r.Name,
		DefaultPrice: price,
		Description:  r.Description,
		SortOrder:    r.SortOrder,
		System:       r.System,
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

const selectItemColumns = `
	id, name, default_price, description, sort_order, system,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

const insertItemQuery = `
	INSERT INTO item_master (
		id, name, default_price, description, sort_order, system,
		tenant_id, status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
	)`

func (r *catalogRepository) Create(ctx context.Context, item *catalog.Item) error {
	q := r.client.Querier(ctx)

	_, err := q.ExecContext(ctx, insertItemQuery,
		item.ID, item.Name, item.DefaultPrice.String(), item.Description,
		item.SortOrder, item.System,
		item.TenantID, string(item.Status), item.CreatedAt, item.UpdatedAt,
		item.CreatedBy, item.UpdatedBy,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return ierr.WithError(err).
				WithHint("An item with this name already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create catalog item").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *catalogRepository) Get(ctx context.Context, id string) (*catalog.Item, error) {
	return r.getOne(ctx, "id = $2", id)
}

func (r *catalogRepository) GetByName(ctx context.Context, name string) (*catalog.Item, error) {
	return r.getOne(ctx, "name = $2", name)
}

func (r *catalogRepository) getOne(ctx context.Context, cond string, arg interface{}) (*catalog.Item, error) {
	q := r.client.Querier(ctx)

	query := fmt.Sprintf(
		"SELECT %s FROM item_master WHERE tenant_id = $1 AND status != 'deleted' AND %s",
		selectItemColumns, cond,
	)

	var row catalogItemRow
	err := q.GetContext(ctx, &row, query, types.GetTenantID(ctx), arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.WithError(err).
				WithHint("Catalog item not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get catalog item").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain()
}

// GetOrCreateByName inserts the item if no item with the same name exists
// yet and returns the row that ends up in the table either way. The insert
// uses ON CONFLICT DO NOTHING so concurrent callers converge on one row.
func (r *catalogRepository) GetOrCreateByName(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	q := r.client.Querier(ctx)

	query := insertItemQuery + " ON CONFLICT (tenant_id, name) DO NOTHING"
	_, err := q.ExecContext(ctx, query,
		item.ID, item.Name, item.DefaultPrice.String(), item.Description,
		item.SortOrder, item.System,
		item.TenantID, string(item.Status), item.CreatedAt, item.UpdatedAt,
		item.CreatedBy, item.UpdatedBy,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to ensure catalog item").
			Mark(ierr.ErrDatabase)
	}
	return r.GetByName(ctx, item.Name)
}

func (r *catalogRepository) Update(ctx context.Context, item *catalog.Item) error {
	q := r.client.Querier(ctx)

	query := `
	UPDATE item_master SET
		name = $3, default_price = $4, description = $5, sort_order = $6,
		updated_at = $7, updated_by = $8
	WHERE tenant_id = $1 AND id = $2`

	res, err := q.ExecContext(ctx, query,
		item.TenantID, item.ID,
		item.Name, item.DefaultPrice.String(), item.Description, item.SortOrder,
		item.UpdatedAt, item.UpdatedBy,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return ierr.WithError(err).
				WithHint("An item with this name already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to update catalog item").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("catalog item not found").
			WithHint("Catalog item not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *catalogRepository) Delete(ctx context.Context, id string) error {
	q := r.client.Querier(ctx)

	query := `
	UPDATE item_master SET status = 'deleted', updated_at = $3, updated_by = $4
	WHERE tenant_id = $1 AND id = $2`

	res, err := q.ExecContext(ctx, query,
		types.GetTenantID(ctx), id, time.Now().UTC(), types.GetUserID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete catalog item").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("catalog item not found").
			WithHint("Catalog item not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *catalogRepository) buildListQuery(ctx context.Context, filter *types.CatalogItemFilter) (string, []interface{}) {
	where := "tenant_id = $1 AND status != 'deleted'"
	args := []interface{}{types.GetTenantID(ctx)}

	next := func() int { return len(args) + 1 }

	if filter != nil {
		if !filter.IncludeSystem {
			where += " AND system = false"
		}
		if filter.Search != "" {
			where += fmt.Sprintf(" AND name ILIKE $%d", next())
			args = append(args, "%"+filter.Search+"%")
		}
	}
	return where, args
}

func (r *catalogRepository) List(ctx context.Context, filter *types.CatalogItemFilter) ([]*catalog.Item, error) {
	q := r.client.Querier(ctx)
	where, args := r.buildListQuery(ctx, filter)

	query := fmt.Sprintf(
		"SELECT %s FROM item_master WHERE %s ORDER BY sort_order, name",
		selectItemColumns, where,
	)
	if filter != nil && !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var rows []catalogItemRow
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list catalog items").
			Mark(ierr.ErrDatabase)
	}

	items := make([]*catalog.Item, 0, len(rows))
	for i := range rows {
		item, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *catalogRepository) Count(ctx context.Context, filter *types.CatalogItemFilter) (int, error) {
	q := r.client.Querier(ctx)
	where, args := r.buildListQuery(ctx, filter)

	var count int
	query := "SELECT COUNT(*) FROM item_master WHERE " + where
	if err := q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count catalog items").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}
