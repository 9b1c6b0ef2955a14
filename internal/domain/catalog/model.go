package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
)

// Item represents a billable item in the item master catalog.
// Items marked System are managed by the application and cannot be
// renamed or deleted through the API.
type Item struct {
	ID           string          `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	DefaultPrice decimal.Decimal `json:"default_price" db:"default_price"`
	Description  string          `json:"description,omitempty" db:"description"`
	SortOrder    int             `json:"sort_order" db:"sort_order"`
	System       bool            `json:"system" db:"system"`
	types.BaseModel
}

func (i *Item) TableName() string {
	return "item_master"
}

// Validate validates the catalog item
func (i *Item) Validate() error {
	if i.Name == "" {
		return ierr.NewError("invalid item name").
			WithHint("Item name is required").
			Mark(ierr.ErrValidation)
	}
	if i.DefaultPrice.IsNegative() {
		return ierr.NewError("invalid default price").
			WithHint("Default price must not be negative").
			WithReportableDetails(map[string]interface{}{
				"default_price": i.DefaultPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Repository defines the interface for item master persistence
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, id string) (*Item, error)
	GetByName(ctx context.Context, name string) (*Item, error)
	// GetOrCreateByName returns the existing item with the given name or
	// creates it with the provided defaults in a single operation.
	GetOrCreateByName(ctx context.Context, item *Item) (*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.CatalogItemFilter) ([]*Item, error)
	Count(ctx context.Context, filter *types.CatalogItemFilter) (int, error)
}
