package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/edledger/edledger/internal/domain/catalog"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
	"github.com/edledger/edledger/internal/validator"
)

// CreateCatalogItemRequest represents the request payload for adding an item
// to the item master
type CreateCatalogItemRequest struct {
	Name         string          `json:"name" validate:"required"`
	DefaultPrice decimal.Decimal `json:"default_price"`
	Description  string          `json:"description"`
	SortOrder    *int            `json:"sort_order,omitempty"`
}

func (r *CreateCatalogItemRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.DefaultPrice.IsNegative() {
		return ierr.NewError("default_price must be non-negative").
			WithHint("Default price must not be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToItem converts a create catalog item request to a domain item
func (r *CreateCatalogItemRequest) ToItem(ctx context.Context) *catalog.Item {
	item := &catalog.Item{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CATALOG_ITEM),
		Name:         r.Name,
		DefaultPrice: r.DefaultPrice,
		Description:  r.Description,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
	if r.SortOrder != nil {
		item.SortOrder = *r.SortOrder
	}
	return item
}

// UpdateCatalogItemRequest represents the request payload for editing an item
type UpdateCatalogItemRequest struct {
	Name         *string          `json:"name,omitempty"`
	DefaultPrice *decimal.Decimal `json:"default_price,omitempty"`
	Description  *string          `json:"description,omitempty"`
	SortOrder    *int             `json:"sort_order,omitempty"`
}

func (r *UpdateCatalogItemRequest) Validate() error {
	if r.DefaultPrice != nil && r.DefaultPrice.IsNegative() {
		return ierr.NewError("default_price must be non-negative").
			WithHint("Default price must not be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CatalogItemResponse represents a catalog item in responses
type CatalogItemResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	DefaultPrice decimal.Decimal `json:"default_price"`
	Description  string          `json:"description,omitempty"`
	SortOrder    int             `json:"sort_order"`
	System       bool            `json:"system"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewCatalogItemResponse(item *catalog.Item) *CatalogItemResponse {
	return &CatalogItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		DefaultPrice: item.DefaultPrice.Round(2),
		Description:  item.Description,
		SortOrder:    item.SortOrder,
		System:       item.System,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// ListCatalogItemsResponse represents a paginated list of catalog items
type ListCatalogItemsResponse = types.ListResponse[*CatalogItemResponse]
