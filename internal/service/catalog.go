package service

import (
	"context"
	"time"

	"github.com/edledger/edledger/internal/api/dto"
	"github.com/edledger/edledger/internal/domain/invoice"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
)

const catalogCachePrefix = "catalog:item:"

// CatalogService manages the fee item master
type CatalogService interface {
	CreateItem(ctx context.Context, req *dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error)
	GetItem(ctx context.Context, id string) (*dto.CatalogItemResponse, error)
	UpdateItem(ctx context.Context, id string, req *dto.UpdateCatalogItemRequest) (*dto.CatalogItemResponse, error)
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, filter *types.CatalogItemFilter) (*dto.ListCatalogItemsResponse, error)
	ReorderItems(ctx context.Context, ids []string) error
}

type catalogService struct {
	ServiceParams
}

func NewCatalogService(params ServiceParams) CatalogService {
	return &catalogService{
		ServiceParams: params,
	}
}

func (s *catalogService) CreateItem(ctx context.Context, req *dto.CreateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Name == invoice.BroughtForwardItemName {
		return nil, ierr.NewError("reserved item name").
			WithHint("This item name is reserved for system use").
			Mark(ierr.ErrValidation)
	}

	item := req.ToItem(ctx)
	if existing, err := s.CatalogRepo.GetByName(ctx, item.Name); err == nil && existing != nil {
		return nil, ierr.NewError("item already exists").
			WithHint("An item with this name already exists").
			WithReportableDetails(map[string]any{
				"name": item.Name,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.CatalogRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.Cache.DeleteByPrefix(ctx, catalogCachePrefix)
	return dto.NewCatalogItemResponse(item), nil
}

func (s *catalogService) GetItem(ctx context.Context, id string) (*dto.CatalogItemResponse, error) {
	cacheKey := catalogCachePrefix + id
	if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
		if resp, ok := cached.(*dto.CatalogItemResponse); ok {
			return resp, nil
		}
	}

	item, err := s.CatalogRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewCatalogItemResponse(item)
	s.Cache.Set(ctx, cacheKey, resp, 5*time.Minute)
	return resp, nil
}

func (s *catalogService) UpdateItem(ctx context.Context, id string, req *dto.UpdateCatalogItemRequest) (*dto.CatalogItemResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.CatalogRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// System items keep their identity; only ordering may change
	if item.System && (req.Name != nil || req.DefaultPrice != nil) {
		return nil, ierr.NewError("system item is protected").
			WithHint("System items cannot be renamed or repriced").
			WithReportableDetails(map[string]any{
				"name": item.Name,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.DefaultPrice != nil {
		item.DefaultPrice = *req.DefaultPrice
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	item.UpdatedAt = time.Now().UTC()
	item.UpdatedBy = types.GetUserID(ctx)

	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.CatalogRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.Cache.DeleteByPrefix(ctx, catalogCachePrefix)
	return dto.NewCatalogItemResponse(item), nil
}

func (s *catalogService) DeleteItem(ctx context.Context, id string) error {
	item, err := s.CatalogRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if item.System {
		return ierr.NewError("system item is protected").
			WithHint("System items cannot be deleted").
			WithReportableDetails(map[string]any{
				"name": item.Name,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.CatalogRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Cache.DeleteByPrefix(ctx, catalogCachePrefix)
	return nil
}

func (s *catalogService) ListItems(ctx context.Context, filter *types.CatalogItemFilter) (*dto.ListCatalogItemsResponse, error) {
	if filter == nil {
		filter = types.NewCatalogItemFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	items, err := s.CatalogRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.CatalogRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.CatalogItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, dto.NewCatalogItemResponse(item))
	}

	return &dto.ListCatalogItemsResponse{
		Items:      resp,
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

// ReorderItems rewrites sort_order following the given id order
func (s *catalogService) ReorderItems(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return ierr.NewError("empty reorder request").
			WithHint("Provide item ids in the desired display order").
			Mark(ierr.ErrValidation)
	}

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		for i, id := range ids {
			item, err := s.CatalogRepo.Get(ctx, id)
			if err != nil {
				return err
			}
			item.SortOrder = i
			item.UpdatedAt = time.Now().UTC()
			item.UpdatedBy = types.GetUserID(ctx)
			if err := s.CatalogRepo.Update(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Cache.DeleteByPrefix(ctx, catalogCachePrefix)
	return nil
}
