package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/edledger/edledger/internal/domain/catalog"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
)

// InMemoryCatalogStore implements catalog.Repository
type InMemoryCatalogStore struct {
	*InMemoryStore[*catalog.Item]

	// guards the check-then-create in GetOrCreateByName
	mu sync.Mutex
}

// NewInMemoryCatalogStore creates a new in-memory catalog store
func NewInMemoryCatalogStore() *InMemoryCatalogStore {
	return &InMemoryCatalogStore{
		InMemoryStore: NewInMemoryStore[*catalog.Item](),
	}
}

func copyCatalogItem(item *catalog.Item) *catalog.Item {
	if item == nil {
		return nil
	}
	out := *item
	return &out
}

func (s *InMemoryCatalogStore) Create(ctx context.Context, item *catalog.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, item.ID, copyCatalogItem(item))
}

func (s *InMemoryCatalogStore) Get(ctx context.Context, id string) (*catalog.Item, error) {
	item, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("item not found").
			WithHint("Catalog item not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyCatalogItem(item), nil
}

func (s *InMemoryCatalogStore) GetByName(ctx context.Context, name string) (*catalog.Item, error) {
	items, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, item *catalog.Item, _ interface{}) bool {
		return item.Name == name
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ierr.NewError("item not found").
			WithHint("Catalog item not found").
			WithReportableDetails(map[string]any{"name": name}).
			Mark(ierr.ErrNotFound)
	}
	return copyCatalogItem(items[0]), nil
}

func (s *InMemoryCatalogStore) GetOrCreateByName(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.GetByName(ctx, item.Name)
	if err == nil {
		return existing, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}
	if err := s.Create(ctx, item); err != nil {
		return nil, err
	}
	return copyCatalogItem(item), nil
}

func (s *InMemoryCatalogStore) Update(ctx context.Context, item *catalog.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	if err := s.InMemoryStore.Update(ctx, item.ID, copyCatalogItem(item)); err != nil {
		return ierr.NewError("item not found").
			WithHint("Catalog item not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryCatalogStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("item not found").
			WithHint("Catalog item not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func catalogFilterFn(ctx context.Context, item *catalog.Item, filter interface{}) bool {
	if item == nil {
		return false
	}
	f, ok := filter.(*types.CatalogItemFilter)
	if !ok || f == nil {
		return true
	}

	if item.TenantID != types.GetTenantID(ctx) {
		return false
	}
	if !f.IncludeSystem && item.System {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func catalogSortFn(i, j *catalog.Item) bool {
	if i == nil || j == nil {
		return false
	}
	if i.SortOrder != j.SortOrder {
		return i.SortOrder < j.SortOrder
	}
	return i.Name < j.Name
}

func (s *InMemoryCatalogStore) List(ctx context.Context, filter *types.CatalogItemFilter) ([]*catalog.Item, error) {
	items, err := s.InMemoryStore.List(ctx, filter, catalogFilterFn, catalogSortFn)
	if err != nil {
		return nil, err
	}
	out := make([]*catalog.Item, len(items))
	for i, item := range items {
		out[i] = copyCatalogItem(item)
	}
	return out, nil
}

func (s *InMemoryCatalogStore) Count(ctx context.Context, filter *types.CatalogItemFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, catalogFilterFn)
}
