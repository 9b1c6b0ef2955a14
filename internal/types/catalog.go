package types

// CatalogItemFilter represents the filter options for listing fee catalog items
type CatalogItemFilter struct {
	*QueryFilter

	// search matches against the item name, case-insensitive substring
	Search string `json:"search,omitempty" form:"search"`

	// include_system includes system/sentinel items (e.g. the balance-brought-forward
	// item) that are hidden from the fee picker by default
	IncludeSystem bool `json:"include_system,omitempty" form:"include_system"`
}

// NewCatalogItemFilter creates a new catalog item filter with default options
func NewCatalogItemFilter() *CatalogItemFilter {
	return &CatalogItemFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitCatalogItemFilter creates a new catalog item filter without pagination
func NewNoLimitCatalogItemFilter() *CatalogItemFilter {
	return &CatalogItemFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *CatalogItemFilter) Validate() error {
	if f.QueryFilter != nil {
		return f.QueryFilter.Validate()
	}
	return nil
}

// GetLimit implements BaseFilter interface
func (f *CatalogItemFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *CatalogItemFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

// GetSort implements BaseFilter interface
func (f *CatalogItemFilter) GetSort() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetSort()
	}
	return f.QueryFilter.GetSort()
}

// GetOrder implements BaseFilter interface
func (f *CatalogItemFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOrder()
	}
	return f.QueryFilter.GetOrder()
}

// GetStatus implements BaseFilter interface
func (f *CatalogItemFilter) GetStatus() Status {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetStatus()
	}
	return f.QueryFilter.GetStatus()
}

func (f *CatalogItemFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}
