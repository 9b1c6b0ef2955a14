package types

// StudentFilter represents the filter options for listing students
type StudentFilter struct {
	*QueryFilter

	// admission_numbers restricts results to the specified students
	AdmissionNumbers []string `json:"admission_numbers,omitempty" form:"admission_numbers"`

	// class_name filters students by their class
	ClassName string `json:"class_name,omitempty" form:"class_name"`

	// search matches against student name, case-insensitive substring
	Search string `json:"search,omitempty" form:"search"`
}

// NewStudentFilter creates a new student filter with default options
func NewStudentFilter() *StudentFilter {
	return &StudentFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitStudentFilter creates a new student filter without pagination
func NewNoLimitStudentFilter() *StudentFilter {
	return &StudentFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *StudentFilter) Validate() error {
	if f.QueryFilter != nil {
		return f.QueryFilter.Validate()
	}
	return nil
}

// GetLimit implements BaseFilter interface
func (f *StudentFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *StudentFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

// GetSort implements BaseFilter interface
func (f *StudentFilter) GetSort() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetSort()
	}
	return f.QueryFilter.GetSort()
}

// GetOrder implements BaseFilter interface
func (f *StudentFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOrder()
	}
	return f.QueryFilter.GetOrder()
}

// GetStatus implements BaseFilter interface
func (f *StudentFilter) GetStatus() Status {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetStatus()
	}
	return f.QueryFilter.GetStatus()
}

func (f *StudentFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}
