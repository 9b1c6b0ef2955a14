package types

import (
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/samber/lo"
)

// MedicalRecordType categorizes a student medical record
type MedicalRecordType string

const (
	MedicalRecordTypeAllergy     MedicalRecordType = "allergy"
	MedicalRecordTypeCondition   MedicalRecordType = "condition"
	MedicalRecordTypeVaccination MedicalRecordType = "vaccination"
	MedicalRecordTypeIncident    MedicalRecordType = "incident"
)

func (t MedicalRecordType) String() string {
	return string(t)
}

func (t MedicalRecordType) Validate() error {
	allowed := []MedicalRecordType{
		MedicalRecordTypeAllergy,
		MedicalRecordTypeCondition,
		MedicalRecordTypeVaccination,
		MedicalRecordTypeIncident,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid medical record type").
			WithHint("Please provide a valid medical record type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// MedicalSeverity indicates how serious a medical record is
type MedicalSeverity string

const (
	MedicalSeverityLow      MedicalSeverity = "low"
	MedicalSeverityMedium   MedicalSeverity = "medium"
	MedicalSeverityHigh     MedicalSeverity = "high"
	MedicalSeverityCritical MedicalSeverity = "critical"
)

func (s MedicalSeverity) String() string {
	return string(s)
}

func (s MedicalSeverity) Validate() error {
	allowed := []MedicalSeverity{
		MedicalSeverityLow,
		MedicalSeverityMedium,
		MedicalSeverityHigh,
		MedicalSeverityCritical,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid medical severity").
			WithHint("Please provide a valid severity").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// MedicalRecordFilter represents the filter options for listing medical records
type MedicalRecordFilter struct {
	*QueryFilter

	// admission_number filters records for a specific student
	AdmissionNumber string `json:"admission_number,omitempty" form:"admission_number"`

	// record_type filters records by category
	RecordType MedicalRecordType `json:"record_type,omitempty" form:"record_type"`
}

// NewMedicalRecordFilter creates a new medical record filter with default options
func NewMedicalRecordFilter() *MedicalRecordFilter {
	return &MedicalRecordFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func (f *MedicalRecordFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.RecordType != "" {
		return f.RecordType.Validate()
	}
	return nil
}

// GetLimit implements BaseFilter interface
func (f *MedicalRecordFilter) GetLimit() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetLimit()
	}
	return f.QueryFilter.GetLimit()
}

// GetOffset implements BaseFilter interface
func (f *MedicalRecordFilter) GetOffset() int {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOffset()
	}
	return f.QueryFilter.GetOffset()
}

// GetSort implements BaseFilter interface
func (f *MedicalRecordFilter) GetSort() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetSort()
	}
	return f.QueryFilter.GetSort()
}

// GetOrder implements BaseFilter interface
func (f *MedicalRecordFilter) GetOrder() string {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetOrder()
	}
	return f.QueryFilter.GetOrder()
}

// GetStatus implements BaseFilter interface
func (f *MedicalRecordFilter) GetStatus() Status {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().GetStatus()
	}
	return f.QueryFilter.GetStatus()
}

func (f *MedicalRecordFilter) IsUnlimited() bool {
	if f.QueryFilter == nil {
		return NewDefaultQueryFilter().IsUnlimited()
	}
	return f.QueryFilter.IsUnlimited()
}
