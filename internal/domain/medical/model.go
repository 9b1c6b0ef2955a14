package medical

import (
	"context"
	"time"

	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
)

// Record represents a single medical record entry for a student
type Record struct {
	ID              string                  `json:"id" db:"id"`
	AdmissionNumber string                  `json:"admission_number" db:"admission_number"`
	RecordType      types.MedicalRecordType `json:"record_type" db:"record_type"`
	Severity        types.MedicalSeverity   `json:"severity" db:"severity"`
	Title           string                  `json:"title" db:"title"`
	Notes           string                  `json:"notes,omitempty" db:"notes"`
	RecordedAt      time.Time               `json:"recorded_at" db:"recorded_at"`
	types.BaseModel
}

func (r *Record) TableName() string {
	return "medical_records"
}

// Validate validates the medical record
func (r *Record) Validate() error {
	if r.AdmissionNumber == "" {
		return ierr.NewError("invalid admission number").
			WithHint("Admission number is required").
			Mark(ierr.ErrValidation)
	}
	if r.Title == "" {
		return ierr.NewError("invalid title").
			WithHint("Record title is required").
			Mark(ierr.ErrValidation)
	}
	if err := r.RecordType.Validate(); err != nil {
		return err
	}
	return r.Severity.Validate()
}

// Repository defines the interface for medical record persistence
type Repository interface {
	Create(ctx context.Context, record *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Update(ctx context.Context, record *Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.MedicalRecordFilter) ([]*Record, error)
	Count(ctx context.Context, filter *types.MedicalRecordFilter) (int, error)
}
