package student

import (
	"context"

	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
)

// Student represents a student record
type Student struct {
	ID string `json:"id" db:"id"`
	// AdmissionNumber is the school-issued identifier, unique per tenant;
	// invoices and payments reference students by it
	AdmissionNumber string `json:"admission_number" db:"admission_number"`
	FirstName       string `json:"first_name" db:"first_name"`
	LastName        string `json:"last_name" db:"last_name"`
	ClassName       string `json:"class_name" db:"class_name"`
	GuardianName    string `json:"guardian_name,omitempty" db:"guardian_name"`
	GuardianPhone   string `json:"guardian_phone,omitempty" db:"guardian_phone"`
	types.BaseModel
}

// FullName returns the display name of the student
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// Validate validates the student record
func (s *Student) Validate() error {
	if s.AdmissionNumber == "" {
		return ierr.NewError("invalid admission number").
			WithHint("Admission number is required").
			Mark(ierr.ErrValidation)
	}
	if s.FirstName == "" {
		return ierr.NewError("invalid student name").
			WithHint("First name is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Repository defines the interface for student persistence
type Repository interface {
	Create(ctx context.Context, student *Student) error
	Get(ctx context.Context, id string) (*Student, error)
	GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*Student, error)
	Update(ctx context.Context, student *Student) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *types.StudentFilter) ([]*Student, error)
	Count(ctx context.Context, filter *types.StudentFilter) (int, error)
}
