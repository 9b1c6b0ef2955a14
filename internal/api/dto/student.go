package dto

import (
	"context"
	"time"

	"github.com/edledger/edledger/internal/domain/student"
	"github.com/edledger/edledger/internal/types"
	"github.com/edledger/edledger/internal/validator"
)

// CreateStudentRequest represents the request payload for registering a student
type CreateStudentRequest struct {
	AdmissionNumber string `json:"admission_number" validate:"required"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name"`
	ClassName       string `json:"class_name"`
	GuardianName    string `json:"guardian_name"`
	GuardianPhone   string `json:"guardian_phone"`
}

func (r *CreateStudentRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToStudent converts a create student request to a domain student
func (r *CreateStudentRequest) ToStudent(ctx context.Context) *student.Student {
	return &student.Student{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_STUDENT),
		AdmissionNumber: r.AdmissionNumber,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		ClassName:       r.ClassName,
		GuardianName:    r.GuardianName,
		GuardianPhone:   r.GuardianPhone,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

// UpdateStudentRequest represents the request payload for editing a student
type UpdateStudentRequest struct {
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	ClassName     *string `json:"class_name,omitempty"`
	GuardianName  *string `json:"guardian_name,omitempty"`
	GuardianPhone *string `json:"guardian_phone,omitempty"`
}

// StudentResponse represents a student in responses
type StudentResponse struct {
	ID              string    `json:"id"`
	AdmissionNumber string    `json:"admission_number"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	FullName        string    `json:"full_name"`
	ClassName       string    `json:"class_name"`
	GuardianName    string    `json:"guardian_name,omitempty"`
	GuardianPhone   string    `json:"guardian_phone,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewStudentResponse(s *student.Student) *StudentResponse {
	return &StudentResponse{
		ID:              s.ID,
		AdmissionNumber: s.AdmissionNumber,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		FullName:        s.FullName(),
		ClassName:       s.ClassName,
		GuardianName:    s.GuardianName,
		GuardianPhone:   s.GuardianPhone,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// ListStudentsResponse represents a paginated list of students
type ListStudentsResponse = types.ListResponse[*StudentResponse]
