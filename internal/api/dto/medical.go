package dto

import (
	"context"
	"time"

	"github.com/edledger/edledger/internal/domain/medical"
	"github.com/edledger/edledger/internal/types"
	"github.com/edledger/edledger/internal/validator"
)

// CreateMedicalRecordRequest represents the request payload for adding a
// medical record to a student
type CreateMedicalRecordRequest struct {
	RecordType types.MedicalRecordType `json:"record_type" validate:"required"`
	Severity   types.MedicalSeverity   `json:"severity"`
	Title      string                  `json:"title" validate:"required"`
	Notes      string                  `json:"notes"`
	RecordedAt *time.Time              `json:"recorded_at,omitempty"`
}

func (r *CreateMedicalRecordRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.RecordType.Validate(); err != nil {
		return err
	}
	if r.Severity != "" {
		return r.Severity.Validate()
	}
	return nil
}

// ToRecord converts a create medical record request to a domain record
func (r *CreateMedicalRecordRequest) ToRecord(ctx context.Context, admissionNumber string) *medical.Record {
	recordedAt := time.Now().UTC()
	if r.RecordedAt != nil {
		recordedAt = *r.RecordedAt
	}
	severity := r.Severity
	if severity == "" {
		severity = types.MedicalSeverityLow
	}
	return &medical.Record{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_MEDICAL_RECORD),
		AdmissionNumber: admissionNumber,
		RecordType:      r.RecordType,
		Severity:        severity,
		Title:           r.Title,
		Notes:           r.Notes,
		RecordedAt:      recordedAt,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

// UpdateMedicalRecordRequest represents the request payload for editing a record
type UpdateMedicalRecordRequest struct {
	Severity *types.MedicalSeverity `json:"severity,omitempty"`
	Title    *string                `json:"title,omitempty"`
	Notes    *string                `json:"notes,omitempty"`
}

func (r *UpdateMedicalRecordRequest) Validate() error {
	if r.Severity != nil {
		return r.Severity.Validate()
	}
	return nil
}

// MedicalRecordResponse represents a medical record in responses
type MedicalRecordResponse struct {
	ID              string                  `json:"id"`
	AdmissionNumber string                  `json:"admission_number"`
	RecordType      types.MedicalRecordType `json:"record_type"`
	Severity        types.MedicalSeverity   `json:"severity"`
	Title           string                  `json:"title"`
	Notes           string                  `json:"notes,omitempty"`
	RecordedAt      time.Time               `json:"recorded_at"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

func NewMedicalRecordResponse(rec *medical.Record) *MedicalRecordResponse {
	return &MedicalRecordResponse{
		ID:              rec.ID,
		AdmissionNumber: rec.AdmissionNumber,
		RecordType:      rec.RecordType,
		Severity:        rec.Severity,
		Title:           rec.Title,
		Notes:           rec.Notes,
		RecordedAt:      rec.RecordedAt,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}

// ListMedicalRecordsResponse represents a paginated list of medical records
type ListMedicalRecordsResponse = types.ListResponse[*MedicalRecordResponse]
