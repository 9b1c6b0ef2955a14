package service

import (
	"context"
	"time"

	"github.com/edledger/edledger/internal/api/dto"
	"github.com/edledger/edledger/internal/types"
)

// MedicalService manages per-student medical records
type MedicalService interface {
	CreateRecord(ctx context.Context, admissionNumber string, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	GetRecord(ctx context.Context, id string) (*dto.MedicalRecordResponse, error)
	UpdateRecord(ctx context.Context, id string, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	DeleteRecord(ctx context.Context, id string) error
	ListRecords(ctx context.Context, filter *types.MedicalRecordFilter) (*dto.ListMedicalRecordsResponse, error)
}

type medicalService struct {
	ServiceParams
}

func NewMedicalService(params ServiceParams) MedicalService {
	return &medicalService{
		ServiceParams: params,
	}
}

func (s *medicalService) CreateRecord(ctx context.Context, admissionNumber string, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	stud, err := s.StudentRepo.GetByAdmissionNumber(ctx, admissionNumber)
	if err != nil {
		return nil, err
	}

	rec := req.ToRecord(ctx, stud.AdmissionNumber)
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := s.MedicalRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return dto.NewMedicalRecordResponse(rec), nil
}

func (s *medicalService) GetRecord(ctx context.Context, id string) (*dto.MedicalRecordResponse, error) {
	rec, err := s.MedicalRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewMedicalRecordResponse(rec), nil
}

func (s *medicalService) UpdateRecord(ctx context.Context, id string, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.MedicalRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Severity != nil {
		rec.Severity = *req.Severity
	}
	if req.Title != nil {
		rec.Title = *req.Title
	}
	if req.Notes != nil {
		rec.Notes = *req.Notes
	}
	rec.UpdatedAt = time.Now().UTC()
	rec.UpdatedBy = types.GetUserID(ctx)

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	if err := s.MedicalRepo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return dto.NewMedicalRecordResponse(rec), nil
}

func (s *medicalService) DeleteRecord(ctx context.Context, id string) error {
	if _, err := s.MedicalRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.MedicalRepo.Delete(ctx, id)
}

func (s *medicalService) ListRecords(ctx context.Context, filter *types.MedicalRecordFilter) (*dto.ListMedicalRecordsResponse, error) {
	if filter == nil {
		filter = types.NewMedicalRecordFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := s.MedicalRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.MedicalRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.MedicalRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.NewMedicalRecordResponse(rec))
	}

	return &dto.ListMedicalRecordsResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}
