package service

import (
	"context"
	"time"

	"github.com/edledger/edledger/internal/api/dto"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
)

// StudentService manages student records
type StudentService interface {
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error)
	GetStudentByAdmissionNumber(ctx context.Context, admissionNumber string) (*dto.StudentResponse, error)
	UpdateStudent(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	DeleteStudent(ctx context.Context, id string) error
	ListStudents(ctx context.Context, filter *types.StudentFilter) (*dto.ListStudentsResponse, error)
}

type studentService struct {
	ServiceParams
}

func NewStudentService(params ServiceParams) StudentService {
	return &studentService{
		ServiceParams: params,
	}
}

func (s *studentService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.StudentRepo.GetByAdmissionNumber(ctx, req.AdmissionNumber); err == nil && existing != nil {
		return nil, ierr.NewError("admission number already in use").
			WithHint("A student with this admission number already exists").
			WithReportableDetails(map[string]any{
				"admission_number": req.AdmissionNumber,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	stud := req.ToStudent(ctx)
	if err := stud.Validate(); err != nil {
		return nil, err
	}
	if err := s.StudentRepo.Create(ctx, stud); err != nil {
		return nil, err
	}
	return dto.NewStudentResponse(stud), nil
}

func (s *studentService) GetStudent(ctx context.Context, id string) (*dto.StudentResponse, error) {
	stud, err := s.StudentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponse(stud), nil
}

func (s *studentService) GetStudentByAdmissionNumber(ctx context.Context, admissionNumber string) (*dto.StudentResponse, error) {
	stud, err := s.StudentRepo.GetByAdmissionNumber(ctx, admissionNumber)
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponse(stud), nil
}

func (s *studentService) UpdateStudent(ctx context.Context, id string, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	stud, err := s.StudentRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		stud.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		stud.LastName = *req.LastName
	}
	if req.ClassName != nil {
		stud.ClassName = *req.ClassName
	}
	if req.GuardianName != nil {
		stud.GuardianName = *req.GuardianName
	}
	if req.GuardianPhone != nil {
		stud.GuardianPhone = *req.GuardianPhone
	}
	stud.UpdatedAt = time.Now().UTC()
	stud.UpdatedBy = types.GetUserID(ctx)

	if err := stud.Validate(); err != nil {
		return nil, err
	}
	if err := s.StudentRepo.Update(ctx, stud); err != nil {
		return nil, err
	}
	return dto.NewStudentResponse(stud), nil
}

func (s *studentService) DeleteStudent(ctx context.Context, id string) error {
	stud, err := s.StudentRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	// A student with billing history is never hard-deleted
	filter := types.NewNoLimitInvoiceFilter()
	filter.AdmissionNumber = stud.AdmissionNumber
	count, err := s.InvoiceRepo.Count(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return ierr.NewError("student has invoices").
			WithHint("Students with billing history cannot be deleted").
			WithReportableDetails(map[string]any{
				"admission_number": stud.AdmissionNumber,
				"invoice_count":    count,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	return s.StudentRepo.Delete(ctx, id)
}

func (s *studentService) ListStudents(ctx context.Context, filter *types.StudentFilter) (*dto.ListStudentsResponse, error) {
	if filter == nil {
		filter = types.NewStudentFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	students, err := s.StudentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	count, err := s.StudentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.StudentResponse, 0, len(students))
	for _, stud := range students {
		items = append(items, dto.NewStudentResponse(stud))
	}

	return &dto.ListStudentsResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}
