package testutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/edledger/edledger/internal/domain/student"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
)

// InMemoryStudentStore implements student.Repository
type InMemoryStudentStore struct {
	*InMemoryStore[*student.Student]
}

// NewInMemoryStudentStore creates a new in-memory student store
func NewInMemoryStudentStore() *InMemoryStudentStore {
	return &InMemoryStudentStore{
		InMemoryStore: NewInMemoryStore[*student.Student](),
	}
}

func copyStudent(s *student.Student) *student.Student {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}

func (s *InMemoryStudentStore) Create(ctx context.Context, stud *student.Student) error {
	if stud == nil {
		return fmt.Errorf("student cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, stud.ID, copyStudent(stud))
}

func (s *InMemoryStudentStore) Get(ctx context.Context, id string) (*student.Student, error) {
	stud, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("student not found").
			WithHint("Student not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyStudent(stud), nil
}

func (s *InMemoryStudentStore) GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*student.Student, error) {
	students, err := s.InMemoryStore.List(ctx, nil, func(ctx context.Context, stud *student.Student, _ interface{}) bool {
		return stud.AdmissionNumber == admissionNumber
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return nil, ierr.NewError("student not found").
			WithHint("No student with this admission number").
			WithReportableDetails(map[string]any{"admission_number": admissionNumber}).
			Mark(ierr.ErrNotFound)
	}
	return copyStudent(students[0]), nil
}

func (s *InMemoryStudentStore) Update(ctx context.Context, stud *student.Student) error {
	if stud == nil {
		return fmt.Errorf("student cannot be nil")
	}
	if err := s.InMemoryStore.Update(ctx, stud.ID, copyStudent(stud)); err != nil {
		return ierr.NewError("student not found").
			WithHint("Student not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryStudentStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("student not found").
			WithHint("Student not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func studentFilterFn(ctx context.Context, stud *student.Student, filter interface{}) bool {
	if stud == nil {
		return false
	}
	f, ok := filter.(*types.StudentFilter)
	if !ok || f == nil {
		return true
	}

	if stud.TenantID != types.GetTenantID(ctx) {
		return false
	}
	if len(f.AdmissionNumbers) > 0 && !lo.Contains(f.AdmissionNumbers, stud.AdmissionNumber) {
		return false
	}
	if f.ClassName != "" && stud.ClassName != f.ClassName {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(stud.FullName()), needle) &&
			!strings.Contains(strings.ToLower(stud.AdmissionNumber), needle) {
			return false
		}
	}
	return true
}

func studentSortFn(i, j *student.Student) bool {
	if i == nil || j == nil {
		return false
	}
	return i.AdmissionNumber < j.AdmissionNumber
}

func (s *InMemoryStudentStore) List(ctx context.Context, filter *types.StudentFilter) ([]*student.Student, error) {
	students, err := s.InMemoryStore.List(ctx, filter, studentFilterFn, studentSortFn)
	if err != nil {
		return nil, err
	}
	out := make([]*student.Student, len(students))
	for i, stud := range students {
		out[i] = copyStudent(stud)
	}
	return out, nil
}

func (s *InMemoryStudentStore) Count(ctx context.Context, filter *types.StudentFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, studentFilterFn)
}
