package testutil

import (
	"context"
	"fmt"

	"github.com/edledger/edledger/internal/domain/medical"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/types"
)

// InMemoryMedicalStore implements medical.Repository
type InMemoryMedicalStore struct {
	*InMemoryStore[*medical.Record]
}

// NewInMemoryMedicalStore creates a new in-memory medical record store
func NewInMemoryMedicalStore() *InMemoryMedicalStore {
	return &InMemoryMedicalStore{
		InMemoryStore: NewInMemoryStore[*medical.Record](),
	}
}

func copyMedicalRecord(rec *medical.Record) *medical.Record {
	if rec == nil {
		return nil
	}
	out := *rec
	return &out
}

func (s *InMemoryMedicalStore) Create(ctx context.Context, rec *medical.Record) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, rec.ID, copyMedicalRecord(rec))
}

func (s *InMemoryMedicalStore) Get(ctx context.Context, id string) (*medical.Record, error) {
	rec, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("medical record not found").
			WithHint("Medical record not found").
			WithReportableDetails(map[string]any{"id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyMedicalRecord(rec), nil
}

func (s *InMemoryMedicalStore) Update(ctx context.Context, rec *medical.Record) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}
	if err := s.InMemoryStore.Update(ctx, rec.ID, copyMedicalRecord(rec)); err != nil {
		return ierr.NewError("medical record not found").
			WithHint("Medical record not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryMedicalStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("medical record not found").
			WithHint("Medical record not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func medicalFilterFn(ctx context.Context, rec *medical.Record, filter interface{}) bool {
	if rec == nil {
		return false
	}
	f, ok := filter.(*types.MedicalRecordFilter)
	if !ok || f == nil {
		return true
	}

	if rec.TenantID != types.GetTenantID(ctx) {
		return false
	}
	if f.AdmissionNumber != "" && rec.AdmissionNumber != f.AdmissionNumber {
		return false
	}
	if f.RecordType != "" && rec.RecordType != f.RecordType {
		return false
	}
	return true
}

func medicalSortFn(i, j *medical.Record) bool {
	if i == nil || j == nil {
		return false
	}
	return i.RecordedAt.After(j.RecordedAt)
}

func (s *InMemoryMedicalStore) List(ctx context.Context, filter *types.MedicalRecordFilter) ([]*medical.Record, error) {
	records, err := s.InMemoryStore.List(ctx, filter, medicalFilterFn, medicalSortFn)
	if err != nil {
		return nil, err
	}
	out := make([]*medical.Record, len(records))
	for i, rec := range records {
		out[i] = copyMedicalRecord(rec)
	}
	return out, nil
}

func (s *InMemoryMedicalStore) Count(ctx context.Context, filter *types.MedicalRecordFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, medicalFilterFn)
}
