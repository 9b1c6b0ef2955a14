package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/edledger/edledger/internal/domain/medical"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/postgres"
	"github.com/edledger/edledger/internal/types"
)

type medicalRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewMedicalRepository(client postgres.IClient, logger *logger.Logger) medical.Repository {
	return &medicalRepository{client: client, logger: logger}
}

type medicalRecordRow struct {
	ID              string    `db:"id"`
	AdmissionNumber string    `db:"admission_number"`
	RecordType      string    `db:"record_type"`
	Severity        string    `db:"severity"`
	Title           string    `db:"title"`
	Notes           string    `db:"notes"`
	RecordedAt      time.Time `db:"recorded_at"`
	TenantID        string    `db:"tenant_id"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	CreatedBy       string    `db:"created_by"`
	UpdatedBy       string    `db:"updated_by"`
}

func (r *medicalRecordRow) toDomain() *medical.Record {
	return &medical.Record{
		ID:              r.ID,
		AdmissionNumber: r.AdmissionNumber,
		RecordType:      types.MedicalRecordType(r.RecordType),
		Severity:        types.MedicalSeverity(r.Severity),
		Title:           r.Title,
		Notes:           r.Notes,
		RecordedAt:      r.RecordedAt,
		BaseModel: types.BaseModel{
			TenantID:  r.TenantID,
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
}

const selectMedicalColumns = `
	id, admission_number, record_type, severity, title, notes, recorded_at,
	tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *medicalRepository) Create(ctx context.Context, record *medical.Record) error {
	q := r.client.Querier(ctx)

	query := `
	INSERT INTO medical_records (
		id, admission_number, record_type, severity, title, notes, recorded_at,
		tenant_id, status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
	)`

	_, err := q.ExecContext(ctx, query,
		record.ID, record.AdmissionNumber, string(record.RecordType),
		string(record.Severity), record.Title, record.Notes, record.RecordedAt,
		record.TenantID, string(record.Status), record.CreatedAt, record.UpdatedAt,
		record.CreatedBy, record.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create medical record").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *medicalRepository) Get(ctx context.Context, id string) (*medical.Record, error) {
	q := r.client.Querier(ctx)

	query := fmt.Sprintf(
		"SELECT %s FROM medical_records WHERE tenant_id = $1 AND status != 'deleted' AND id = $2",
		selectMedicalColumns,
	)

	var row medicalRecordRow
	err := q.GetContext(ctx, &row, query, types.GetTenantID(ctx), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.WithError(err).
				WithHint("Medical record not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get medical record").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *medicalRepository) Update(ctx context.Context, record *medical.Record) error {
	q := r.client.Querier(ctx)

	query := `
	UPDATE medical_records SET
		record_type = $3, severity = $4, title = $5, notes = $6, recorded_at = $7,
		updated_at = $8, updated_by = $9
	WHERE tenant_id = $1 AND id = $2`

	res, err := q.ExecContext(ctx, query,
		record.TenantID, record.ID,
		string(record.RecordType), string(record.Severity),
		record.Title, record.Notes, record.RecordedAt,
		record.UpdatedAt, record.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update medical record").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("medical record not found").
			WithHint("Medical record not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *medicalRepository) Delete(ctx context.Context, id string) error {
	q := r.client.Querier(ctx)

	query := `
	UPDATE medical_records SET status = 'deleted', updated_at = $3, updated_by = $4
	WHERE tenant_id = $1 AND id = $2`

	res, err := q.ExecContext(ctx, query,
		types.GetTenantID(ctx), id, time.Now().UTC(), types.GetUserID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete medical record").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("medical record not found").
			WithHint("Medical record not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *medicalRepository) buildListQuery(ctx context.Context, filter *types.MedicalRecordFilter) (string, []interface{}) {
	where := "tenant_id = $1 AND status != 'deleted'"
	args := []interface{}{types.GetTenantID(ctx)}

	next := func() int { return len(args) + 1 }

	if filter != nil {
		if filter.AdmissionNumber != "" {
			where += fmt.Sprintf(" AND admission_number = $%d", next())
			args = append(args, filter.AdmissionNumber)
		}
		if filter.RecordType != "" {
			where += fmt.Sprintf(" AND record_type = $%d", next())
			args = append(args, string(filter.RecordType))
		}
	}
	return where, args
}

func (r *medicalRepository) List(ctx context.Context, filter *types.MedicalRecordFilter) ([]*medical.Record, error) {
	q := r.client.Querier(ctx)
	where, args := r.buildListQuery(ctx, filter)

	query := fmt.Sprintf(
		"SELECT %s FROM medical_records WHERE %s ORDER BY recorded_at DESC, id",
		selectMedicalColumns, where,
	)
	if filter != nil && !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var rows []medicalRecordRow
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list medical records").
			Mark(ierr.ErrDatabase)
	}

	records := make([]*medical.Record, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].toDomain())
	}
	return records, nil
}

func (r *medicalRepository) Count(ctx context.Context, filter *types.MedicalRecordFilter) (int, error) {
	q := r.client.Querier(ctx)
	where, args := r.buildListQuery(ctx, filter)

	var count int
	query := "SELECT COUNT(*) FROM medical_records WHERE " + where
	if err := q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count medical records").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}
