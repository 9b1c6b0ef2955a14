package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/edledger/edledger/internal/domain/student"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/postgres"
	"github.com/edledger/edledger/internal/types"
)

type studentRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewStudentRepository(client postgres.IClient, logger *logger.Logger) student.Repository {
	return &studentRepository{client: client, logger: logger}
}

type studentRow struct {
	ID              string    `db:"id"`
	AdmissionNumber string    `db:"admission_number"`
	FirstName       string    `db:"first_name"`
	LastName        string    `db:"last_name"`
	ClassName       string    `db:"class_name"`
	GuardianName    string    `db:"guardian_name"`
	GuardianPhone   string    `db:"guardian_phone"`
	TenantID        string    `db:"tenant_id"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	CreatedBy       string    `db:"created_by"`
	UpdatedBy       string    `db:"updated_by"`
}

func (r *studentRow) toDomain() *student.Student {
	return &student.Student{
		ID:              r.ID,
		AdmissionNumber: r.AdmissionNumber,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		ClassName:       r.ClassName,
		GuardianName:    r.GuardianName,
		GuardianPhone:   r.GuardianPhone,
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

const selectStudentColumns = `
	id, admission_number, first_name, last_name, class_name, guardian_name,
	guardian_phone, tenant_id, status, created_at, updated_at, created_by, updated_by`

func (r *studentRepository) Create(ctx context.Context, stud *student.Student) error {
	q := r.client.Querier(ctx)

	query := `
	INSERT INTO students (
		id, admission_number, first_name, last_name, class_name, guardian_name,
		guardian_phone, tenant_id, status, created_at, updated_at, created_by, updated_by
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
	)`

	_, err := q.ExecContext(ctx, query,
		stud.ID, stud.AdmissionNumber, stud.FirstName, stud.LastName,
		stud.ClassName, stud.GuardianName, stud.GuardianPhone,
		stud.TenantID, string(stud.Status), stud.CreatedAt, stud.UpdatedAt,
		stud.CreatedBy, stud.UpdatedBy,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return ierr.WithError(err).
				WithHint("A student with this admission number already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create student").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *studentRepository) Get(ctx context.Context, id string) (*student.Student, error) {
	return r.getOne(ctx, "id = $2", id)
}

func (r *studentRepository) GetByAdmissionNumber(ctx context.Context, admissionNumber string) (*student.Student, error) {
	return r.getOne(ctx, "admission_number = $2", admissionNumber)
}

func (r *studentRepository) getOne(ctx context.Context, cond string, arg interface{}) (*student.Student, error) {
	q := r.client.Querier(ctx)

	query := fmt.Sprintf(
		"SELECT %s FROM students WHERE tenant_id = $1 AND status != 'deleted' AND %s",
		selectStudentColumns, cond,
	)

	var row studentRow
	err := q.GetContext(ctx, &row, query, types.GetTenantID(ctx), arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.WithError(err).
				WithHint("Student not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get student").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *studentRepository) Update(ctx context.Context, stud *student.Student) error {
	q := r.client.Querier(ctx)

	query := `
	UPDATE students SET
		first_name = $3, last_name = $4, class_name = $5, guardian_name = $6,
		guardian_phone = $7, updated_at = $8, updated_by = $9
	WHERE tenant_id = $1 AND id = $2`

	res, err := q.ExecContext(ctx, query,
		stud.TenantID, stud.ID,
		stud.FirstName, stud.LastName, stud.ClassName,
		stud.GuardianName, stud.GuardianPhone,
		stud.UpdatedAt, stud.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update student").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("student not found").
			WithHint("Student not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	q := r.client.Querier(ctx)

	query := `
	UPDATE students SET status = 'deleted', updated_at = $3, updated_by = $4
	WHERE tenant_id = $1 AND id = $2`

	res, err := q.ExecContext(ctx, query,
		types.GetTenantID(ctx), id, time.Now().UTC(), types.GetUserID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete student").
			Mark(ierr.ErrDatabase)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ierr.NewError("student not found").
			WithHint("Student not found").
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *studentRepository) buildListQuery(ctx context.Context, filter *types.StudentFilter) (string, []interface{}) {
	where := "tenant_id = $1 AND status != 'deleted'"
	args := []interface{}{types.GetTenantID(ctx)}

	next := func() int { return len(args) + 1 }

	if filter != nil {
		if len(filter.AdmissionNumbers) > 0 {
			where += fmt.Sprintf(" AND admission_number = ANY($%d)", next())
			args = append(args, pq.Array(filter.AdmissionNumbers))
		}
		if filter.ClassName != "" {
			where += fmt.Sprintf(" AND class_name = $%d", next())
			args = append(args, filter.ClassName)
		}
		if filter.Search != "" {
			where += fmt.Sprintf(
				" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR admission_number ILIKE $%d)",
				next(), next()+1, next()+2,
			)
			pattern := "%" + filter.Search + "%"
			args = append(args, pattern, pattern, pattern)
		}
	}
	return where, args
}

func (r *studentRepository) List(ctx context.Context, filter *types.StudentFilter) ([]*student.Student, error) {
	q := r.client.Querier(ctx)
	where, args := r.buildListQuery(ctx, filter)

	query := fmt.Sprintf(
		"SELECT %s FROM students WHERE %s ORDER BY admission_number",
		selectStudentColumns, where,
	)
	if filter != nil && !filter.IsUnlimited() {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.GetLimit(), filter.GetOffset())
	}

	var rows []studentRow
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list students").
			Mark(ierr.ErrDatabase)
	}

	students := make([]*student.Student, 0, len(rows))
	for i := range rows {
		students = append(students, rows[i].toDomain())
	}
	return students, nil
}

func (r *studentRepository) Count(ctx context.Context, filter *types.StudentFilter) (int, error) {
	q := r.client.Querier(ctx)
	where, args := r.buildListQuery(ctx, filter)

	var count int
	query := "SELECT COUNT(*) FROM students WHERE " + where
	if err := q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count students").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}
