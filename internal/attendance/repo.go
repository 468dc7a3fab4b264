package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store is the persistence surface the service needs.
type Store interface {
	FindByKey(ctx context.Context, studentID string, date time.Time, recordedBy string) (*Record, error)
	Insert(ctx context.Context, rec Record) (Record, error)
	ListByStudent(ctx context.Context, studentID string) ([]Record, error)
	ListByStudentAndSubject(ctx context.Context, studentID, subject string) ([]Record, error)
	ListByStudentBetween(ctx context.Context, studentID string, from, to time.Time) ([]Record, error)
	ListAll(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, id string) error
	CountByStudentAndSubject(ctx context.Context, studentID, subject string) (present, total int64, err error)
}

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const recordColumns = `id, student_id, date, status, recorded_by, subject, created_at`

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.StudentID, &rec.Date, &rec.Status, &rec.RecordedBy, &rec.Subject, &rec.CreatedAt)
	return rec, err
}

// FindByKey returns the record for the exact (student, date, recorder) triple, nil when absent.
func (r *Repository) FindByKey(ctx context.Context, studentID string, date time.Time, recordedBy string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records
		WHERE student_id = $1 AND date = $2 AND recorded_by = $3
	`, studentID, Day(date), recordedBy)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Insert writes a new record. A unique-constraint violation on the
// (student, date, recorder) key surfaces as ErrDuplicate so concurrent
// racers lose cleanly instead of double-inserting.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_records (id, student_id, date, status, recorded_by, subject)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, rec.ID, rec.StudentID, Day(rec.Date), rec.Status, rec.RecordedBy, rec.Subject)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return Record{}, ErrDuplicate
		}
		return Record{}, err
	}
	rec.Date = Day(rec.Date)
	return rec, nil
}

// isUniqueViolation checks for SQLSTATE 23505 on the attendance key.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ListByStudent returns all marks for a student, newest date first.
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM attendance_records
		WHERE student_id = $1 ORDER BY date DESC, created_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListByStudentAndSubject returns marks for a student in one subject.
func (r *Repository) ListByStudentAndSubject(ctx context.Context, studentID, subject string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM attendance_records
		WHERE student_id = $1 AND subject = $2 ORDER BY date DESC, created_at DESC
	`, studentID, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListByStudentBetween returns marks for a student within [from, to].
func (r *Repository) ListByStudentBetween(ctx context.Context, studentID string, from, to time.Time) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM attendance_records
		WHERE student_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date DESC, created_at DESC
	`, studentID, Day(from), Day(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListAll returns every record, newest date first.
func (r *Repository) ListAll(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+` FROM attendance_records ORDER BY date DESC, created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func collectRecords(rows *sql.Rows) ([]Record, error) {
	var res []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// Delete removes a record by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	return err
}

// CountByStudentAndSubject returns present and total mark counts.
func (r *Repository) CountByStudentAndSubject(ctx context.Context, studentID, subject string) (int64, int64, error) {
	var present, total int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FILTER (WHERE status = $3), COUNT(*)
		FROM attendance_records
		WHERE student_id = $1 AND subject = $2
	`, studentID, subject, StatusPresent).Scan(&present, &total)
	return present, total, err
}
