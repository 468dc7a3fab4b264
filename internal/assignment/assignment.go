package assignment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Assignment is coursework published by a faculty member.
type Assignment struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Subject     string    `json:"subject"`
	MaxMarks    int       `json:"maxMarks"`
	DueDate     time.Time `json:"dueDate"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ErrNotFound is returned when no assignment matches an id.
var ErrNotFound = errors.New("assignment not found")

// Repository persists assignments and submissions in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new assignment.
func (r *Repository) Insert(ctx context.Context, a Assignment) (Assignment, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO assignments (id, title, description, subject, max_marks, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, a.ID, a.Title, a.Description, a.Subject, a.MaxMarks, a.DueDate, a.CreatedBy)
	if err := row.Scan(&a.CreatedAt); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

const assignmentColumns = `id, title, description, subject, max_marks, due_date, created_by, created_at`

func collect(rows *sql.Rows) ([]Assignment, error) {
	var res []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Subject, &a.MaxMarks, &a.DueDate, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// ListByCreator returns assignments published by one faculty member.
func (r *Repository) ListByCreator(ctx context.Context, createdBy string) ([]Assignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+assignmentColumns+` FROM assignments WHERE created_by = $1 ORDER BY created_at DESC
	`, createdBy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ListAll returns every assignment for admin reporting.
func (r *Repository) ListAll(ctx context.Context) ([]Assignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+assignmentColumns+` FROM assignments ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// Delete removes an assignment by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of assignments.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assignments`).Scan(&n)
	return n, err
}

// CountPendingSubmissions returns unreviewed submissions for one faculty
// member's assignments.
func (r *Repository) CountPendingSubmissions(ctx context.Context, createdBy string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM assignment_submissions s
		JOIN assignments a ON a.id = s.assignment_id
		WHERE a.created_by = $1 AND NOT s.reviewed
	`, createdBy).Scan(&n)
	return n, err
}
