package feedback

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Feedback states.
const (
	StatusPending  = "PENDING"
	StatusResolved = "RESOLVED"
)

// ErrNotFound is returned when no feedback matches an id.
var ErrNotFound = errors.New("feedback not found")

// Feedback is a student-submitted note, optionally answered by an admin.
type Feedback struct {
	ID            string     `json:"id"`
	StudentID     string     `json:"studentId"`
	Subject       string     `json:"subject"`
	Message       string     `json:"message"`
	Status        string     `json:"status"`
	AdminResponse string     `json:"adminResponse,omitempty"`
	RespondedBy   string     `json:"respondedBy,omitempty"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Repository persists feedback in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new feedback note in PENDING state.
func (r *Repository) Insert(ctx context.Context, f Feedback) (Feedback, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.Status = StatusPending
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO feedback (id, student_id, subject, message, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, f.ID, f.StudentID, f.Subject, f.Message, f.Status)
	if err := row.Scan(&f.CreatedAt); err != nil {
		return Feedback{}, err
	}
	return f, nil
}

const feedbackColumns = `id, student_id, subject, message, status,
	COALESCE(admin_response, ''), COALESCE(responded_by, ''), responded_at, created_at`

func collect(rows *sql.Rows) ([]Feedback, error) {
	var res []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.StudentID, &f.Subject, &f.Message, &f.Status,
			&f.AdminResponse, &f.RespondedBy, &f.RespondedAt, &f.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, f)
	}
	return res, rows.Err()
}

// ListAll returns every feedback note, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]Feedback, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+feedbackColumns+` FROM feedback ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// CountPending returns the number of unanswered notes.
func (r *Repository) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback WHERE status = $1`, StatusPending).Scan(&n)
	return n, err
}

// Respond records an admin answer and resolves the note.
func (r *Repository) Respond(ctx context.Context, id, response, respondedBy string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE feedback
		SET admin_response = $2, responded_by = $3, responded_at = NOW(), status = $4
		WHERE id = $1
	`, id, response, respondedBy, StatusResolved)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
