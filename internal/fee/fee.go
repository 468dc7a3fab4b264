package fee

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fee types accepted on creation.
const (
	TypeTuition = "TUITION"
	TypeExam    = "EXAM"
	TypeLibrary = "LIBRARY"
	TypeHostel  = "HOSTEL"
	TypeOther   = "OTHER"
)

// Payment states.
const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

// ValidType reports whether the token is a recognised fee type.
func ValidType(t string) bool {
	switch t {
	case TypeTuition, TypeExam, TypeLibrary, TypeHostel, TypeOther:
		return true
	}
	return false
}

// Fee is one charge against a student.
type Fee struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	FeeType   string    `json:"feeType"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	DueDate   time.Time `json:"dueDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository persists fees in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new fee in PENDING state.
func (r *Repository) Insert(ctx context.Context, f Fee) (Fee, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Status == "" {
		f.Status = StatusPending
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO fees (id, student_id, fee_type, amount, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, f.ID, f.StudentID, f.FeeType, f.Amount, f.Status, f.DueDate)
	if err := row.Scan(&f.CreatedAt); err != nil {
		return Fee{}, err
	}
	return f, nil
}

// ListAll returns every fee for admin reporting.
func (r *Repository) ListAll(ctx context.Context) ([]Fee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, fee_type, amount, status, due_date, created_at
		FROM fees ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Fee
	for rows.Next() {
		var f Fee
		if err := rows.Scan(&f.ID, &f.StudentID, &f.FeeType, &f.Amount, &f.Status, &f.DueDate, &f.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, f)
	}
	return res, rows.Err()
}

// TotalByStatus sums fee amounts in the given payment state.
func (r *Repository) TotalByStatus(ctx context.Context, status string) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM fees WHERE status = $1
	`, status).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum fees: %w", err)
	}
	return total, nil
}

// Total sums all fee amounts.
func (r *Repository) Total(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM fees`).Scan(&total)
	return total, err
}
