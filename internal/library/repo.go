package library

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Repository persists library issues in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new issue.
func (r *Repository) Insert(ctx context.Context, is Issue) (Issue, error) {
	if is.ID == "" {
		is.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO library_issues (id, student_id, title, author, isbn, due_date, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, is.ID, is.StudentID, is.Title, is.Author, is.ISBN, is.DueDate, is.IssuedAt)
	if err != nil {
		return Issue{}, err
	}
	return is, nil
}

// ExistsByISBN reports whether the ISBN is currently out.
func (r *Repository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM library_issues WHERE isbn = $1`, isbn).Scan(&n)
	return n > 0, err
}

// ListAll returns every issue, most recent first.
func (r *Repository) ListAll(ctx context.Context) ([]Issue, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, title, author, isbn, due_date, issued_at
		FROM library_issues ORDER BY issued_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Issue
	for rows.Next() {
		var is Issue
		if err := rows.Scan(&is.ID, &is.StudentID, &is.Title, &is.Author, &is.ISBN, &is.DueDate, &is.IssuedAt); err != nil {
			return nil, err
		}
		res = append(res, is)
	}
	return res, rows.Err()
}

// Delete removes an issue by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM library_issues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
