package notification

import (
	"context"
	"database/sql"
	"errors"
)

// Store is the persistence surface the service needs. Listing methods must
// return rows ordered newest-first, with insertion order breaking ties.
type Store interface {
	Insert(ctx context.Context, n Notification) (Notification, error)
	FindByID(ctx context.Context, id int64) (*Notification, error)
	Update(ctx context.Context, n Notification) error
	Delete(ctx context.Context, id int64) error
	ListVisible(ctx context.Context, viewer string, role TargetRole) ([]Notification, error)
	ListForRole(ctx context.Context, role TargetRole) ([]Notification, error)
	ListAll(ctx context.Context) ([]Notification, error)
	SetRead(ctx context.Context, id int64, read bool) error
	Count(ctx context.Context) (int64, error)
}

// Repository persists notifications in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const notificationColumns = `id, title, message, created_by, target_role, COALESCE(target_user_id, ''), is_read, created_at`

func scanNotification(row interface{ Scan(...any) error }) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.Title, &n.Message, &n.CreatedBy, &n.TargetRole, &n.TargetUserID, &n.IsRead, &n.CreatedAt)
	return n, err
}

// Insert writes a new notification.
func (r *Repository) Insert(ctx context.Context, n Notification) (Notification, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO notifications (title, message, created_by, target_role, target_user_id)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING id, created_at
	`, n.Title, n.Message, n.CreatedBy, n.TargetRole, n.TargetUserID)
	if err := row.Scan(&n.ID, &n.CreatedAt); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// FindByID returns a notification by id, nil when absent.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Notification, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// Update replaces title, message and target role.
func (r *Repository) Update(ctx context.Context, n Notification) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET title = $2, message = $3, target_role = $4 WHERE id = $1
	`, n.ID, n.Title, n.Message, n.TargetRole)
	if err != nil {
		return err
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a notification. No cascade: nothing else references it.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return ErrNotFound
	}
	return nil
}

// ListVisible returns rows matching the visibility predicate: role match,
// ALL wildcard, or authored by the viewer. Ordered newest-first; id DESC
// keeps equal timestamps in reverse insertion order.
func (r *Repository) ListVisible(ctx context.Context, viewer string, role TargetRole) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE target_role = $1 OR target_role = $2 OR created_by = $3
		ORDER BY created_at DESC, id DESC
	`, role, TargetAll, viewer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotifications(rows)
}

// ListForRole returns role-or-ALL broadcasts only.
func (r *Repository) ListForRole(ctx context.Context, role TargetRole) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+notificationColumns+` FROM notifications
		WHERE target_role = $1 OR target_role = $2
		ORDER BY created_at DESC, id DESC
	`, role, TargetAll)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotifications(rows)
}

// ListAll returns every notification, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+notificationColumns+` FROM notifications ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNotifications(rows)
}

func collectNotifications(rows *sql.Rows) ([]Notification, error) {
	var res []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, n)
	}
	return res, rows.Err()
}

// SetRead flips the recipient-side read flag.
func (r *Repository) SetRead(ctx context.Context, id int64, read bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = $2 WHERE id = $1`, id, read)
	if err != nil {
		return err
	}
	if count, _ := res.RowsAffected(); count == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of notifications.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&n)
	return n, err
}
