package notification

import (
	"context"

	"campus/internal/metrics"
)

// Service owns notification CRUD and the read-side visibility policy.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create stores a new notification authored by createdBy.
func (s *Service) Create(ctx context.Context, title, message, createdBy, targetRole, targetUserID string) (Notification, error) {
	if title == "" {
		return Notification{}, &ValidationError{Field: "title", Reason: "required"}
	}
	if message == "" {
		return Notification{}, &ValidationError{Field: "message", Reason: "required"}
	}
	role, err := ParseTargetRole(targetRole)
	if err != nil {
		return Notification{}, err
	}
	n, err := s.store.Insert(ctx, Notification{
		Title:        title,
		Message:      message,
		CreatedBy:    createdBy,
		TargetRole:   role,
		TargetUserID: targetUserID,
	})
	if err != nil {
		return Notification{}, err
	}
	metrics.NotificationsCreated.WithLabelValues(string(role)).Inc()
	return n, nil
}

// Update replaces title, message and target role. Any target role may
// replace any other; there is no transition restriction.
func (s *Service) Update(ctx context.Context, id int64, title, message, targetRole string) error {
	if title == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if message == "" {
		return &ValidationError{Field: "message", Reason: "required"}
	}
	role, err := ParseTargetRole(targetRole)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, Notification{ID: id, Title: title, Message: message, TargetRole: role})
}

// Delete removes a notification. Nothing cascades.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// ListVisible resolves the visible subset for a viewer: their role's
// broadcasts, ALL broadcasts, and anything they authored, newest first.
func (s *Service) ListVisible(ctx context.Context, viewer string, role TargetRole) ([]Notification, error) {
	return s.store.ListVisible(ctx, viewer, role)
}

// ListForRole resolves role-or-ALL broadcasts only, excluding the viewer's
// own authored notifications outside their role.
func (s *Service) ListForRole(ctx context.Context, role TargetRole) ([]Notification, error) {
	return s.store.ListForRole(ctx, role)
}

// ListAll returns every notification for admin listing.
func (s *Service) ListAll(ctx context.Context) ([]Notification, error) {
	return s.store.ListAll(ctx)
}

// MarkRead flips the recipient-side read flag.
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	return s.store.SetRead(ctx, id, true)
}

// Count returns the number of stored notifications.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
