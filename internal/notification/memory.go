package notification

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and local development.
// It reproduces the Postgres ordering: created_at DESC, id DESC.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	items  []Notification
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert writes a new notification with a sequential id.
func (m *MemoryStore) Insert(_ context.Context, n Notification) (Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	n.ID = m.nextID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	m.items = append(m.items, n)
	return n, nil
}

// FindByID returns a notification by id, nil when absent.
func (m *MemoryStore) FindByID(_ context.Context, id int64) (*Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			n := m.items[i]
			return &n, nil
		}
	}
	return nil, nil
}

// Update replaces title, message and target role.
func (m *MemoryStore) Update(_ context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == n.ID {
			m.items[i].Title = n.Title
			m.items[i].Message = n.Message
			m.items[i].TargetRole = n.TargetRole
			return nil
		}
	}
	return ErrNotFound
}

// Delete removes a notification by id.
func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) list(match func(Notification) bool) []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []Notification
	for _, n := range m.items {
		if match(n) {
			res = append(res, n)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return res
}

// ListVisible returns rows matching the visibility predicate, newest first.
func (m *MemoryStore) ListVisible(_ context.Context, viewer string, role TargetRole) ([]Notification, error) {
	return m.list(func(n Notification) bool { return VisibleTo(n, viewer, role) }), nil
}

// ListForRole returns role-or-ALL broadcasts only.
func (m *MemoryStore) ListForRole(_ context.Context, role TargetRole) ([]Notification, error) {
	return m.list(func(n Notification) bool { return n.TargetRole == role || n.TargetRole == TargetAll }), nil
}

// ListAll returns every notification, newest first.
func (m *MemoryStore) ListAll(_ context.Context) ([]Notification, error) {
	return m.list(func(Notification) bool { return true }), nil
}

// SetRead flips the read flag.
func (m *MemoryStore) SetRead(_ context.Context, id int64, read bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].IsRead = read
			return nil
		}
	}
	return ErrNotFound
}

// Count returns the total number of notifications.
func (m *MemoryStore) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}
