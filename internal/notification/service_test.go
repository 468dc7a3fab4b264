package notification

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seed(t *testing.T, store *MemoryStore, title, createdBy string, role TargetRole, at time.Time) Notification {
	t.Helper()
	n, err := store.Insert(context.Background(), Notification{
		Title:      title,
		Message:    "msg",
		CreatedBy:  createdBy,
		TargetRole: role,
		CreatedAt:  at,
	})
	if err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}
	return n
}

func titles(ns []Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Title
	}
	return out
}

func TestVisibleTo(t *testing.T) {
	tests := []struct {
		name   string
		n      Notification
		viewer string
		role   TargetRole
		want   bool
	}{
		{"role match", Notification{TargetRole: TargetStudent}, "alice", TargetStudent, true},
		{"ALL wildcard", Notification{TargetRole: TargetAll}, "alice", TargetStudent, true},
		{"author match outside role", Notification{TargetRole: TargetFaculty, CreatedBy: "alice"}, "alice", TargetStudent, true},
		{"no condition holds", Notification{TargetRole: TargetFaculty, CreatedBy: "bob"}, "alice", TargetStudent, false},
		{"role mismatch, different author", Notification{TargetRole: TargetAdmin, CreatedBy: "bob"}, "carol", TargetFaculty, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleTo(tt.n, tt.viewer, tt.role); got != tt.want {
				t.Errorf("VisibleTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListVisible(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)
	base := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	seed(t, store, "students-only", "bob", TargetStudent, base)
	seed(t, store, "everyone", "bob", TargetAll, base.Add(time.Minute))
	seed(t, store, "faculty-by-bob", "bob", TargetFaculty, base.Add(2*time.Minute))
	seed(t, store, "faculty-by-alice", "alice", TargetFaculty, base.Add(3*time.Minute))

	got, err := svc.ListVisible(ctx, "alice", TargetStudent)
	if err != nil {
		t.Fatalf("ListVisible() error = %v", err)
	}
	want := []string{"faculty-by-alice", "everyone", "students-only"}
	if len(got) != len(want) {
		t.Fatalf("ListVisible() returned %v, want %v", titles(got), want)
	}
	for i, w := range want {
		if got[i].Title != w {
			t.Errorf("result[%d] = %q, want %q", i, got[i].Title, w)
		}
	}
	for _, n := range got {
		if n.Title == "faculty-by-bob" {
			t.Error("faculty-by-bob must not be visible to a student viewer")
		}
	}
}

func TestListVisibleOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)
	base := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	seed(t, store, "t1", "bob", TargetStudent, base)
	seed(t, store, "t2", "bob", TargetStudent, base.Add(time.Hour))
	seed(t, store, "t3", "bob", TargetStudent, base.Add(2*time.Hour))
	// Equal timestamps: later insertion wins.
	seed(t, store, "tie-first", "bob", TargetStudent, base.Add(3*time.Hour))
	seed(t, store, "tie-second", "bob", TargetStudent, base.Add(3*time.Hour))

	got, err := svc.ListVisible(ctx, "alice", TargetStudent)
	if err != nil {
		t.Fatalf("ListVisible() error = %v", err)
	}
	want := []string{"tie-second", "tie-first", "t3", "t2", "t1"}
	for i, w := range want {
		if got[i].Title != w {
			t.Errorf("result[%d] = %q, want %q", i, got[i].Title, w)
		}
	}
}

func TestListForRole(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)
	base := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	seed(t, store, "for-faculty", "bob", TargetFaculty, base)
	seed(t, store, "for-everyone", "bob", TargetAll, base.Add(time.Minute))
	seed(t, store, "bob-to-students", "bob", TargetStudent, base.Add(2*time.Minute))

	got, err := svc.ListForRole(ctx, TargetFaculty)
	if err != nil {
		t.Fatalf("ListForRole() error = %v", err)
	}
	want := []string{"for-everyone", "for-faculty"}
	if len(got) != len(want) {
		t.Fatalf("ListForRole() returned %v, want %v", titles(got), want)
	}
	for i, w := range want {
		if got[i].Title != w {
			t.Errorf("result[%d] = %q, want %q", i, got[i].Title, w)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	tests := []struct {
		name       string
		title      string
		message    string
		targetRole string
	}{
		{"missing title", "", "m", "ALL"},
		{"missing message", "t", "", "ALL"},
		{"unknown target role", "t", "m", "EVERYBODY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.title, tt.message, "bob", tt.targetRole, "")
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Create() error = %v, want *ValidationError", err)
			}
		})
	}
}

func TestUpdateAllowsAnyRoleTransition(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)

	n, err := svc.Create(ctx, "t", "m", "bob", "ADMIN", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	for _, role := range []string{"FACULTY", "STUDENT", "ALL", "ADMIN"} {
		if err := svc.Update(ctx, n.ID, "t", "m", role); err != nil {
			t.Errorf("Update() to %s error = %v", role, err)
		}
		got, _ := store.FindByID(ctx, n.ID)
		if got.TargetRole != TargetRole(role) {
			t.Errorf("target role = %q, want %q", got.TargetRole, role)
		}
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)

	n, _ := svc.Create(ctx, "t", "m", "bob", "ALL", "")
	if err := svc.Delete(ctx, n.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Delete(ctx, n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store)

	n, _ := svc.Create(ctx, "t", "m", "bob", "ALL", "")
	if err := svc.MarkRead(ctx, n.ID); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	got, _ := store.FindByID(ctx, n.ID)
	if !got.IsRead {
		t.Error("expected is_read to be set")
	}
}
