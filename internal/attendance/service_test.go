package attendance

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStudents map[string]bool

func (f fakeStudents) StudentExists(_ context.Context, id string) (bool, error) {
	return f[id], nil
}

func newTestService(ids ...string) (*Service, *MemoryStore) {
	students := fakeStudents{}
	for _, id := range ids {
		students[id] = true
	}
	store := NewMemoryStore()
	return NewService(store, students), store
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRecordSingle(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a mark with defaulted subject", func(t *testing.T) {
		svc, store := newTestService("s7")
		rec, err := svc.RecordSingle(ctx, "s7", day("2024-03-01"), "PRESENT", "profA", "")
		if err != nil {
			t.Fatalf("RecordSingle() error = %v", err)
		}
		if rec.Subject != DefaultSubject {
			t.Errorf("subject = %q, want %q", rec.Subject, DefaultSubject)
		}
		if rec.ID == "" {
			t.Error("expected generated id")
		}
		all, _ := store.ListAll(ctx)
		if len(all) != 1 {
			t.Fatalf("stored records = %d, want 1", len(all))
		}
	})

	t.Run("second mark for same triple is a duplicate regardless of status", func(t *testing.T) {
		svc, store := newTestService("s7")
		if _, err := svc.RecordSingle(ctx, "s7", day("2024-03-01"), "PRESENT", "profA", ""); err != nil {
			t.Fatalf("first RecordSingle() error = %v", err)
		}
		_, err := svc.RecordSingle(ctx, "s7", day("2024-03-01"), "ABSENT", "profA", "")
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("second RecordSingle() error = %v, want ErrDuplicate", err)
		}
		all, _ := store.ListAll(ctx)
		if len(all) != 1 {
			t.Errorf("stored records = %d, want 1 (duplicate must not write)", len(all))
		}
		if all[0].Status != StatusPresent {
			t.Errorf("status = %q, want original PRESENT preserved", all[0].Status)
		}
	})

	t.Run("different recorders hold independent marks for the same day", func(t *testing.T) {
		svc, store := newTestService("s7")
		if _, err := svc.RecordSingle(ctx, "s7", day("2024-03-01"), "PRESENT", "profA", ""); err != nil {
			t.Fatalf("profA RecordSingle() error = %v", err)
		}
		if _, err := svc.RecordSingle(ctx, "s7", day("2024-03-01"), "ABSENT", "profB", ""); err != nil {
			t.Fatalf("profB RecordSingle() error = %v", err)
		}
		all, _ := store.ListAll(ctx)
		if len(all) != 2 {
			t.Errorf("stored records = %d, want 2", len(all))
		}
	})

	t.Run("validation failures write nothing", func(t *testing.T) {
		tests := []struct {
			name      string
			studentID string
			status    string
		}{
			{"unknown status token", "s7", "UNKNOWN"},
			{"missing student id", "", "PRESENT"},
			{"student does not exist", "ghost", "PRESENT"},
			{"lowercase status rejected", "s7", "present"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, store := newTestService("s7")
				_, err := svc.RecordSingle(ctx, tt.studentID, day("2024-03-01"), tt.status, "profA", "")
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("RecordSingle() error = %v, want *ValidationError", err)
				}
				if all, _ := store.ListAll(ctx); len(all) != 0 {
					t.Errorf("stored records = %d, want 0", len(all))
				}
			})
		}
	})

	t.Run("past dates are allowed for late entry", func(t *testing.T) {
		svc, _ := newTestService("s7")
		if _, err := svc.RecordSingle(ctx, "s7", day("2020-01-15"), "LATE", "profA", "CS101"); err != nil {
			t.Fatalf("RecordSingle() error = %v", err)
		}
	})
}

func TestRecordBulk(t *testing.T) {
	ctx := context.Background()

	t.Run("in-batch repeat is skipped, not double-inserted", func(t *testing.T) {
		svc, store := newTestService("s1")
		res, err := svc.RecordBulk(ctx, day("2024-03-01"), "profA", []BulkEntry{
			{StudentID: "s1", Status: "PRESENT"},
			{StudentID: "s1", Status: "ABSENT"},
		})
		if err != nil {
			t.Fatalf("RecordBulk() error = %v", err)
		}
		if res.Recorded != 1 || res.Skipped != 1 {
			t.Fatalf("recorded=%d skipped=%d, want 1/1", res.Recorded, res.Skipped)
		}
		if res.Results[0].Outcome != OutcomeRecorded || res.Results[1].Outcome != OutcomeDuplicate {
			t.Errorf("outcomes = %q,%q, want recorded,duplicate in input order",
				res.Results[0].Outcome, res.Results[1].Outcome)
		}
		all, _ := store.ListAll(ctx)
		if len(all) != 1 {
			t.Errorf("stored records = %d, want 1", len(all))
		}
	})

	t.Run("malformed entry is reported and does not abort the batch", func(t *testing.T) {
		svc, store := newTestService("s1", "s2")
		res, err := svc.RecordBulk(ctx, day("2024-03-01"), "profA", []BulkEntry{
			{StudentID: "s1", Status: "PRESENT"},
			{StudentID: "", Status: "PRESENT"},
			{StudentID: "s2", Status: ""},
			{StudentID: "s2", Status: "LATE"},
		})
		if err != nil {
			t.Fatalf("RecordBulk() error = %v", err)
		}
		want := []string{OutcomeRecorded, OutcomeInvalid, OutcomeInvalid, OutcomeRecorded}
		for i, w := range want {
			if res.Results[i].Outcome != w {
				t.Errorf("entry %d outcome = %q, want %q", i, res.Results[i].Outcome, w)
			}
		}
		if res.Recorded != 2 || res.Invalid != 2 {
			t.Errorf("recorded=%d invalid=%d, want 2/2", res.Recorded, res.Invalid)
		}
		all, _ := store.ListAll(ctx)
		if len(all) != 2 {
			t.Errorf("stored records = %d, want 2", len(all))
		}
	})

	t.Run("duplicate against a pre-existing mark by the same recorder", func(t *testing.T) {
		svc, _ := newTestService("s1", "s2")
		if _, err := svc.RecordSingle(ctx, "s1", day("2024-03-01"), "PRESENT", "profA", ""); err != nil {
			t.Fatalf("seed RecordSingle() error = %v", err)
		}
		res, err := svc.RecordBulk(ctx, day("2024-03-01"), "profA", []BulkEntry{
			{StudentID: "s1", Status: "PRESENT"},
			{StudentID: "s2", Status: "PRESENT"},
		})
		if err != nil {
			t.Fatalf("RecordBulk() error = %v", err)
		}
		if res.Results[0].Outcome != OutcomeDuplicate || res.Results[1].Outcome != OutcomeRecorded {
			t.Errorf("outcomes = %q,%q, want duplicate,recorded",
				res.Results[0].Outcome, res.Results[1].Outcome)
		}
	})

	t.Run("a mark by another recorder does not count as a duplicate", func(t *testing.T) {
		svc, store := newTestService("s1")
		if _, err := svc.RecordSingle(ctx, "s1", day("2024-03-01"), "PRESENT", "profB", ""); err != nil {
			t.Fatalf("seed RecordSingle() error = %v", err)
		}
		res, err := svc.RecordBulk(ctx, day("2024-03-01"), "profA", []BulkEntry{
			{StudentID: "s1", Status: "ABSENT"},
		})
		if err != nil {
			t.Fatalf("RecordBulk() error = %v", err)
		}
		if res.Results[0].Outcome != OutcomeRecorded {
			t.Errorf("outcome = %q, want recorded", res.Results[0].Outcome)
		}
		all, _ := store.ListAll(ctx)
		if len(all) != 2 {
			t.Errorf("stored records = %d, want 2", len(all))
		}
	})
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"PRESENT", "ABSENT", "LATE", "EXCUSED"} {
		if _, err := ParseStatus(valid); err != nil {
			t.Errorf("ParseStatus(%q) error = %v", valid, err)
		}
	}
	if _, err := ParseStatus("SICK"); err == nil {
		t.Error("ParseStatus(SICK) expected error")
	}
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	in := time.Date(2024, 3, 1, 23, 45, 0, 0, loc) // 18:15 UTC the same day
	got := Day(in)
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Day() = %v, want %v", got, want)
	}
}
