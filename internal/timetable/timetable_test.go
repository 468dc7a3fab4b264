package timetable

import (
	"testing"
	"time"
)

func TestForDay(t *testing.T) {
	got := ForDay("monday")
	if got.Day != "MONDAY" {
		t.Fatalf("day = %q, want MONDAY", got.Day)
	}
	if got.TotalClasses != 3 || len(got.Timetable) != 3 {
		t.Fatalf("expected 3 classes, got %d", got.TotalClasses)
	}
	for i, slot := range got.Timetable {
		if slot.DayOfWeek != "MONDAY" {
			t.Errorf("slot %d dayOfWeek = %q", i, slot.DayOfWeek)
		}
		if slot.Subject == "" || slot.StartTime == "" {
			t.Errorf("slot %d missing subject or start time", i)
		}
	}
}

func TestToday(t *testing.T) {
	// 2024-03-01 is a Friday.
	got := Today(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	if got.Day != "FRIDAY" {
		t.Fatalf("day = %q, want FRIDAY", got.Day)
	}
}

func TestWeek(t *testing.T) {
	week := Week()
	if len(week) != 5 {
		t.Fatalf("expected 5 weekdays, got %d", len(week))
	}
	for _, day := range []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"} {
		if len(week[day]) != 3 {
			t.Errorf("%s has %d slots, want 3", day, len(week[day]))
		}
	}
}
