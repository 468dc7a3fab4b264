package attendance

import (
	"errors"
	"fmt"
	"time"
)

// Status of a single attendance mark. The set is closed at creation.
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusLate    Status = "LATE"
	StatusExcused Status = "EXCUSED"
)

// DefaultSubject is applied when no subject label is supplied.
const DefaultSubject = "General"

// ParseStatus validates a status token.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return Status(s), nil
	}
	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", s)}
}

// Record is one attendance mark for a student on a calendar day.
// At most one record may exist per (student, date, recorder) triple;
// different recorders may each hold an independent mark for the same day.
type Record struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"studentId"`
	Date       time.Time `json:"date"`
	Status     Status    `json:"status"`
	RecordedBy string    `json:"recordedBy"`
	Subject    string    `json:"subject"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Day truncates a timestamp to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ErrDuplicate is returned when a mark already exists for the
// (student, date, recorder) triple.
var ErrDuplicate = errors.New("attendance already recorded for this student, date and recorder")

// ValidationError reports a malformed or unresolvable input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// Bulk outcome for one entry.
const (
	OutcomeRecorded  = "recorded"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
)

// BulkEntry is one (student, status) pair in a bulk request.
type BulkEntry struct {
	StudentID string `json:"studentId"`
	Status    string `json:"status"`
}

// EntryResult reports what happened to one bulk entry.
type EntryResult struct {
	StudentID string `json:"studentId"`
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason,omitempty"`
	RecordID  string `json:"recordId,omitempty"`
}

// BulkResult lists per-entry outcomes in input order.
type BulkResult struct {
	Results  []EntryResult `json:"results"`
	Recorded int           `json:"recorded"`
	Skipped  int           `json:"skipped"`
	Invalid  int           `json:"invalid"`
}
