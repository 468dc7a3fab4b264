package attendance

import (
	"context"
	"fmt"
	"time"

	"campus/internal/metrics"
)

// IdentityChecker resolves whether an id refers to an existing student.
type IdentityChecker interface {
	StudentExists(ctx context.Context, id string) (bool, error)
}

// Service owns the attendance ledger policy: who may be marked, and the
// one-mark-per-recorder-per-day uniqueness rule.
type Service struct {
	store    Store
	students IdentityChecker
}

// NewService creates a service backed by a store and an identity collaborator.
func NewService(store Store, students IdentityChecker) *Service {
	return &Service{store: store, students: students}
}

// RecordSingle persists one attendance mark. recordedBy always comes from
// the authenticated caller so attribution cannot be spoofed. Returns
// ErrDuplicate when the (student, date, recorder) triple is already marked.
func (s *Service) RecordSingle(ctx context.Context, studentID string, date time.Time, statusToken, recordedBy, subject string) (Record, error) {
	if recordedBy == "" {
		return Record{}, &ValidationError{Field: "recordedBy", Reason: "required"}
	}
	if studentID == "" {
		return Record{}, &ValidationError{Field: "studentId", Reason: "required"}
	}
	status, err := ParseStatus(statusToken)
	if err != nil {
		return Record{}, err
	}

	exists, err := s.students.StudentExists(ctx, studentID)
	if err != nil {
		return Record{}, fmt.Errorf("resolve student: %w", err)
	}
	if !exists {
		return Record{}, &ValidationError{Field: "studentId", Reason: "no student with this id"}
	}

	if existing, err := s.store.FindByKey(ctx, studentID, date, recordedBy); err != nil {
		return Record{}, fmt.Errorf("duplicate check: %w", err)
	} else if existing != nil {
		metrics.AttendanceDuplicates.Inc()
		return Record{}, ErrDuplicate
	}

	if subject == "" {
		subject = DefaultSubject
	}
	rec, err := s.store.Insert(ctx, Record{
		StudentID:  studentID,
		Date:       Day(date),
		Status:     status,
		RecordedBy: recordedBy,
		Subject:    subject,
	})
	if err != nil {
		if err == ErrDuplicate {
			// Lost a race with a concurrent request for the same triple.
			metrics.AttendanceDuplicates.Inc()
		}
		return Record{}, err
	}
	metrics.AttendanceRecorded.Inc()
	return rec, nil
}

// RecordBulk records marks for many students on one date, best effort per
// entry. Entries are processed sequentially in input order; each entry runs
// the full duplicate check, so a repeat of the same student within one batch
// is skipped rather than double-inserted. Nothing wraps the batch in a
// transaction: one entry failing never rolls back the others.
func (s *Service) RecordBulk(ctx context.Context, date time.Time, recordedBy string, entries []BulkEntry) (BulkResult, error) {
	if recordedBy == "" {
		return BulkResult{}, &ValidationError{Field: "recordedBy", Reason: "required"}
	}

	res := BulkResult{Results: make([]EntryResult, 0, len(entries))}
	for _, entry := range entries {
		er := EntryResult{StudentID: entry.StudentID}
		if entry.StudentID == "" || entry.Status == "" {
			er.Outcome = OutcomeInvalid
			er.Reason = "studentId and status required"
			res.Invalid++
			res.Results = append(res.Results, er)
			continue
		}

		rec, err := s.RecordSingle(ctx, entry.StudentID, date, entry.Status, recordedBy, "")
		switch {
		case err == nil:
			er.Outcome = OutcomeRecorded
			er.RecordID = rec.ID
			res.Recorded++
		case err == ErrDuplicate:
			er.Outcome = OutcomeDuplicate
			er.Reason = "already recorded for this date"
			res.Skipped++
		default:
			if verr, ok := err.(*ValidationError); ok {
				er.Outcome = OutcomeInvalid
				er.Reason = verr.Reason
				res.Invalid++
			} else {
				er.Outcome = OutcomeFailed
				er.Reason = err.Error()
			}
		}
		res.Results = append(res.Results, er)
	}
	return res, nil
}

// ListByStudent returns all marks for a student.
func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]Record, error) {
	return s.store.ListByStudent(ctx, studentID)
}

// ListByStudentAndSubject returns a student's marks for one subject.
func (s *Service) ListByStudentAndSubject(ctx context.Context, studentID, subject string) ([]Record, error) {
	return s.store.ListByStudentAndSubject(ctx, studentID, subject)
}

// ListByStudentBetween returns a student's marks within a date range.
func (s *Service) ListByStudentBetween(ctx context.Context, studentID string, from, to time.Time) ([]Record, error) {
	return s.store.ListByStudentBetween(ctx, studentID, from, to)
}

// Delete removes one mark by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Report returns every mark for admin reporting.
func (s *Service) Report(ctx context.Context) ([]Record, error) {
	return s.store.ListAll(ctx)
}

// SubjectSummary returns the present/total counts for a student and subject.
func (s *Service) SubjectSummary(ctx context.Context, studentID, subject string) (present, total int64, err error) {
	return s.store.CountByStudentAndSubject(ctx, studentID, subject)
}
