package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used by tests and local development.
// It enforces the same (student, date, recorder) uniqueness as the
// Postgres constraint.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func key(studentID string, date time.Time, recordedBy string) string {
	return studentID + "|" + Day(date).Format("2006-01-02") + "|" + recordedBy
}

// FindByKey returns the record for the exact triple, nil when absent.
func (m *MemoryStore) FindByKey(_ context.Context, studentID string, date time.Time, recordedBy string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := key(studentID, date, recordedBy)
	for i := range m.records {
		rec := m.records[i]
		if key(rec.StudentID, rec.Date, rec.RecordedBy) == want {
			return &rec, nil
		}
	}
	return nil, nil
}

// Insert writes a new record, failing with ErrDuplicate on a key clash.
func (m *MemoryStore) Insert(_ context.Context, rec Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := key(rec.StudentID, rec.Date, rec.RecordedBy)
	for i := range m.records {
		if key(m.records[i].StudentID, m.records[i].Date, m.records[i].RecordedBy) == want {
			return Record{}, ErrDuplicate
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.Date = Day(rec.Date)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	m.records = append(m.records, rec)
	return rec, nil
}

// ListByStudent returns all marks for a student.
func (m *MemoryStore) ListByStudent(_ context.Context, studentID string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []Record
	for _, rec := range m.records {
		if rec.StudentID == studentID {
			res = append(res, rec)
		}
	}
	return res, nil
}

// ListByStudentAndSubject returns a student's marks for one subject.
func (m *MemoryStore) ListByStudentAndSubject(_ context.Context, studentID, subject string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []Record
	for _, rec := range m.records {
		if rec.StudentID == studentID && rec.Subject == subject {
			res = append(res, rec)
		}
	}
	return res, nil
}

// ListByStudentBetween returns a student's marks within [from, to].
func (m *MemoryStore) ListByStudentBetween(_ context.Context, studentID string, from, to time.Time) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lo, hi := Day(from), Day(to)
	var res []Record
	for _, rec := range m.records {
		if rec.StudentID == studentID && !rec.Date.Before(lo) && !rec.Date.After(hi) {
			res = append(res, rec)
		}
	}
	return res, nil
}

// ListAll returns every record.
func (m *MemoryStore) ListAll(_ context.Context) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Delete removes a record by id.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return nil
}

// CountByStudentAndSubject returns present and total mark counts.
func (m *MemoryStore) CountByStudentAndSubject(_ context.Context, studentID, subject string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var present, total int64
	for _, rec := range m.records {
		if rec.StudentID == studentID && rec.Subject == subject {
			total++
			if rec.Status == StatusPresent {
				present++
			}
		}
	}
	return present, total, nil
}
