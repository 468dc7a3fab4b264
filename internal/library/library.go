package library

import (
	"context"
	"errors"
	"time"
)

// Issue is one book issued to a student.
type Issue struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      string    `json:"isbn"`
	DueDate   time.Time `json:"dueDate"`
	IssuedAt  time.Time `json:"issuedAt"`
}

// Errors surfaced by the issue rules.
var (
	ErrISBNIssued  = errors.New("ISBN already issued")
	ErrNotFound    = errors.New("issue not found")
	ErrBadDueDate  = errors.New("due date must be today or later")
	ErrBadStudent  = errors.New("invalid student id")
	ErrMissingInfo = errors.New("title, author and ISBN required")
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, is Issue) (Issue, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	ListAll(ctx context.Context) ([]Issue, error)
	Delete(ctx context.Context, id string) error
}

// IdentityChecker resolves whether an id refers to an existing student.
type IdentityChecker interface {
	StudentExists(ctx context.Context, id string) (bool, error)
}

// Service owns the book-issue rules.
type Service struct {
	store    Store
	students IdentityChecker
}

// NewService creates a service.
func NewService(store Store, students IdentityChecker) *Service {
	return &Service{store: store, students: students}
}

// IssueBook lends a book: the borrower must be a student, the ISBN must not
// already be out, and the due date may not be in the past.
func (s *Service) IssueBook(ctx context.Context, studentID, title, author, isbn string, dueDate time.Time) (Issue, error) {
	if title == "" || author == "" || isbn == "" {
		return Issue{}, ErrMissingInfo
	}
	ok, err := s.students.StudentExists(ctx, studentID)
	if err != nil {
		return Issue{}, err
	}
	if !ok {
		return Issue{}, ErrBadStudent
	}
	issued, err := s.store.ExistsByISBN(ctx, isbn)
	if err != nil {
		return Issue{}, err
	}
	if issued {
		return Issue{}, ErrISBNIssued
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if dueDate.Before(today) {
		return Issue{}, ErrBadDueDate
	}
	return s.store.Insert(ctx, Issue{
		StudentID: studentID,
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		DueDate:   dueDate,
		IssuedAt:  today,
	})
}

// List returns all current issues.
func (s *Service) List(ctx context.Context) ([]Issue, error) {
	return s.store.ListAll(ctx)
}

// Return removes an issue record.
func (s *Service) Return(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
