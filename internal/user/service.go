package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrUsernameTaken is returned when creating a user with an existing username.
var ErrUsernameTaken = errors.New("username already exists")

// ErrBadCredentials is returned on failed authentication.
var ErrBadCredentials = errors.New("invalid username or password")

// Service owns account management and identity checks.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create registers a new account. Students get a generated student id.
func (s *Service) Create(ctx context.Context, username, password, role, name string) (User, error) {
	if username == "" || password == "" {
		return User{}, errors.New("username and password required")
	}
	if !ValidRole(role) {
		return User{}, fmt.Errorf("unknown role %q", role)
	}
	existing, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	if existing != nil {
		return User{}, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u := User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Name:         name,
	}
	if role == RoleStudent {
		sid, err := s.nextStudentID(ctx)
		if err != nil {
			return User{}, err
		}
		u.StudentID = sid
	}
	return s.store.Insert(ctx, u)
}

// nextStudentID builds ids like STU250001: STU + 2-digit year + sequence.
func (s *Service) nextStudentID(ctx context.Context) (string, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return "", err
	}
	year := time.Now().Year() % 100
	return fmt.Sprintf("STU%02d%04d", year, count+1), nil
}

// Authenticate verifies credentials and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrBadCredentials
	}
	return *u, nil
}

// StudentExists reports whether id refers to a user holding the STUDENT role.
func (s *Service) StudentExists(ctx context.Context, id string) (bool, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u != nil && u.Role == RoleStudent, nil
}

// Get returns a user by id, nil when absent.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.store.FindByID(ctx, id)
}

// GetByUsername returns a user by username, nil when absent.
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	return s.store.FindByUsername(ctx, username)
}

// ListStudents returns all student accounts.
func (s *Service) ListStudents(ctx context.Context) ([]User, error) {
	return s.store.ListByRole(ctx, RoleStudent)
}

// ListAll returns every account.
func (s *Service) ListAll(ctx context.Context) ([]User, error) {
	return s.store.ListAll(ctx)
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// CountByRole returns the number of accounts with the given role.
func (s *Service) CountByRole(ctx context.Context, role string) (int64, error) {
	return s.store.CountByRole(ctx, role)
}
