package notification

import (
	"errors"
	"fmt"
	"time"
)

// TargetRole is the audience class of a notification. ALL is a wildcard
// visible to every viewer.
type TargetRole string

const (
	TargetAdmin   TargetRole = "ADMIN"
	TargetFaculty TargetRole = "FACULTY"
	TargetStudent TargetRole = "STUDENT"
	TargetAll     TargetRole = "ALL"
)

// ParseTargetRole validates a target role token.
func ParseTargetRole(s string) (TargetRole, error) {
	switch TargetRole(s) {
	case TargetAdmin, TargetFaculty, TargetStudent, TargetAll:
		return TargetRole(s), nil
	}
	return "", &ValidationError{Field: "targetRole", Reason: fmt.Sprintf("unknown target role %q", s)}
}

// Notification is a stored announcement.
type Notification struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	CreatedBy    string     `json:"createdBy"`
	TargetRole   TargetRole `json:"targetRole"`
	TargetUserID string     `json:"targetUserId,omitempty"`
	IsRead       bool       `json:"isRead"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ErrNotFound is returned when no notification matches an id.
var ErrNotFound = errors.New("notification not found")

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// VisibleTo is the whole visibility policy in one predicate: a viewer sees
// a notification when it targets their role, targets everyone, or they
// authored it. The three conditions compose with OR, never AND.
func VisibleTo(n Notification, viewer string, role TargetRole) bool {
	return n.TargetRole == role || n.TargetRole == TargetAll || n.CreatedBy == viewer
}
