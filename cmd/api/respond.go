package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus/internal/assignment"
	"campus/internal/attendance"
	"campus/internal/feedback"
	"campus/internal/library"
	"campus/internal/notification"
	"campus/internal/user"
)

// writeError maps service errors onto HTTP statuses. Validation problems
// are 400, duplicates 409, lookups 404, everything else an opaque 500.
func writeError(c *gin.Context, err error) {
	var attValidation *attendance.ValidationError
	var notifValidation *notification.ValidationError

	switch {
	case errors.As(err, &attValidation), errors.As(err, &notifValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, attendance.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, library.ErrISBNIssued),
		errors.Is(err, library.ErrBadDueDate),
		errors.Is(err, library.ErrBadStudent),
		errors.Is(err, library.ErrMissingInfo),
		errors.Is(err, user.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, notification.ErrNotFound),
		errors.Is(err, library.ErrNotFound),
		errors.Is(err, assignment.ErrNotFound),
		errors.Is(err, feedback.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
