package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttendanceRecorded counts successfully persisted attendance marks.
	AttendanceRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campus_attendance_recorded_total",
		Help: "Number of attendance marks persisted.",
	})

	// AttendanceDuplicates counts marks rejected by the uniqueness rule.
	AttendanceDuplicates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campus_attendance_duplicates_total",
		Help: "Number of attendance marks rejected as duplicates.",
	})

	// NotificationsCreated counts created notifications by target role.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_notifications_created_total",
		Help: "Number of notifications created.",
	}, []string{"target_role"})
)
