package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"campus/internal/assignment"
	"campus/internal/attendance"
	"campus/internal/auth"
	"campus/internal/notification"
	"campus/internal/queue"
	"campus/internal/timetable"
)

const dateLayout = "2006-01-02"

func (a *app) registerFacultyRoutes(g *gin.RouterGroup) {
	g.GET("/dashboard", a.facultyDashboard)

	g.POST("/assignments", a.createAssignment)
	g.GET("/assignments", a.listOwnAssignments)
	g.DELETE("/assignments/:id", a.deleteAssignment)

	g.GET("/students", a.listStudents)

	g.POST("/attendance/mark", a.markAttendance)
	g.POST("/attendance/bulk", a.markBulkAttendance)
	g.GET("/attendance/student/:id", a.studentAttendance)
	g.GET("/attendance/summary", a.attendanceSummary)

	g.POST("/notifications", a.createNotification)
	g.GET("/notifications", a.listVisibleNotifications)
	g.PUT("/notifications/:id", a.updateNotification)
	g.DELETE("/notifications/:id", a.deleteNotification)
	g.POST("/notifications/:id/read", a.markNotificationRead)

	g.GET("/profile", a.facultyProfile)
	g.GET("/timetable/today", func(c *gin.Context) {
		c.JSON(http.StatusOK, timetable.Today(time.Now()))
	})
	g.GET("/timetable/week", func(c *gin.Context) {
		c.JSON(http.StatusOK, timetable.Week())
	})
}

// markAttendance records one mark. The recorder is always the
// authenticated caller, never a body field.
func (a *app) markAttendance(c *gin.Context) {
	var req struct {
		StudentID string `json:"studentId" binding:"required"`
		Date      string `json:"date" binding:"required"`
		Status    string `json:"status" binding:"required"`
		Subject   string `json:"subject"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	claims := auth.FromContext(c)
	rec, err := a.attendance.RecordSingle(c.Request.Context(), req.StudentID, date, req.Status, claims.Username, req.Subject)
	if err != nil {
		writeError(c, err)
		return
	}

	a.publishAttendance(c.Request.Context(), rec)
	c.JSON(http.StatusCreated, gin.H{"message": "Attendance marked", "record": rec})
}

// markBulkAttendance records marks for many students, best effort per entry.
func (a *app) markBulkAttendance(c *gin.Context) {
	var req struct {
		Date     string                 `json:"date" binding:"required"`
		Students []attendance.BulkEntry `json:"students" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	claims := auth.FromContext(c)
	res, err := a.attendance.RecordBulk(c.Request.Context(), date, claims.Username, req.Students)
	if err != nil {
		writeError(c, err)
		return
	}

	for i, er := range res.Results {
		if er.Outcome == attendance.OutcomeRecorded {
			a.publishAttendance(c.Request.Context(), attendance.Record{
				StudentID: er.StudentID,
				Status:    attendance.Status(req.Students[i].Status),
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bulk attendance marked", "result": res})
}

// publishAttendance hands a recorded mark to the worker for counter upkeep.
func (a *app) publishAttendance(ctx context.Context, rec attendance.Record) {
	body := rec.StudentID + "|" + string(rec.Status)
	if err := a.queue.Publish(ctx, queue.Message{Type: "attendance.recorded", Body: []byte(body)}); err != nil {
		// Counters are advisory; the mark itself is already persisted.
		return
	}
}

func (a *app) studentAttendance(c *gin.Context) {
	studentID := c.Param("id")
	ctx := c.Request.Context()

	var (
		records []attendance.Record
		err     error
	)
	from, to := c.Query("from"), c.Query("to")
	subject := c.Query("subject")
	switch {
	case from != "" && to != "":
		var lo, hi time.Time
		if lo, err = time.Parse(dateLayout, from); err == nil {
			hi, err = time.Parse(dateLayout, to)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from/to must be YYYY-MM-DD"})
			return
		}
		records, err = a.attendance.ListByStudentBetween(ctx, studentID, lo, hi)
	case subject != "":
		records, err = a.attendance.ListByStudentAndSubject(ctx, studentID, subject)
	default:
		records, err = a.attendance.ListByStudent(ctx, studentID)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (a *app) attendanceSummary(c *gin.Context) {
	studentID := c.Query("studentId")
	subject := c.DefaultQuery("subject", attendance.DefaultSubject)
	if studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "studentId required"})
		return
	}
	present, total, err := a.attendance.SubjectSummary(c.Request.Context(), studentID, subject)
	if err != nil {
		writeError(c, err)
		return
	}
	pct := 0.0
	if total > 0 {
		pct = float64(present) * 100 / float64(total)
	}
	c.JSON(http.StatusOK, gin.H{"present": present, "total": total, "percentage": pct})
}

func (a *app) listStudents(c *gin.Context) {
	students, err := a.users.ListStudents(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(students))
	for _, s := range students {
		out = append(out, gin.H{"studentId": s.ID, "name": s.Username})
	}
	c.JSON(http.StatusOK, out)
}

func (a *app) createAssignment(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
		Subject     string `json:"subject" binding:"required"`
		MaxMarks    int    `json:"maxMarks" binding:"required"`
		DueDate     string `json:"dueDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	due, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dueDate must be YYYY-MM-DD"})
		return
	}
	// Due at end of the given day.
	due = due.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	claims := auth.FromContext(c)
	created, err := a.assignments.Insert(c.Request.Context(), assignment.Assignment{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		MaxMarks:    req.MaxMarks,
		DueDate:     due,
		CreatedBy:   claims.Username,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Assignment created successfully", "assignment": created})
}

func (a *app) listOwnAssignments(c *gin.Context) {
	claims := auth.FromContext(c)
	assignments, err := a.assignments.ListByCreator(c.Request.Context(), claims.Username)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (a *app) deleteAssignment(c *gin.Context) {
	if err := a.assignments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted successfully"})
}

func (a *app) createNotification(c *gin.Context) {
	var req struct {
		Title        string `json:"title" binding:"required"`
		Message      string `json:"message" binding:"required"`
		TargetRole   string `json:"targetRole" binding:"required"`
		TargetUserID string `json:"targetUserId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims := auth.FromContext(c)
	n, err := a.notifications.Create(c.Request.Context(), req.Title, req.Message, claims.Username, req.TargetRole, req.TargetUserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Notification created successfully", "notification": n})
}

// listVisibleNotifications resolves the caller's visible subset: their
// role's broadcasts, ALL broadcasts, and anything they authored.
func (a *app) listVisibleNotifications(c *gin.Context) {
	claims := auth.FromContext(c)
	role := notification.TargetRole(claims.Role)
	notifications, err := a.notifications.ListVisible(c.Request.Context(), claims.Username, role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (a *app) updateNotification(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Title      string `json:"title" binding:"required"`
		Message    string `json:"message" binding:"required"`
		TargetRole string `json:"targetRole" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.notifications.Update(c.Request.Context(), id, req.Title, req.Message, req.TargetRole); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification updated successfully"})
}

func (a *app) deleteNotification(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := a.notifications.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

func (a *app) markNotificationRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := a.notifications.MarkRead(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

func (a *app) facultyDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	claims := auth.FromContext(c)

	pending, err := a.assignments.CountPendingSubmissions(ctx, claims.Username)
	if err != nil {
		writeError(c, err)
		return
	}

	notifications, err := a.notifications.ListForRole(ctx, notification.TargetFaculty)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(notifications) > 5 {
		notifications = notifications[:5]
	}

	today := timetable.Today(time.Now())
	schedule := make([]string, 0, len(today.Timetable))
	subjects := make([]string, 0, len(today.Timetable))
	for _, slot := range today.Timetable {
		schedule = append(schedule, slot.Subject+" - "+slot.StartTime)
		subjects = append(subjects, slot.Subject)
	}

	c.JSON(http.StatusOK, gin.H{
		"todaySchedule":      schedule,
		"assignedSubjects":   subjects,
		"pendingSubmissions": pending,
		"notifications":      notifications,
	})
}

// facultyProfile returns the stored account joined with the static
// directory details the original system served for unprofiled faculty.
func (a *app) facultyProfile(c *gin.Context) {
	claims := auth.FromContext(c)
	u, err := a.users.GetByUsername(c.Request.Context(), claims.Username)
	if err != nil {
		writeError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	name := u.Name
	if name == "" {
		name = "Dr. Sarah Johnson"
	}
	c.JSON(http.StatusOK, gin.H{
		"id":            u.ID,
		"name":          name,
		"employeeId":    "FAC2023001",
		"department":    "Computer Science",
		"email":         u.Username,
		"designation":   "Associate Professor",
		"qualification": "Ph.D. in Computer Science",
		"experience":    "8 years",
		"coursesTaught": "Operating Systems, Computer Networks, Data Structures",
	})
}
