package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus/internal/attendance"
	"campus/internal/auth"
	"campus/internal/fee"
	"campus/internal/feedback"
	"campus/internal/user"
)

func (a *app) registerAdminRoutes(g *gin.RouterGroup) {
	g.GET("/dashboard", a.adminDashboard)
	g.GET("/analytics", a.adminAnalytics)

	g.GET("/users", a.listUsers)
	g.POST("/users", a.createUser)
	g.GET("/users/:id", a.getUser)
	g.DELETE("/users/:id", a.deleteUser)
	g.GET("/students", a.listStudents)

	g.POST("/library/issue", a.issueBook)
	g.GET("/library", a.listLibraryIssues)
	g.DELETE("/library/:id", a.deleteLibraryIssue)

	g.GET("/attendance/reports", a.attendanceReports)
	g.DELETE("/attendance/:id", a.deleteAttendance)

	g.POST("/fees", a.createFee)
	g.GET("/fees/reports", a.feeReports)

	g.GET("/assignments/reports", a.assignmentReports)

	g.GET("/feedback", a.listFeedback)
	g.POST("/feedback", a.createFeedback)
	g.POST("/feedback/:id/respond", a.respondFeedback)

	// Admin notification CRUD shares the faculty handlers except listing,
	// which returns every notification rather than a visible subset.
	g.POST("/notifications", a.createNotification)
	g.GET("/notifications", a.listAllNotifications)
	g.PUT("/notifications/:id", a.updateNotification)
	g.DELETE("/notifications/:id", a.deleteNotification)
}

func (a *app) listUsers(c *gin.Context) {
	users, err := a.users.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (a *app) createUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := a.users.Create(c.Request.Context(), req.Username, req.Password, req.Role, req.Name)
	if err != nil {
		if err == user.ErrUsernameTaken {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": u})
}

func (a *app) getUser(c *gin.Context) {
	u, err := a.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (a *app) deleteUser(c *gin.Context) {
	if err := a.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (a *app) issueBook(c *gin.Context) {
	var req struct {
		StudentID string `json:"studentId" binding:"required"`
		Title     string `json:"title"`
		Author    string `json:"author"`
		ISBN      string `json:"isbn"`
		DueDate   string `json:"dueDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	due, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dueDate must be YYYY-MM-DD"})
		return
	}
	issue, err := a.library.IssueBook(c.Request.Context(), req.StudentID, req.Title, req.Author, req.ISBN, due)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, issue)
}

func (a *app) listLibraryIssues(c *gin.Context) {
	issues, err := a.library.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

func (a *app) deleteLibraryIssue(c *gin.Context) {
	if err := a.library.Return(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

func (a *app) attendanceReports(c *gin.Context) {
	records, err := a.attendance.Report(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (a *app) deleteAttendance(c *gin.Context) {
	if err := a.attendance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance record deleted"})
}

func (a *app) createFee(c *gin.Context) {
	var req struct {
		StudentID string  `json:"studentId" binding:"required"`
		FeeType   string  `json:"feeType" binding:"required"`
		Amount    float64 `json:"amount" binding:"required"`
		DueDate   string  `json:"dueDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !fee.ValidType(req.FeeType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown fee type"})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}
	due, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dueDate must be YYYY-MM-DD"})
		return
	}
	created, err := a.fees.Insert(c.Request.Context(), fee.Fee{
		StudentID: req.StudentID,
		FeeType:   req.FeeType,
		Amount:    req.Amount,
		DueDate:   due,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Fee created successfully", "fee": created})
}

func (a *app) feeReports(c *gin.Context) {
	fees, err := a.fees.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fees)
}

func (a *app) assignmentReports(c *gin.Context) {
	assignments, err := a.assignments.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (a *app) listFeedback(c *gin.Context) {
	notes, err := a.feedback.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// createFeedback records a note submitted through the front office.
func (a *app) createFeedback(c *gin.Context) {
	var req struct {
		StudentID string `json:"studentId" binding:"required"`
		Subject   string `json:"subject" binding:"required"`
		Message   string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := a.feedback.Insert(c.Request.Context(), feedback.Feedback{
		StudentID: req.StudentID,
		Subject:   req.Subject,
		Message:   req.Message,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Feedback submitted successfully", "feedback": created})
}

func (a *app) respondFeedback(c *gin.Context) {
	var req struct {
		Response string `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims := auth.FromContext(c)
	if err := a.feedback.Respond(c.Request.Context(), c.Param("id"), req.Response, claims.Username); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Response added successfully"})
}

func (a *app) listAllNotifications(c *gin.Context) {
	notifications, err := a.notifications.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (a *app) adminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	totalStudents, err := a.users.CountByRole(ctx, user.RoleStudent)
	if err != nil {
		writeError(c, err)
		return
	}
	totalFaculty, err := a.users.CountByRole(ctx, user.RoleFaculty)
	if err != nil {
		writeError(c, err)
		return
	}
	totalAssignments, err := a.assignments.Count(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	pendingFeedback, err := a.feedback.CountPending(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	collected, err := a.fees.TotalByStatus(ctx, fee.StatusPaid)
	if err != nil {
		writeError(c, err)
		return
	}
	pendingFees, err := a.fees.TotalByStatus(ctx, fee.StatusPending)
	if err != nil {
		writeError(c, err)
		return
	}
	activeNotifications, err := a.notifications.Count(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalStudents":       totalStudents,
		"totalFaculty":        totalFaculty,
		"totalAssignments":    totalAssignments,
		"pendingFeedback":     pendingFeedback,
		"totalFeesCollected":  collected,
		"pendingFees":         pendingFees,
		"activeNotifications": activeNotifications,
	})
}

// adminAnalytics serves aggregate figures. Attendance counters come from
// the Redis cache the worker maintains; on a cold cache it falls back to
// counting rows.
func (a *app) adminAnalytics(c *gin.Context) {
	ctx := c.Request.Context()

	var totalMarks, presentMarks int64
	total, errTotal := a.redis.Client.Get(ctx, "campus:attendance:total").Int64()
	present, errPresent := a.redis.Client.Get(ctx, "campus:attendance:present").Int64()
	if errTotal == nil && errPresent == nil {
		totalMarks, presentMarks = total, present
	} else {
		records, err := a.attendance.Report(ctx)
		if err != nil {
			writeError(c, err)
			return
		}
		for _, rec := range records {
			totalMarks++
			if rec.Status == attendance.StatusPresent {
				presentMarks++
			}
		}
	}

	pct := 0.0
	if totalMarks > 0 {
		pct = float64(presentMarks) * 100 / float64(totalMarks)
	}

	totalFees, err := a.fees.Total(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	totalStudents, err := a.users.CountByRole(ctx, user.RoleStudent)
	if err != nil {
		writeError(c, err)
		return
	}
	totalFaculty, err := a.users.CountByRole(ctx, user.RoleFaculty)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalAttendanceRecords": totalMarks,
		"attendancePercentage":   pct,
		"totalFees":              totalFees,
		"totalStudents":          totalStudents,
		"totalFaculty":           totalFaculty,
	})
}
