package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"campus/internal/attendance"
	"campus/internal/auth"
	"campus/internal/config"
	"campus/internal/notification"
	"campus/internal/queue"
	"campus/internal/user"
)

type fakeStudents map[string]bool

func (f fakeStudents) StudentExists(_ context.Context, id string) (bool, error) {
	return f[id], nil
}

// newTestRouter wires the faculty routes over in-memory stores, with a
// middleware injecting claims in place of the JWT chain.
func newTestRouter(claims auth.Claims, students fakeStudents) (*gin.Engine, *notification.MemoryStore) {
	gin.SetMode(gin.TestMode)

	notifStore := notification.NewMemoryStore()
	a := &app{
		cfg:           config.App{},
		attendance:    attendance.NewService(attendance.NewMemoryStore(), students),
		notifications: notification.NewService(notifStore),
		queue:         queue.NewInMemory(64),
	}

	r := gin.New()
	group := r.Group("/api/faculty", func(c *gin.Context) {
		c.Set("claims", claims)
		c.Next()
	})
	group.POST("/attendance/mark", a.markAttendance)
	group.POST("/attendance/bulk", a.markBulkAttendance)
	group.POST("/notifications", a.createNotification)
	group.GET("/notifications", a.listVisibleNotifications)
	return r, notifStore
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestMarkAttendanceEndpoint(t *testing.T) {
	claims := auth.Claims{Username: "profA", Role: user.RoleFaculty}
	r, _ := newTestRouter(claims, fakeStudents{"s1": true})

	body := gin.H{"studentId": "s1", "date": "2024-03-01", "status": "PRESENT"}

	rec := doJSON(r, http.MethodPost, "/api/faculty/attendance/mark", body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Same triple again: conflict, regardless of status.
	body["status"] = "ABSENT"
	rec = doJSON(r, http.MethodPost, "/api/faculty/attendance/mark", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMarkAttendanceValidation(t *testing.T) {
	claims := auth.Claims{Username: "profA", Role: user.RoleFaculty}
	r, _ := newTestRouter(claims, fakeStudents{"s1": true})

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{"unknown status", gin.H{"studentId": "s1", "date": "2024-03-01", "status": "UNKNOWN"}, http.StatusBadRequest},
		{"unknown student", gin.H{"studentId": "ghost", "date": "2024-03-01", "status": "PRESENT"}, http.StatusBadRequest},
		{"bad date", gin.H{"studentId": "s1", "date": "01/03/2024", "status": "PRESENT"}, http.StatusBadRequest},
		{"missing fields", gin.H{"studentId": "s1"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(r, http.MethodPost, "/api/faculty/attendance/mark", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestBulkAttendanceEndpoint(t *testing.T) {
	claims := auth.Claims{Username: "profA", Role: user.RoleFaculty}
	r, _ := newTestRouter(claims, fakeStudents{"s1": true, "s2": true})

	rec := doJSON(r, http.MethodPost, "/api/faculty/attendance/bulk", gin.H{
		"date": "2024-03-01",
		"students": []gin.H{
			{"studentId": "s1", "status": "PRESENT"},
			{"studentId": "s1", "status": "ABSENT"},
			{"studentId": "s2", "status": "LATE"},
		},
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result attendance.BulkResult `json:"result"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Result.Recorded)
	assert.Equal(t, 1, resp.Result.Skipped)
	outcomes := []string{}
	for _, er := range resp.Result.Results {
		outcomes = append(outcomes, er.Outcome)
	}
	assert.Equal(t, []string{"recorded", "duplicate", "recorded"}, outcomes)
}

func TestNotificationEndpoints(t *testing.T) {
	claims := auth.Claims{Username: "alice", Role: user.RoleStudent}
	r, store := newTestRouter(claims, fakeStudents{})

	base := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	_, _ = store.Insert(ctx, notification.Notification{Title: "students", Message: "m", CreatedBy: "bob", TargetRole: notification.TargetStudent, CreatedAt: base})
	_, _ = store.Insert(ctx, notification.Notification{Title: "everyone", Message: "m", CreatedBy: "bob", TargetRole: notification.TargetAll, CreatedAt: base.Add(time.Minute)})
	_, _ = store.Insert(ctx, notification.Notification{Title: "faculty-bob", Message: "m", CreatedBy: "bob", TargetRole: notification.TargetFaculty, CreatedAt: base.Add(2 * time.Minute)})
	_, _ = store.Insert(ctx, notification.Notification{Title: "faculty-alice", Message: "m", CreatedBy: "alice", TargetRole: notification.TargetFaculty, CreatedAt: base.Add(3 * time.Minute)})

	rec := doJSON(r, http.MethodGet, "/api/faculty/notifications", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []notification.Notification
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	titles := []string{}
	for _, n := range got {
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"faculty-alice", "everyone", "students"}, titles)
}

func TestCreateNotificationEndpoint(t *testing.T) {
	claims := auth.Claims{Username: "prof", Role: user.RoleFaculty}
	r, store := newTestRouter(claims, fakeStudents{})

	rec := doJSON(r, http.MethodPost, "/api/faculty/notifications", gin.H{
		"title": "exam", "message": "friday", "targetRole": "STUDENT",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	all, _ := store.ListAll(context.Background())
	assert.Len(t, all, 1)
	assert.Equal(t, "prof", all[0].CreatedBy)

	rec = doJSON(r, http.MethodPost, "/api/faculty/notifications", gin.H{
		"title": "exam", "message": "friday", "targetRole": "EVERYBODY",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin-only", func(c *gin.Context) {
		c.Set("claims", auth.Claims{Username: "prof", Role: user.RoleFaculty})
		c.Next()
	}, auth.RequireRole(user.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := doJSON(r, http.MethodGet, "/admin-only", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
