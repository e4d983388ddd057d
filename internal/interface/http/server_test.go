package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington-hub/activities-hub/internal/application/announcements"
	"github.com/mergington-hub/activities-hub/internal/application/auth"
	"github.com/mergington-hub/activities-hub/internal/application/registration"
	"github.com/mergington-hub/activities-hub/internal/domain/activity"
	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
	"github.com/mergington-hub/activities-hub/internal/infrastructure/persistence/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	activities := memory.NewActivityStore()
	chess, err := activity.New("Chess Club", "Learn strategies and compete in tournaments", "Fridays, 3:30 PM - 5:00 PM", 2)
	require.NoError(t, err)
	require.NoError(t, activities.Save(ctx, chess))

	teachers := memory.NewTeacherStore()
	require.NoError(t, teachers.Save(ctx, &teacher.Teacher{
		Username:    "msmith",
		Secret:      "chess456",
		DisplayName: "Ms. Smith",
	}))

	authSvc := auth.NewService(teachers, memory.NewSessionStore(), auth.Config{}, nil)

	return NewServer(Config{Address: "127.0.0.1:0"}, Dependencies{
		Registration:  registration.NewService(activities, authSvc, nil),
		Auth:          authSvc,
		Announcements: announcements.NewService(memory.NewAnnouncementStore(), authSvc, nil),
	})
}

func doJSON(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, s *Server) {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/auth/login", `{"username":"msmith","password":"chess456"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestLoginAndCheckSession(t *testing.T) {
	s := newTestServer(t)

	// Before any login the username has no session record at all.
	rec := doJSON(t, s, http.MethodGet, "/auth/check-session/msmith", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/auth/login", `{"username":"msmith","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	login(t, s)

	rec = doJSON(t, s, http.MethodGet, "/auth/check-session/msmith", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var check map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &check))
	assert.True(t, check["valid"])

	rec = doJSON(t, s, http.MethodPost, "/auth/logout?username=msmith", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// After logout the session is invalid, not gone: still 200, not 404.
	rec = doJSON(t, s, http.MethodGet, "/auth/check-session/msmith", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &check))
	assert.False(t, check["valid"])
}

func TestSignUpFlow(t *testing.T) {
	s := newTestServer(t)

	// No session: the gate rejects the mutation.
	rec := doJSON(t, s, http.MethodPost,
		"/activities/Chess%20Club/signup?email=alice@mergington.edu&teacher_username=msmith", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	login(t, s)

	rec = doJSON(t, s, http.MethodPost,
		"/activities/Chess%20Club/signup?email=alice@mergington.edu&teacher_username=msmith", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var roster rosterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roster))
	assert.Equal(t, "Chess Club", roster.Activity)
	assert.Equal(t, 1, roster.Count)

	// Duplicate signup and unknown activity map to 400 and 404.
	rec = doJSON(t, s, http.MethodPost,
		"/activities/Chess%20Club/signup?email=alice@mergington.edu&teacher_username=msmith", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost,
		"/activities/Knitting%20Circle/signup?email=alice@mergington.edu&teacher_username=msmith", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, s, http.MethodDelete,
		"/activities/Chess%20Club/unregister?email=alice@mergington.edu&teacher_username=msmith", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &roster))
	assert.Equal(t, 0, roster.Count)

	rec = doJSON(t, s, http.MethodDelete,
		"/activities/Chess%20Club/unregister?email=alice@mergington.edu&teacher_username=msmith", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListActivities(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/activities", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var views []registration.ActivityView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Chess Club", views[0].Name)
	assert.Equal(t, 2, views[0].MaxParticipants)
	assert.Equal(t, 0, views[0].CurrentCount)
}

func TestAnnouncementFlow(t *testing.T) {
	s := newTestServer(t)
	login(t, s)

	rec := doJSON(t, s, http.MethodPost, "/announcements?teacher_username=msmith",
		`{"title":"Tryouts","message":"Friday 3pm"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created announcementResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)
	assert.Equal(t, "msmith", created.Author)

	rec = doJSON(t, s, http.MethodGet, "/announcements", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var public []announcementResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &public))
	require.Len(t, public, 1)
	assert.Equal(t, "Tryouts", public[0].Title)

	rec = doJSON(t, s, http.MethodPut, "/announcements/"+created.ID+"?teacher_username=msmith",
		`{"active":false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Hidden from the public list, still in the management view.
	rec = doJSON(t, s, http.MethodGet, "/announcements", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &public))
	assert.Empty(t, public)

	rec = doJSON(t, s, http.MethodGet, "/announcements/manage?teacher_username=msmith", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []announcementResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	rec = doJSON(t, s, http.MethodDelete, "/announcements/"+created.ID+"?teacher_username=msmith", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/announcements/"+created.ID+"?teacher_username=msmith", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStoreUnavailableMapsTo503(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A store that cannot answer surfaces as 503, never as a domain
	// outcome like an empty listing.
	req := httptest.NewRequest(http.MethodGet, "/activities", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/announcements", nil).WithContext(ctx)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAnnouncementValidation(t *testing.T) {
	s := newTestServer(t)
	login(t, s)

	rec := doJSON(t, s, http.MethodPost, "/announcements?teacher_username=msmith",
		`{"title":"x","message":"Friday 3pm"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/announcements/manage?teacher_username=nobody", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
