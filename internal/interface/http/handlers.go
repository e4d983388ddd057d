package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mergington-hub/activities-hub/internal/application/announcements"
	"github.com/mergington-hub/activities-hub/internal/application/registration"
	"github.com/mergington-hub/activities-hub/internal/domain/activity"
	"github.com/mergington-hub/activities-hub/internal/domain/announcement"
	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
	"github.com/mergington-hub/activities-hub/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// Health
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleHealth(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if s.deps.Store != nil {
		if err := s.deps.Store.Ping(c.Request().Context()); err != nil {
			s.log.Error("health check failed", logger.Err(err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"store":  "unreachable",
			})
		}
		status["store"] = "ok"
	}
	return c.JSON(http.StatusOK, status)
}

// ─────────────────────────────────────────────────────────────────────────────
// Activities
// ─────────────────────────────────────────────────────────────────────────────

func (s *Server) handleListActivities(c echo.Context) error {
	views, err := s.deps.Registration.ListActivities(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, views)
}

type rosterResponse struct {
	Activity string `json:"activity"`
	Email    string `json:"email"`
	Count    int    `json:"count"`
}

func (s *Server) handleSignUp(c echo.Context) error {
	result, err := s.deps.Registration.SignUp(c.Request().Context(), registration.SignUpCommand{
		Activity:          activity.Name(c.Param("name")),
		Email:             activity.StudentEmail(c.QueryParam("email")),
		RequestingTeacher: teacher.Username(c.QueryParam("teacher_username")),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rosterResponse{
		Activity: result.Activity.String(),
		Email:    result.Email.String(),
		Count:    result.Count,
	})
}

func (s *Server) handleUnregister(c echo.Context) error {
	result, err := s.deps.Registration.Unregister(c.Request().Context(), registration.UnregisterCommand{
		Activity:          activity.Name(c.Param("name")),
		Email:             activity.StudentEmail(c.QueryParam("email")),
		RequestingTeacher: teacher.Username(c.QueryParam("teacher_username")),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rosterResponse{
		Activity: result.Activity.String(),
		Email:    result.Email.String(),
		Count:    result.Count,
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Auth
// ─────────────────────────────────────────────────────────────────────────────

type loginRequest struct {
	Username string `json:"username" form:"username" query:"username"`
	Password string `json:"password" form:"password" query:"password"`
}

type loginResponse struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid login request")
	}

	result, err := s.deps.Auth.Login(c.Request().Context(), teacher.Username(req.Username), req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loginResponse{
		Username:    result.Username.String(),
		DisplayName: result.DisplayName,
		ExpiresAt:   result.ExpiresAt,
	})
}

func (s *Server) handleLogout(c echo.Context) error {
	username := teacher.Username(c.QueryParam("username"))
	if err := s.deps.Auth.Logout(c.Request().Context(), username); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleCheckSession(c echo.Context) error {
	username := teacher.Username(c.Param("username"))
	valid, err := s.deps.Auth.CheckSession(c.Request().Context(), username)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"valid": valid})
}

// ─────────────────────────────────────────────────────────────────────────────
// Announcements
// ─────────────────────────────────────────────────────────────────────────────

type announcementResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Author    string     `json:"author"`
	Active    bool       `json:"active"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func toAnnouncementResponse(a *announcement.Announcement) announcementResponse {
	return announcementResponse{
		ID:        a.ID.String(),
		Title:     a.Title,
		Message:   a.Body,
		Author:    a.Author.String(),
		Active:    a.Active,
		StartDate: a.StartAt,
		EndDate:   a.EndAt,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAnnouncementResponses(list []*announcement.Announcement) []announcementResponse {
	out := make([]announcementResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAnnouncementResponse(a))
	}
	return out
}

func (s *Server) handleListActiveAnnouncements(c echo.Context) error {
	list, err := s.deps.Announcements.ListActive(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toAnnouncementResponses(list))
}

func (s *Server) handleListAllAnnouncements(c echo.Context) error {
	requesting := teacher.Username(c.QueryParam("teacher_username"))
	list, err := s.deps.Announcements.ListAll(c.Request().Context(), requesting)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toAnnouncementResponses(list))
}

type createAnnouncementRequest struct {
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

func (s *Server) handleCreateAnnouncement(c echo.Context) error {
	var req createAnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid announcement payload")
	}

	created, err := s.deps.Announcements.Create(c.Request().Context(), announcements.CreateCommand{
		RequestingTeacher: teacher.Username(c.QueryParam("teacher_username")),
		Title:             req.Title,
		Body:              req.Message,
		StartAt:           req.StartDate,
		EndAt:             req.EndDate,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toAnnouncementResponse(created))
}

type updateAnnouncementRequest struct {
	Title     *string    `json:"title"`
	Message   *string    `json:"message"`
	Active    *bool      `json:"active"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

func (s *Server) handleUpdateAnnouncement(c echo.Context) error {
	var req updateAnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid announcement payload")
	}

	updated, err := s.deps.Announcements.Update(c.Request().Context(), announcements.UpdateCommand{
		RequestingTeacher: teacher.Username(c.QueryParam("teacher_username")),
		ID:                announcement.ID(c.Param("id")),
		Fields: announcement.Update{
			Title:   req.Title,
			Body:    req.Message,
			Active:  req.Active,
			StartAt: req.StartDate,
			EndAt:   req.EndDate,
		},
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toAnnouncementResponse(updated))
}

func (s *Server) handleDeleteAnnouncement(c echo.Context) error {
	err := s.deps.Announcements.Delete(c.Request().Context(),
		teacher.Username(c.QueryParam("teacher_username")),
		announcement.ID(c.Param("id")),
	)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
