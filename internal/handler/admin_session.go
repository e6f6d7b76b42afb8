package handler // admin handlers for the session schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/BastovOleksandr/planetarium-service/internal/model"
	"github.com/BastovOleksandr/planetarium-service/internal/repository"
	"github.com/labstack/echo/v4"
)

// parseShowTime accepts RFC3339 or the bare "2006-01-02 15:04:05" form
// and normalizes to UTC.
func parseShowTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// CreateSession handles POST /v1/sessions.  A session binds one show
// to one dome at a point in time.
func (h *AdminHandler) CreateSession(c echo.Context) error {
	var body struct {
		ShowID   uint64 `json:"astronomy_show"`
		DomeID   uint64 `json:"planetarium_dome"`
		ShowTime string `json:"show_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShowID == 0 || body.DomeID == 0 || body.ShowTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "astronomy_show, planetarium_dome and show_time are required"})
	}
	showTime, err := parseShowTime(body.ShowTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_time must be RFC3339 or YYYY-MM-DD HH:MM:SS"})
	}
	s := &model.Session{ShowID: body.ShowID, DomeID: body.DomeID, ShowTime: showTime}
	if err := h.SessionRepo.Create(c.Request().Context(), s); err != nil {
		switch {
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "show not found"})
		case errors.Is(err, repository.ErrDomeNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dome not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create session"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":               s.ID,
		"astronomy_show":   s.ShowID,
		"planetarium_dome": s.DomeID,
		"show_time":        s.ShowTime.Format(time.RFC3339),
	})
}

// UpdateSession handles PATCH /v1/sessions/:id.
func (h *AdminHandler) UpdateSession(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		ShowID   *uint64 `json:"astronomy_show"`
		DomeID   *uint64 `json:"planetarium_dome"`
		ShowTime *string `json:"show_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	var showTime *time.Time
	if body.ShowTime != nil {
		t, err := parseShowTime(*body.ShowTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_time must be RFC3339 or YYYY-MM-DD HH:MM:SS"})
		}
		showTime = &t
	}
	if err := h.SessionRepo.Update(c.Request().Context(), id, body.ShowID, body.DomeID, showTime); err != nil {
		switch {
		case errors.Is(err, repository.ErrSessionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "show not found"})
		case errors.Is(err, repository.ErrDomeNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dome not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update session"})
		}
	}
	detail, err := h.SessionRepo.GetDetail(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load updated session"})
	}
	return c.JSON(http.StatusOK, detail)
}

// DeleteSession handles DELETE /v1/sessions/:id.  All tickets sold for
// the session are removed by cascade.
func (h *AdminHandler) DeleteSession(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.SessionRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete session"})
	}
	return c.NoContent(http.StatusNoContent)
}
