package handler // read-only catalog endpoints for authenticated users

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BastovOleksandr/planetarium-service/internal/repository"
	"github.com/labstack/echo/v4"
)

// BrowseHandler serves the read side of the catalog: themes, domes,
// shows, and sessions with availability.  Both roles may browse.
type BrowseHandler struct {
	DomeRepo    *repository.DomeRepo
	ThemeRepo   *repository.ThemeRepo
	ShowRepo    *repository.ShowRepo
	SessionRepo *repository.SessionRepo
}

// NewBrowseHandler constructs a BrowseHandler and panics if any dependency is nil.
func NewBrowseHandler(domeRepo *repository.DomeRepo, themeRepo *repository.ThemeRepo, showRepo *repository.ShowRepo, sessionRepo *repository.SessionRepo) *BrowseHandler {
	if domeRepo == nil || themeRepo == nil || showRepo == nil || sessionRepo == nil {
		panic("nil repository passed to NewBrowseHandler")
	}
	return &BrowseHandler{
		DomeRepo:    domeRepo,
		ThemeRepo:   themeRepo,
		ShowRepo:    showRepo,
		SessionRepo: sessionRepo,
	}
}

// ListThemes handles GET /v1/themes, ordered case-insensitively by name.
func (h *BrowseHandler) ListThemes(c echo.Context) error {
	themes, err := h.ThemeRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list themes"})
	}
	return c.JSON(http.StatusOK, themes)
}

// ListDomes handles GET /v1/domes.
func (h *BrowseHandler) ListDomes(c echo.Context) error {
	domes, err := h.DomeRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list domes"})
	}
	return c.JSON(http.StatusOK, domes)
}

// GetDome handles GET /v1/domes/:id.
func (h *BrowseHandler) GetDome(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	dome, err := h.DomeRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrDomeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dome not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load dome"})
	}
	return c.JSON(http.StatusOK, dome)
}

// ListShows handles GET /v1/shows.  Supports ?themes=1,2,3 (shows
// linked to any of the given themes) and ?title= (case-insensitive
// substring).
func (h *BrowseHandler) ListShows(c echo.Context) error {
	var filter repository.ShowFilter
	filter.Title = strings.TrimSpace(c.QueryParam("title"))
	if raw := c.QueryParam("themes"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil || id == 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "themes must be a comma-separated list of ids"})
			}
			filter.ThemeIDs = append(filter.ThemeIDs, id)
		}
	}
	shows, err := h.ShowRepo.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list shows"})
	}
	return c.JSON(http.StatusOK, shows)
}

// GetShow handles GET /v1/shows/:id.
func (h *BrowseHandler) GetShow(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.ShowRepo.GetDetail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load show"})
	}
	return c.JSON(http.StatusOK, detail)
}

// ListSessions handles GET /v1/sessions.  Supports ?show=, ?dome=, and
// ?date=YYYY-MM-DD; each row carries tickets_available.
func (h *BrowseHandler) ListSessions(c echo.Context) error {
	var filter repository.SessionFilter
	if raw := c.QueryParam("show"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "show must be a positive id"})
		}
		filter.ShowID = id
	}
	if raw := c.QueryParam("dome"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dome must be a positive id"})
		}
		filter.DomeID = id
	}
	if raw := c.QueryParam("date"); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		filter.Date = raw
	}
	sessions, err := h.SessionRepo.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list sessions"})
	}
	return c.JSON(http.StatusOK, sessions)
}

// GetSession handles GET /v1/sessions/:id, returning the show, dome,
// and every seat already taken.
func (h *BrowseHandler) GetSession(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.SessionRepo.GetDetail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load session"})
	}
	return c.JSON(http.StatusOK, detail)
}
