package handler // handler exposes the HTTP layer over the repositories

import (
	"errors"
	"strconv"

	"github.com/BastovOleksandr/planetarium-service/internal/repository"
	"github.com/labstack/echo/v4"
)

// AdminHandler bundles repositories for admins to manage the venue
// catalog (domes, themes, shows) and the session schedule.  All
// methods assume JWT authentication and the ADMIN role have been
// enforced by middleware.
type AdminHandler struct {
	DomeRepo    *repository.DomeRepo
	ThemeRepo   *repository.ThemeRepo
	ShowRepo    *repository.ShowRepo
	SessionRepo *repository.SessionRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency is nil.
func NewAdminHandler(domeRepo *repository.DomeRepo, themeRepo *repository.ThemeRepo, showRepo *repository.ShowRepo, sessionRepo *repository.SessionRepo) *AdminHandler {
	if domeRepo == nil || themeRepo == nil || showRepo == nil || sessionRepo == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		DomeRepo:    domeRepo,
		ThemeRepo:   themeRepo,
		ShowRepo:    showRepo,
		SessionRepo: sessionRepo,
	}
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
