package handler // admin handlers for managing planetarium domes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/BastovOleksandr/planetarium-service/internal/model"
	"github.com/BastovOleksandr/planetarium-service/internal/repository"
	"github.com/labstack/echo/v4"
)

// CreateDome handles POST /v1/domes.  A dome requires a name and a
// positive seating grid; its capacity is derived, never supplied.
func (h *AdminHandler) CreateDome(c echo.Context) error {
	var body struct {
		Name       string  `json:"name"`
		Rows       *uint32 `json:"rows"`
		SeatsInRow *uint32 `json:"seats_in_row"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Name) == "" || body.Rows == nil || body.SeatsInRow == nil || *body.Rows == 0 || *body.SeatsInRow == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "name, rows and seats_in_row are required and must be greater than zero",
		})
	}
	dome := &repository.Dome{
		Name:       strings.TrimSpace(body.Name),
		Rows:       *body.Rows,
		SeatsInRow: *body.SeatsInRow,
	}
	if err := h.DomeRepo.Create(c.Request().Context(), dome); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create dome"})
	}
	return c.JSON(http.StatusCreated, dome)
}

// UpdateDome handles PATCH /v1/domes/:id.  Shrinking the seating grid
// of a dome that hosts sessions is refused with 409, because sold
// tickets could end up referencing coordinates outside the grid.
func (h *AdminHandler) UpdateDome(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name       *string `json:"name"`
		Rows       *uint32 `json:"rows"`
		SeatsInRow *uint32 `json:"seats_in_row"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if (body.Rows != nil && *body.Rows == 0) || (body.SeatsInRow != nil && *body.SeatsInRow == 0) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows and seats_in_row must be greater than zero"})
	}
	dome, err := h.DomeRepo.Update(c.Request().Context(), id, body.Name, body.Rows, body.SeatsInRow)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDomeNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dome not found"})
		case errors.Is(err, repository.ErrDomeInUse):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update dome"})
		}
	}
	return c.JSON(http.StatusOK, dome)
}

// DeleteDome handles DELETE /v1/domes/:id.  Sessions in the dome and
// their tickets are removed by cascade.
func (h *AdminHandler) DeleteDome(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.DomeRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrDomeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dome not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete dome"})
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateTheme handles POST /v1/themes.  Theme names are unique.
func (h *AdminHandler) CreateTheme(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	theme := model.Theme{Name: name}
	if err := h.ThemeRepo.Create(c.Request().Context(), &theme); err != nil {
		if errors.Is(err, repository.ErrThemeExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "theme already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create theme"})
	}
	return c.JSON(http.StatusCreated, theme)
}

// UpdateTheme handles PATCH /v1/themes/:id.
func (h *AdminHandler) UpdateTheme(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := h.ThemeRepo.Update(c.Request().Context(), id, name); err != nil {
		switch {
		case errors.Is(err, repository.ErrThemeNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
		case errors.Is(err, repository.ErrThemeExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "theme already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update theme"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "name": name})
}

// DeleteTheme handles DELETE /v1/themes/:id.  Shows keep existing;
// only the links to the theme are removed.
func (h *AdminHandler) DeleteTheme(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.ThemeRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrThemeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theme not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete theme"})
	}
	return c.NoContent(http.StatusNoContent)
}
