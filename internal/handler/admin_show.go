package handler // admin handlers for the astronomy show catalog

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/BastovOleksandr/planetarium-service/internal/model"
	"github.com/BastovOleksandr/planetarium-service/internal/repository"
	"github.com/BastovOleksandr/planetarium-service/internal/utils"
	"github.com/labstack/echo/v4"
)

// maxImageUploadBytes caps artwork uploads at 5 MiB.
const maxImageUploadBytes = 5 << 20

// CreateShow handles POST /v1/shows.  Every show must carry at least
// one theme.
func (h *AdminHandler) CreateShow(c echo.Context) error {
	var body struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Themes      []uint64 `json:"themes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if len(body.Themes) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one theme is required"})
	}
	show := &model.Show{Title: title, Description: body.Description}
	if err := h.ShowRepo.Create(c.Request().Context(), show, body.Themes); err != nil {
		if errors.Is(err, repository.ErrThemeNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "one or more themes do not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create show"})
	}
	detail, err := h.ShowRepo.GetDetail(c.Request().Context(), show.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load created show"})
	}
	return c.JSON(http.StatusCreated, detail)
}

// UpdateShow handles PATCH /v1/shows/:id.  Omitted fields are left
// untouched; an explicit themes list replaces the current set and must
// not be empty.
func (h *AdminHandler) UpdateShow(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Themes      *[]uint64 `json:"themes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Title != nil && strings.TrimSpace(*body.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title must not be empty"})
	}
	if body.Themes != nil && len(*body.Themes) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one theme is required"})
	}
	if err := h.ShowRepo.Update(c.Request().Context(), id, body.Title, body.Description, body.Themes); err != nil {
		switch {
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case errors.Is(err, repository.ErrThemeNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "one or more themes do not exist"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update show"})
		}
	}
	detail, err := h.ShowRepo.GetDetail(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load updated show"})
	}
	return c.JSON(http.StatusOK, detail)
}

// DeleteShow handles DELETE /v1/shows/:id.  Sessions of the show and
// their tickets are removed by cascade; the artwork file on disk is
// removed best-effort.
func (h *AdminHandler) DeleteShow(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.ShowRepo.GetDetail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete show"})
	}
	if err := h.ShowRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete show"})
	}
	if detail.Image != nil {
		removeImageFile(*detail.Image)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadShowImage handles POST /v1/shows/:id/image.  The artwork is
// sent as multipart form-data under the "image" field, stored under
// uploads/astronomy_shows/ with a slugged random filename, and the
// previous file (if any) is removed.
func (h *AdminHandler) UploadShowImage(c echo.Context) error {
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
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file is required"})
	}
	if fh.Size > maxImageUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "image exceeds the 5 MiB limit"})
	}
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported image format"})
	}

	path, err := utils.ShowImagePath(detail.Title, fh.Filename)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store image"})
	}
	if err := saveUpload(fh, path); err != nil {
		log.Printf("image upload for show %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store image"})
	}

	previous, err := h.ShowRepo.SetImage(c.Request().Context(), id, path)
	if err != nil {
		removeImageFile(path)
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not store image"})
	}
	if previous != nil && *previous != path {
		removeImageFile(*previous)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "image": path})
}

// saveUpload copies a multipart file onto disk, creating the target
// directory if needed.
func saveUpload(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}

// removeImageFile deletes an artwork file, logging instead of failing
// the request when the file is already gone.
func removeImageFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("could not remove image file %s: %v", path, err)
	}
}
