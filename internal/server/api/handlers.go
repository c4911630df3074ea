package api

import (
	"errors"
	"log/slog"
	"net/http"

	"glimpse/internal/server/service"

	"github.com/labstack/echo/v4"
)

// Handler contains the HTTP handlers for the Glimpse gateway.
type Handler struct {
	svc         *service.UploadService
	maxFileSize int64
}

// NewHandler creates a new handler with the given service dependency.
func NewHandler(svc *service.UploadService, maxFileSize int64) *Handler {
	return &Handler{svc: svc, maxFileSize: maxFileSize}
}

// HandleUpload handles POST /upload.
// Accepts a multipart form with a "file" field and returns the public URL
// of the stored file. Authentication happens in the APIKeyAuth middleware
// before this handler runs.
func (h *Handler) HandleUpload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no file part"})
	}

	files := form.File["file"]
	if len(files) == 0 {
		// A "file" part with an empty filename parses as a plain form value.
		if _, ok := form.Value["file"]; ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no selected file"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no file part"})
	}

	fileHeader := files[0]
	if fileHeader.Filename == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no selected file"})
	}

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{
			"error": "file exceeds maximum allowed size",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "File upload failed"})
	}
	defer src.Close()

	result, err := h.svc.ProcessUpload(c.Request().Context(), fileHeader.Filename, src)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// HandleServeFile handles GET /i/:filename.
// Streams the raw stored bytes with the content type inferred from the
// file extension.
func (h *Handler) HandleServeFile(c echo.Context) error {
	name := c.Param("filename")

	file, err := h.svc.Fetch(c.Request().Context(), name)
	if err != nil {
		return mapServiceError(c, err)
	}
	defer file.Content.Close()

	return c.Stream(http.StatusOK, file.ContentType, file.Content)
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "healthy"})
}

// mapServiceError translates service-layer errors into appropriate HTTP responses.
// Storage detail stays in the logs; responses carry only safe messages.
func mapServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrStorage):
		slog.Error("storage failure", "path", c.Request().URL.Path, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "File upload failed"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
