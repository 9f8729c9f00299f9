package backend

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jo-hoe/goschedule/internal/backend/imageprocessing"
	"github.com/jo-hoe/goschedule/internal/core"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const legacyImageSuffix = ".jpg"

type APIService struct {
	config      *core.ServiceConfig
	coreService *core.CoreService
}

type uploadRequest struct {
	ScheduledTime string `form:"scheduled_time" validate:"omitempty,max=64"`
}

type uploadResponse struct {
	Message         string `json:"message"`
	ImageIdentifier string `json:"image_identifier"`
	ScheduledTime   string `json:"scheduled_time"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		config:      config,
		coreService: coreService,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})

	e.POST("/schedule/upload", s.uploadImageHandler, middleware.BodyLimit(s.config.MaxUploadSize))
	// static route, takes precedence over the id parameter
	e.GET("/schedule/latest", s.getLatestImageHandler)
	e.GET("/schedule/:id", s.getImageHandler)
}

func (s *APIService) uploadImageHandler(c echo.Context) error {
	var request uploadRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if err := c.Validate(&request); err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return core.NewValidationError("file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read uploaded file: %w", err)
	}

	record, err := s.coreService.ScheduleImage(c.Request().Context(),
		fileHeader.Filename, fileHeader.Header.Get(echo.HeaderContentType), data, request.ScheduledTime)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Message:         "Image scheduled successfully",
		ImageIdentifier: record.ID,
		ScheduledTime:   record.ScheduledTime,
	})
}

func (s *APIService) getImageHandler(c echo.Context) error {
	// "<id>.jpg" is an alias of "<id>" and is served as bitmap as well
	id := strings.TrimSuffix(c.Param("id"), legacyImageSuffix)

	bitmap, err := s.coreService.GetImageBitmap(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, imageprocessing.MimeTypeBMP, bitmap)
}

func (s *APIService) getLatestImageHandler(c echo.Context) error {
	bitmap, err := s.coreService.GetLatestBitmap(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, imageprocessing.MimeTypeBMP, bitmap)
}

// HTTPErrorHandler renders every error as {"detail": ...} with a status
// derived from its kind
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, detail := statusFromError(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request().Method, "uri", c.Request().RequestURI, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errorResponse{Detail: detail})
	}
	if err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}

func statusFromError(err error) (int, string) {
	var httpError *echo.HTTPError
	switch {
	case errors.As(err, &httpError):
		if httpError.Internal != nil && httpError.Code >= http.StatusInternalServerError {
			return httpError.Code, httpError.Internal.Error()
		}
		return httpError.Code, fmt.Sprint(httpError.Message)
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
