package handler

import (
	"log/slog"
	"net/http"

	"courier/internal/delivery/api/response"
	"courier/internal/errors"
	"courier/internal/infra/importer"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RecipientHandlerParams holds dependencies for RecipientHandler, injected by Fx.
type RecipientHandlerParams struct {
	fx.In

	Logger *slog.Logger
}

// RecipientHandler turns uploaded recipient files into entries a job submission accepts
type RecipientHandler struct {
	logger *slog.Logger
}

// NewRecipientHandler is the constructor for RecipientHandler
func NewRecipientHandler(params RecipientHandlerParams) *RecipientHandler {
	return &RecipientHandler{
		logger: params.Logger,
	}
}

// Parse handles a multipart upload in the "file" field
func (h *RecipientHandler) Parse(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "file field is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded file")
	}
	defer file.Close()

	result, err := importer.Parse(fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrUnsupportedFormat):
			return response.BadRequest(c, "UNSUPPORTED_FORMAT", "only .csv, .txt and .xlsx files are accepted")
		case errors.Is(err, importer.ErrEmptySource):
			return response.BadRequest(c, "INVALID_RECIPIENTS", "file holds no recipients")
		default:
			h.logger.Warn("Failed to parse recipient file",
				slog.String("filename", fileHeader.Filename),
				slog.Any("error", err),
			)

			return response.BadRequest(c, "INVALID_RECIPIENTS", "file could not be read")
		}
	}

	return response.Success(c, http.StatusOK, result)
}
