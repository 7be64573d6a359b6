package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nmamani/aymara-voices/internal/models"
)

// ErrorStatus maps the error taxonomy onto HTTP status codes.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrStore):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse writes the taxonomy-mapped JSON error body.
func ErrorResponse(c echo.Context, err error) error {
	return c.JSON(ErrorStatus(err), map[string]string{"error": err.Error()})
}

func GetRequestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
