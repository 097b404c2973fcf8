package handler

import (
	"net/http"

	"courier/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
)

// HealthCheck is the liveness endpoint of the service
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
