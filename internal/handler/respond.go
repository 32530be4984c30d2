package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "taskpilot/internal/errors"
	"taskpilot/internal/response"
)

// fail converts a service error into its envelope response. Unexpected
// errors are logged and surface only as "Internal server error".
func fail(c echo.Context, err error) error {
	status := apperrors.StatusFor(err)
	if status == http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return response.Fail(c, status, apperrors.MessageFor(err))
}
