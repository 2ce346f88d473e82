package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"recipebook/internal/errors"
	"recipebook/internal/logger"
)

// respondError converts err to an echo HTTP error. Server-side failures are
// logged with their cause and answered with failureMsg only.
func respondError(c echo.Context, log *slog.Logger, err error, failureMsg, failureCode string) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.ErrorContext(c.Request().Context(), failureMsg,
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", requestID(c),
			logger.Err(err))
		httpErr.Message = failureMsg
		httpErr.Code = failureCode
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

func orDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
