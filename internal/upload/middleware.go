package upload

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"recipebook/internal/errors"
	"recipebook/internal/logger"
)

const contextKey = "upload.file"

// Single accepts one file under field. Requests without the file pass through
// untouched; invalid files are rejected before next runs.
func Single(store *Store, field string, log *slog.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !isMultipart(c.Request()) {
				return next(c)
			}

			fh, err := c.FormFile(field)
			if err != nil {
				if stderrors.Is(err, http.ErrMissingFile) {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
					Error: "invalid multipart form",
					Code:  "INVALID_MULTIPART",
				})
			}

			file, err := store.Save(fh)
			if err != nil {
				httpErr := errors.MapErrorToHTTP(err)
				if httpErr.StatusCode >= http.StatusInternalServerError {
					log.ErrorContext(c.Request().Context(), "store upload",
						"field", field,
						"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
						logger.Err(err))
					httpErr.Message = "Failed to store upload"
				}
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			c.Set(contextKey, file)
			return next(c)
		}
	}
}

// FromContext returns the file stored by Single, or nil.
func FromContext(c echo.Context) *File {
	f, _ := c.Get(contextKey).(*File)
	return f
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}
