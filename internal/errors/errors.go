package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingField is returned when a required text field is absent or blank.
	ErrMissingField = errors.New("missing required field")
	// ErrMalformedPayload is returned when a JSON-encoded sub-payload cannot be parsed into an array.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrRecipeNotFound is returned when a recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrProfileNotFound is returned when the profile row is absent.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrNoFile is returned when a required upload is missing.
	ErrNoFile = errors.New("no file uploaded")
	// ErrInvalidFileType is returned when an upload is not an image.
	ErrInvalidFileType = errors.New("only images are allowed")
	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// generic 500 so store details never reach the client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrMissingField):
		return NewHTTPError(http.StatusBadRequest, "Title and description are required", "MISSING_FIELD")
	case errors.Is(err, ErrMalformedPayload):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MALFORMED_PAYLOAD")
	case errors.Is(err, ErrRecipeNotFound):
		return NewHTTPError(http.StatusNotFound, "Recipe not found", "RECIPE_NOT_FOUND")
	case errors.Is(err, ErrProfileNotFound):
		return NewHTTPError(http.StatusNotFound, "User not found", "PROFILE_NOT_FOUND")
	case errors.Is(err, ErrNoFile):
		return NewHTTPError(http.StatusBadRequest, "No file uploaded or invalid file type.", "NO_FILE")
	case errors.Is(err, ErrInvalidFileType):
		return NewHTTPError(http.StatusBadRequest, "Only images are allowed!", "INVALID_FILE_TYPE")
	case errors.Is(err, ErrFileTooLarge):
		return NewHTTPError(http.StatusBadRequest, "File too large", "FILE_TOO_LARGE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// IsClientError reports whether err maps to a 4xx response.
func IsClientError(err error) bool {
	status := MapErrorToHTTP(err).StatusCode
	return status >= 400 && status < 500
}
