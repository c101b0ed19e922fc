// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sylly/backend/internal/extract"
	"github.com/sylly/backend/internal/models"
	"github.com/sylly/backend/internal/storage"
	"github.com/sylly/backend/internal/upload"
)

// APIError represents a failed request. Only Message reaches the client.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// errorBody is the uniform error payload of every endpoint.
type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func newAPIError(status int, code, message string, cause error) *APIError {
	err := &APIError{Status: status, Code: code, Message: message}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	return newAPIError(http.StatusBadRequest, "BAD_REQUEST", message, cause)
}

// NewUnsupportedTypeError creates a 415 error
func NewUnsupportedTypeError(message string, cause error) *APIError {
	return newAPIError(http.StatusUnsupportedMediaType, "UNSUPPORTED_TYPE", message, cause)
}

// NewTooLargeError creates a 413 error
func NewTooLargeError(message string, cause error) *APIError {
	return newAPIError(http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", message, cause)
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	return newAPIError(http.StatusInternalServerError, "INTERNAL_ERROR", message, cause)
}

// NewExtractionError creates a 502 error for a failed collaborator run
func NewExtractionError(message string, cause error) *APIError {
	return newAPIError(http.StatusBadGateway, "EXTRACTION_ERROR", message, cause)
}

// NewTimeoutError creates a 504 error
func NewTimeoutError(message string, cause error) *APIError {
	return newAPIError(http.StatusGatewayTimeout, "EXTRACTION_TIMEOUT", message, cause)
}

// FromError maps pipeline failures onto API errors.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var verr *upload.ValidationError
	if errors.As(err, &verr) {
		switch {
		case errors.Is(verr.Kind, upload.ErrUnsupportedType):
			return NewUnsupportedTypeError(verr.Message, err)
		case errors.Is(verr.Kind, upload.ErrFileTooLarge):
			return NewTooLargeError(verr.Message, err)
		default:
			return NewBadRequestError(verr.Message, err)
		}
	}

	var werr *storage.WriteError
	if errors.As(err, &werr) {
		return NewInternalError(werr.Error(), werr.Err)
	}

	var xerr *extract.Error
	if errors.As(err, &xerr) {
		if errors.Is(xerr.Kind, extract.ErrTimeout) {
			return NewTimeoutError(xerr.Message, err)
		}
		return NewExtractionError(xerr.Message, err)
	}

	return NewInternalError("An unexpected error occurred", err)
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		msg := fmt.Sprintf("%v", httpErr.Message)
		if httpErr.Code == http.StatusRequestEntityTooLarge {
			msg = upload.CodeFormSize.Message()
		}
		apiErr = newAPIError(httpErr.Code, "HTTP_ERROR", msg, httpErr.Internal)
	default:
		apiErr = FromError(err)
	}

	entry := logrus.WithFields(logrus.Fields{
		"component": "api",
		"status":    apiErr.Status,
		"code":      apiErr.Code,
		"uri":       c.Request().RequestURI,
	})
	if apiErr.Details != "" {
		entry = entry.WithField("details", apiErr.Details)
	}
	if apiErr.Status >= http.StatusInternalServerError {
		entry.Error(apiErr.Message)
	} else {
		entry.Debug(apiErr.Message)
	}

	if c.Request().Method == http.MethodHead {
		c.NoContent(apiErr.Status)
		return
	}
	c.JSON(apiErr.Status, errorBody{Status: models.StatusError, Message: apiErr.Message})
}
