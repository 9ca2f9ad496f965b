package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/friend-circle/backend/internal/services"
	"github.com/anonto42/friend-circle/backend/internal/validators"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	statusSuccess = "S"
	statusFailure = "F"

	unexpectedErrorMessage = "Something went wrong."
)

// Envelope wraps every response body.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Token   string      `json:"token,omitempty"`
}

func ok(c echo.Context, code int, message string) error {
	return c.JSON(code, Envelope{Status: statusSuccess, Message: message})
}

func okData(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Status: statusSuccess, Data: data})
}

// failure attaches a summary message to an error; the error handler renders both.
type failure struct {
	err     error
	message string
}

func (f *failure) Error() string { return f.err.Error() }
func (f *failure) Unwrap() error { return f.err }

func withMessage(err error, message string) error {
	return &failure{err: err, message: message}
}

var errInvalidPayload = echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")

// NewHTTPErrorHandler renders errors returned by handlers and middleware as failure
// envelopes. Unexpected errors are logged and reported with a fixed message.
func NewHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := renderError(err)
		if code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			logger.Error("write error response", zap.Error(err))
		}
	}
}

func renderError(err error) (int, Envelope) {
	body := Envelope{Status: statusFailure}
	var f *failure
	if errors.As(err, &f) {
		body.Message = f.message
	}

	var (
		svcErr  *services.Error
		verrs   validator.ValidationErrors
		httpErr *echo.HTTPError
	)
	switch {
	case errors.As(err, &svcErr):
		body.Errors = serviceErrorDetail(svcErr)
		return statusForKind(svcErr.Kind), body
	case errors.As(err, &verrs):
		body.Errors = validators.FieldErrors(verrs)
		return http.StatusBadRequest, body
	case errors.As(err, &httpErr):
		if httpErr.Code >= http.StatusInternalServerError {
			body.Errors = unexpectedErrorMessage
			body.Message = unexpectedErrorMessage
			return httpErr.Code, body
		}
		body.Errors = httpErr.Message
		return httpErr.Code, body
	}
	body.Errors = unexpectedErrorMessage
	body.Message = unexpectedErrorMessage
	return http.StatusInternalServerError, body
}

func serviceErrorDetail(err *services.Error) interface{} {
	if err.Field != "" {
		return map[string][]string{err.Field: {err.Message}}
	}
	if err.Kind == services.KindValidation {
		return []string{err.Message}
	}
	return err.Message
}

func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation, services.KindAuthentication:
		return http.StatusBadRequest
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
