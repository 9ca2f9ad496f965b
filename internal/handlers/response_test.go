package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/friend-circle/backend/internal/services"
)

func TestRenderError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
		errors  interface{}
	}{
		{
			name:   "field error",
			err:    services.ErrSelfRequest,
			code:   http.StatusBadRequest,
			errors: map[string][]string{"to_user": {"You cannot send a friend request to yourself."}},
		},
		{
			name:   "request level validation",
			err:    fmt.Errorf("send: %w", services.ErrDuplicateRequest),
			code:   http.StatusBadRequest,
			errors: []string{"Friend request already sent."},
		},
		{
			name:    "credentials",
			err:     withMessage(services.ErrInvalidCredentials, loginFailed),
			code:    http.StatusBadRequest,
			message: "Failed to login.",
			errors:  "Invalid credentials.",
		},
		{
			name:   "forbidden",
			err:    services.ErrForbidden,
			code:   http.StatusForbidden,
			errors: "You cannot respond to this friend request.",
		},
		{
			name:   "not found",
			err:    services.ErrRequestNotFound,
			code:   http.StatusNotFound,
			errors: "Friend request not found.",
		},
		{
			name:   "http error",
			err:    echo.NewHTTPError(http.StatusUnauthorized, "Token has been revoked."),
			code:   http.StatusUnauthorized,
			errors: "Token has been revoked.",
		},
		{
			name:    "unexpected error hides details",
			err:     withMessage(errors.New("pq: connection refused"), registrationFailed),
			code:    http.StatusInternalServerError,
			message: unexpectedErrorMessage,
			errors:  unexpectedErrorMessage,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := renderError(tc.err)
			require.Equal(t, tc.code, code)
			require.Equal(t, statusFailure, body.Status)
			require.Equal(t, tc.message, body.Message)
			require.Equal(t, tc.errors, body.Errors)
		})
	}
}
