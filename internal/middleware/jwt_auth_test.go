package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anonto42/friend-circle/backend/internal/auth"
	"github.com/anonto42/friend-circle/backend/internal/middleware"
	"github.com/anonto42/friend-circle/backend/internal/models"
)

type stubUsers map[uint]*models.User

func (s stubUsers) GetActiveUser(_ context.Context, id uint) (*models.User, error) {
	u, ok := s[id]
	if !ok || !u.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func TestTokenFromHeader(t *testing.T) {
	require.Equal(t, "abc", middleware.TokenFromHeader("Bearer abc"))
	require.Equal(t, "abc", middleware.TokenFromHeader("bearer  abc "))
	require.Equal(t, "abc", middleware.TokenFromHeader("abc"))
	require.Equal(t, "", middleware.TokenFromHeader(""))
}

func TestJWTAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Minute, time.Hour)
	revocations := auth.NewMemoryRevocationStore()
	users := stubUsers{
		1: {ID: 1, Email: "active@example.com", IsActive: true},
		2: {ID: 2, Email: "disabled@example.com", IsActive: false},
	}
	mw := middleware.JWTAuthMiddleware(tokens, revocations, users, zap.NewNop())

	handler := mw(func(c echo.Context) error {
		require.Equal(t, uint(1), middleware.CurrentUser(c).ID)
		require.Equal(t, uint(1), middleware.CurrentClaims(c).UserID)
		return c.NoContent(http.StatusNoContent)
	})

	call := func(header string) error {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/friend-list/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		return handler(e.NewContext(req, rec))
	}
	requireStatus := func(err error, code int) {
		t.Helper()
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok, "expected *echo.HTTPError, got %v", err)
		require.Equal(t, code, httpErr.Code)
	}

	active, err := tokens.IssuePair(users[1])
	require.NoError(t, err)

	require.NoError(t, call("Bearer "+active.Access))
	require.NoError(t, call(active.Access))

	requireStatus(call(""), http.StatusUnauthorized)
	requireStatus(call("Bearer garbage"), http.StatusUnauthorized)
	requireStatus(call("Bearer "+active.Refresh), http.StatusUnauthorized)

	disabled, err := tokens.IssuePair(users[2])
	require.NoError(t, err)
	requireStatus(call("Bearer "+disabled.Access), http.StatusUnauthorized)

	claims, err := tokens.Parse(active.Access, auth.AccessToken)
	require.NoError(t, err)
	require.NoError(t, revocations.Revoke(context.Background(), claims.ID, time.Minute))
	requireStatus(call("Bearer "+active.Access), http.StatusUnauthorized)
}
