package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/friend-circle/backend/internal/auth"
	"github.com/anonto42/friend-circle/backend/internal/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	claimsContextKey = "user"
	userContextKey   = "currentUser"
)

// UserLookup resolves the account behind a token; it must fail for disabled users.
type UserLookup interface {
	GetActiveUser(ctx context.Context, id uint) (*models.User, error)
}

// JWTAuthMiddleware checks for a valid, unrevoked access token and loads its user.
// The Authorization header may hold "Bearer <token>" or the bare token.
func JWTAuthMiddleware(tokens *auth.TokenManager, revocations auth.RevocationStore, users UserLookup, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := TokenFromHeader(c.Request().Header.Get("Authorization"))
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
			}

			claims, err := tokens.Parse(tokenString, auth.AccessToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Given token not valid for any token type")
			}

			ctx := c.Request().Context()
			revoked, err := revocations.IsRevoked(ctx, claims.ID)
			if err != nil {
				logger.Error("check token revocation", zap.Error(err))
				return err
			}
			if revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token has been revoked.")
			}

			user, err := users.GetActiveUser(ctx, claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found or inactive.")
			}

			c.Set(claimsContextKey, claims)
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// TokenFromHeader extracts the token from an Authorization header value.
func TokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// CurrentUser returns the authenticated user stored by JWTAuthMiddleware.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

// CurrentClaims returns the access token claims stored by JWTAuthMiddleware.
func CurrentClaims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsContextKey).(*auth.Claims)
	return claims
}
