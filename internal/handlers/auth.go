package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/friend-circle/backend/internal/auth"
	"github.com/anonto42/friend-circle/backend/internal/middleware"
	"github.com/anonto42/friend-circle/backend/internal/models"
	"github.com/anonto42/friend-circle/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	registrationFailed = "User registration failed."
	loginFailed        = "Failed to login."
)

// IdentityVerifier resolves a third-party ID token to a verified email address.
type IdentityVerifier interface {
	IdentityFromToken(ctx context.Context, idToken string) (string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users       *services.UserService
	tokens      *auth.TokenManager
	revocations auth.RevocationStore
	cookies     CookieSettings
	identity    IdentityVerifier
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. identity may be nil, in which case the
// Firebase login route is not registered.
func NewAuthHandler(users *services.UserService, tokens *auth.TokenManager, revocations auth.RevocationStore, cookies CookieSettings, identity IdentityVerifier, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:       users,
		tokens:      tokens,
		revocations: revocations,
		cookies:     cookies,
		identity:    identity,
		logger:      logger,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/register/", h.Register)
	g.POST("/login/", h.Login)
	g.GET("/logout/", h.Logout, requireAuth)
	g.POST("/token/refresh/", h.Refresh)
	if h.identity != nil {
		g.POST("/firebase-login/", h.FirebaseLogin)
	}
}

// Register creates an account from email, password and profile details.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return withMessage(errInvalidPayload, registrationFailed)
	}
	if err := c.Validate(&req); err != nil {
		return withMessage(err, registrationFailed)
	}

	user, err := h.users.Register(c.Request().Context(), req)
	if err != nil {
		return withMessage(err, registrationFailed)
	}

	h.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return ok(c, http.StatusCreated, "User registered successfully.")
}

// Login checks email and password and starts a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return withMessage(errInvalidPayload, loginFailed)
	}
	if err := c.Validate(&req); err != nil {
		return withMessage(err, loginFailed)
	}

	user, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return withMessage(err, loginFailed)
	}
	return h.startSession(c, user)
}

// FirebaseLogin exchanges a Firebase ID token for a session, creating the account
// on first login.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return withMessage(errInvalidPayload, loginFailed)
	}
	if err := c.Validate(&req); err != nil {
		return withMessage(err, loginFailed)
	}

	ctx := c.Request().Context()
	email, err := h.identity.IdentityFromToken(ctx, req.IDToken)
	if err != nil {
		h.logger.Debug("firebase token rejected", zap.Error(err))
		return withMessage(echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token"), loginFailed)
	}

	user, err := h.users.AuthenticateVerifiedEmail(ctx, email)
	if err != nil {
		return withMessage(err, loginFailed)
	}
	return h.startSession(c, user)
}

func (h *AuthHandler) startSession(c echo.Context, user *models.User) error {
	pair, err := h.tokens.IssuePair(user)
	if err != nil {
		return err
	}

	h.cookies.setRefresh(c, pair.Refresh, pair.RefreshExpiresAt)
	h.cookies.setAccessExpiry(c, pair.AccessExpiresAt)

	h.logger.Info("user logged in", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, Envelope{
		Status:  statusSuccess,
		Message: "User has been logged in successfully",
		Token:   pair.Access,
	})
}

// Logout revokes the caller's access token and refresh cookie, then clears every
// cookie the client sent.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if claims := middleware.CurrentClaims(c); claims != nil {
		if err := h.revocations.Revoke(ctx, claims.ID, h.tokens.Remaining(claims)); err != nil {
			return err
		}
	}

	if cookie, err := c.Cookie(h.cookies.RefreshName); err == nil && cookie.Value != "" {
		if refresh, err := h.tokens.Parse(cookie.Value, auth.RefreshToken); err == nil {
			if err := h.revocations.Revoke(ctx, refresh.ID, h.tokens.Remaining(refresh)); err != nil {
				return err
			}
		}
	}

	h.cookies.clearAll(c)
	if user := middleware.CurrentUser(c); user != nil {
		h.logger.Info("user logged out", zap.Uint("user_id", user.ID))
	}
	return ok(c, http.StatusOK, "User has been logged out successfully.")
}

// Refresh issues a new access token from the refresh cookie or the "refresh" body field.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var token string
	if cookie, err := c.Cookie(h.cookies.RefreshName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req models.RefreshRequest
		if err := c.Bind(&req); err != nil {
			return errInvalidPayload
		}
		token = req.Refresh
	}
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Refresh token was not provided.")
	}

	claims, err := h.tokens.Parse(token, auth.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid or expired")
	}

	ctx := c.Request().Context()
	revoked, err := h.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return echo.NewHTTPError(http.StatusUnauthorized, "Token has been revoked.")
	}
	if _, err := h.users.GetActiveUser(ctx, claims.UserID); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found or inactive.")
	}

	access, expiresAt, err := h.tokens.IssueAccess(claims)
	if err != nil {
		return err
	}
	h.cookies.setAccessExpiry(c, expiresAt)
	return c.JSON(http.StatusOK, Envelope{Status: statusSuccess, Token: access})
}
