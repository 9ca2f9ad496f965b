package router

import (
	"net/http"

	"github.com/anonto42/friend-circle/backend/internal/auth"
	"github.com/anonto42/friend-circle/backend/internal/handlers"
	"github.com/anonto42/friend-circle/backend/internal/middleware"
	"github.com/anonto42/friend-circle/backend/internal/models"
	"github.com/anonto42/friend-circle/backend/internal/repositories"
	"github.com/anonto42/friend-circle/backend/internal/services"
	"github.com/anonto42/friend-circle/backend/internal/validators"
	"github.com/anonto42/friend-circle/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies carries the storage and integrations the routes are built on.
// Identity is optional.
type Dependencies struct {
	Config      *config.Config
	Logger      *zap.Logger
	Users       repositories.UserRepository
	Friendships repositories.FriendshipRepository
	Transactor  repositories.Transactor
	Activity    repositories.ActivityRepository
	Revocations auth.RevocationStore
	Identity    handlers.IdentityVerifier
}

// AutoMigrate creates or updates the PostgreSQL schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.FriendRequest{})
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	cfg, logger := deps.Config, deps.Logger

	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(logger)
	e.Validator = validators.NewValidator()

	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "friend-circle api"})
	})

	// --- Services ---
	userService := services.NewUserService(deps.Users, logger)
	friendshipService := services.NewFriendshipService(deps.Transactor, deps.Friendships, deps.Activity, logger, services.FriendshipOptions{
		Limit:  cfg.FriendRequestLimit,
		Window: cfg.FriendRequestWindow,
	})
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	requireAuth := middleware.JWTAuthMiddleware(tokens, deps.Revocations, userService, logger)

	cookies := handlers.CookieSettings{
		RefreshName: cfg.RefreshCookieName,
		Domain:      cfg.CookieDomain,
		SameSite:    cfg.CookieSameSite,
		Secure:      cfg.CookieSecure,
	}
	authHandler := handlers.NewAuthHandler(userService, tokens, deps.Revocations, cookies, deps.Identity, logger)
	api := e.Group("")
	authHandler.RegisterAuthRoutes(api, requireAuth)
	logger.Debug("auth routes configured", zap.Bool("firebase_login", deps.Identity != nil))

	// --- Protected routes (require JWT authentication) ---
	userHandler := handlers.NewUserHandler(userService)
	userHandler.RegisterUserRoutes(api, requireAuth)

	friendshipHandler := handlers.NewFriendshipHandler(friendshipService)
	friendshipHandler.RegisterFriendshipRoutes(api, requireAuth)

	logger.Info("all routes configured")
}
