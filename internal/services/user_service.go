package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/anonto42/friend-circle/backend/internal/models"
	"github.com/anonto42/friend-circle/backend/internal/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// UserService owns registration, credential checks and search over the user directory.
type UserService struct {
	users      repositories.UserRepository
	logger     *zap.Logger
	bcryptCost int
	now        func() time.Time
}

func NewUserService(users repositories.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func (s *UserService) WithBcryptCost(cost int) *UserService {
	s.bcryptCost = cost
	return s
}

// Register validates req and creates an active user.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if req.Password != req.Password2 {
		return nil, ErrPasswordMismatch
	}
	if err := validatePassword(req.Password, map[string]string{
		"email":      email,
		"first name": req.FirstName,
		"last name":  req.LastName,
	}); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
	if req.DateOfBirth != "" {
		dob, ok := models.ParseDateOfBirth(req.DateOfBirth)
		if !ok {
			return nil, ErrInvalidDateOfBirth
		}
		user.DateOfBirth = &dob
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Authenticate returns the active user owning email and password. Unknown emails,
// inactive accounts and wrong passwords all yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	s.markLoggedIn(ctx, user)
	return user, nil
}

// AuthenticateVerifiedEmail logs in a user whose email an identity provider already
// verified, creating the account on first use. Such accounts get a random password.
func (s *UserService) AuthenticateVerifiedEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.createExternalUser(ctx, email)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	s.markLoggedIn(ctx, user)
	return user, nil
}

// GetActiveUser returns the user with id, or gorm.ErrRecordNotFound when it does not
// exist or is disabled.
func (s *UserService) GetActiveUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type SearchPage struct {
	Count      int64
	Page       int
	PageSize   int
	TotalPages int
	Results    []models.User
}

// Search returns one page of active users matching keyword. An empty keyword matches
// nothing.
func (s *UserService) Search(ctx context.Context, keyword string, page, pageSize int) (*SearchPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	result := &SearchPage{Page: page, PageSize: pageSize, Results: []models.User{}}
	filter := repositories.NewUserSearchFilter(keyword)
	if filter.IsEmpty() {
		return result, nil
	}

	// pages past the largest representable offset are all empty
	offsetPage := page
	if maxPage := math.MaxInt / pageSize; offsetPage > maxPage {
		offsetPage = maxPage
	}
	users, total, err := s.users.SearchUsers(ctx, filter, (offsetPage-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	result.Count = total
	result.TotalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	if users != nil {
		result.Results = users
	}
	return result, nil
}

func (s *UserService) createExternalUser(ctx context.Context, email string) (*models.User, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Email: email, Password: string(hashed), IsActive: true}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created from identity provider", zap.Uint("user_id", user.ID))
	return user, nil
}

func (s *UserService) markLoggedIn(ctx context.Context, user *models.User) {
	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("update last login", zap.Uint("user_id", user.ID), zap.Error(err))
		return
	}
	user.LastLogin = &now
}
