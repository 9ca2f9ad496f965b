package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/anonto42/friend-circle/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	AdjustCounters(ctx context.Context, id uint, followersDelta, requestDelta int) error
	SearchUsers(ctx context.Context, filter UserSearchFilter, offset, limit int) ([]models.User, int64, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user. A taken email surfaces as gorm.ErrDuplicatedKey.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	return r.db.WithContext(ctx).Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, ignoring case
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_login", at).Error
}

// AdjustCounters applies both deltas in a single UPDATE so concurrent writers never
// lose increments.
func (r *PostgresUserRepository) AdjustCounters(ctx context.Context, id uint, followersDelta, requestDelta int) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumns(map[string]interface{}{
		"followers_count": gorm.Expr("followers_count + ?", followersDelta),
		"request_count":   gorm.Expr("request_count + ?", requestDelta),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchUsers returns one page of users matching filter, ordered by id, and the total
// number of matches.
func (r *PostgresUserRepository) SearchUsers(ctx context.Context, filter UserSearchFilter, offset, limit int) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
	)
	if filter.IsEmpty() {
		return users, 0, nil
	}

	query := r.db.WithContext(ctx).Model(&models.User{}).Where(filter.Expression()).Session(&gorm.Session{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("id").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
