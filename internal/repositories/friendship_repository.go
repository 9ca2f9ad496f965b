package repositories

import (
	"context"
	"time"

	"github.com/anonto42/friend-circle/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository defines the interface for friend request data operations
type FriendshipRepository interface {
	GetFriendRequestByID(ctx context.Context, id uint) (*models.FriendRequest, error)
	GetFriendRequestByPair(ctx context.Context, requesterID, recipientID uint) (*models.FriendRequest, error)
	HasPendingRequest(ctx context.Context, requesterID, recipientID uint) (bool, error)
	CountSentSince(ctx context.Context, requesterID uint, since time.Time) (int64, error)
	CreateFriendRequest(ctx context.Context, req *models.FriendRequest) error
	SaveFriendRequest(ctx context.Context, req *models.FriendRequest) error
	GetUserFriends(ctx context.Context, userID uint) ([]models.User, error)
	GetUserPendingFriendRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error)
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// GetFriendRequestByID retrieves a friend request by ID
func (r *PostgresFriendshipRepository) GetFriendRequestByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetFriendRequestByPair retrieves the request sent by requesterID to recipientID
func (r *PostgresFriendshipRepository) GetFriendRequestByPair(ctx context.Context, requesterID, recipientID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).Where("requester_id = ? AND recipient_id = ?", requesterID, recipientID).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PostgresFriendshipRepository) HasPendingRequest(ctx context.Context, requesterID, recipientID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("requester_id = ? AND recipient_id = ? AND status = ?", requesterID, recipientID, models.FriendRequestPending).
		Count(&count).Error
	return count > 0, err
}

// CountSentSince counts requests of any status created by requesterID at or after since.
func (r *PostgresFriendshipRepository) CountSentSince(ctx context.Context, requesterID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("requester_id = ? AND created_at >= ?", requesterID, since).
		Count(&count).Error
	return count, err
}

// CreateFriendRequest inserts req. A second row for the same pair surfaces as
// gorm.ErrDuplicatedKey.
func (r *PostgresFriendshipRepository) CreateFriendRequest(ctx context.Context, req *models.FriendRequest) error {
	return r.db.WithContext(ctx).Omit("Requester", "Recipient").Create(req).Error
}

func (r *PostgresFriendshipRepository) SaveFriendRequest(ctx context.Context, req *models.FriendRequest) error {
	return r.db.WithContext(ctx).Omit("Requester", "Recipient").Save(req).Error
}

// GetUserFriends returns the active recipients of accepted requests sent by userID.
// Requests userID received are not considered.
func (r *PostgresFriendshipRepository) GetUserFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var friends []models.User
	accepted := r.db.Model(&models.FriendRequest{}).Select("recipient_id").
		Where("requester_id = ? AND status = ?", userID, models.FriendRequestAccepted)

	if err := r.db.WithContext(ctx).Where("is_active = ? AND id IN (?)", true, accepted).Order("id").Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// GetUserPendingFriendRequests retrieves pending requests received by userID from active users
func (r *PostgresFriendshipRepository) GetUserPendingFriendRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	activeUsers := r.db.Model(&models.User{}).Select("id").Where("is_active = ?", true)

	err := r.db.WithContext(ctx).
		Preload("Requester").Preload("Recipient").
		Where("recipient_id = ? AND status = ? AND requester_id IN (?)", userID, models.FriendRequestPending, activeUsers).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}
