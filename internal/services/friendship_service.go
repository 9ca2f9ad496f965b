package services

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/friend-circle/backend/internal/models"
	"github.com/anonto42/friend-circle/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultFriendRequestLimit  = 3
	DefaultFriendRequestWindow = time.Minute
)

// FriendshipOptions tunes the outgoing friend request rate limit. Zero values fall
// back to the defaults.
type FriendshipOptions struct {
	Limit  int
	Window time.Duration
	Now    func() time.Time
}

// FriendshipService applies the friend request rules: who may create and answer
// requests, the per-requester rate limit and the recipient's counters.
type FriendshipService struct {
	tx       repositories.Transactor
	friends  repositories.FriendshipRepository
	activity repositories.ActivityRepository
	logger   *zap.Logger

	limit  int
	window time.Duration
	now    func() time.Time
}

// NewFriendshipService creates a FriendshipService. activity may be nil.
func NewFriendshipService(tx repositories.Transactor, friends repositories.FriendshipRepository, activity repositories.ActivityRepository, logger *zap.Logger, opts FriendshipOptions) *FriendshipService {
	s := &FriendshipService{
		tx:       tx,
		friends:  friends,
		activity: activity,
		logger:   logger,
		limit:    opts.Limit,
		window:   opts.Window,
		now:      opts.Now,
	}
	if s.limit <= 0 {
		s.limit = DefaultFriendRequestLimit
	}
	if s.window <= 0 {
		s.window = DefaultFriendRequestWindow
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Send creates a pending friend request from requesterID to recipientID.
//
// A rejected request for the same pair is reopened instead of inserted, since the pair
// is unique. It counts as a new request for the rate limit and the recipient's
// request_count.
func (s *FriendshipService) Send(ctx context.Context, requesterID, recipientID uint) (*models.FriendRequest, error) {
	if requesterID == recipientID {
		return nil, ErrSelfRequest
	}

	var sent *models.FriendRequest
	err := s.tx.WithinTransaction(ctx, func(friends repositories.FriendshipRepository, users repositories.UserRepository) error {
		if _, err := users.GetUserByID(ctx, recipientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidRecipient
			}
			return err
		}

		pending, err := friends.HasPendingRequest(ctx, requesterID, recipientID)
		if err != nil {
			return err
		}
		if pending {
			return ErrDuplicateRequest
		}

		now := s.now()
		recent, err := friends.CountSentSince(ctx, requesterID, now.Add(-s.window))
		if err != nil {
			return err
		}
		if recent >= int64(s.limit) {
			return rateLimitError(s.limit, windowLabel(s.window))
		}

		req, err := friends.GetFriendRequestByPair(ctx, requesterID, recipientID)
		switch {
		case err == nil && req.Status == models.FriendRequestAccepted:
			return ErrAlreadyFriends
		case err == nil:
			req.Status = models.FriendRequestPending
			req.ModifiedByID = requesterID
			req.CreatedAt = now
			if err := friends.SaveFriendRequest(ctx, req); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			req = &models.FriendRequest{
				RequesterID:  requesterID,
				RecipientID:  recipientID,
				ModifiedByID: requesterID,
				Status:       models.FriendRequestPending,
				CreatedAt:    now,
			}
			if err := friends.CreateFriendRequest(ctx, req); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrDuplicateRequest
				}
				return err
			}
		default:
			return err
		}

		sent = req
		return applyCounters(ctx, users, req, true, "")
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, models.FriendRequestEventSent, sent, requesterID)
	return sent, nil
}

// Respond sets the status of requestID on behalf of its recipient. Answering with the
// current status is a successful no-op.
func (s *FriendshipService) Respond(ctx context.Context, responderID, requestID uint, status models.FriendRequestStatus) error {
	var (
		updated *models.FriendRequest
		changed bool
	)
	err := s.tx.WithinTransaction(ctx, func(friends repositories.FriendshipRepository, users repositories.UserRepository) error {
		req, err := friends.GetFriendRequestByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		if req.RecipientID != responderID {
			return ErrForbidden
		}
		if status != models.FriendRequestAccepted && status != models.FriendRequestRejected {
			return ErrInvalidStatus
		}
		if req.Status == status {
			return nil
		}

		previous := req.Status
		req.Status = status
		req.ModifiedByID = responderID
		if err := friends.SaveFriendRequest(ctx, req); err != nil {
			return err
		}
		updated, changed = req, true
		return applyCounters(ctx, users, req, false, previous)
	})
	if err != nil {
		return err
	}

	if changed {
		eventType := models.FriendRequestEventRejected
		if status == models.FriendRequestAccepted {
			eventType = models.FriendRequestEventAccepted
		}
		s.record(ctx, eventType, updated, responderID)
	}
	return nil
}

// ListFriends returns the active users userID sent a request to that was accepted.
// Accepted requests userID received do not count.
func (s *FriendshipService) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friends.GetUserFriends(ctx, userID)
}

// ListPendingIncoming returns pending requests received by userID from active users.
func (s *FriendshipService) ListPendingIncoming(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.friends.GetUserPendingFriendRequests(ctx, userID)
}

// record stores an activity event. Failures are logged and never reach the caller;
// the friend request write has already committed.
func (s *FriendshipService) record(ctx context.Context, eventType models.FriendRequestEventType, req *models.FriendRequest, actorID uint) {
	if s.activity == nil {
		return
	}
	event := &models.FriendRequestEvent{
		Type:            eventType,
		FriendRequestID: req.ID,
		ActorID:         actorID,
		RequesterID:     req.RequesterID,
		RecipientID:     req.RecipientID,
		CreatedAt:       s.now(),
	}
	if err := s.activity.RecordFriendRequestEvent(ctx, event); err != nil {
		s.logger.Warn("record friend request event",
			zap.String("type", string(eventType)),
			zap.Uint("friend_request_id", req.ID),
			zap.Error(err))
	}
}

func windowLabel(window time.Duration) string {
	switch window {
	case time.Minute:
		return "minute"
	case time.Hour:
		return "hour"
	}
	return window.String()
}
