package services

import (
	"context"
	"fmt"

	"github.com/anonto42/friend-circle/backend/internal/models"
	"github.com/anonto42/friend-circle/backend/internal/repositories"
)

// counterDeltas returns the changes to the recipient's followers_count and request_count
// caused by one friend request write. created is true when the write (re)opened the
// request as pending; previous is the status before an update.
func counterDeltas(created bool, previous, current models.FriendRequestStatus) (followers, requests int) {
	if !created && previous == current {
		return 0, 0
	}
	if created {
		requests++
	}
	if current == models.FriendRequestAccepted {
		followers++
		requests--
	}
	return followers, requests
}

// applyCounters must run with the same repositories as the write it accounts for, so
// both commit or roll back together.
func applyCounters(ctx context.Context, users repositories.UserRepository, req *models.FriendRequest, created bool, previous models.FriendRequestStatus) error {
	followers, requests := counterDeltas(created, previous, req.Status)
	if followers == 0 && requests == 0 {
		return nil
	}
	if err := users.AdjustCounters(ctx, req.RecipientID, followers, requests); err != nil {
		return fmt.Errorf("adjust counters for user %d: %w", req.RecipientID, err)
	}
	return nil
}
