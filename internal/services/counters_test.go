package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anonto42/friend-circle/backend/internal/models"
)

func TestCounterDeltas(t *testing.T) {
	cases := []struct {
		name              string
		created           bool
		previous, current models.FriendRequestStatus
		followers         int
		requests          int
	}{
		{"new request", true, "", models.FriendRequestPending, 0, 1},
		{"reopened rejected request", true, models.FriendRequestRejected, models.FriendRequestPending, 0, 1},
		{"accepted", false, models.FriendRequestPending, models.FriendRequestAccepted, 1, -1},
		{"rejected", false, models.FriendRequestPending, models.FriendRequestRejected, 0, 0},
		{"accepted again", false, models.FriendRequestAccepted, models.FriendRequestAccepted, 0, 0},
		{"rejected request accepted", false, models.FriendRequestRejected, models.FriendRequestAccepted, 1, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			followers, requests := counterDeltas(tc.created, tc.previous, tc.current)
			require.Equal(t, tc.followers, followers)
			require.Equal(t, tc.requests, requests)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	attrs := map[string]string{"email": "jane.doe@example.com", "first name": "Jane", "last name": "Doe"}

	cases := []struct {
		password string
		want     string
	}{
		{"Sh0rt!", "too short"},
		{"1234567890123", "entirely numeric"},
		{"Password1", "too common"},
		{"xjane.doe99", "too similar to the email"},
		{"janeRocks42", "too similar to the first name"},
	}
	for _, tc := range cases {
		err := validatePassword(tc.password, attrs)
		require.ErrorIs(t, err, ErrWeakPassword, tc.password)
		require.Contains(t, err.Error(), tc.want)
	}

	require.NoError(t, validatePassword("c0rrect-horse-battery", attrs))
}
