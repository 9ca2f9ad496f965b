package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest is a directed friendship proposal. At most one row exists per
// (requester, recipient) pair.
type FriendRequest struct {
	ID           uint                `json:"id" gorm:"primaryKey"`
	RequesterID  uint                `json:"created_by" gorm:"not null;uniqueIndex:idx_friend_request_pair;index:idx_friend_request_requester_created"`
	RecipientID  uint                `json:"to_user" gorm:"not null;uniqueIndex:idx_friend_request_pair;index"`
	ModifiedByID uint                `json:"modified_by"`
	Status       FriendRequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt    time.Time           `json:"created_on" gorm:"index:idx_friend_request_requester_created"`
	UpdatedAt    time.Time           `json:"modified_on"`

	Requester User `json:"-" gorm:"foreignKey:RequesterID"`
	Recipient User `json:"-" gorm:"foreignKey:RecipientID"`
}

// SendFriendRequest defines the request body for sending a friend request
type SendFriendRequest struct {
	ToUser uint `json:"to_user" validate:"required"`
}

// RespondFriendRequest defines the request body for accepting/rejecting a friend request
type RespondFriendRequest struct {
	Status string `json:"status"`
}

// FriendRequestResponse is the public representation of a friend request.
type FriendRequestResponse struct {
	ID         uint                `json:"id"`
	Status     FriendRequestStatus `json:"status"`
	CreatedBy  uint                `json:"created_by"`
	ToUser     uint                `json:"to_user"`
	ToUserName string              `json:"to_user_name,omitempty"`
	FromUser   string              `json:"from_user,omitempty"`
	CreatedOn  *string             `json:"created_on"`
	ModifiedOn *string             `json:"modified_on"`
}

func (r *FriendRequest) ToResponse() FriendRequestResponse {
	return FriendRequestResponse{
		ID:         r.ID,
		Status:     r.Status,
		CreatedBy:  r.RequesterID,
		ToUser:     r.RecipientID,
		ToUserName: r.Recipient.Email,
		FromUser:   r.Requester.Email,
		CreatedOn:  formatTimestamp(r.CreatedAt),
		ModifiedOn: formatTimestamp(r.UpdatedAt),
	}
}

func FriendRequestsToResponse(requests []FriendRequest) []FriendRequestResponse {
	out := make([]FriendRequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, requests[i].ToResponse())
	}
	return out
}

func formatTimestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(TimestampLayout)
	return &s
}
