package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FriendRequestEventType string

const (
	FriendRequestEventSent     FriendRequestEventType = "sent"
	FriendRequestEventAccepted FriendRequestEventType = "accepted"
	FriendRequestEventRejected FriendRequestEventType = "rejected"
)

// FriendRequestEvent is an audit record of a friend-request write, stored in MongoDB
type FriendRequestEvent struct {
	ID              primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Type            FriendRequestEventType `json:"type" bson:"type"`
	FriendRequestID uint                   `json:"friend_request_id" bson:"friend_request_id"`
	ActorID         uint                   `json:"actor_id" bson:"actor_id"`
	RequesterID     uint                   `json:"requester_id" bson:"requester_id"`
	RecipientID     uint                   `json:"recipient_id" bson:"recipient_id"`
	CreatedAt       time.Time              `json:"created_at" bson:"created_at"`
}
