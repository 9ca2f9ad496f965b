package repositories

import (
	"context"
	"time"

	"github.com/anonto42/friend-circle/backend/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

const friendRequestEventsCollection = "friend_request_events"

// ActivityRepository records friend-request activity for auditing
type ActivityRepository interface {
	RecordFriendRequestEvent(ctx context.Context, event *models.FriendRequestEvent) error
}

// MongoActivityRepository implements ActivityRepository for MongoDB
type MongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new MongoActivityRepository
func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{collection: db.Collection(friendRequestEventsCollection)}
}

func (r *MongoActivityRepository) RecordFriendRequestEvent(ctx context.Context, event *models.FriendRequestEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, event)
	return err
}
