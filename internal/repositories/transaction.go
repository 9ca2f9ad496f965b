package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Transactor runs fn with repositories bound to a single database transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(friends FriendshipRepository, users UserRepository) error) error
}

type PostgresTransactor struct {
	db *gorm.DB
}

func NewPostgresTransactor(db *gorm.DB) *PostgresTransactor {
	return &PostgresTransactor{db: db}
}

func (t *PostgresTransactor) WithinTransaction(ctx context.Context, fn func(friends FriendshipRepository, users UserRepository) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewPostgresFriendshipRepository(tx), NewPostgresUserRepository(tx))
	})
}
