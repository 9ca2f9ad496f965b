package repositories

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anonto42/friend-circle/backend/internal/models"
	"gorm.io/gorm"
)

// MemoryStore keeps users, friend requests and activity events in process memory. It
// implements every repository interface and backs STORAGE=memory and the tests.
// WithinTransaction serializes callers but does not roll back on error.
type MemoryStore struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	users    map[uint]models.User
	requests map[uint]models.FriendRequest
	events   []models.FriendRequestEvent
	nextUser uint
	nextReq  uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uint]models.User),
		requests: make(map[uint]models.FriendRequest),
	}
}

var (
	_ UserRepository       = (*MemoryStore)(nil)
	_ FriendshipRepository = (*MemoryStore)(nil)
	_ ActivityRepository   = (*MemoryStore)(nil)
	_ Transactor           = (*MemoryStore)(nil)
)

func (m *MemoryStore) WithinTransaction(_ context.Context, fn func(friends FriendshipRepository, users UserRepository) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(m, m)
}

func (m *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextUser++
	user.ID = m.nextUser
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MemoryStore) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastLogin = &at
	m.users[id] = u
	return nil
}

func (m *MemoryStore) AdjustCounters(_ context.Context, id uint, followersDelta, requestDelta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.FollowersCount += followersDelta
	u.RequestCount += requestDelta
	m.users[id] = u
	return nil
}

func (m *MemoryStore) SearchUsers(_ context.Context, filter UserSearchFilter, offset, limit int) ([]models.User, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []models.User
	for _, u := range m.users {
		if filter.Matches(&u) {
			matched = append(matched, u)
		}
	}
	sortUsers(matched)

	total := int64(len(matched))
	if offset < 0 || limit <= 0 || offset >= len(matched) {
		return []models.User{}, total, nil
	}
	end := offset + limit
	if end > len(matched) || end < offset {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *MemoryStore) GetFriendRequestByID(_ context.Context, id uint) (*models.FriendRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	req, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &req, nil
}

func (m *MemoryStore) GetFriendRequestByPair(_ context.Context, requesterID, recipientID uint) (*models.FriendRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, req := range m.requests {
		if req.RequesterID == requesterID && req.RecipientID == recipientID {
			return &req, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MemoryStore) HasPendingRequest(ctx context.Context, requesterID, recipientID uint) (bool, error) {
	req, err := m.GetFriendRequestByPair(ctx, requesterID, recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return req.Status == models.FriendRequestPending, nil
}

func (m *MemoryStore) CountSentSince(_ context.Context, requesterID uint, since time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, req := range m.requests {
		if req.RequesterID == requesterID && !req.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) CreateFriendRequest(_ context.Context, req *models.FriendRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.requests {
		if existing.RequesterID == req.RequesterID && existing.RecipientID == req.RecipientID {
			return gorm.ErrDuplicatedKey
		}
	}
	now := time.Now()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	if req.UpdatedAt.IsZero() {
		req.UpdatedAt = now
	}
	m.nextReq++
	req.ID = m.nextReq
	m.requests[req.ID] = stripAssociations(*req)
	return nil
}

func (m *MemoryStore) SaveFriendRequest(_ context.Context, req *models.FriendRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.requests[req.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	req.UpdatedAt = time.Now()
	m.requests[req.ID] = stripAssociations(*req)
	return nil
}

func (m *MemoryStore) GetUserFriends(_ context.Context, userID uint) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	friends := []models.User{}
	for _, req := range m.requests {
		if req.RequesterID != userID || req.Status != models.FriendRequestAccepted {
			continue
		}
		if u, ok := m.users[req.RecipientID]; ok && u.IsActive {
			friends = append(friends, u)
		}
	}
	sortUsers(friends)
	return friends, nil
}

func (m *MemoryStore) GetUserPendingFriendRequests(_ context.Context, userID uint) ([]models.FriendRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pending := []models.FriendRequest{}
	for _, req := range m.requests {
		if req.RecipientID != userID || req.Status != models.FriendRequestPending {
			continue
		}
		requester, ok := m.users[req.RequesterID]
		if !ok || !requester.IsActive {
			continue
		}
		req.Requester = requester
		req.Recipient = m.users[req.RecipientID]
		pending = append(pending, req)
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].ID > pending[j].ID
		}
		return pending[i].CreatedAt.After(pending[j].CreatedAt)
	})
	return pending, nil
}

func (m *MemoryStore) RecordFriendRequestEvent(_ context.Context, event *models.FriendRequestEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	m.events = append(m.events, *event)
	return nil
}

// Events returns a copy of the recorded activity events.
func (m *MemoryStore) Events() []models.FriendRequestEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.FriendRequestEvent(nil), m.events...)
}

func stripAssociations(req models.FriendRequest) models.FriendRequest {
	req.Requester = models.User{}
	req.Recipient = models.User{}
	return req
}

func sortUsers(users []models.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
}
