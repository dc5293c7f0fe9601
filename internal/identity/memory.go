package identity

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/bazaar/internal/models"
)

// MemoryStore is an in-memory Store used by tests and local tooling.
// It copies records on the way in and out so callers can mutate the
// returned user freely before calling Save, the same way a database
// round-trip behaves.
type MemoryStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[uuid.UUID]models.User)}
}

func (m *MemoryStore) FindByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindActiveByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email && !u.Archived {
			copied := u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindByLiveResetToken(token string, now time.Time) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ResetToken != nil && *u.ResetToken == token &&
			u.ResetExpiresAt != nil && u.ResetExpiresAt.After(now) {
			copied := u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Create(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryStore) Save(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}
