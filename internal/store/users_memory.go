package store

import (
	"context"
	"sync"

	"github.com/lmartins/shortly/internal/auth"
)

// MemoryUserStore is an in-memory implementation of auth.UserRepository.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byID    map[string]auth.User
	byEmail map[string]string // email -> id
}

// NewMemoryUserStore creates a new in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[string]auth.User),
		byEmail: make(map[string]string),
	}
}

func (m *MemoryUserStore) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[user.Email]; ok {
		return auth.ErrDuplicateEmail
	}

	m.byID[user.ID] = *user
	m.byEmail[user.Email] = user.ID

	return nil
}

func (m *MemoryUserStore) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}

	user := m.byID[id]

	return &user, nil
}

func (m *MemoryUserStore) GetByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byID[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}

	return &user, nil
}

// Compile-time check.
var _ auth.UserRepository = (*MemoryUserStore)(nil)
