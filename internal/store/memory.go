package store

import (
	"context"
	"sort"
	"sync"

	"github.com/lmartins/shortly/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
// It enforces the same uniqueness rules as the postgres store so the
// service's retry loop can be exercised without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	byCode map[shortener.Code]shortener.ShortURL
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byCode: make(map[shortener.Code]shortener.ShortURL),
	}
}

func (m *MemoryStore) Insert(_ context.Context, shortURL *shortener.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byCode[shortURL.Code]; ok {
		return shortener.ErrCodeTaken
	}

	for _, existing := range m.byCode {
		if existing.LongURL == shortURL.LongURL && existing.OwnerID == shortURL.OwnerID {
			return shortener.ErrDuplicateURL
		}
	}

	m.byCode[shortURL.Code] = *shortURL

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	shortURL, ok := m.byCode[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &shortURL, nil
}

func (m *MemoryStore) FindByLongURL(_ context.Context, longURL, ownerID string) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, existing := range m.byCode {
		if existing.LongURL == longURL && existing.OwnerID == ownerID {
			shortURL := existing

			return &shortURL, nil
		}
	}

	return nil, shortener.ErrNotFound
}

func (m *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	urls := make([]shortener.ShortURL, 0)

	for _, existing := range m.byCode {
		if existing.OwnerID == ownerID {
			urls = append(urls, existing)
		}
	}

	sort.Slice(urls, func(i, j int) bool {
		return urls[i].CreatedAt.After(urls[j].CreatedAt)
	})

	return urls, nil
}

func (m *MemoryStore) Delete(_ context.Context, ownerID string, code shortener.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byCode[code]
	if !ok || existing.OwnerID != ownerID {
		return shortener.ErrNotFound
	}

	delete(m.byCode, code)

	return nil
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
