package shortener_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lmartins/shortly/internal/shortener"
	"github.com/lmartins/shortly/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testURL = "https://example.com/very/long/path"

var errMock = errors.New("store exploded")

// mockRepo lets individual operations be forced to fail.
type mockRepo struct {
	insertErrs    []error // consumed one per Insert call
	findErr       error
	getByCodeErr  error
	deleteErr     error
	inserted      []*shortener.ShortURL
	findResult    *shortener.ShortURL
	getByCodeRes *shortener.ShortURL
}

func (m *mockRepo) Insert(_ context.Context, shortURL *shortener.ShortURL) error {
	m.inserted = append(m.inserted, shortURL)

	if len(m.insertErrs) == 0 {
		return nil
	}

	err := m.insertErrs[0]
	m.insertErrs = m.insertErrs[1:]

	return err
}

func (m *mockRepo) GetByCode(_ context.Context, _ shortener.Code) (*shortener.ShortURL, error) {
	return m.getByCodeRes, m.getByCodeErr
}

func (m *mockRepo) FindByLongURL(_ context.Context, _, _ string) (*shortener.ShortURL, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}

	return m.findResult, nil
}

func (m *mockRepo) ListByOwner(_ context.Context, _ string) ([]shortener.ShortURL, error) {
	return nil, nil
}

func (m *mockRepo) Delete(_ context.Context, _ string, _ shortener.Code) error {
	return m.deleteErr
}

// fakeCache records invalidations and can fail every operation.
type fakeCache struct {
	mu          sync.Mutex
	urls        map[shortener.Code]string
	listings    map[string][]shortener.ShortURL
	failing     bool
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		urls:     make(map[shortener.Code]string),
		listings: make(map[string][]shortener.ShortURL),
	}
}

func (f *fakeCache) GetLongURL(_ context.Context, code shortener.Code) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failing {
		return "", errMock
	}

	longURL, ok := f.urls[code]
	if !ok {
		return "", shortener.ErrCacheMiss
	}

	return longURL, nil
}

func (f *fakeCache) SetLongURL(_ context.Context, code shortener.Code, longURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failing {
		return errMock
	}

	f.urls[code] = longURL

	return nil
}

func (f *fakeCache) GetListing(_ context.Context, ownerID string) ([]shortener.ShortURL, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failing {
		return nil, errMock
	}

	urls, ok := f.listings[ownerID]
	if !ok {
		return nil, shortener.ErrCacheMiss
	}

	return urls, nil
}

func (f *fakeCache) SetListing(_ context.Context, ownerID string, urls []shortener.ShortURL) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failing {
		return errMock
	}

	f.listings[ownerID] = urls

	return nil
}

func (f *fakeCache) InvalidateCode(_ context.Context, code shortener.Code) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.invalidated = append(f.invalidated, "code:"+string(code))
	delete(f.urls, code)

	return nil
}

func (f *fakeCache) InvalidateListing(_ context.Context, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.invalidated = append(f.invalidated, "listing:"+ownerID)
	delete(f.listings, ownerID)

	return nil
}

func newTestService(repo shortener.Repository, cache shortener.Cache) *shortener.Service {
	gen, err := shortener.NewGenerator("test-salt")
	if err != nil {
		panic(err)
	}

	return shortener.NewService(repo, cache, gen, zap.NewNop())
}

func TestShorten(t *testing.T) {
	t.Run("creates mapping for valid url", func(t *testing.T) {
		svc := newTestService(store.NewMemoryStore(), nil)

		shortURL, err := svc.Shorten(context.Background(), testURL, "owner-1")

		require.NoError(t, err)
		assert.True(t, shortener.ValidCode(string(shortURL.Code)))
		assert.Equal(t, testURL, shortURL.LongURL)
		assert.Equal(t, "owner-1", shortURL.OwnerID)
		assert.False(t, shortURL.CreatedAt.IsZero())
	})

	t.Run("rejects invalid url", func(t *testing.T) {
		svc := newTestService(store.NewMemoryStore(), nil)

		_, err := svc.Shorten(context.Background(), "not-a-url", "owner-1")

		assert.ErrorIs(t, err, shortener.ErrInvalidURL)
	})

	t.Run("is idempotent per owner and url", func(t *testing.T) {
		svc := newTestService(store.NewMemoryStore(), nil)

		first, err := svc.Shorten(context.Background(), testURL, "owner-1")
		require.NoError(t, err)

		second, err := svc.Shorten(context.Background(), testURL, "owner-1")
		require.NoError(t, err)

		assert.Equal(t, first.Code, second.Code)
		assert.Equal(t, first.CreatedAt, second.CreatedAt)
	})

	t.Run("different owners get different codes for same url", func(t *testing.T) {
		svc := newTestService(store.NewMemoryStore(), nil)

		first, err := svc.Shorten(context.Background(), testURL, "owner-1")
		require.NoError(t, err)

		second, err := svc.Shorten(context.Background(), testURL, "owner-2")
		require.NoError(t, err)

		assert.NotEqual(t, first.Code, second.Code)
	})

	t.Run("distinct urls get pairwise distinct codes", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		svc := newTestService(memStore, nil)

		codes := make(map[shortener.Code]bool)

		for _, longURL := range []string{
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/c",
			"https://example.com/d",
		} {
			shortURL, err := svc.Shorten(context.Background(), longURL, "owner-1")
			require.NoError(t, err)
			codes[shortURL.Code] = true
		}

		assert.Len(t, codes, 4)
	})

	t.Run("retries on code conflict", func(t *testing.T) {
		repo := &mockRepo{
			findErr:    shortener.ErrNotFound,
			insertErrs: []error{shortener.ErrCodeTaken, shortener.ErrCodeTaken, nil},
		}
		svc := newTestService(repo, nil)

		shortURL, err := svc.Shorten(context.Background(), testURL, "owner-1")

		require.NoError(t, err)
		assert.NotNil(t, shortURL)
		assert.Len(t, repo.inserted, 3)
	})

	t.Run("fails after exhausting attempts", func(t *testing.T) {
		conflicts := make([]error, 10)
		for i := range conflicts {
			conflicts[i] = shortener.ErrCodeTaken
		}

		repo := &mockRepo{findErr: shortener.ErrNotFound, insertErrs: conflicts}
		svc := newTestService(repo, nil)

		_, err := svc.Shorten(context.Background(), testURL, "owner-1")

		assert.ErrorIs(t, err, shortener.ErrGenerationExhausted)
		assert.Len(t, repo.inserted, 10)
	})

	t.Run("propagates non-conflict insert errors immediately", func(t *testing.T) {
		repo := &mockRepo{findErr: shortener.ErrNotFound, insertErrs: []error{errMock}}
		svc := newTestService(repo, nil)

		_, err := svc.Shorten(context.Background(), testURL, "owner-1")

		assert.ErrorIs(t, err, errMock)
		assert.Len(t, repo.inserted, 1)
	})

	t.Run("invalidates owner listing on create", func(t *testing.T) {
		cache := newFakeCache()
		svc := newTestService(store.NewMemoryStore(), cache)

		_, err := svc.Shorten(context.Background(), testURL, "owner-1")

		require.NoError(t, err)
		assert.Contains(t, cache.invalidated, "listing:owner-1")
	})
}

func TestResolve(t *testing.T) {
	t.Run("returns stored long url", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		svc := newTestService(memStore, nil)

		shortURL, err := svc.Shorten(context.Background(), testURL, "owner-1")
		require.NoError(t, err)

		longURL, err := svc.Resolve(context.Background(), shortURL.Code)

		require.NoError(t, err)
		assert.Equal(t, testURL, longURL)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		svc := newTestService(store.NewMemoryStore(), nil)

		_, err := svc.Resolve(context.Background(), "zzzz9999")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("populates cache on miss and serves from it after", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		cache := newFakeCache()
		svc := newTestService(memStore, cache)

		shortURL, err := svc.Shorten(context.Background(), testURL, "owner-1")
		require.NoError(t, err)

		_, err = svc.Resolve(context.Background(), shortURL.Code)
		require.NoError(t, err)
		assert.Equal(t, testURL, cache.urls[shortURL.Code])

		// Remove from the store; the cached copy must still answer.
		require.NoError(t, memStore.Delete(context.Background(), "owner-1", shortURL.Code))
		cache.invalidated = nil

		longURL, err := svc.Resolve(context.Background(), shortURL.Code)
		require.NoError(t, err)
		assert.Equal(t, testURL, longURL)
	})

	t.Run("cache failures degrade to store read", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		cache := newFakeCache()
		cache.failing = true
		svc := newTestService(memStore, cache)

		shortURL, err := svc.Shorten(context.Background(), testURL, "owner-1")
		require.NoError(t, err)

		longURL, err := svc.Resolve(context.Background(), shortURL.Code)

		require.NoError(t, err)
		assert.Equal(t, testURL, longURL)
	})
}

func TestListForOwner(t *testing.T) {
	t.Run("returns only the owner's urls", func(t *testing.T) {
		svc := newTestService(store.NewMemoryStore(), nil)

		_, err := svc.Shorten(context.Background(), "https://example.com/mine", "owner-1")
		require.NoError(t, err)
		_, err = svc.Shorten(context.Background(), "https://example.com/theirs", "owner-2")
		require.NoError(t, err)

		urls, err := svc.ListForOwner(context.Background(), "owner-1")

		require.NoError(t, err)
		require.Len(t, urls, 1)
		assert.Equal(t, "https://example.com/mine", urls[0].LongURL)
	})

	t.Run("serves cached listing when present", func(t *testing.T) {
		cache := newFakeCache()
		cache.listings["owner-1"] = []shortener.ShortURL{{Code: "cached99", LongURL: testURL}}
		svc := newTestService(store.NewMemoryStore(), cache)

		urls, err := svc.ListForOwner(context.Background(), "owner-1")

		require.NoError(t, err)
		require.Len(t, urls, 1)
		assert.Equal(t, shortener.Code("cached99"), urls[0].Code)
	})
}

func TestDelete(t *testing.T) {
	t.Run("owner can delete and code stops resolving", func(t *testing.T) {
		svc := newTestService(store.NewMemoryStore(), nil)

		shortURL, err := svc.Shorten(context.Background(), testURL, "owner-1")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(context.Background(), "owner-1", shortURL.Code))

		_, err = svc.Resolve(context.Background(), shortURL.Code)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("non-owner delete is not found", func(t *testing.T) {
		svc := newTestService(store.NewMemoryStore(), nil)

		shortURL, err := svc.Shorten(context.Background(), testURL, "owner-1")
		require.NoError(t, err)

		err = svc.Delete(context.Background(), "owner-2", shortURL.Code)

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("invalidates both cache entries on delete", func(t *testing.T) {
		cache := newFakeCache()
		svc := newTestService(store.NewMemoryStore(), cache)

		shortURL, err := svc.Shorten(context.Background(), testURL, "owner-1")
		require.NoError(t, err)

		cache.invalidated = nil
		require.NoError(t, svc.Delete(context.Background(), "owner-1", shortURL.Code))

		assert.Contains(t, cache.invalidated, "code:"+string(shortURL.Code))
		assert.Contains(t, cache.invalidated, "listing:owner-1")
	})
}

func TestShortenConcurrent(t *testing.T) {
	t.Run("concurrent distinct urls produce distinct codes", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		svc := newTestService(memStore, nil)

		const n = 32

		var wg sync.WaitGroup

		var mu sync.Mutex

		codes := make(map[shortener.Code]bool)

		for i := 0; i < n; i++ {
			wg.Add(1)

			go func(i int) {
				defer wg.Done()

				longURL := "https://example.com/page/" + string(rune('a'+i%26)) + "/" + string(rune('a'+i/26))

				shortURL, err := svc.Shorten(context.Background(), longURL, "owner-1")
				if err != nil {
					return
				}

				mu.Lock()
				codes[shortURL.Code] = true
				mu.Unlock()
			}(i)
		}

		wg.Wait()

		// Uniqueness is enforced by the store; every success has its own code.
		urls, err := memStore.ListByOwner(context.Background(), "owner-1")
		require.NoError(t, err)
		assert.Equal(t, len(urls), len(codes))
	})
}
