package shortener

import (
	"context"
	"errors"
	"time"
)

// Code represents a short URL code.
type Code string

// ShortURL represents a shortened URL entity.
type ShortURL struct {
	Code      Code
	LongURL   string
	OwnerID   string // empty when the mapping has no owner
	CreatedAt time.Time
}

var (
	// ErrNotFound is returned when no mapping exists for a code or owner.
	ErrNotFound = errors.New("short url not found")
	// ErrInvalidURL is returned when the submitted URL fails validation.
	ErrInvalidURL = errors.New("invalid URL format: URL must start with http:// or https://")
	// ErrCodeTaken signals that an insert lost the race for a short code.
	// The shorten loop treats it as a retryable conflict, never an abort.
	ErrCodeTaken = errors.New("short code already taken")
	// ErrDuplicateURL signals that the owner already shortened this long URL.
	ErrDuplicateURL = errors.New("url already shortened by owner")
	// ErrGenerationExhausted is returned when every generation attempt collided.
	ErrGenerationExhausted = errors.New("failed to generate unique short code after maximum attempts")
	// ErrCacheMiss is returned by caches when a key is absent.
	ErrCacheMiss = errors.New("cache miss")
)

// Repository defines the persistent store for URL mappings.
type Repository interface {
	// Insert persists a new mapping. It returns ErrCodeTaken when the code
	// is already claimed and ErrDuplicateURL when the (long URL, owner)
	// pair already exists.
	Insert(ctx context.Context, shortURL *ShortURL) error
	GetByCode(ctx context.Context, code Code) (*ShortURL, error)
	// FindByLongURL returns the existing mapping for a (long URL, owner)
	// pair, or ErrNotFound.
	FindByLongURL(ctx context.Context, longURL, ownerID string) (*ShortURL, error)
	// ListByOwner returns the owner's mappings, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]ShortURL, error)
	// Delete removes the mapping matching both owner and code, returning
	// ErrNotFound when nothing matched.
	Delete(ctx context.Context, ownerID string, code Code) error
}

// Cache holds disposable copies of mappings and listings. It is never
// authoritative; callers must treat every error as advisory.
type Cache interface {
	GetLongURL(ctx context.Context, code Code) (string, error)
	SetLongURL(ctx context.Context, code Code, longURL string) error
	GetListing(ctx context.Context, ownerID string) ([]ShortURL, error)
	SetListing(ctx context.Context, ownerID string, urls []ShortURL) error
	InvalidateCode(ctx context.Context, code Code) error
	InvalidateListing(ctx context.Context, ownerID string) error
}
