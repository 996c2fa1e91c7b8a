package shortener

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultMaxAttempts = 10

// Service orchestrates validation, de-duplication, generation with retry,
// and cache-aside reads over the repository.
type Service struct {
	repo        Repository
	cache       Cache // nil disables caching; correctness never depends on it
	generate    func() (Code, error)
	logger      *zap.Logger
	maxAttempts int
}

// NewService creates a URL service. cache may be nil.
func NewService(repo Repository, cache Cache, generator *Generator, logger *zap.Logger) *Service {
	return &Service{
		repo:        repo,
		cache:       cache,
		generate:    generator.Generate,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
	}
}

// Shorten validates longURL and returns a mapping for it. Re-submitting the
// same URL for the same owner returns the existing mapping unchanged.
//
// Each insert attempt resolves to one of three outcomes: success, a code
// conflict (retry with a fresh code, up to maxAttempts), or any other
// failure (abort).
func (s *Service) Shorten(ctx context.Context, longURL, ownerID string) (*ShortURL, error) {
	longURL = strings.TrimSpace(longURL)
	if !ValidateURL(longURL) {
		return nil, ErrInvalidURL
	}

	existing, err := s.repo.FindByLongURL(ctx, longURL, ownerID)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return nil, err
		}

		shortURL := &ShortURL{
			Code:      code,
			LongURL:   longURL,
			OwnerID:   ownerID,
			CreatedAt: time.Now().UTC(),
		}

		err = s.repo.Insert(ctx, shortURL)

		switch {
		case err == nil:
			s.invalidate(ctx, ownerID, "")

			return shortURL, nil
		case errors.Is(err, ErrCodeTaken):
			continue
		case errors.Is(err, ErrDuplicateURL):
			// A concurrent request claimed the (url, owner) pair first;
			// idempotence means returning that mapping.
			return s.repo.FindByLongURL(ctx, longURL, ownerID)
		default:
			return nil, err
		}
	}

	return nil, ErrGenerationExhausted
}

// Resolve returns the long URL behind code. Cache reads are attempted first
// and degrade silently to the store; cache writes are best-effort.
func (s *Service) Resolve(ctx context.Context, code Code) (string, error) {
	if s.cache != nil {
		longURL, err := s.cache.GetLongURL(ctx, code)
		if err == nil {
			return longURL, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("redirect cache read failed", zap.String("code", string(code)), zap.Error(err))
		}
	}

	shortURL, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.SetLongURL(ctx, code, shortURL.LongURL); err != nil {
			s.logger.Warn("redirect cache write failed", zap.String("code", string(code)), zap.Error(err))
		}
	}

	return shortURL.LongURL, nil
}

// ListForOwner returns the owner's mappings newest first, cache-aside.
func (s *Service) ListForOwner(ctx context.Context, ownerID string) ([]ShortURL, error) {
	if s.cache != nil {
		urls, err := s.cache.GetListing(ctx, ownerID)
		if err == nil {
			return urls, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("listing cache read failed", zap.String("owner", ownerID), zap.Error(err))
		}
	}

	urls, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetListing(ctx, ownerID, urls); err != nil {
			s.logger.Warn("listing cache write failed", zap.String("owner", ownerID), zap.Error(err))
		}
	}

	return urls, nil
}

// Delete removes the owner's mapping for code. Non-owners get ErrNotFound,
// never a hint that the code exists.
func (s *Service) Delete(ctx context.Context, ownerID string, code Code) error {
	if err := s.repo.Delete(ctx, ownerID, code); err != nil {
		return err
	}

	s.invalidate(ctx, ownerID, code)

	return nil
}

// invalidate is the single cache invalidation point, called from exactly the
// two mutating operations. Failures are logged; a stale entry self-heals at
// TTL expiry.
func (s *Service) invalidate(ctx context.Context, ownerID string, code Code) {
	if s.cache == nil {
		return
	}

	if code != "" {
		if err := s.cache.InvalidateCode(ctx, code); err != nil {
			s.logger.Warn("redirect cache invalidation failed", zap.String("code", string(code)), zap.Error(err))
		}
	}

	if ownerID != "" {
		if err := s.cache.InvalidateListing(ctx, ownerID); err != nil {
			s.logger.Warn("listing cache invalidation failed", zap.String("owner", ownerID), zap.Error(err))
		}
	}
}
