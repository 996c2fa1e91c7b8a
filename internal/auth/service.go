package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service registers accounts and validates credentials.
type Service struct {
	users  UserRepository
	logger *zap.Logger
}

// NewService creates an auth service over the given user repository.
func NewService(users UserRepository, logger *zap.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// Register creates an account for email. Emails are normalized (trimmed,
// lowercased) before the uniqueness check.
func (s *Service) Register(ctx context.Context, email, password string, role Role) (*SafeUser, error) {
	email = NormalizeEmail(email)

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("email", email),
		zap.String("role", string(role)),
	)

	safe := user.Safe()

	return &safe, nil
}

// Authenticate returns the user matching email and password, or (nil, nil)
// when either is wrong. Unknown email and bad password are deliberately
// indistinguishable to callers.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}

		return nil, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}

	return user, nil
}

// User returns the safe view of a stored user.
func (s *Service) User(ctx context.Context, id string) (*SafeUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	safe := user.Safe()

	return &safe, nil
}

// NormalizeEmail trims whitespace and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
