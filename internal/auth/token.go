package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified content of a session token.
type Claims struct {
	UserID string
	Email  string
	Role   Role
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies HS256 session tokens. Verification is
// stateless; there is no revocation list.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service signing with secret. Tokens expire
// ttl after issuance.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}

	if ttl <= 0 {
		return nil, errors.New("jwt ttl must be > 0")
	}

	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Sign mints a token for user. The user must have a persisted identifier.
func (t *TokenService) Sign(user *User) (string, error) {
	if user.ID == "" {
		return "", errors.New("user must have an id to generate a token")
	}

	now := time.Now()

	claims := tokenClaims{
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify checks signature and expiry. Any mismatch, corruption, or expiry is
// an error; callers treat every failure as "unauthenticated" and never
// distinguish reasons to the end user.
func (t *TokenService) Verify(tokenString string) (Claims, error) {
	var parsed tokenClaims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(tokenString, &parsed, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		return Claims{}, err
	}

	return Claims{
		UserID: parsed.Subject,
		Email:  parsed.Email,
		Role:   Role(parsed.Role),
	}, nil
}
