package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/lmartins/shortly/internal/auth"
	"github.com/lmartins/shortly/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService() (*auth.Service, *store.MemoryUserStore) {
	users := store.NewMemoryUserStore()

	return auth.NewService(users, zap.NewNop()), users
}

func TestRegister(t *testing.T) {
	t.Run("registers and returns safe view", func(t *testing.T) {
		svc, _ := newAuthService()

		safe, err := svc.Register(context.Background(), "User@Example.COM ", "password123", auth.RoleUser)

		require.NoError(t, err)
		assert.NotEmpty(t, safe.ID)
		assert.Equal(t, "user@example.com", safe.Email)
		assert.Equal(t, auth.RoleUser, safe.Role)
	})

	t.Run("stores a hash, not the password", func(t *testing.T) {
		svc, users := newAuthService()

		_, err := svc.Register(context.Background(), "user@example.com", "password123", auth.RoleUser)
		require.NoError(t, err)

		stored, err := users.GetByEmail(context.Background(), "user@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, "password123", stored.PasswordHash)
		assert.True(t, auth.CheckPassword(stored.PasswordHash, "password123"))
	})

	t.Run("duplicate email rejected case-insensitively", func(t *testing.T) {
		svc, _ := newAuthService()

		_, err := svc.Register(context.Background(), "user@example.com", "password123", auth.RoleUser)
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), "USER@example.com", "password456", auth.RoleUser)
		assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("valid credentials return the user", func(t *testing.T) {
		svc, _ := newAuthService()

		_, err := svc.Register(context.Background(), "user@example.com", "password123", auth.RoleUser)
		require.NoError(t, err)

		user, err := svc.Authenticate(context.Background(), "user@example.com", "password123")

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "user@example.com", user.Email)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		svc, _ := newAuthService()

		_, err := svc.Register(context.Background(), "user@example.com", "password123", auth.RoleUser)
		require.NoError(t, err)

		unknown, err := svc.Authenticate(context.Background(), "nobody@example.com", "password123")
		require.NoError(t, err)

		mismatch, err := svc.Authenticate(context.Background(), "user@example.com", "wrong-password")
		require.NoError(t, err)

		assert.Nil(t, unknown)
		assert.Nil(t, mismatch)
	})
}

func TestCookieConfig(t *testing.T) {
	t.Run("session cookie is http-only with one day max-age", func(t *testing.T) {
		cfg := auth.NewCookieConfig("auth_token", "lax", true)

		cookie := cfg.Session("some-token")

		assert.Equal(t, "auth_token", cookie.Name)
		assert.Equal(t, "some-token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, 24*60*60, cookie.MaxAge)
		assert.Equal(t, "/", cookie.Path)
	})

	t.Run("same-site parsing falls back to lax", func(t *testing.T) {
		assert.Equal(t, http.SameSiteStrictMode, auth.NewCookieConfig("c", "strict", false).SameSite)
		assert.Equal(t, http.SameSiteNoneMode, auth.NewCookieConfig("c", "None", false).SameSite)
		assert.Equal(t, http.SameSiteLaxMode, auth.NewCookieConfig("c", "bogus", false).SameSite)
	})

	t.Run("expired cookie clears the session", func(t *testing.T) {
		cookie := auth.NewCookieConfig("auth_token", "lax", false).Expired()

		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	})
}
