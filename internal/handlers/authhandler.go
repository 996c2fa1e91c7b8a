package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/lmartins/shortly/internal/auth"
)

const minPasswordLength = 8

// AuthHandler serves registration, login, logout and session introspection.
type AuthHandler struct {
	service *auth.Service
	tokens  *auth.TokenService
	cookies auth.CookieConfig
	logger  *zap.Logger
}

func NewAuthHandler(service *auth.Service, tokens *auth.TokenService, cookies auth.CookieConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		tokens:  tokens,
		cookies: cookies,
		logger:  logger,
	}
}

func (h *AuthHandler) Register(ctx context.Context, req *Credentials) (*UserResponse, error) {
	email := auth.NormalizeEmail(req.Body.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, huma.Error400BadRequest("Invalid email address")
	}

	if len(req.Body.Password) < minPasswordLength {
		return nil, huma.Error400BadRequest("Password must be at least 8 characters")
	}

	user, err := h.service.Register(ctx, email, req.Body.Password, auth.RoleUser)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			return nil, huma.Error400BadRequest("Email already registered")
		}

		h.logger.Error("register failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to register user")
	}

	resp := &UserResponse{}
	resp.Body.User = *user

	return resp, nil
}

func (h *AuthHandler) Login(ctx context.Context, req *Credentials) (*LoginResponse, error) {
	user, err := h.service.Authenticate(ctx, req.Body.Email, req.Body.Password)
	if err != nil {
		h.logger.Error("login failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to log in")
	}

	if user == nil {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}

	token, err := h.tokens.Sign(user)
	if err != nil {
		h.logger.Error("token signing failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to log in")
	}

	resp := &LoginResponse{}
	resp.Headers.SetCookie = *h.cookies.Session(token)
	resp.Body.User = user.Safe()

	return resp, nil
}

func (h *AuthHandler) Logout(ctx context.Context, _ *struct{}) (*LogoutResponse, error) {
	resp := &LogoutResponse{}
	resp.Headers.SetCookie = *h.cookies.Expired()
	resp.Body.Message = "Logged out"

	return resp, nil
}

func (h *AuthHandler) Me(ctx context.Context, _ *struct{}) (*UserResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Not authenticated")
	}

	user, err := h.service.User(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, huma.Error401Unauthorized("Not authenticated")
		}

		h.logger.Error("user lookup failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to load user")
	}

	resp := &UserResponse{}
	resp.Body.User = *user

	return resp, nil
}
