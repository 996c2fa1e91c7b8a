package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lmartins/shortly/internal/analytics"
	"github.com/lmartins/shortly/internal/auth"
	"github.com/lmartins/shortly/internal/messaging"
	"github.com/lmartins/shortly/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service        *shortener.Service
	baseURL        string
	publishCreated messaging.Publish[analytics.LinkCreatedEvent]
	publishVisited messaging.Publish[analytics.LinkVisitedEvent]
	publishDeleted messaging.Publish[analytics.LinkDeletedEvent]
	logger         *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	service *shortener.Service,
	baseURL string,
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	publishVisited messaging.Publish[analytics.LinkVisitedEvent],
	publishDeleted messaging.Publish[analytics.LinkDeletedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		service:        service,
		baseURL:        baseURL,
		publishCreated: publishCreated,
		publishVisited: publishVisited,
		publishDeleted: publishDeleted,
		logger:         logger,
	}
}

func (h *URLHandler) entry(shortURL *shortener.ShortURL) URLEntry {
	return URLEntry{
		ShortURL:  fmt.Sprintf("%s/%s", h.baseURL, shortURL.Code),
		ShortCode: string(shortURL.Code),
		LongURL:   shortURL.LongURL,
		CreatedAt: shortURL.CreatedAt,
	}
}

// Shorten creates (or returns the existing) mapping for the caller's URL.
func (h *URLHandler) Shorten(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Not authenticated")
	}

	shortURL, err := h.service.Shorten(ctx, req.Body.URL, identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrInvalidURL):
			return nil, huma.Error400BadRequest(err.Error())
		case errors.Is(err, shortener.ErrGenerationExhausted):
			h.logger.Error("short code generation exhausted", zap.Error(err))

			return nil, huma.Error500InternalServerError(err.Error())
		default:
			h.logger.Error("failed to shorten url", zap.Error(err))

			return nil, huma.Error500InternalServerError("failed to save url")
		}
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		Code:      string(shortURL.Code),
		LongURL:   shortURL.LongURL,
		OwnerID:   shortURL.OwnerID,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		CreatedAt: shortURL.CreatedAt,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &ShortenResponse{}
	resp.Body = h.entry(shortURL)

	return resp, nil
}

// Redirect resolves a short code to its original URL.
func (h *URLHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	if !shortener.ValidCode(req.Code) {
		return nil, huma.Error400BadRequest("invalid short code")
	}

	longURL, err := h.service.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound(err.Error())
		}

		h.logger.Error("failed to resolve short code",
			zap.String("code", req.Code),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to resolve url")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkVisitedEvent{
		Code:      req.Code,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
		VisitedAt: time.Now().UTC(),
	}

	if err := h.publishVisited(event); err != nil {
		h.logger.Error("failed to publish link visited event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{
		// 302, not 301: deletions must take effect for clients.
		Status: http.StatusFound,
	}
	resp.Headers.Location = longURL

	return resp, nil
}

// ListURLs returns the caller's mappings newest first.
func (h *URLHandler) ListURLs(ctx context.Context, _ *struct{}) (*ListURLsResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Not authenticated")
	}

	urls, err := h.service.ListForOwner(ctx, identity.UserID)
	if err != nil {
		h.logger.Error("failed to list urls", zap.String("owner", identity.UserID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list urls")
	}

	resp := &ListURLsResponse{}
	resp.Body.URLs = make([]URLEntry, 0, len(urls))

	for i := range urls {
		resp.Body.URLs = append(resp.Body.URLs, h.entry(&urls[i]))
	}

	return resp, nil
}

// DeleteURL removes one of the caller's mappings.
func (h *URLHandler) DeleteURL(ctx context.Context, req *DeleteURLRequest) (*DeleteURLResponse, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Not authenticated")
	}

	if err := h.service.Delete(ctx, identity.UserID, shortener.Code(req.Code)); err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound(err.Error())
		}

		h.logger.Error("failed to delete url",
			zap.String("code", req.Code),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to delete url")
	}

	event := &analytics.LinkDeletedEvent{
		Code:      req.Code,
		OwnerID:   identity.UserID,
		DeletedAt: time.Now().UTC(),
	}

	if err := h.publishDeleted(event); err != nil {
		h.logger.Error("failed to publish link deleted event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	return &DeleteURLResponse{}, nil
}
