package handlers

import (
	"net/http"
	"time"

	"github.com/lmartins/shortly/internal/auth"
)

// ShortenRequest is the request body for creating a short URL.
type ShortenRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url"`
	}
}

// ShortenResponse is the response for a successfully created short URL.
type ShortenResponse struct {
	Body URLEntry
}

// URLEntry is one URL mapping as rendered to clients.
type URLEntry struct {
	ShortURL  string    `doc:"The full short URL"  example:"http://localhost:8080/abc123"          json:"shortUrl"`
	ShortCode string    `doc:"The short code"      example:"abc123"                                json:"shortCode"`
	LongURL   string    `doc:"The original URL"    example:"https://example.com/very/long/path"    json:"longUrl"`
	CreatedAt time.Time `doc:"Creation timestamp"  json:"created_at"`
}

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// RedirectResponse redirects the client to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}

// ListURLsResponse is the response listing the caller's URLs.
type ListURLsResponse struct {
	Body struct {
		URLs []URLEntry `json:"urls"`
	}
}

// DeleteURLRequest identifies the mapping to delete.
type DeleteURLRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// DeleteURLResponse is empty; deletion answers 204.
type DeleteURLResponse struct{}

// Credentials is the request body shared by register and login.
type Credentials struct {
	Body struct {
		Email    string `doc:"Email address" example:"user@example.com" json:"email"`
		Password string `doc:"Password (8 characters minimum)" json:"password"`
	}
}

// UserResponse wraps a user for register, login and me.
type UserResponse struct {
	Body struct {
		User auth.SafeUser `json:"user"`
	}
}

// LoginResponse is a UserResponse that also sets the session cookie.
type LoginResponse struct {
	Headers struct {
		SetCookie http.Cookie `header:"Set-Cookie"`
	}
	Body struct {
		User auth.SafeUser `json:"user"`
	}
}

// LogoutResponse clears the session cookie.
type LogoutResponse struct {
	Headers struct {
		SetCookie http.Cookie `header:"Set-Cookie"`
	}
	Body struct {
		Message string `json:"message"`
	}
}
