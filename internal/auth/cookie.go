package auth

import (
	"net/http"
	"strings"
)

// The cookie deliberately outlives the token it carries: verification fails
// on the embedded expiry long before the browser drops the cookie.
const cookieMaxAgeSeconds = 24 * 60 * 60

// CookieConfig describes the session cookie the service sets on login.
type CookieConfig struct {
	Name     string
	Secure   bool
	SameSite http.SameSite
}

// NewCookieConfig builds a cookie config. sameSite accepts "lax", "strict"
// or "none" (anything else falls back to lax). secure should be false only
// in local development.
func NewCookieConfig(name, sameSite string, secure bool) CookieConfig {
	mode := http.SameSiteLaxMode

	switch strings.ToLower(sameSite) {
	case "strict":
		mode = http.SameSiteStrictMode
	case "none":
		mode = http.SameSiteNoneMode
	}

	return CookieConfig{
		Name:     name,
		Secure:   secure,
		SameSite: mode,
	}
}

// Session returns the Set-Cookie value carrying token.
func (c CookieConfig) Session(token string) *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAgeSeconds,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

// Expired returns the Set-Cookie value that clears the session cookie.
func (c CookieConfig) Expired() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}
