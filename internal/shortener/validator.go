package shortener

import (
	"net/url"
	"strings"
)

// ValidateURL reports whether raw trims to a well-formed absolute URL whose
// scheme is exactly http or https. It never touches the network.
func ValidateURL(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return false
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != ""
}

// ValidCode reports whether code has the shape of a generated short code:
// 4 to 8 alphanumeric characters.
func ValidCode(code string) bool {
	if len(code) < minCodeLength || len(code) > maxCodeLength {
		return false
	}

	for _, c := range code {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}

	return true
}
