package shortener_test

import (
	"testing"

	"github.com/lmartins/shortly/internal/shortener"
	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	t.Run("accepts absolute http and https urls", func(t *testing.T) {
		valid := []string{
			"http://example.com",
			"https://example.com",
			"https://example.com/path/to/page",
			"https://example.com/search?q=go&page=2",
			"https://example.com/page#section",
			"http://sub.domain.example.com:8080/x",
			"  https://example.com  ", // trimmed before validation
		}

		for _, url := range valid {
			assert.True(t, shortener.ValidateURL(url), "expected valid: %q", url)
		}
	})

	t.Run("rejects non-http schemes and malformed input", func(t *testing.T) {
		invalid := []string{
			"",
			"   ",
			"not-a-url",
			"example.com",
			"/relative/path",
			"ftp://example.com",
			"javascript:alert(1)",
			"mailto:user@example.com",
			"http://",
			"https://",
			"http://%zz",
		}

		for _, url := range invalid {
			assert.False(t, shortener.ValidateURL(url), "expected invalid: %q", url)
		}
	})
}

func TestValidCode(t *testing.T) {
	t.Run("accepts 4 to 8 alphanumeric chars", func(t *testing.T) {
		for _, code := range []string{"abcd", "AbC9", "a1b2c3d4", "ZZZZZZZZ"} {
			assert.True(t, shortener.ValidCode(code), "expected valid: %q", code)
		}
	})

	t.Run("rejects wrong length or alphabet", func(t *testing.T) {
		for _, code := range []string{"", "abc", "abcdefghi", "ab-d", "ab d", "abc!"} {
			assert.False(t, shortener.ValidCode(code), "expected invalid: %q", code)
		}
	})
}
