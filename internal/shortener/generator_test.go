package shortener_test

import (
	"testing"

	"github.com/lmartins/shortly/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator(t *testing.T) {
	t.Run("codes are 4 to 8 alphanumeric chars", func(t *testing.T) {
		gen, err := shortener.NewGenerator("test-salt")
		require.NoError(t, err)

		for i := 0; i < 1000; i++ {
			code, err := gen.Generate()
			require.NoError(t, err)
			assert.True(t, shortener.ValidCode(string(code)), "bad code %q", code)
		}
	})

	t.Run("works with empty salt", func(t *testing.T) {
		gen, err := shortener.NewGenerator("")
		require.NoError(t, err)

		code, err := gen.Generate()
		require.NoError(t, err)
		assert.True(t, shortener.ValidCode(string(code)))
	})

	t.Run("successive codes are independent", func(t *testing.T) {
		gen, err := shortener.NewGenerator("test-salt")
		require.NoError(t, err)

		seen := make(map[shortener.Code]bool)

		for i := 0; i < 100; i++ {
			code, err := gen.Generate()
			require.NoError(t, err)
			seen[code] = true
		}

		// Collisions over 100 draws from ~10^8 values are vanishingly rare.
		assert.Greater(t, len(seen), 95)
	})
}
