package shortener

import (
	"crypto/rand"
	"math/big"

	"github.com/sqids/sqids-go"
)

const codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	minCodeLength = 4
	maxCodeLength = 8

	// Drawn numbers span 4 to 8 decimal digits so encoded codes stay short.
	minNumber = 1000
	maxNumber = 99_999_999
)

// Generator produces short codes by encoding a crypto-random integer with a
// salted, deterministic integer-to-string encoding. It does not check
// uniqueness; that is the caller's job.
type Generator struct {
	encoder *sqids.Sqids
}

// NewGenerator creates a generator whose alphabet is shuffled by salt, so two
// deployments with different salts produce unrelated codes for the same number.
func NewGenerator(salt string) (*Generator, error) {
	encoder, err := sqids.New(sqids.Options{
		Alphabet:  shuffleAlphabet(codeAlphabet, salt),
		MinLength: minCodeLength,
	})
	if err != nil {
		return nil, err
	}

	return &Generator{encoder: encoder}, nil
}

// Generate returns a code of 4 to 8 alphanumeric characters. Two calls are
// independent; collisions are possible and resolved by the caller.
func (g *Generator) Generate() (Code, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxNumber-minNumber+1))
	if err != nil {
		return "", err
	}

	code, err := g.encoder.Encode([]uint64{n.Uint64() + minNumber})
	if err != nil {
		return "", err
	}

	if len(code) > maxCodeLength {
		code = code[:maxCodeLength]
	}

	return Code(code), nil
}

// shuffleAlphabet permutes alphabet deterministically using salt bytes.
// An empty salt leaves the alphabet untouched.
func shuffleAlphabet(alphabet, salt string) string {
	if salt == "" {
		return alphabet
	}

	buf := []byte(alphabet)

	for i, v, p := len(buf)-1, 0, 0; i > 0; i-- {
		v %= len(salt)
		n := int(salt[v])
		p += n
		j := (n + v + p) % i

		buf[i], buf[j] = buf[j], buf[i]
		v++
	}

	return string(buf)
}
