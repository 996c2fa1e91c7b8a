package auth

import "golang.org/x/crypto/bcrypt"

// Cost 12 keeps a single verification around the ~100ms mark on current
// hardware, which is the point of a slow hash.
const bcryptCost = 12

// HashPassword derives a salted one-way hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
