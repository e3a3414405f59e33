package auth

import "golang.org/x/crypto/bcrypt"

// BcryptCost matches the work factor the original deployment used
const BcryptCost = 10

// HashPassword hashes a plaintext password for storage. Plaintext never
// leaves this function's scope once hashed.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored hash. A nil
// error means the password matches.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
