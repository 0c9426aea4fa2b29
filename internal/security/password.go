package security

import "golang.org/x/crypto/bcrypt"

// DefaultCost is deliberately above bcrypt.DefaultCost; login is rare
// enough that the extra rounds are affordable.
const DefaultCost = 12

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// helper that compares a bcrypt hash with a plaintext password.

func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
