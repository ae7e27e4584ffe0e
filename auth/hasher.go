package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches the cost used for user passwords across the
// service. Raising it only affects newly written hashes; verification
// reads the cost embedded in each stored hash.
const DefaultBcryptCost = 12

// Hasher hashes and verifies user passwords with bcrypt. Each Hash call
// draws a fresh random salt, so hashing the same password twice yields
// different strings.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to DefaultBcryptCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of the plaintext password. The salt and
// cost are embedded in the output, so Verify needs no side channel.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether the plaintext password matches the stored hash.
// Comparison is constant-time inside bcrypt; a malformed hash simply
// yields false.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
