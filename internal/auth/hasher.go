package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used for admin passwords.
const DefaultHashCost = 12

var (
	ErrInvalidHashCost = errors.New("invalid bcrypt cost")
	ErrPasswordTooLong = errors.New("password too long")
)

// Hasher hashes and verifies admin passwords with bcrypt.
// The produced hash embeds salt and cost, so Verify needs nothing else.
type Hasher struct {
	cost int
}

func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidHashCost, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Hasher{cost: cost}, nil
}

func (h *Hasher) Cost() int {
	return h.cost
}

func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("bcrypt generate: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. Mismatch, malformed hash
// and any other bcrypt error all read as false.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
