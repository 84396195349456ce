package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/Haleralex/fundhub/internal/application/ports"
)

// Compile-time check
var _ ports.PasswordHasher = (*BcryptHasher)(nil)

// BcryptHasher реализует ports.PasswordHasher.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher создаёт хешер; некорректный cost заменяется на bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash хеширует пароль.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to generate password hash: %w", err)
	}
	return string(hashed), nil
}

// Verify сравнивает пароль с хешем. Несовпадение - false, nil.
func (h *BcryptHasher) Verify(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("error comparing password with hash: %w", err)
	}
	return true, nil
}
