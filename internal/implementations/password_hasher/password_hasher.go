package passwordhasher

import (
	"exzly/internal/core/domain/user"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt peppers passwords with a server-side secret before hashing.
type Bcrypt struct {
	secret string
	cost   int
}

func NewBcrypt(secret string, cost int) *Bcrypt {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{secret: secret, cost: cost}
}

func (h *Bcrypt) HashPassword(password user.RawPassword) (hash user.PasswordHash, err error) {
	bcryptHash, err := bcrypt.GenerateFromPassword([]byte(string(password)+h.secret), h.cost)
	if err != nil {
		return hash, err
	}
	return user.PasswordHash(bcryptHash), nil
}

func (h *Bcrypt) ValidatePassword(password user.RawPassword, hash user.PasswordHash) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(string(password)+h.secret))
	return err == nil
}
