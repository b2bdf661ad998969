package codehasher

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	e "exzly/internal/core/domain/errors"
	"exzly/internal/core/domain/verification"
	"io"
)

// HMAC derives link hashes from codes with a server-side key, so a hash
// cannot be brute-forced back to a 6-digit code without the key.
type HMAC struct {
	secretKey []byte
}

func NewHMAC(secretKey string) *HMAC {
	if secretKey == "" {
		panic(e.NewEmptyArgumentError("secretKey"))
	}
	return &HMAC{secretKey: []byte(secretKey)}
}

func (h *HMAC) HashCode(code verification.Code) verification.CodeHash {
	hasher := hmac.New(sha256.New, h.secretKey)
	io.WriteString(hasher, string(code))
	return verification.CodeHash(hex.EncodeToString(hasher.Sum(nil)))
}
