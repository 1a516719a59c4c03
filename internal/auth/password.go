package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16

	// DefaultScryptN is the CPU/memory cost used when none is configured.
	DefaultScryptN = 16384
)

// ErrMalformedHash is returned for stored hashes that are not "salt:key" hex pairs.
var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword derives a scrypt key and encodes it as hex(salt):hex(key).
func HashPassword(password string, n int) (string, error) {
	if n <= 1 {
		n = DefaultScryptN
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key, err := scrypt.Key([]byte(password), salt, n, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// ComparePassword verifies a password against its stored hash in constant time.
func ComparePassword(hashed, plain string, n int) (bool, error) {
	if n <= 1 {
		n = DefaultScryptN
	}
	saltHex, keyHex, ok := strings.Cut(hashed, ":")
	if !ok {
		return false, ErrMalformedHash
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := hex.DecodeString(keyHex)
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}

	got, err := scrypt.Key([]byte(plain), salt, n, scryptR, scryptP, len(want))
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
