package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const resetPurpose = "password_reset"

// ErrTokenInvalid covers expired, tampered and already used reset tokens.
var ErrTokenInvalid = errors.New("invalid or expired token")

// TokenManager issues and validates password reset tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// ResetClaims describes the reset JWT payload. Fingerprint binds the token to
// the password hash it was issued against, so a completed reset spends it.
type ResetClaims struct {
	Purpose     string `json:"purpose"`
	Fingerprint string `json:"pwd"`
	jwt.RegisteredClaims
}

// GenerateResetToken signs a reset token for the user.
func (tm *TokenManager) GenerateResetToken(userID, passwordHash string) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(tm.ttl)
	claims := &ResetClaims{
		Purpose:     resetPurpose,
		Fingerprint: passwordFingerprint(passwordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseResetToken validates signature, expiry and purpose.
func (tm *TokenManager) ParseResetToken(tokenStr string) (*ResetClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*ResetClaims)
	if !ok || !parsed.Valid || claims.Purpose != resetPurpose || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Matches reports whether the claims were issued against passwordHash.
func (c *ResetClaims) Matches(passwordHash string) bool {
	return c.Fingerprint == passwordFingerprint(passwordHash)
}

func passwordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}
