package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenSignature = errors.New("token signature is invalid")
)

// TokenLifetime is how long an issued token stays valid. There is no refresh
// or revocation; invalidation is only by expiry.
const TokenLifetime = time.Hour

// TokenService signs and verifies session tokens with a process-wide secret.
type TokenService struct {
	secret []byte
}

// Tokens is the process-wide token service, wired at startup.
var Tokens *TokenService

// NewTokenService creates a token service with the given signing secret.
// The secret is a required configuration value; main refuses to start
// without it.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token carrying the user id as subject, valid for one hour.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a token and returns the user id it was issued for.
// Fails with ErrTokenMalformed, ErrTokenExpired or ErrTokenSignature.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		default:
			return "", ErrTokenSignature
		}
	}
	if !token.Valid {
		return "", ErrTokenSignature
	}

	return claims.Subject, nil
}
