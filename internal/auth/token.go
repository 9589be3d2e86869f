// Package auth implements the signed bearer-token service. Tokens are
// self-contained HS256 JWTs carrying the user id as subject; nothing is
// persisted server-side and tokens cannot be revoked before expiry.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

// ErrTokenExpired is returned by Validate when the token's expiry has passed.
// Its message is the exact text surfaced to clients.
var ErrTokenExpired = errors.New("token expired, please login again")

// ErrTokenInvalid is returned by Validate for any other verification failure:
// bad signature, malformed payload, wrong signing method, unusable subject.
var ErrTokenInvalid = errors.New("invalid token, please try again with a new token")

// TokenService issues and validates signed, time-limited bearer tokens.
// It is safe for concurrent use; the only state is the read-only secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService constructs a TokenService signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    defaultTokenTTL,
	}
}

// NewTokenServiceWithTTL constructs a TokenService with a custom validity window.
func NewTokenServiceWithTTL(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue produces a signed token with subject userID, issued now and
// expiring after the service TTL.
func (s *TokenService) Issue(userID int) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature and expiry and returns the embedded user id.
// Expired tokens yield ErrTokenExpired; every other failure yields
// ErrTokenInvalid so the two stay distinguishable at the boundary.
func (s *TokenService) Validate(tokenString string) (int, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	if !token.Valid {
		return 0, ErrTokenInvalid
	}

	userID, err := strconv.Atoi(strings.TrimSpace(claims.Subject))
	if err != nil || userID < 1 {
		return 0, ErrTokenInvalid
	}
	return userID, nil
}
