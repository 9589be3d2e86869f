package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate_Roundtrip(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("super-secret")

	token, err := svc.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

func TestValidate_Expired(t *testing.T) {
	t.Parallel()

	svc := NewTokenServiceWithTTL("secret", -1*time.Second)

	token, err := svc.Issue(1)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, "token expired, please login again", err.Error())
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewTokenService("right-secret").Issue(7)
	require.NoError(t, err)

	_, err = NewTokenService("wrong-secret").Validate(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_TamperedSignature(t *testing.T) {
	t.Parallel()

	svc := NewTokenService("secret")
	token, err := svc.Issue(7)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	prefix := "AAAA"
	if strings.HasPrefix(parts[2], prefix) {
		prefix = "BBBB"
	}
	tampered := parts[0] + "." + parts[1] + "." + prefix + parts[2][4:]

	_, err = svc.Validate(tampered)
	require.ErrorIs(t, err, ErrTokenInvalid)
	assert.Equal(t, "invalid token, please try again with a new token", err.Error())
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("k").Validate("not.a.jwt")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_NonNumericSubject(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	claims := jwt.RegisteredClaims{
		Subject:   "not-a-number",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = NewTokenService("secret").Validate(signed)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_WrongSigningMethod(t *testing.T) {
	t.Parallel()

	// alg=none tokens must never be accepted even with a matching payload.
	claims := jwt.RegisteredClaims{
		Subject:   "42",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService("secret").Validate(unsigned)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
