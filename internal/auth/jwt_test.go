package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func organizerClaims(sub string, exp time.Time) Claims {
	return Claims{
		Email: "owner@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestValidator_ValidToken(t *testing.T) {
	v := NewValidator(testSecret)
	tok := signToken(t, testSecret, organizerClaims("user-42", time.Now().Add(time.Hour)))

	claims, err := v.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestValidator_Rejections(t *testing.T) {
	v := NewValidator(testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signToken(t, "other-secret", organizerClaims("user-42", time.Now().Add(time.Hour)))},
		{"expired", signToken(t, testSecret, organizerClaims("user-42", time.Now().Add(-time.Hour)))},
		{"missing subject", signToken(t, testSecret, organizerClaims("", time.Now().Add(time.Hour)))},
		{"garbage", "not.a.token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestValidator_RejectsUnsignedToken(t *testing.T) {
	v := NewValidator(testSecret)
	token := jwt.NewWithClaims(jwt.SigningMethodNone, organizerClaims("user-42", time.Now().Add(time.Hour)))
	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Validate(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
