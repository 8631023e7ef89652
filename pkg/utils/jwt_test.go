package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	cfg := JWTConfig{Secret: "test-secret", ExpiryHours: 2}
	userID := uuid.New()

	token, expiresAt, err := GenerateToken(cfg, userID, "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expiresAt, time.Minute)

	claims, err := ParseToken(cfg.Secret, token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestGenerateToken_NoSecret(t *testing.T) {
	_, _, err := GenerateToken(JWTConfig{}, uuid.New(), "user")
	assert.Error(t, err)
}

func TestParseToken_Rejects(t *testing.T) {
	cfg := JWTConfig{Secret: "test-secret"}
	token, _, err := GenerateToken(cfg, uuid.New(), "user")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := ParseToken("other", token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		claims := Claims{
			UserID: uuid.NewString(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
		require.NoError(t, err)

		_, err = ParseToken(cfg.Secret, expired)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: uuid.NewString()}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ParseToken(cfg.Secret, unsigned)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseToken(cfg.Secret, "not-a-token")
		assert.Error(t, err)
	})
}
