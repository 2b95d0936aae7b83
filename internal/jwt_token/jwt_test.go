package jwttoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pulsemarket/pkg/domain-errors"
)

func newTestService() *JWTService {
	return NewJWTService("test-signing-key", "pulsemarket", "pulsemarket-api")
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	subject := uuid.New()

	token, err := svc.GenerateAccessToken(subject, "lender", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, subject.String(), claims.Subject)
	assert.Equal(t, "lender", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateTokenRejections(t *testing.T) {
	svc := newTestService()
	subject := uuid.New()

	t.Run("garbage input", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-jwt")
		require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(subject, "sme", -time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.ErrorIs(t, err, dErrors.New(dErrors.CodeUnauthorized, "token has expired"))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		forged := NewJWTService("attacker-key", "pulsemarket", "pulsemarket-api")
		token, err := forged.GenerateAccessToken(subject, "sme", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("foreign issuer", func(t *testing.T) {
		foreign := NewJWTService("test-signing-key", "other-service", "pulsemarket-api")
		token, err := foreign.GenerateAccessToken(subject, "sme", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("foreign audience", func(t *testing.T) {
		foreign := NewJWTService("test-signing-key", "pulsemarket", "other-api")
		token, err := foreign.GenerateAccessToken(subject, "sme", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
