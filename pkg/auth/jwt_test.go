package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinovahealth/clinicflow/internal/config"
	"github.com/clinovahealth/clinicflow/internal/domain"
)

func testManager(accessTTL time.Duration) *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-that-is-long-enough-0123",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: time.Hour,
		Issuer:          "clinicflow-test",
	})
}

func TestTokenPairRoundTrip(t *testing.T) {
	m := testManager(time.Minute)
	in := &domain.Claims{
		UserID: uuid.New(),
		Email:  "sarah.wilson@clinicflow.local",
		Role:   domain.RoleDoctor,
	}

	pair, err := m.GenerateTokenPair(in)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	out, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, in.UserID, out.UserID)
	assert.Equal(t, in.Email, out.Email)
	assert.Equal(t, domain.RoleDoctor, out.Role)
}

func TestTokenTypeMismatch(t *testing.T) {
	m := testManager(time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleReceptionist})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	require.ErrorIs(t, err, ErrTokenTypeMismatch)

	_, err = m.ValidateRefreshToken(pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestExpiredToken(t *testing.T) {
	m := testManager(-time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleDoctor})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTamperedToken(t *testing.T) {
	m := testManager(time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleDoctor})
	require.NoError(t, err)

	other := NewJWTManager(config.JWTConfig{
		Secret: "a-completely-different-secret-value!", Issuer: "clinicflow-test",
		AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour,
	})
	_, err = other.ValidateAccessToken(pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = m.ValidateAccessToken(pair.AccessToken + "x")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
