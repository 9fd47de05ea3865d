package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinovahealth/clinicflow/internal/config"
	"github.com/clinovahealth/clinicflow/internal/domain"
	"github.com/clinovahealth/clinicflow/internal/store/memory"
	"github.com/clinovahealth/clinicflow/pkg/auth"
)

func newAuthFixture(t *testing.T) (*AuthService, *domain.User) {
	t.Helper()
	st := memory.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse-battery"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		Email:        "reception@clinicflow.local",
		PasswordHash: string(hash),
		FullName:     "Front Desk",
		Role:         domain.RoleReceptionist,
		IsActive:     true,
	}
	require.NoError(t, st.Users().Create(context.Background(), user))

	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-that-is-long-enough-0123",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "clinicflow-test",
	})
	return NewAuthService(st.Users(), jwtManager, zap.NewNop()), user
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newAuthFixture(t)

	pair, err := svc.Login(context.Background(), "reception@clinicflow.local", "correct-horse-battery", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "reception@clinicflow.local", "wrong", "127.0.0.1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "nobody@clinicflow.local", "whatever", "127.0.0.1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Login(ctx, "reception@clinicflow.local", "wrong", "127.0.0.1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// Even the correct password is refused while locked.
	_, err := svc.Login(ctx, "reception@clinicflow.local", "correct-horse-battery", "127.0.0.1")
	require.ErrorIs(t, err, ErrAccountLocked)
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "reception@clinicflow.local", "correct-horse-battery", "127.0.0.1")
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not a refresh token.
	_, err = svc.RefreshToken(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc, user := newAuthFixture(t)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, user.ID, "wrong", "a-long-enough-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, user.ID, "correct-horse-battery", "short")
	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "correct-horse-battery", "a-long-enough-password"))

	_, err = svc.Login(ctx, "reception@clinicflow.local", "a-long-enough-password", "127.0.0.1")
	require.NoError(t, err)
}
