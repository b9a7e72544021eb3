package services

import (
	"context"
	"testing"

	"unimarket/internal/config"
	"unimarket/internal/domain/user"
	apperrors "unimarket/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() (*AuthService, *fakeUserRepo) {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]user.User)}
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiryMin: 60}
	return NewAuthService(repo, cfg), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{
		Email:       "  Anna@Example.com ",
		Password:    "supersecret",
		DisplayName: "Anna",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "Anna", res.User.DisplayName)

	// Email was normalized on the way in.
	login, err := svc.Login(ctx, LoginInput{Email: "anna@example.com", Password: "supersecret"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginInput{Email: "anna@example.com", Password: "wrong password"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "supersecret"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "supersecret", DisplayName: "A"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "short", DisplayName: "A"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "supersecret", DisplayName: "  "})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "supersecret", DisplayName: "A"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "supersecret", DisplayName: "B"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestVerifyToken(t *testing.T) {
	svc, _ := newAuthService()

	res, err := svc.Register(context.Background(), RegisterInput{
		Email:       "a@b.com",
		Password:    "supersecret",
		DisplayName: "A",
	})
	require.NoError(t, err)

	userID, err := svc.VerifyToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID.String())

	_, err = svc.VerifyToken("garbage.token.value")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// A token signed with another secret is rejected.
	other, _ := newAuthService()
	otherCfg := &config.Config{JWTSecret: "other-secret", JWTExpiryMin: 60}
	forged := NewAuthService(&fakeUserRepo{users: make(map[uuid.UUID]user.User)}, otherCfg)
	forgedRes, err := forged.Register(context.Background(), RegisterInput{
		Email:       "a@b.com",
		Password:    "supersecret",
		DisplayName: "A",
	})
	require.NoError(t, err)
	_, err = other.VerifyToken(forgedRes.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
