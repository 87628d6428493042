package usecase

import (
	"context"
	"testing"

	"github.com/GoArmGo/SocialApp/internal/domain"
	"github.com/GoArmGo/SocialApp/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthUseCase() (AuthUseCase, *fakeUsers, *fakeHasher, *fakeIssuer) {
	users := newFakeUsers()
	hasher := &fakeHasher{}
	issuer := &fakeIssuer{}
	return NewAuthUseCase(users, hasher, issuer, logger.Discard()), users, hasher, issuer
}

func TestAuthUseCase_Register(t *testing.T) {
	uc, users, _, _ := newTestAuthUseCase()

	err := uc.Register(context.Background(), RegisterInput{Username: " alice ", Email: "Alice@Example.com", Password: "secret1"})
	require.NoError(t, err)

	stored := users.byEmail["alice@example.com"]
	require.NotNil(t, stored)
	assert.Equal(t, "alice", stored.Username)
	assert.Equal(t, "alice@example.com", stored.Email)
	assert.Equal(t, "hashed:secret1", stored.PasswordHash)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestAuthUseCase_Register_StoreFailure(t *testing.T) {
	uc, users, _, _ := newTestAuthUseCase()
	users.createErr = errStoreDown

	err := uc.Register(context.Background(), RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.ErrorIs(t, err, domain.ErrRegistration)
}

func TestAuthUseCase_Login(t *testing.T) {
	uc, _, hasher, issuer := newTestAuthUseCase()
	ctx := context.Background()
	require.NoError(t, uc.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret1"}))

	t.Run("success", func(t *testing.T) {
		res, err := uc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "alice", res.User.Username)
		assert.Equal(t, "alice@example.com", res.User.Email)
		assert.Equal(t, "token-for-"+res.User.ID.String(), res.Token)
		assert.Equal(t, []string{res.User.ID.String()}, issuer.subjects)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := uc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email still compares a digest", func(t *testing.T) {
		before := hasher.verifyCalls
		_, err := uc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Equal(t, before+1, hasher.verifyCalls)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, errWrong := uc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong"})
		_, errUnknown := uc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "wrong"})
		assert.Equal(t, errWrong, errUnknown)
	})
}

func TestAuthUseCase_Login_StoreFailure(t *testing.T) {
	uc, users, _, _ := newTestAuthUseCase()
	users.getErr = errStoreDown

	_, err := uc.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, err, errStoreDown)
}
