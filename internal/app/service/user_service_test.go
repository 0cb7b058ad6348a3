package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "service-test-secret"

func validRegistration() RegisterInput {
	return RegisterInput{
		Email:     "Cook@Example.com",
		Username:  "cook",
		FirstName: "Julia",
		LastName:  "Child",
		Password:  "s3cret-pass",
	}
}

func TestUserService_Register(t *testing.T) {
	env := setupTestEnv(t)

	view, err := env.userService.Register(validRegistration())
	require.NoError(t, err)
	assert.NotZero(t, view.ID)
	assert.Equal(t, "cook@example.com", view.Email)
	assert.Equal(t, "cook", view.Username)

	stored, err := env.users.FindByID(view.ID)
	require.NoError(t, err)
	assert.True(t, util.VerifyPassword(stored.PasswordHash, "s3cret-pass"))
	assert.False(t, stored.IsSuperuser())

	_, err = env.userService.Register(validRegistration())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	fields := FieldMessages(err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "username")
}

func TestUserService_ListAndGet(t *testing.T) {
	env := setupTestEnv(t)
	viewer := env.createUser(t, "viewer")
	author := env.createUser(t, "author")

	_, err := env.subscriptions.Subscribe(viewer.ID, author.ID, AllRecipes)
	require.NoError(t, err)

	users, total, err := env.userService.List(viewer.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 2)
	for _, user := range users {
		assert.Equal(t, user.ID == author.ID, user.IsSubscribed, user.Username)
	}

	got, err := env.userService.Get(author.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSubscribed)

	got, err = env.userService.Get(author.ID, 0)
	require.NoError(t, err)
	assert.False(t, got.IsSubscribed)

	_, err = env.userService.Get(999, 0)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_SetPassword(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "cook")

	err := env.userService.SetPassword(user.ID, SetPasswordInput{NewPassword: "another-pass", CurrentPassword: "wrong"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, FieldMessages(err), "current_password")

	require.NoError(t, env.userService.SetPassword(user.ID, SetPasswordInput{NewPassword: "another-pass", CurrentPassword: "password123"}))

	stored, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, util.VerifyPassword(stored.PasswordHash, "another-pass"))
}

func TestAuthService_LoginLogout(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "cook")
	revoker := &fakeRevoker{}
	auth := NewAuthService(env.users, revoker, testSecret, time.Hour)

	_, err := auth.Login(LoginInput{Email: "cook@example.com", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(LoginInput{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := auth.Login(LoginInput{Email: " COOK@example.com", Password: "password123"})
	require.NoError(t, err)

	claims, err := util.ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	require.NoError(t, auth.Logout(context.Background(), token, claims))
	assert.Greater(t, revoker.tokens[token], 59*time.Minute)

	revoker.err = errors.New("redis down")
	assert.Error(t, auth.Logout(context.Background(), token, claims))
}

func TestAuthService_LogoutWithoutRevoker(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "cook")
	auth := NewAuthService(env.users, nil, testSecret, time.Hour)

	token, err := auth.Login(LoginInput{Email: "cook@example.com", Password: "password123"})
	require.NoError(t, err)
	claims, err := util.ValidateToken(token, testSecret)
	require.NoError(t, err)

	assert.NoError(t, auth.Logout(context.Background(), token, claims))
}
