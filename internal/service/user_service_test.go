package service

import (
	"context"
	"testing"
	"time"

	"redesocial/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *testEnv) {
	env := newTestEnv(t)
	return NewUserService(env.users, "test-secret", 3*time.Second), env
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Alice", "alice@example.com", "password456")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "short")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "Alice", "Alice@Example.com", "password123")
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, created.ID, user.ID)

	// Wrong password and unknown account fail identically
	_, _, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)

	_, _, err = svc.Login(ctx, "nobody@example.com", "password123")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)
}

func TestUpdateProfile(t *testing.T) {
	svc, env := newUserService(t)
	ctx := context.Background()
	alice := env.newUser(t)

	bio := "gopher"
	private := true
	updated, err := svc.UpdateProfile(ctx, alice.ID, &bio, nil, &private)
	require.NoError(t, err)
	assert.Equal(t, "gopher", updated.Bio)
	assert.True(t, updated.IsPrivate)

	_, err = svc.UpdateProfile(ctx, alice.ID, nil, nil, nil)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}
