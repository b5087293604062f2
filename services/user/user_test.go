package user

import (
	"context"
	"testing"
	"time"

	memoryRepo "artisthub/database/repository/memory"
	"artisthub/models"
	"artisthub/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*DefaultUserService, *utils.TokenService) {
	t.Helper()
	tokens := utils.NewTokenService("test-secret", time.Hour)
	svc, err := NewDefaultUserService(memoryRepo.NewStore().Users(), tokens, zap.NewNop())
	require.NoError(t, err)
	return svc, tokens
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, tokens := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, models.RegisterRequest{Name: " Ada ", Email: "Ada@Example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	res, err := svc.Authenticate(ctx, "ADA@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.ID)
	assert.Equal(t, utils.RoleUser, res.Role)

	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, utils.RoleUser, claims.Role)

	got, err := svc.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
}

func TestRegister_Rejections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  models.RegisterRequest
		want error
	}{
		{"duplicate", models.RegisterRequest{Name: "Other", Email: "ADA@example.com", Password: "another-pass"}, utils.ErrConflict},
		{"bad email", models.RegisterRequest{Name: "Bob", Email: "bob", Password: "another-pass"}, utils.ErrValidation},
		{"short password", models.RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "123"}, utils.ErrValidation},
		{"missing name", models.RegisterRequest{Email: "bob@example.com", Password: "another-pass"}, utils.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, models.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, utils.ErrValidation)
}
