package usecase

import (
	"context"
	"testing"
	"time"

	"product-catalog/config"
	"product-catalog/internal/delivery/dto"
	"product-catalog/internal/domain/entity"
	"product-catalog/internal/repository"
	"product-catalog/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authTestEnv struct {
	mr         *miniredis.Miniredis
	jwtService *jwt.JWTService
	usecase    AuthUsecase
}

func setupAuthUsecase(t *testing.T) *authTestEnv {
	t.Helper()

	db := setupTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})

	uc := NewAuthUsecase(db, newTestLogger(), repository.NewUserRepository(), repository.NewRoleRepository(), jwtService, client)
	return &authTestEnv{mr: mr, jwtService: jwtService, usecase: uc}
}

func TestAuthUsecase_RegisterAndLogin(t *testing.T) {
	env := setupAuthUsecase(t)
	ctx := context.Background()

	user, err := env.usecase.Register(ctx, &dto.RegisterRequest{
		Email:    "  Jane@Example.com ",
		Password: "password123",
		FullName: "Jane Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, entity.RoleCustomer, user.Role)

	_, err = env.usecase.Register(ctx, &dto.RegisterRequest{Email: "jane@example.com", Password: "password123", FullName: "Jane Again"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	tokens, err := env.usecase.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, int64(900), tokens.ExpiresIn)

	claims, err := env.jwtService.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, entity.RoleIDCustomer, claims.RoleID)
	assert.True(t, env.mr.Exists(accessTokenKey(claims.UserID, claims.TokenID)))

	_, err = env.usecase.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.usecase.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthUsecase_RefreshRotatesTokens(t *testing.T) {
	env := setupAuthUsecase(t)
	ctx := context.Background()

	_, err := env.usecase.Register(ctx, &dto.RegisterRequest{Email: "jane@example.com", Password: "password123", FullName: "Jane"})
	require.NoError(t, err)
	tokens, err := env.usecase.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	rotated, err := env.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The old refresh token is single use.
	_, err = env.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// Access tokens are not accepted for refresh.
	_, err = env.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: rotated.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = env.usecase.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthUsecase_Logout(t *testing.T) {
	env := setupAuthUsecase(t)
	ctx := context.Background()

	_, err := env.usecase.Register(ctx, &dto.RegisterRequest{Email: "jane@example.com", Password: "password123", FullName: "Jane"})
	require.NoError(t, err)
	tokens, err := env.usecase.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	access, err := env.jwtService.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	refresh, err := env.jwtService.ValidateToken(tokens.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, env.usecase.Logout(ctx, access.UserID, access.TokenID, tokens.RefreshToken))

	assert.False(t, env.mr.Exists(accessTokenKey(access.UserID, access.TokenID)))
	assert.False(t, env.mr.Exists(refreshTokenKey(refresh.UserID, refresh.TokenID)))
}

func TestAuthUsecase_EnsureAdminIsIdempotent(t *testing.T) {
	env := setupAuthUsecase(t)
	ctx := context.Background()

	require.NoError(t, env.usecase.EnsureAdmin(ctx, "admin@example.com", "admin-password", "Admin"))
	require.NoError(t, env.usecase.EnsureAdmin(ctx, "admin@example.com", "other-password", "Admin"))

	tokens, err := env.usecase.Login(ctx, &dto.LoginRequest{Email: "admin@example.com", Password: "admin-password"})
	require.NoError(t, err)

	claims, err := env.jwtService.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleIDAdmin, claims.RoleID)

	me, err := env.usecase.GetCurrentUser(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, me.Role)
}
