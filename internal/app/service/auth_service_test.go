package service

import (
	"context"
	"errors"
	"testing"
	"time"
	"thesis_hub/internal/common"
	"thesis_hub/internal/common/security"
	inmemdb "thesis_hub/internal/domain/repository/inmem"
	"thesis_hub/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuth(t *testing.T) *AuthService {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-signing-key"),
		JWTExp: time.Hour,
	}
	security.InitJWT()
	return NewAuthService(inmemdb.NewUserRepository(inmemdb.Open()))
}

func TestSignupAndLogin(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	req := SignupRequest{
		Name:     "Ada",
		Surname:  "Lovelace",
		Email:    "ada@uni.edu",
		Password: "analytical-engine",
	}
	resp, err := svc.Signup(ctx, req)
	require.NoError(t, err)
	assert.NotZero(t, resp.User.ID)
	assert.Empty(t, resp.User.HashedPassword)
	require.NotEmpty(t, resp.Token)

	token, err := jwtauth.VerifyToken(security.TokenAuth, resp.Token)
	require.NoError(t, err)
	claims, err := token.AsMap(ctx)
	require.NoError(t, err)
	id, err := security.GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, id)
	email, err := security.GetEmailFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "ada@uni.edu", email)

	login, err := svc.Login(ctx, LoginRequest{Email: "ada@uni.edu", Password: "analytical-engine"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	req := SignupRequest{Name: "Ada", Surname: "Lovelace", Email: "ada@uni.edu", Password: "analytical-engine"}
	_, err := svc.Signup(ctx, req)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))
}

func TestSignupValidation(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Name: "Ada", Surname: "L", Email: "not-an-email", Password: "analytical-engine"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))

	_, err = svc.Signup(ctx, SignupRequest{Name: "Ada", Surname: "L", Email: "ada@uni.edu", Password: "short"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := setupAuth(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Name: "Ada", Surname: "Lovelace", Email: "ada@uni.edu", Password: "analytical-engine"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "ada@uni.edu", Password: "difference-engine"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	// unknown account and wrong password are indistinguishable
	_, err = svc.Login(ctx, LoginRequest{Email: "ghost@uni.edu", Password: "whatever"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}
