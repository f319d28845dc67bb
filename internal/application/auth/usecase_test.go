package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/fishtrade-api/internal/application/auth"
	"github.com/jhoicas/fishtrade-api/internal/application/dto"
	"github.com/jhoicas/fishtrade-api/internal/domain"
	"github.com/jhoicas/fishtrade-api/internal/domain/entity"
	"github.com/jhoicas/fishtrade-api/internal/infrastructure/memory"
	"github.com/jhoicas/fishtrade-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	store := memory.New()
	uc := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: "fishtrade-test"}, zerolog.Nop())
	return uc, store
}

func TestEnsureAdmin_CreaUnaSolaVez(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()

	created, err := uc.EnsureAdmin(ctx, "Admin@Fish.vn", "s3creta")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureAdmin(ctx, "admin@fish.vn", "otra")
	require.NoError(t, err)
	assert.False(t, created)

	u, err := store.Users().GetByEmail(ctx, "admin@fish.vn")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3creta")))
}

func TestEnsureAdmin_SinCredencialesNoHaceNada(t *testing.T) {
	uc, _ := newAuth(t)
	created, err := uc.EnsureAdmin(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLogin_EmiteTokenConRol(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.EnsureAdmin(ctx, "admin@fish.vn", "s3creta")
	require.NoError(t, err)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ADMIN@fish.vn", Password: "s3creta"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), resp.ExpiresAt, 5*time.Second)

	userID, role, err := jwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.EnsureAdmin(ctx, "admin@fish.vn", "s3creta")
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@fish.vn", Password: "mal"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@fish.vn", Password: "s3creta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "", Password: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, &entity.User{
		ID: "u-2", Email: "bodega@fish.vn", PasswordHash: string(hash),
		Role: entity.RoleBodeguero, Status: "inactive",
	}))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "bodega@fish.vn", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
