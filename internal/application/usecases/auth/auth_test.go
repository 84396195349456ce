package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/fundhub/internal/application/apptest"
	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/application/services"
	"github.com/Haleralex/fundhub/internal/application/usecases/auth"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
	"github.com/Haleralex/fundhub/internal/domain/events"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 24 * time.Hour
)

type env struct {
	store       *apptest.Store
	signer      *apptest.StubSigner
	revocations *apptest.MemRevocations
	users       *services.UserService
	tokens      *services.TokenService
	logger      *slog.Logger
}

func newEnv() *env {
	store := apptest.NewStore()
	signer := apptest.NewStubSigner()
	return &env{
		store:       store,
		signer:      signer,
		revocations: apptest.NewMemRevocations(),
		users:       services.NewUserService(store.Users(), store.Roles(), apptest.PlainHasher{}),
		tokens:      services.NewTokenService(signer, accessTTL, refreshTTL),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (e *env) login(t *testing.T, email string) *dtos.TokenPairDTO {
	t.Helper()
	pair, err := auth.NewLoginUseCase(e.users, e.tokens, e.logger).
		Execute(context.Background(), dtos.LoginCommand{Email: email, Password: "password123"})
	require.NoError(t, err)
	return pair
}

func registerCommand(t *testing.T, username, email string) dtos.RegisterCommand {
	t.Helper()
	u, err := valueobjects.NewUsername(username)
	require.NoError(t, err)
	m, err := valueobjects.NewEmail(email)
	require.NoError(t, err)
	p, err := valueobjects.NewPassword("password123")
	require.NoError(t, err)
	first, err := valueobjects.NewFirstName("Aigerim")
	require.NoError(t, err)
	last, err := valueobjects.NewLastName("Nurlanova")
	require.NoError(t, err)
	return dtos.RegisterCommand{Username: u, Email: m, Password: p, FirstName: first, LastName: last}
}

// ============================================
// Register
// ============================================

func TestRegister(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	uc := auth.NewRegisterUseCase(e.users, e.store, e.store, e.logger)

	dto, err := uc.Execute(ctx, registerCommand(t, "aigerim", "aigerim@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "aigerim", dto.Username)

	roles, err := e.store.Roles().RolesOf(ctx, uuid.MustParse(dto.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{entities.RoleUser}, roles)

	evts := e.store.Events()
	require.Len(t, evts, 1)
	assert.Equal(t, events.EventTypeUserRegistered, evts[0].EventType())

	t.Run("duplicate username", func(t *testing.T) {
		_, err := uc.Execute(ctx, registerCommand(t, "aigerim", "other@example.com"))
		assert.ErrorIs(t, err, domainerrors.ErrUsernameAlreadyExists)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := uc.Execute(ctx, registerCommand(t, "other", "aigerim@example.com"))
		assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyExists)
	})

	assert.Equal(t, 1, e.store.Counts().Users)
	assert.Len(t, e.store.Events(), 1)
}

// ============================================
// Login
// ============================================

func TestLogin(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	user := apptest.NewUser("login")
	e.store.SeedUser(user, entities.RoleUser)
	uc := auth.NewLoginUseCase(e.users, e.tokens, e.logger)

	pair := e.login(t, user.Email())
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(accessTTL), pair.AccessExpiresAt, 2*time.Second)
	assert.WithinDuration(t, time.Now().Add(refreshTTL), pair.RefreshExpiresAt, 2*time.Second)

	_, wrongPassword := uc.Execute(ctx, dtos.LoginCommand{Email: user.Email(), Password: "nope"})
	_, unknownEmail := uc.Execute(ctx, dtos.LoginCommand{Email: "ghost@example.com", Password: "password123"})

	assert.ErrorIs(t, wrongPassword, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

// ============================================
// Reissue
// ============================================

func TestReissueAccess(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	user := apptest.NewUser("reissue")
	e.store.SeedUser(user)
	pair := e.login(t, user.Email())
	uc := auth.NewReissueAccessUseCase(e.store.Users(), e.tokens, e.revocations)

	t.Run("valid refresh token", func(t *testing.T) {
		token, err := uc.Execute(ctx, pair.RefreshToken)
		require.NoError(t, err)

		claims, err := e.tokens.Verify(token.Token, ports.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, user.ID().String(), claims.Subject)
	})

	t.Run("access token is not accepted", func(t *testing.T) {
		_, err := uc.Execute(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})

	t.Run("revoked refresh token", func(t *testing.T) {
		require.NoError(t, e.revocations.Revoke(ctx, pair.RefreshToken, time.Hour))

		_, err := uc.Execute(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})

	t.Run("subject no longer exists", func(t *testing.T) {
		token := e.signer.Forge(ports.TokenClaims{
			Subject:   "00000000-0000-0000-0000-000000000001",
			Type:      ports.TokenTypeRefresh,
			IssuedAt:  time.Now(),
			ExpiresAt: time.Now().Add(time.Hour),
		})

		_, err := uc.Execute(ctx, token)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})
}

func TestReissueRefresh_RotatesToken(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	user := apptest.NewUser("rotate")
	e.store.SeedUser(user)
	pair := e.login(t, user.Email())
	uc := auth.NewReissueRefreshUseCase(e.store.Users(), e.tokens, e.revocations, e.logger)

	rotated, err := uc.Execute(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.Token)

	revoked, err := e.revocations.IsRevoked(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = uc.Execute(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken, "old token cannot be reused")

	_, err = uc.Execute(ctx, rotated.Token)
	assert.NoError(t, err)
}

// ============================================
// Verify / Logout
// ============================================

func TestVerifyToken(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	user := apptest.NewUser("verify")
	e.store.SeedUser(user)
	pair := e.login(t, user.Email())
	uc := auth.NewVerifyTokenUseCase(e.tokens)

	claims, err := uc.Execute(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID().String(), claims.UserID)
	assert.Equal(t, user.Email(), claims.Email)

	_, err = uc.Execute(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)

	_, err = uc.Execute(ctx, "garbage")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)

	e.signer.Now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = uc.Execute(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	user := apptest.NewUser("logout")
	e.store.SeedUser(user)
	pair := e.login(t, user.Email())
	uc := auth.NewLogoutUseCase(e.tokens, e.revocations, e.logger)

	require.NoError(t, uc.Execute(ctx, pair.RefreshToken))

	ttl, ok := e.revocations.TTL(pair.RefreshToken)
	require.True(t, ok)
	assert.InDelta(t, refreshTTL.Seconds(), ttl.Seconds(), 5, "revocation lives as long as the token")

	_, err := auth.NewReissueAccessUseCase(e.store.Users(), e.tokens, e.revocations).Execute(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)

	t.Run("invalid token is a no-op", func(t *testing.T) {
		assert.NoError(t, uc.Execute(ctx, "garbage"))
		assert.NoError(t, uc.Execute(ctx, ""))
	})
}
