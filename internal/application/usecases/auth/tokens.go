package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/application/services"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
)

// ============================================
// Login
// ============================================

// LoginUseCase - вход по email и паролю.
// Неизвестный email и неверный пароль неразличимы для клиента.
type LoginUseCase struct {
	users  *services.UserService
	tokens *services.TokenService
	logger *slog.Logger
}

// NewLoginUseCase создаёт use case.
func NewLoginUseCase(users *services.UserService, tokens *services.TokenService, logger *slog.Logger) *LoginUseCase {
	return &LoginUseCase{users: users, tokens: tokens, logger: logger}
}

// Execute возвращает пару токенов.
func (uc *LoginUseCase) Execute(ctx context.Context, cmd dtos.LoginCommand) (*dtos.TokenPairDTO, error) {
	user, err := uc.users.Authenticate(ctx, cmd.Email, cmd.Password)
	if err != nil {
		return nil, err
	}

	access, err := uc.tokens.IssueAccess(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err := uc.tokens.IssueRefresh(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	uc.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID().String()))

	return &dtos.TokenPairDTO{
		AccessToken:      access.Token,
		RefreshToken:     refresh.Token,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

// ============================================
// Reissue
// ============================================

// ReissueAccessUseCase - новый access токен по refresh токену.
type ReissueAccessUseCase struct {
	users       ports.UserRepository
	tokens      *services.TokenService
	revocations ports.TokenRevocationStore
}

// NewReissueAccessUseCase создаёт use case.
func NewReissueAccessUseCase(users ports.UserRepository, tokens *services.TokenService, revocations ports.TokenRevocationStore) *ReissueAccessUseCase {
	return &ReissueAccessUseCase{users: users, tokens: tokens, revocations: revocations}
}

// Execute проверяет refresh токен и выпускает access токен.
func (uc *ReissueAccessUseCase) Execute(ctx context.Context, refreshToken string) (*dtos.TokenDTO, error) {
	user, _, err := ownerOfRefresh(ctx, uc.users, uc.tokens, uc.revocations, refreshToken)
	if err != nil {
		return nil, err
	}

	access, err := uc.tokens.IssueAccess(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	return &dtos.TokenDTO{Token: access.Token, ExpiresAt: access.ExpiresAt}, nil
}

// ReissueRefreshUseCase - ротация refresh токена: старый отзывается, выдаётся новый.
type ReissueRefreshUseCase struct {
	users       ports.UserRepository
	tokens      *services.TokenService
	revocations ports.TokenRevocationStore
	logger      *slog.Logger
}

// NewReissueRefreshUseCase создаёт use case.
func NewReissueRefreshUseCase(
	users ports.UserRepository,
	tokens *services.TokenService,
	revocations ports.TokenRevocationStore,
	logger *slog.Logger,
) *ReissueRefreshUseCase {
	return &ReissueRefreshUseCase{users: users, tokens: tokens, revocations: revocations, logger: logger}
}

// Execute отзывает refreshToken и возвращает новый refresh токен.
func (uc *ReissueRefreshUseCase) Execute(ctx context.Context, refreshToken string) (*dtos.TokenDTO, error) {
	user, claims, err := ownerOfRefresh(ctx, uc.users, uc.tokens, uc.revocations, refreshToken)
	if err != nil {
		return nil, err
	}

	if err := uc.revocations.Revoke(ctx, refreshToken, time.Until(claims.ExpiresAt)); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	refresh, err := uc.tokens.IssueRefresh(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	uc.logger.InfoContext(ctx, "refresh token rotated", slog.String("user_id", user.ID().String()))
	return &dtos.TokenDTO{Token: refresh.Token, ExpiresAt: refresh.ExpiresAt}, nil
}

// ownerOfRefresh проверяет refresh токен и загружает его владельца.
// Отозванный токен и удалённый пользователь дают ErrInvalidToken.
func ownerOfRefresh(
	ctx context.Context,
	users ports.UserRepository,
	tokens *services.TokenService,
	revocations ports.TokenRevocationStore,
	refreshToken string,
) (*entities.User, ports.TokenClaims, error) {
	claims, err := tokens.Verify(refreshToken, ports.TokenTypeRefresh)
	if err != nil {
		return nil, ports.TokenClaims{}, err
	}

	revoked, err := revocations.IsRevoked(ctx, refreshToken)
	if err != nil {
		return nil, ports.TokenClaims{}, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, ports.TokenClaims{}, domainerrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ports.TokenClaims{}, domainerrors.ErrInvalidToken
	}
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		if domainerrors.IsNotFound(err) {
			return nil, ports.TokenClaims{}, domainerrors.ErrInvalidToken
		}
		return nil, ports.TokenClaims{}, err
	}
	if !user.IsActive() {
		return nil, ports.TokenClaims{}, domainerrors.ErrUserInactive
	}
	return user, claims, nil
}

// ============================================
// Verify
// ============================================

// VerifyTokenUseCase - проверка access токена.
type VerifyTokenUseCase struct {
	tokens *services.TokenService
}

// NewVerifyTokenUseCase создаёт use case.
func NewVerifyTokenUseCase(tokens *services.TokenService) *VerifyTokenUseCase {
	return &VerifyTokenUseCase{tokens: tokens}
}

// Execute возвращает claims валидного access токена.
func (uc *VerifyTokenUseCase) Execute(_ context.Context, accessToken string) (*dtos.TokenClaimsDTO, error) {
	if accessToken == "" {
		return nil, domainerrors.ErrNotAuthenticated
	}
	claims, err := uc.tokens.Verify(accessToken, ports.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &dtos.TokenClaimsDTO{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// ============================================
// Logout
// ============================================

// LogoutUseCase - отзыв refresh токена до его истечения.
type LogoutUseCase struct {
	tokens      *services.TokenService
	revocations ports.TokenRevocationStore
	logger      *slog.Logger
}

// NewLogoutUseCase создаёт use case.
func NewLogoutUseCase(tokens *services.TokenService, revocations ports.TokenRevocationStore, logger *slog.Logger) *LogoutUseCase {
	return &LogoutUseCase{tokens: tokens, revocations: revocations, logger: logger}
}

// Execute отзывает refreshToken. Пустой, невалидный или истёкший токен
// отзывать не нужно, logout в этом случае всё равно успешен.
func (uc *LogoutUseCase) Execute(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := uc.tokens.Verify(refreshToken, ports.TokenTypeRefresh)
	if err != nil {
		if _, kinded := domainerrors.KindOf(err); kinded {
			return nil
		}
		return err
	}

	if err := uc.revocations.Revoke(ctx, refreshToken, time.Until(claims.ExpiresAt)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	uc.logger.InfoContext(ctx, "user logged out", slog.String("user_id", claims.Subject))
	return nil
}
