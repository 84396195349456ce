package services

import (
	"time"

	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
)

// IssuedToken - подписанный токен и его срок действия.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenService выпускает и проверяет access/refresh токены.
// Claims: sub, email (только access), iat, exp, type.
type TokenService struct {
	signer     ports.TokenSigner
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService создаёт TokenService.
func NewTokenService(signer ports.TokenSigner, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		signer:     signer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccess выпускает access токен.
func (s *TokenService) IssueAccess(user *entities.User) (IssuedToken, error) {
	return s.issue(user, ports.TokenTypeAccess, s.accessTTL)
}

// IssueRefresh выпускает refresh токен (без email).
func (s *TokenService) IssueRefresh(user *entities.User) (IssuedToken, error) {
	return s.issue(user, ports.TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) issue(user *entities.User, typ ports.TokenType, ttl time.Duration) (IssuedToken, error) {
	now := s.now().UTC().Truncate(time.Second)
	claims := ports.TokenClaims{
		Subject:   user.ID().String(),
		Type:      typ,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	if typ == ports.TokenTypeAccess {
		claims.Email = user.Email()
	}

	token, err := s.signer.Sign(claims)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Token: token, ExpiresAt: claims.ExpiresAt}, nil
}

// Verify проверяет подпись, срок и тип токена.
// Истёкший токен -> ErrTokenExpired; чужой тип или неполные claims -> ErrInvalidToken.
func (s *TokenService) Verify(token string, want ports.TokenType) (ports.TokenClaims, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return ports.TokenClaims{}, err
	}
	if claims.Type != want || claims.Subject == "" || claims.IssuedAt.IsZero() || claims.ExpiresAt.IsZero() {
		return ports.TokenClaims{}, domainerrors.ErrInvalidToken
	}
	if want == ports.TokenTypeAccess && claims.Email == "" {
		return ports.TokenClaims{}, domainerrors.ErrInvalidToken
	}
	return claims, nil
}

// RefreshTTL возвращает время жизни refresh токена.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}
