// Package security - подпись токенов и хеширование паролей.
package security

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/ports"
	domainErrors "github.com/Haleralex/fundhub/internal/domain/errors"
)

// Compile-time check
var _ ports.TokenSigner = (*JWTSigner)(nil)

// ErrEmptySecret возвращается, если секрет подписи не задан.
var ErrEmptySecret = errors.New("jwt secret is empty")

// claims - формат токена на проводе.
// jti делает каждый токен уникальным, даже выпущенный в ту же секунду.
type claims struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// JWTSigner подписывает и проверяет HS256 токены.
type JWTSigner struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTSigner создаёт JWTSigner.
func NewJWTSigner(secret string) (*JWTSigner, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &JWTSigner{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}, nil
}

// Sign подписывает claims.
func (s *JWTSigner) Sign(c ports.TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: c.Email,
		Type:  string(c.Type),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   c.Subject,
			IssuedAt:  jwt.NewNumericDate(c.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return signed, nil
}

// Verify проверяет подпись, алгоритм, срок и наличие sub/iat/exp/type.
// Истёкший токен -> ErrTokenExpired, любой другой дефект -> ErrInvalidToken.
func (s *JWTSigner) Verify(tokenString string) (ports.TokenClaims, error) {
	var c claims
	_, err := s.parser.ParseWithClaims(tokenString, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.TokenClaims{}, domainErrors.ErrTokenExpired
		}
		return ports.TokenClaims{}, domainErrors.ErrInvalidToken.Wrap(err)
	}

	if c.Subject == "" || c.Type == "" || c.IssuedAt == nil {
		return ports.TokenClaims{}, domainErrors.ErrInvalidToken
	}

	return ports.TokenClaims{
		Subject:   c.Subject,
		Email:     c.Email,
		Type:      ports.TokenType(c.Type),
		IssuedAt:  c.IssuedAt.Time.UTC(),
		ExpiresAt: c.ExpiresAt.Time.UTC(),
	}, nil
}
