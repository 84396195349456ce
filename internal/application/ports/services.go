package ports

import (
	"context"
	"time"
)

// FileStorage - облачное хранилище файлов.
// Core зависит только от этого узкого контракта, не от SDK провайдера.
type FileStorage interface {
	// Upload сохраняет content по path и возвращает фактический путь объекта.
	Upload(ctx context.Context, content []byte, path, contentType string) (string, error)

	// Delete удаляет объект. Отсутствующий объект не считается ошибкой.
	Delete(ctx context.Context, path string) error

	// SignedURL возвращает временную ссылку на чтение объекта.
	SignedURL(ctx context.Context, path string) (string, error)
}

// PasswordHasher хеширует и проверяет пароли.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Verify возвращает false, nil при несовпадении; error - только при сбое.
	Verify(hash, password string) (bool, error)
}

// TokenType различает access и refresh токены.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenClaims - фиксированный набор claims: sub, email (только access), iat, exp, type.
type TokenClaims struct {
	Subject   string
	Email     string
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenSigner подписывает и проверяет JWT.
type TokenSigner interface {
	Sign(claims TokenClaims) (string, error)

	// Verify проверяет подпись, срок и наличие всех claims.
	// Истёкший токен -> errors.ErrTokenExpired, любой другой дефект -> errors.ErrInvalidToken.
	Verify(token string) (TokenClaims, error)
}

// TokenRevocationStore хранит отозванные refresh токены до их истечения.
type TokenRevocationStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
