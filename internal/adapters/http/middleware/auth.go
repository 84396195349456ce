package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/adapters/http/common"
	"github.com/Haleralex/fundhub/internal/application/dtos"
	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
	"github.com/Haleralex/fundhub/internal/pkg/logger"
)

const (
	// AuthUserIDKey - ключ для хранения User ID в контексте
	AuthUserIDKey = "auth_user_id"
	// AuthUserEmailKey - ключ для хранения email пользователя
	AuthUserEmailKey = "auth_user_email"
)

// TokenVerifier проверяет access токен и возвращает его claims.
type TokenVerifier interface {
	Execute(ctx context.Context, accessToken string) (*dtos.TokenClaimsDTO, error)
}

// Auth требует валидный access токен.
//
// Токен берётся из cookie access_token, иначе из заголовка "Authorization: Bearer <token>".
// Ошибки проверки отдаются через общую таблицу: not_authenticated, invalid_token, token_expired.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractToken(c)
		if err != nil {
			abortWithDomainError(c, err)
			return
		}

		claims, err := verifier.Execute(c.Request.Context(), token)
		if err != nil {
			abortWithDomainError(c, err)
			return
		}

		if _, err := uuid.Parse(claims.UserID); err != nil {
			abortWithDomainError(c, domainerrors.ErrInvalidToken.Wrap(err))
			return
		}

		c.Set(AuthUserIDKey, claims.UserID)
		c.Set(AuthUserEmailKey, claims.Email)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

// extractToken: cookie имеет приоритет над заголовком.
func extractToken(c *gin.Context) (string, error) {
	if cookie, err := c.Cookie(common.AccessTokenCookie); err == nil && cookie != "" {
		return cookie, nil
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return "", domainerrors.ErrNotAuthenticated
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", domainerrors.ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}

func abortWithDomainError(c *gin.Context, err error) {
	common.HandleDomainError(c, err)
	c.Abort()
}

// ============================================
// Helper functions для извлечения auth данных
// ============================================

// GetAuthUserID возвращает ID авторизованного пользователя.
func GetAuthUserID(c *gin.Context) uuid.UUID {
	if id, err := uuid.Parse(c.GetString(AuthUserIDKey)); err == nil {
		return id
	}
	return uuid.Nil
}

// GetAuthUserEmail возвращает email авторизованного пользователя.
func GetAuthUserEmail(c *gin.Context) string {
	return c.GetString(AuthUserEmailKey)
}
