package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/fundhub/internal/adapters/http/common"
	"github.com/Haleralex/fundhub/internal/application/dtos"
	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
	"github.com/Haleralex/fundhub/internal/pkg/logger"
)

// MockTokenVerifier - тестовая реализация TokenVerifier.
type MockTokenVerifier struct {
	ExecuteFunc func(ctx context.Context, token string) (*dtos.TokenClaimsDTO, error)
	received    string
}

func (m *MockTokenVerifier) Execute(ctx context.Context, token string) (*dtos.TokenClaimsDTO, error) {
	m.received = token
	return m.ExecuteFunc(ctx, token)
}

func validVerifier(userID uuid.UUID) *MockTokenVerifier {
	return &MockTokenVerifier{
		ExecuteFunc: func(_ context.Context, token string) (*dtos.TokenClaimsDTO, error) {
			if token == "" {
				return nil, domainerrors.ErrNotAuthenticated
			}
			return &dtos.TokenClaimsDTO{UserID: userID.String(), Email: "alice@example.com", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
}

func authRouter(verifier TokenVerifier, seen *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(verifier))
	router.GET("/me", func(c *gin.Context) {
		if seen != nil {
			*seen = GetAuthUserID(c)
		}
		c.JSON(http.StatusOK, gin.H{
			"email":   GetAuthUserEmail(c),
			"ctx_uid": logger.GetUserID(c.Request.Context()),
		})
	})
	return router
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Code
}

func TestAuth_BearerHeader(t *testing.T) {
	userID := uuid.New()
	verifier := validVerifier(userID)
	var seen uuid.UUID

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	w := httptest.NewRecorder()
	authRouter(verifier, &seen).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "header-token", verifier.received)
	assert.Equal(t, userID, seen)
	assert.Contains(t, w.Body.String(), "alice@example.com")
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestAuth_CookieTakesPrecedence(t *testing.T) {
	verifier := validVerifier(uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: common.AccessTokenCookie, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")
	w := httptest.NewRecorder()
	authRouter(verifier, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-token", verifier.received)
}

func TestAuth_Failures(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		verifyEr error
		wantCode string
	}{
		{"no credentials", "", nil, "not_authenticated"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", nil, "invalid_token"},
		{"empty bearer", "Bearer   ", nil, "invalid_token"},
		{"expired", "Bearer expired", domainerrors.ErrTokenExpired, "token_expired"},
		{"invalid signature", "Bearer forged", domainerrors.ErrInvalidToken.Wrap(errors.New("signature is invalid")), "invalid_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &MockTokenVerifier{
				ExecuteFunc: func(context.Context, string) (*dtos.TokenClaimsDTO, error) {
					if tt.verifyEr != nil {
						return nil, tt.verifyEr
					}
					return &dtos.TokenClaimsDTO{UserID: uuid.NewString()}, nil
				},
			}

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			authRouter(verifier, nil).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestAuth_NonUUIDSubject(t *testing.T) {
	verifier := &MockTokenVerifier{
		ExecuteFunc: func(context.Context, string) (*dtos.TokenClaimsDTO, error) {
			return &dtos.TokenClaimsDTO{UserID: "42"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer t")
	w := httptest.NewRecorder()
	authRouter(verifier, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_token", errorCode(t, w))
}

func TestAuth_VerifierInfrastructureError(t *testing.T) {
	verifier := &MockTokenVerifier{
		ExecuteFunc: func(context.Context, string) (*dtos.TokenClaimsDTO, error) {
			return nil, errors.New("redis: connection refused")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer t")
	w := httptest.NewRecorder()
	authRouter(verifier, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, common.CodeInternal, errorCode(t, w))
}

func TestGetAuthUserID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetAuthUserID(c))
	assert.Empty(t, GetAuthUserEmail(c))

	c.Set(AuthUserIDKey, "not-a-uuid")
	assert.Equal(t, uuid.Nil, GetAuthUserID(c))
}
