package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/fundhub/internal/adapters/http/common"
	"github.com/Haleralex/fundhub/internal/pkg/logger"
)

type seenIDs struct {
	gin, ctx string
}

func requestIDRouter(seen *seenIDs) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/api/v1/projects", func(c *gin.Context) {
		seen.gin = common.GetRequestID(c)
		seen.ctx = logger.GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequestID_KeepsClientValue(t *testing.T) {
	var seen seenIDs
	router := requestIDRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req.Header.Set(RequestIDHeader, "web-7f3a:retry.2")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "web-7f3a:retry.2", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "web-7f3a:retry.2", seen.gin)
	assert.Equal(t, "web-7f3a:retry.2", seen.ctx)
}

func TestRequestID_Generated(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"too long", strings.Repeat("a", maxRequestIDLength+1)},
		{"log injection", "abc\nlevel=ERROR msg=forged"},
		{"spaces", "two words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen seenIDs
			router := requestIDRouter(&seen)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			id := w.Header().Get(RequestIDHeader)
			_, err := uuid.Parse(id)
			require.NoError(t, err)
			assert.Equal(t, id, seen.gin)
			assert.Equal(t, id, seen.ctx)
		})
	}
}

func TestValidRequestID(t *testing.T) {
	assert.True(t, validRequestID(uuid.NewString()))
	assert.True(t, validRequestID(strings.Repeat("x", maxRequestIDLength)))
	assert.False(t, validRequestID(""))
	assert.False(t, validRequestID("id/with/slash"))
}
