package common

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Имена cookie с токенами.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// CookieConfig - флаги cookie с токенами.
type CookieConfig struct {
	Domain string
	Secure bool
}

// CookieJar - узкий интерфейс записи cookie в ответ.
type CookieJar interface {
	SetCookie(name, value string, expiresAt time.Time)
	DeleteCookie(name string)
}

// GinCookieJar пишет HttpOnly, SameSite=Lax cookie с Path=/ через gin.Context.
type GinCookieJar struct {
	c   *gin.Context
	cfg CookieConfig
}

// NewCookieJar создаёт CookieJar поверх ответа gin.
func NewCookieJar(c *gin.Context, cfg CookieConfig) *GinCookieJar {
	return &GinCookieJar{c: c, cfg: cfg}
}

// SetCookie устанавливает cookie до expiresAt.
func (j *GinCookieJar) SetCookie(name, value string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	j.c.SetSameSite(http.SameSiteLaxMode)
	j.c.SetCookie(name, value, maxAge, "/", j.cfg.Domain, j.cfg.Secure, true)
}

// DeleteCookie удаляет cookie (Max-Age<0).
func (j *GinCookieJar) DeleteCookie(name string) {
	j.c.SetSameSite(http.SameSiteLaxMode)
	j.c.SetCookie(name, "", -1, "/", j.cfg.Domain, j.cfg.Secure, true)
}
