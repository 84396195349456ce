package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/fundhub/internal/adapters/http/common"
	"github.com/Haleralex/fundhub/internal/adapters/http/middleware"
	"github.com/Haleralex/fundhub/internal/application/converters"
	"github.com/Haleralex/fundhub/internal/application/dtos"
)

// ============================================
// Use Case Interfaces
// ============================================

// RegisterUseCase - регистрация пользователя.
type RegisterUseCase interface {
	Execute(ctx context.Context, cmd dtos.RegisterCommand) (*dtos.UserDTO, error)
}

// LoginUseCase - выдача пары токенов по email и паролю.
type LoginUseCase interface {
	Execute(ctx context.Context, cmd dtos.LoginCommand) (*dtos.TokenPairDTO, error)
}

// ReissueUseCase - выпуск нового токена по refresh токену.
type ReissueUseCase interface {
	Execute(ctx context.Context, refreshToken string) (*dtos.TokenDTO, error)
}

// VerifyUseCase - проверка access токена.
type VerifyUseCase interface {
	Execute(ctx context.Context, accessToken string) (*dtos.TokenClaimsDTO, error)
}

// LogoutUseCase - отзыв refresh токена.
type LogoutUseCase interface {
	Execute(ctx context.Context, refreshToken string) error
}

// ============================================
// Auth Handler
// ============================================

// AuthHandler обрабатывает регистрацию, логин, перевыпуск и отзыв токенов.
// Токены отдаются в теле ответа и в HttpOnly cookie.
type AuthHandler struct {
	register       RegisterUseCase
	login          LoginUseCase
	reissueAccess  ReissueUseCase
	reissueRefresh ReissueUseCase
	verify         VerifyUseCase
	logout         LogoutUseCase
	cookies        common.CookieConfig
}

// NewAuthHandler создаёт AuthHandler.
func NewAuthHandler(
	register RegisterUseCase,
	login LoginUseCase,
	reissueAccess ReissueUseCase,
	reissueRefresh ReissueUseCase,
	verify VerifyUseCase,
	logout LogoutUseCase,
	cookies common.CookieConfig,
) *AuthHandler {
	return &AuthHandler{
		register:       register,
		login:          login,
		reissueAccess:  reissueAccess,
		reissueRefresh: reissueRefresh,
		verify:         verify,
		logout:         logout,
		cookies:        cookies,
	}
}

// RegisterRoutes регистрирует маршруты /auth.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.ReissueAccess)
		auth.POST("/refresh/rotate", h.ReissueRefresh)
		auth.POST("/verify", h.Verify)
		auth.POST("/logout", h.Logout)
	}
}

// ============================================
// HTTP Handlers
// ============================================

// Register создаёт пользователя.
//
// POST /api/v1/auth/register {username, email, password, first_name, last_name}
func (h *AuthHandler) Register(c *gin.Context) {
	in, ok := jsonInput(c)
	if !ok {
		return
	}
	cmd, err := converters.Register(in)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	user, err := h.register.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	middleware.RecordBusinessEvent(middleware.EventUserRegistered)
	c.JSON(http.StatusCreated, user)
}

// Login выдаёт access и refresh токены.
//
// POST /api/v1/auth/login {email, password}
func (h *AuthHandler) Login(c *gin.Context) {
	in, ok := jsonInput(c)
	if !ok {
		return
	}
	cmd, err := converters.Login(in)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	pair, err := h.login.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	jar := common.NewCookieJar(c, h.cookies)
	jar.SetCookie(common.AccessTokenCookie, pair.AccessToken, pair.AccessExpiresAt)
	jar.SetCookie(common.RefreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresAt)

	c.JSON(http.StatusOK, pair)
}

// ReissueAccess выдаёт новый access токен по refresh токену.
//
// POST /api/v1/auth/refresh (cookie refresh_token или {"refresh_token": ...})
func (h *AuthHandler) ReissueAccess(c *gin.Context) {
	h.reissue(c, h.reissueAccess, common.AccessTokenCookie)
}

// ReissueRefresh выдаёт новый refresh токен, старый отзывается.
//
// POST /api/v1/auth/refresh/rotate
func (h *AuthHandler) ReissueRefresh(c *gin.Context) {
	h.reissue(c, h.reissueRefresh, common.RefreshTokenCookie)
}

func (h *AuthHandler) reissue(c *gin.Context, uc ReissueUseCase, cookie string) {
	refresh, ok := tokenFrom(c, common.RefreshTokenCookie, "refresh_token")
	if !ok {
		return
	}

	token, err := uc.Execute(c.Request.Context(), refresh)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	common.NewCookieJar(c, h.cookies).SetCookie(cookie, token.Token, token.ExpiresAt)
	c.JSON(http.StatusOK, token)
}

// Verify проверяет access токен.
//
// POST /api/v1/auth/verify (cookie access_token или {"token": ...})
func (h *AuthHandler) Verify(c *gin.Context) {
	token, ok := tokenFrom(c, common.AccessTokenCookie, "token")
	if !ok {
		return
	}

	claims, err := h.verify.Execute(c.Request.Context(), token)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, claims)
}

// Logout отзывает refresh токен и удаляет оба cookie.
//
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	refresh, ok := tokenFrom(c, common.RefreshTokenCookie, "refresh_token")
	if !ok {
		return
	}

	if err := h.logout.Execute(c.Request.Context(), refresh); err != nil {
		common.HandleDomainError(c, err)
		return
	}

	jar := common.NewCookieJar(c, h.cookies)
	jar.DeleteCookie(common.AccessTokenCookie)
	jar.DeleteCookie(common.RefreshTokenCookie)
	c.Status(http.StatusNoContent)
}

// tokenFrom берёт токен из cookie, иначе из поля JSON тела. Пустая строка допустима:
// use case сам решает, что делать с отсутствующим токеном.
func tokenFrom(c *gin.Context, cookie, field string) (string, bool) {
	if v, err := c.Cookie(cookie); err == nil && v != "" {
		return v, true
	}
	if c.Request.ContentLength == 0 {
		return "", true
	}
	in, ok := jsonInput(c)
	if !ok {
		return "", false
	}
	return in.Fields[field], true
}
