package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/adapters/http/common"
	"github.com/Haleralex/fundhub/internal/adapters/http/middleware"
	"github.com/Haleralex/fundhub/internal/application/converters"
	"github.com/Haleralex/fundhub/internal/application/dtos"
)

// ============================================
// Use Case Interfaces
// ============================================

// GetProfileUseCase - профиль текущего пользователя.
type GetProfileUseCase interface {
	Execute(ctx context.Context, userID uuid.UUID) (*dtos.UserDTO, error)
}

// UpdateProfileUseCase - обновление профиля.
type UpdateProfileUseCase interface {
	Execute(ctx context.Context, cmd dtos.ProfileUpdateCommand) (*dtos.UserDTO, error)
}

// FavoritesUseCase - избранные проекты.
type FavoritesUseCase interface {
	Add(ctx context.Context, userID, projectID uuid.UUID) error
	Remove(ctx context.Context, userID, projectID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]dtos.ProjectDTO, error)
}

// ListMyCompaniesUseCase - компании, где пользователь представитель.
type ListMyCompaniesUseCase interface {
	Execute(ctx context.Context, userID uuid.UUID) ([]dtos.CompanyDTO, error)
}

// ============================================
// User Handler
// ============================================

// UserHandler обслуживает /users/me. Все маршруты требуют auth.
type UserHandler struct {
	getProfile    GetProfileUseCase
	updateProfile UpdateProfileUseCase
	favorites     FavoritesUseCase
	companies     ListMyCompaniesUseCase
}

// NewUserHandler создаёт UserHandler.
func NewUserHandler(
	getProfile GetProfileUseCase,
	updateProfile UpdateProfileUseCase,
	favorites FavoritesUseCase,
	companies ListMyCompaniesUseCase,
) *UserHandler {
	return &UserHandler{
		getProfile:    getProfile,
		updateProfile: updateProfile,
		favorites:     favorites,
		companies:     companies,
	}
}

// RegisterRoutes регистрирует маршруты /users/me.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	me := rg.Group("/users/me", auth)
	{
		me.GET("", h.GetProfile)
		me.PATCH("", h.UpdateProfile)
		me.GET("/favorites", h.ListFavorites)
		me.POST("/favorites/:id", h.AddFavorite)
		me.DELETE("/favorites/:id", h.RemoveFavorite)
		me.GET("/companies", h.ListCompanies)
	}
}

// ============================================
// HTTP Handlers
// ============================================

// GetProfile возвращает профиль.
//
// GET /api/v1/users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.getProfile.Execute(c.Request.Context(), middleware.GetAuthUserID(c))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile обновляет имя, фамилию, about и телефон.
//
// PATCH /api/v1/users/me {first_name?, last_name?, about?, phone?}
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	in, ok := jsonInput(c)
	if !ok {
		return
	}

	cmd, err := converters.ProfileUpdate(in, middleware.GetAuthUserID(c))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	user, err := h.updateProfile.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListFavorites возвращает избранные проекты.
//
// GET /api/v1/users/me/favorites
func (h *UserHandler) ListFavorites(c *gin.Context) {
	projects, err := h.favorites.List(c.Request.Context(), middleware.GetAuthUserID(c))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	if projects == nil {
		projects = []dtos.ProjectDTO{}
	}
	c.JSON(http.StatusOK, projects)
}

// AddFavorite добавляет проект в избранное. Повторное добавление не ошибка.
//
// POST /api/v1/users/me/favorites/:id
func (h *UserHandler) AddFavorite(c *gin.Context) {
	projectID, ok := bindID(c)
	if !ok {
		return
	}
	if err := h.favorites.Add(c.Request.Context(), middleware.GetAuthUserID(c), projectID); err != nil {
		common.HandleDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveFavorite убирает проект из избранного.
//
// DELETE /api/v1/users/me/favorites/:id
func (h *UserHandler) RemoveFavorite(c *gin.Context) {
	projectID, ok := bindID(c)
	if !ok {
		return
	}
	if err := h.favorites.Remove(c.Request.Context(), middleware.GetAuthUserID(c), projectID); err != nil {
		common.HandleDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCompanies возвращает компании пользователя.
//
// GET /api/v1/users/me/companies
func (h *UserHandler) ListCompanies(c *gin.Context) {
	companies, err := h.companies.Execute(c.Request.Context(), middleware.GetAuthUserID(c))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	if companies == nil {
		companies = []dtos.CompanyDTO{}
	}
	c.JSON(http.StatusOK, companies)
}
