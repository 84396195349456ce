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

// CreateNewsUseCase - публикация новости.
type CreateNewsUseCase interface {
	Execute(ctx context.Context, cmd dtos.NewsCreateCommand) (*dtos.NewsDTO, error)
}

// UpdateNewsUseCase - частичное обновление новости.
type UpdateNewsUseCase interface {
	Execute(ctx context.Context, cmd dtos.NewsUpdateCommand) (*dtos.NewsDTO, error)
}

// DeleteNewsUseCase - удаление новости.
type DeleteNewsUseCase interface {
	Execute(ctx context.Context, newsID, userID uuid.UUID) error
}

// GetNewsUseCase - новость по ID.
type GetNewsUseCase interface {
	Execute(ctx context.Context, id uuid.UUID) (*dtos.NewsDTO, error)
}

// ListNewsUseCase - лента новостей.
type ListNewsUseCase interface {
	Execute(ctx context.Context, q dtos.ListNewsQuery) (*dtos.NewsListDTO, error)
}

// NewsHandler обрабатывает HTTP запросы для новостей.
type NewsHandler struct {
	create CreateNewsUseCase
	update UpdateNewsUseCase
	delete DeleteNewsUseCase
	get    GetNewsUseCase
	list   ListNewsUseCase
}

// NewNewsHandler создаёт NewsHandler.
func NewNewsHandler(
	create CreateNewsUseCase,
	update UpdateNewsUseCase,
	del DeleteNewsUseCase,
	get GetNewsUseCase,
	list ListNewsUseCase,
) *NewsHandler {
	return &NewsHandler{create: create, update: update, delete: del, get: get, list: list}
}

// RegisterRoutes регистрирует маршруты /news.
func (h *NewsHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	news := rg.Group("/news")
	{
		news.GET("", h.ListNews)
		news.GET("/:id", h.GetNews)
		news.POST("", auth, h.CreateNews)
		news.PATCH("/:id", auth, h.UpdateNews)
		news.DELETE("/:id", auth, h.DeleteNews)
	}
}

// ListNewsRequest - фильтр ленты.
type ListNewsRequest struct {
	PaginationParams
	ProjectID *string `form:"project_id" binding:"omitempty,uuid"`
}

// CreateNews публикует новость.
//
// POST /api/v1/news {title, content, project_id?}
func (h *NewsHandler) CreateNews(c *gin.Context) {
	in, ok := jsonInput(c)
	if !ok {
		return
	}

	cmd, err := converters.NewsCreate(in, middleware.GetAuthUserID(c))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	news, err := h.create.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	middleware.RecordBusinessEvent(middleware.EventNewsPublished)
	c.JSON(http.StatusCreated, news)
}

// UpdateNews обновляет новость.
//
// PATCH /api/v1/news/:id {title?, content?, project_id?}
func (h *NewsHandler) UpdateNews(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}
	in, ok := jsonInput(c)
	if !ok {
		return
	}

	cmd, err := converters.NewsUpdate(in, id, middleware.GetAuthUserID(c))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	news, err := h.update.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, news)
}

// DeleteNews удаляет новость.
//
// DELETE /api/v1/news/:id
func (h *NewsHandler) DeleteNews(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), id, middleware.GetAuthUserID(c)); err != nil {
		common.HandleDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetNews возвращает новость.
//
// GET /api/v1/news/:id
func (h *NewsHandler) GetNews(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	news, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, news)
}

// ListNews возвращает ленту, опционально по одному проекту.
//
// GET /api/v1/news?project_id=&offset=&limit=
func (h *NewsHandler) ListNews(c *gin.Context) {
	var req ListNewsRequest
	if !BindQuery(c, &req) {
		return
	}

	q := dtos.ListNewsQuery{}
	q.Offset, q.Limit = req.Normalize()
	if req.ProjectID != nil {
		id := uuid.MustParse(*req.ProjectID)
		q.ProjectID = &id
	}

	list, err := h.list.Execute(c.Request.Context(), q)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
