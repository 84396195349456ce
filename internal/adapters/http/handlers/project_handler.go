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
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// ============================================
// Use Case Interfaces
// ============================================

// CreateProjectUseCase - создание проекта с командой, телефоном, соцсетями и планом.
type CreateProjectUseCase interface {
	Execute(ctx context.Context, cmd dtos.ProjectCreateCommand) (*dtos.ProjectCreatedDTO, error)
}

// UpdateProjectUseCase - частичное обновление проекта владельцем.
type UpdateProjectUseCase interface {
	Execute(ctx context.Context, cmd dtos.ProjectUpdateCommand) (*dtos.ProjectDTO, error)
}

// DeleteProjectUseCase - удаление проекта владельцем.
type DeleteProjectUseCase interface {
	Execute(ctx context.Context, projectID, userID uuid.UUID) error
}

// GetProjectUseCase - детали проекта.
type GetProjectUseCase interface {
	Execute(ctx context.Context, projectID uuid.UUID) (*dtos.ProjectDetailDTO, error)
}

// ListProjectsUseCase - список проектов с фильтрами.
type ListProjectsUseCase interface {
	Execute(ctx context.Context, q dtos.ListProjectsQuery) (*dtos.ProjectListDTO, error)
}

// maxProjectRequestSize - план плюс запас на текстовые поля формы.
const maxProjectRequestSize = valueobjects.MaxPlanFileSize + 1<<20

// ============================================
// Project Handler
// ============================================

// ProjectHandler обрабатывает HTTP запросы для проектов.
type ProjectHandler struct {
	create CreateProjectUseCase
	update UpdateProjectUseCase
	delete DeleteProjectUseCase
	get    GetProjectUseCase
	list   ListProjectsUseCase
}

// NewProjectHandler создаёт ProjectHandler.
func NewProjectHandler(
	create CreateProjectUseCase,
	update UpdateProjectUseCase,
	del DeleteProjectUseCase,
	get GetProjectUseCase,
	list ListProjectsUseCase,
) *ProjectHandler {
	return &ProjectHandler{create: create, update: update, delete: del, get: get, list: list}
}

// RegisterRoutes: чтение публичное, изменения требуют auth.
func (h *ProjectHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	projects := rg.Group("/projects")
	{
		projects.GET("", h.ListProjects)
		projects.GET("/:id", h.GetProject)
		projects.POST("", auth, h.CreateProject)
		projects.PATCH("/:id", auth, h.UpdateProject)
		projects.DELETE("/:id", auth, h.DeleteProject)
	}
}

// ListProjectsRequest - фильтры списка проектов.
type ListProjectsRequest struct {
	PaginationParams
	CategoryID *int64  `form:"category_id" binding:"omitempty,min=1"`
	CreatorID  *string `form:"creator_id" binding:"omitempty,uuid"`
	CompanyID  *string `form:"company_id" binding:"omitempty,uuid"`
	IsActive   *bool   `form:"is_active"`
	Search     string  `form:"search" binding:"max=200"`
}

func (r ListProjectsRequest) toQuery() dtos.ListProjectsQuery {
	q := dtos.ListProjectsQuery{CategoryID: r.CategoryID, IsActive: r.IsActive, Search: r.Search}
	q.Offset, q.Limit = r.Normalize()
	if r.CreatorID != nil {
		id := uuid.MustParse(*r.CreatorID)
		q.CreatorID = &id
	}
	if r.CompanyID != nil {
		id := uuid.MustParse(*r.CompanyID)
		q.CompanyID = &id
	}
	return q
}

// ============================================
// HTTP Handlers
// ============================================

// CreateProject создаёт проект.
//
// POST /api/v1/projects (multipart/form-data)
//
//	project       JSON {name, description, category_id, funding_model_id, company_id, goal_sum, deadline}
//	team_members  JSON [{first_name, last_name, description}]
//	phone         E.164 или любой разбираемый формат
//	social_links  JSON [{platform, link}]
//	plan          PDF
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	in, ok := multipartInput(c, maxProjectRequestSize)
	if !ok {
		return
	}

	cmd, err := converters.ProjectCreate(in, middleware.GetAuthUserID(c))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	result, err := h.create.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	middleware.RecordBusinessEvent(middleware.EventProjectCreated)
	c.JSON(http.StatusCreated, result)
}

// UpdateProject частично обновляет проект.
//
// PATCH /api/v1/projects/:id {name?, description?, category_id?, funding_model_id?, goal_sum?, deadline?, is_active?}
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, ok := bindID(c)
	if !ok {
		return
	}
	in, ok := jsonInput(c)
	if !ok {
		return
	}

	cmd, err := converters.ProjectUpdate(in, projectID, middleware.GetAuthUserID(c))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	project, err := h.update.Execute(c.Request.Context(), cmd)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject удаляет проект.
//
// DELETE /api/v1/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, ok := bindID(c)
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), projectID, middleware.GetAuthUserID(c)); err != nil {
		common.HandleDomainError(c, err)
		return
	}

	middleware.RecordBusinessEvent(middleware.EventProjectDeleted)
	c.Status(http.StatusNoContent)
}

// GetProject возвращает проект с командой, контактами и ссылкой на план.
//
// GET /api/v1/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := bindID(c)
	if !ok {
		return
	}

	project, err := h.get.Execute(c.Request.Context(), projectID)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// ListProjects возвращает страницу проектов.
//
// GET /api/v1/projects?category_id=&creator_id=&company_id=&is_active=&search=&offset=&limit=
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var req ListProjectsRequest
	if !BindQuery(c, &req) {
		return
	}

	list, err := h.list.Execute(c.Request.Context(), req.toQuery())
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
