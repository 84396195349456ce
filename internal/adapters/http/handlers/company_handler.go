package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/adapters/http/common"
	"github.com/Haleralex/fundhub/internal/adapters/http/middleware"
	"github.com/Haleralex/fundhub/internal/application/converters"
	"github.com/Haleralex/fundhub/internal/application/dtos"
)

// CreateCompanyUseCase - регистрация компании с основателем.
type CreateCompanyUseCase interface {
	Execute(ctx context.Context, draft dtos.CompanyCreateDraft) (*dtos.CompanyDTO, error)
}

// GetCompanyUseCase - компания по ID.
type GetCompanyUseCase interface {
	Execute(ctx context.Context, id uuid.UUID) (*dtos.CompanyDTO, error)
}

// maxCompanyFormSize - у компании нет файлов, только текстовые поля.
const maxCompanyFormSize = 1 << 20

// CompanyHandler обрабатывает HTTP запросы для компаний.
type CompanyHandler struct {
	create CreateCompanyUseCase
	get    GetCompanyUseCase
}

// NewCompanyHandler создаёт CompanyHandler.
func NewCompanyHandler(create CreateCompanyUseCase, get GetCompanyUseCase) *CompanyHandler {
	return &CompanyHandler{create: create, get: get}
}

// RegisterRoutes регистрирует маршруты /companies.
func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	companies := rg.Group("/companies")
	{
		companies.POST("", auth, h.CreateCompany)
		companies.GET("/:id", h.GetCompany)
	}
}

// CreateCompany регистрирует компанию, представитель - текущий пользователь.
//
// POST /api/v1/companies
//
//	company  {name, country_code, business_number, established_date, description}
//	founder  {first_name, last_name}
//
// Принимает JSON или multipart/form-data с теми же полями.
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var (
		in converters.Input
		ok bool
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		in, ok = multipartInput(c, maxCompanyFormSize)
	} else {
		in, ok = jsonInput(c)
	}
	if !ok {
		return
	}

	draft, err := converters.CompanyCreate(in, middleware.GetAuthUserID(c))
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	company, err := h.create.Execute(c.Request.Context(), draft)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}

	middleware.RecordBusinessEvent(middleware.EventCompanyCreated)
	c.JSON(http.StatusCreated, company)
}

// GetCompany возвращает компанию.
//
// GET /api/v1/companies/:id
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, ok := bindID(c)
	if !ok {
		return
	}

	company, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}
