package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Haleralex/fundhub/internal/adapters/http/common"
	"github.com/Haleralex/fundhub/internal/application/dtos"
)

// CatalogUseCase - справочники: категории, модели финансирования, страны.
type CatalogUseCase interface {
	Categories(ctx context.Context) ([]dtos.CategoryDTO, error)
	FundingModels(ctx context.Context) ([]dtos.FundingModelDTO, error)
	Countries(ctx context.Context) ([]dtos.CountryDTO, error)
}

// CatalogHandler отдаёт справочники. Маршруты публичные.
type CatalogHandler struct {
	catalog CatalogUseCase
}

// NewCatalogHandler создаёт CatalogHandler.
func NewCatalogHandler(catalog CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes регистрирует маршруты /catalog.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("/categories", h.Categories)
		catalog.GET("/funding-models", h.FundingModels)
		catalog.GET("/countries", h.Countries)
	}
}

// Categories - GET /api/v1/catalog/categories
func (h *CatalogHandler) Categories(c *gin.Context) {
	respondList(c, h.catalog.Categories)
}

// FundingModels - GET /api/v1/catalog/funding-models
func (h *CatalogHandler) FundingModels(c *gin.Context) {
	respondList(c, h.catalog.FundingModels)
}

// Countries - GET /api/v1/catalog/countries
func (h *CatalogHandler) Countries(c *gin.Context) {
	respondList(c, h.catalog.Countries)
}

func respondList[T any](c *gin.Context, load func(context.Context) ([]T, error)) {
	items, err := load(c.Request.Context())
	if err != nil {
		common.HandleDomainError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}
