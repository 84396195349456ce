package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/fundhub/internal/application/dtos"
)

type MockCatalogUseCase struct {
	CategoriesFunc    func(ctx context.Context) ([]dtos.CategoryDTO, error)
	FundingModelsFunc func(ctx context.Context) ([]dtos.FundingModelDTO, error)
	CountriesFunc     func(ctx context.Context) ([]dtos.CountryDTO, error)
}

func (m *MockCatalogUseCase) Categories(ctx context.Context) ([]dtos.CategoryDTO, error) {
	return m.CategoriesFunc(ctx)
}

func (m *MockCatalogUseCase) FundingModels(ctx context.Context) ([]dtos.FundingModelDTO, error) {
	return m.FundingModelsFunc(ctx)
}

func (m *MockCatalogUseCase) Countries(ctx context.Context) ([]dtos.CountryDTO, error) {
	return m.CountriesFunc(ctx)
}

func TestCatalogHandler(t *testing.T) {
	mock := &MockCatalogUseCase{
		CategoriesFunc: func(context.Context) ([]dtos.CategoryDTO, error) {
			return []dtos.CategoryDTO{{ID: 1, Name: "Energy", Slug: "energy"}}, nil
		},
		FundingModelsFunc: func(context.Context) ([]dtos.FundingModelDTO, error) {
			return nil, nil
		},
		CountriesFunc: func(context.Context) ([]dtos.CountryDTO, error) {
			return nil, errors.New("relation \"countries\" does not exist")
		},
	}
	router := newTestRouter()
	NewCatalogHandler(mock).RegisterRoutes(router.Group("/api/v1"))

	t.Run("Categories", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/catalog/categories", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":1,"name":"Energy","slug":"energy"}]`, w.Body.String())
	})

	t.Run("EmptyFundingModels", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/catalog/funding-models", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("StorageErrorIsOpaque", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/catalog/countries", "")

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "relation")
	})
}
