// Package catalog отдаёт справочники: категории, модели финансирования, страны.
package catalog

import (
	"context"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
)

// ListCatalogUseCase - публичные справочники.
type ListCatalogUseCase struct {
	catalog ports.CatalogRepository
}

// NewListCatalogUseCase создаёт use case.
func NewListCatalogUseCase(catalog ports.CatalogRepository) *ListCatalogUseCase {
	return &ListCatalogUseCase{catalog: catalog}
}

func (uc *ListCatalogUseCase) Categories(ctx context.Context) ([]dtos.CategoryDTO, error) {
	items, err := uc.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return dtos.ToCategoryDTOList(items), nil
}

func (uc *ListCatalogUseCase) FundingModels(ctx context.Context) ([]dtos.FundingModelDTO, error) {
	items, err := uc.catalog.ListFundingModels(ctx)
	if err != nil {
		return nil, err
	}
	return dtos.ToFundingModelDTOList(items), nil
}

func (uc *ListCatalogUseCase) Countries(ctx context.Context) ([]dtos.CountryDTO, error) {
	items, err := uc.catalog.ListCountries(ctx)
	if err != nil {
		return nil, err
	}
	return dtos.ToCountryDTOList(items), nil
}
