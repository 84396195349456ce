package company

import (
	"context"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/services"
)

// GetCompanyUseCase - компания по id.
type GetCompanyUseCase struct {
	companies *services.CompanyService
}

// NewGetCompanyUseCase создаёт use case.
func NewGetCompanyUseCase(companies *services.CompanyService) *GetCompanyUseCase {
	return &GetCompanyUseCase{companies: companies}
}

// Execute возвращает компанию или ErrCompanyNotFound.
func (uc *GetCompanyUseCase) Execute(ctx context.Context, id uuid.UUID) (*dtos.CompanyDTO, error) {
	company, err := uc.companies.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := dtos.ToCompanyDTO(company)
	return &dto, nil
}

// ListMyCompaniesUseCase - компании текущего пользователя.
type ListMyCompaniesUseCase struct {
	companies *services.CompanyService
}

// NewListMyCompaniesUseCase создаёт use case.
func NewListMyCompaniesUseCase(companies *services.CompanyService) *ListMyCompaniesUseCase {
	return &ListMyCompaniesUseCase{companies: companies}
}

// Execute возвращает компании, где userID - представитель.
func (uc *ListMyCompaniesUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]dtos.CompanyDTO, error) {
	companies, err := uc.companies.ListByRepresentative(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dtos.ToCompanyDTOList(companies), nil
}
