package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// CompanyService - правила регистрации компаний.
type CompanyService struct {
	companies ports.CompanyRepository
	users     ports.UserRepository
	catalog   ports.CatalogRepository
}

// NewCompanyService создаёт CompanyService.
func NewCompanyService(companies ports.CompanyRepository, users ports.UserRepository, catalog ports.CatalogRepository) *CompanyService {
	return &CompanyService{companies: companies, users: users, catalog: catalog}
}

// ResolveCountry находит страну в справочнике. Отсутствие -> ErrCountryNotFound.
func (s *CompanyService) ResolveCountry(ctx context.Context, code valueobjects.CountryCode) (*entities.Country, error) {
	return s.catalog.FindCountry(ctx, code.Code())
}

// Create сохраняет компанию. Представитель должен существовать.
func (s *CompanyService) Create(ctx context.Context, payload dtos.CompanyCreatePayload) (*entities.Company, error) {
	if _, err := s.users.FindByID(ctx, payload.RepresentativeID); err != nil {
		return nil, err
	}

	company := entities.NewCompany(
		payload.Name,
		payload.RepresentativeID,
		payload.BusinessNumber,
		payload.EstablishedDate,
		payload.Description,
		entities.NewFounder(payload.FounderFirstName, payload.FounderLastName),
	)
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Get загружает компанию.
func (s *CompanyService) Get(ctx context.Context, id uuid.UUID) (*entities.Company, error) {
	return s.companies.FindByID(ctx, id)
}

// ListByRepresentative возвращает компании пользователя.
func (s *CompanyService) ListByRepresentative(ctx context.Context, userID uuid.UUID) ([]*entities.Company, error) {
	return s.companies.ListByRepresentative(ctx, userID)
}
