// Package company содержит use cases для работы с компаниями.
package company

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Haleralex/fundhub/internal/application/converters"
	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/application/services"
	"github.com/Haleralex/fundhub/internal/domain/events"
)

// CreateCompanyUseCase - регистрация компании представителем.
//
// Сценарий:
// 1. Найти страну в справочнике (ErrCountryNotFound)
// 2. Проверить business number по правилам страны
// 3. Сохранить компанию
// 4. Опубликовать CompanyCreated
type CreateCompanyUseCase struct {
	companies      *services.CompanyService
	eventPublisher ports.EventPublisher
	uow            ports.UnitOfWork
	logger         *slog.Logger
}

// NewCreateCompanyUseCase создаёт use case.
func NewCreateCompanyUseCase(
	companies *services.CompanyService,
	eventPublisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *CreateCompanyUseCase {
	return &CreateCompanyUseCase{
		companies:      companies,
		eventPublisher: eventPublisher,
		uow:            uow,
		logger:         logger,
	}
}

// Execute выполняет use case.
func (uc *CreateCompanyUseCase) Execute(ctx context.Context, draft dtos.CompanyCreateDraft) (*dtos.CompanyDTO, error) {
	var result *dtos.CompanyDTO

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		// 1. Страна
		country, err := uc.companies.ResolveCountry(txCtx, draft.CountryCode)
		if err != nil {
			return err
		}

		// 2. Business number
		payload, err := converters.CompanyPayload(draft)
		if err != nil {
			return err
		}

		// 3. Компания
		company, err := uc.companies.Create(txCtx, payload)
		if err != nil {
			return err
		}

		// 4. Событие
		event := events.NewCompanyCreated(company.ID(), company.RepresentativeID(), company.Name(), country.Code)
		if err := uc.eventPublisher.Publish(txCtx, event); err != nil {
			return fmt.Errorf("failed to publish CompanyCreated event: %w", err)
		}

		dto := dtos.ToCompanyDTO(company)
		result = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "company created",
		slog.String("company_id", result.ID),
		slog.String("country_code", result.CountryCode),
	)
	return result, nil
}
