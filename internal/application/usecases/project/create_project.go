// Package project содержит use cases для работы с проектами.
//
// Pattern: Use Case (Interactor)
// - Оркестрирует доменные сервисы внутри одной транзакции
// - Публикует события через outbox
// - Бизнес-ошибки не перехватываются и уходят на HTTP-границу как есть
package project

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/application/services"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	"github.com/Haleralex/fundhub/internal/domain/events"
)

// CreateProjectUseCase - создание проекта вместе с командой, телефоном и соцсетями.
//
// Сценарий (одна транзакция):
// 1. ProjectService.Create: проверки ссылок и владельца, INSERT, загрузка плана
// 2. Участники команды в порядке из запроса
// 3. Телефон проекта
// 4. Ссылки на соцсети
// 5. Событие ProjectCreated в outbox
//
// Любая ошибка откатывает все строки. Загруженный план удаляется после отката.
type CreateProjectUseCase struct {
	projects       *services.ProjectService
	members        ports.TeamMemberRepository
	phones         ports.ProjectPhoneRepository
	links          ports.ProjectSocialLinkRepository
	storage        ports.FileStorage
	eventPublisher ports.EventPublisher
	uow            ports.UnitOfWork
	logger         *slog.Logger
}

// NewCreateProjectUseCase создаёт use case.
func NewCreateProjectUseCase(
	projects *services.ProjectService,
	members ports.TeamMemberRepository,
	phones ports.ProjectPhoneRepository,
	links ports.ProjectSocialLinkRepository,
	storage ports.FileStorage,
	eventPublisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *CreateProjectUseCase {
	return &CreateProjectUseCase{
		projects:       projects,
		members:        members,
		phones:         phones,
		links:          links,
		storage:        storage,
		eventPublisher: eventPublisher,
		uow:            uow,
		logger:         logger,
	}
}

// Execute выполняет use case.
func (uc *CreateProjectUseCase) Execute(ctx context.Context, cmd dtos.ProjectCreateCommand) (*dtos.ProjectCreatedDTO, error) {
	var (
		created *entities.Project
		// Планы всех попыток: UnitOfWork может перезапустить функцию после deadlock,
		// и каждая попытка загружает план под новым id.
		plans []string
	)

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		created = nil

		// 1. Проект (проверки, INSERT, план)
		project, err := uc.projects.Create(txCtx, cmd)
		if project != nil {
			plans = append(plans, entities.PlanPath(project.ID()))
		}
		if err != nil {
			return err
		}
		created = project

		// 2. Команда
		for i, m := range cmd.TeamMembers {
			member := entities.NewTeamMember(project.ID(), m.FirstName, m.LastName, m.Description, i)
			if err := uc.members.Create(txCtx, member); err != nil {
				return err
			}
		}

		// 3. Телефон
		if err := uc.phones.Create(txCtx, entities.NewProjectPhone(project.ID(), cmd.Phone)); err != nil {
			return err
		}

		// 4. Соцсети
		for _, link := range cmd.SocialLinks {
			if err := uc.links.Create(txCtx, entities.NewProjectSocialLink(project.ID(), link)); err != nil {
				return err
			}
		}

		// 5. Событие
		event := events.NewProjectCreated(
			project.ID(),
			project.CreatorID(),
			project.CompanyID(),
			project.Name(),
			project.GoalSum().String(),
			project.Deadline().String(),
			len(cmd.TeamMembers),
			len(cmd.SocialLinks),
		)
		if err := uc.eventPublisher.Publish(txCtx, event); err != nil {
			return fmt.Errorf("failed to publish ProjectCreated event: %w", err)
		}
		return nil
	})

	keep := ""
	if err == nil {
		keep = entities.PlanPath(created.ID())
	}
	for _, path := range plans {
		if path != keep {
			uc.removePlan(ctx, path)
		}
	}
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "project created",
		slog.String("project_id", created.ID().String()),
		slog.String("creator_id", created.CreatorID().String()),
		slog.String("company_id", created.CompanyID().String()),
	)

	return &dtos.ProjectCreatedDTO{ProjectID: created.ID().String()}, nil
}

// removePlan удаляет осиротевший план. Ошибка только логируется.
// Удаление не зависит от отмены запроса: клиент мог уже отключиться.
func (uc *CreateProjectUseCase) removePlan(ctx context.Context, path string) {
	if err := uc.storage.Delete(context.WithoutCancel(ctx), path); err != nil {
		uc.logger.ErrorContext(ctx, "failed to remove orphaned plan",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}
