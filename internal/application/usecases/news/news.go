// Package news содержит use cases новостей.
// Создание, изменение и удаление требуют прав роли, чтение публичное.
package news

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/application/services"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	"github.com/Haleralex/fundhub/internal/domain/events"
)

// ============================================
// Create
// ============================================

// CreateNewsUseCase - публикация новости.
//
// Сценарий:
// 1. Проверить право add.news.news
// 2. Если указан проект - он должен существовать
// 3. Сохранить новость
// 4. Опубликовать NewsPublished
type CreateNewsUseCase struct {
	news           ports.NewsRepository
	projects       ports.ProjectRepository
	permissions    *services.PermissionService
	eventPublisher ports.EventPublisher
	uow            ports.UnitOfWork
	logger         *slog.Logger
}

// NewCreateNewsUseCase создаёт use case.
func NewCreateNewsUseCase(
	news ports.NewsRepository,
	projects ports.ProjectRepository,
	permissions *services.PermissionService,
	eventPublisher ports.EventPublisher,
	uow ports.UnitOfWork,
	logger *slog.Logger,
) *CreateNewsUseCase {
	return &CreateNewsUseCase{
		news:           news,
		projects:       projects,
		permissions:    permissions,
		eventPublisher: eventPublisher,
		uow:            uow,
		logger:         logger,
	}
}

// Execute выполняет use case.
func (uc *CreateNewsUseCase) Execute(ctx context.Context, cmd dtos.NewsCreateCommand) (*dtos.NewsDTO, error) {
	var result *dtos.NewsDTO

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		// 1. Право
		if _, err := uc.permissions.Require(txCtx, cmd.AuthorID, services.PermAddNews); err != nil {
			return err
		}

		// 2. Проект
		if err := requireProject(txCtx, uc.projects, cmd.ProjectID); err != nil {
			return err
		}

		// 3. Новость
		item := entities.NewNews(cmd.Title, cmd.Content, cmd.AuthorID, cmd.ProjectID)
		if err := uc.news.Create(txCtx, item); err != nil {
			return fmt.Errorf("failed to save news: %w", err)
		}

		// 4. Событие
		event := events.NewNewsPublished(item.ID(), item.AuthorID(), item.Title(), item.ProjectID())
		if err := uc.eventPublisher.Publish(txCtx, event); err != nil {
			return fmt.Errorf("failed to publish NewsPublished event: %w", err)
		}

		dto := dtos.ToNewsDTO(item)
		result = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.InfoContext(ctx, "news published", slog.String("news_id", result.ID))
	return result, nil
}

// ============================================
// Update
// ============================================

// UpdateNewsUseCase - частичное изменение новости (право change.news.news).
type UpdateNewsUseCase struct {
	news        ports.NewsRepository
	projects    ports.ProjectRepository
	permissions *services.PermissionService
	uow         ports.UnitOfWork
}

// NewUpdateNewsUseCase создаёт use case.
func NewUpdateNewsUseCase(
	news ports.NewsRepository,
	projects ports.ProjectRepository,
	permissions *services.PermissionService,
	uow ports.UnitOfWork,
) *UpdateNewsUseCase {
	return &UpdateNewsUseCase{news: news, projects: projects, permissions: permissions, uow: uow}
}

// Execute применяет переданные поля. ProjectID == nil оставляет связь как есть.
func (uc *UpdateNewsUseCase) Execute(ctx context.Context, cmd dtos.NewsUpdateCommand) (*dtos.NewsDTO, error) {
	var result *dtos.NewsDTO

	err := uc.uow.Execute(ctx, func(txCtx context.Context) error {
		if _, err := uc.permissions.Require(txCtx, cmd.UserID, services.PermChangeNews); err != nil {
			return err
		}

		item, err := uc.news.FindByID(txCtx, cmd.NewsID)
		if err != nil {
			return err
		}

		if cmd.Title != nil {
			item.ChangeTitle(*cmd.Title)
		}
		if cmd.Content != nil {
			item.ChangeContent(*cmd.Content)
		}
		if cmd.ProjectID != nil {
			if err := requireProject(txCtx, uc.projects, cmd.ProjectID); err != nil {
				return err
			}
			item.LinkProject(cmd.ProjectID)
		}

		if err := uc.news.Update(txCtx, item); err != nil {
			return fmt.Errorf("failed to update news: %w", err)
		}

		dto := dtos.ToNewsDTO(item)
		result = &dto
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ============================================
// Delete
// ============================================

// DeleteNewsUseCase - удаление новости (право delete.news.news).
type DeleteNewsUseCase struct {
	news        ports.NewsRepository
	permissions *services.PermissionService
	uow         ports.UnitOfWork
}

// NewDeleteNewsUseCase создаёт use case.
func NewDeleteNewsUseCase(news ports.NewsRepository, permissions *services.PermissionService, uow ports.UnitOfWork) *DeleteNewsUseCase {
	return &DeleteNewsUseCase{news: news, permissions: permissions, uow: uow}
}

// Execute удаляет новость.
func (uc *DeleteNewsUseCase) Execute(ctx context.Context, newsID, userID uuid.UUID) error {
	return uc.uow.Execute(ctx, func(txCtx context.Context) error {
		if _, err := uc.permissions.Require(txCtx, userID, services.PermDeleteNews); err != nil {
			return err
		}
		return uc.news.Delete(txCtx, newsID)
	})
}

// ============================================
// Read
// ============================================

// GetNewsUseCase - новость по id.
type GetNewsUseCase struct {
	news ports.NewsRepository
}

// NewGetNewsUseCase создаёт use case.
func NewGetNewsUseCase(news ports.NewsRepository) *GetNewsUseCase {
	return &GetNewsUseCase{news: news}
}

// Execute возвращает новость или ErrNewsNotFound.
func (uc *GetNewsUseCase) Execute(ctx context.Context, id uuid.UUID) (*dtos.NewsDTO, error) {
	item, err := uc.news.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := dtos.ToNewsDTO(item)
	return &dto, nil
}

// ListNewsUseCase - лента новостей, новые первыми.
type ListNewsUseCase struct {
	news ports.NewsRepository
}

// NewListNewsUseCase создаёт use case.
func NewListNewsUseCase(news ports.NewsRepository) *ListNewsUseCase {
	return &ListNewsUseCase{news: news}
}

// Execute возвращает страницу новостей.
func (uc *ListNewsUseCase) Execute(ctx context.Context, q dtos.ListNewsQuery) (*dtos.NewsListDTO, error) {
	offset, limit := dtos.NormalizePage(q.Offset, q.Limit)

	items, total, err := uc.news.List(ctx, ports.NewsFilter{ProjectID: q.ProjectID}, offset, limit)
	if err != nil {
		return nil, err
	}
	return &dtos.NewsListDTO{
		News:       dtos.ToNewsDTOList(items),
		TotalCount: total,
		Offset:     offset,
		Limit:      limit,
	}, nil
}

func requireProject(ctx context.Context, projects ports.ProjectRepository, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	_, err := projects.FindByID(ctx, *id)
	return err
}
