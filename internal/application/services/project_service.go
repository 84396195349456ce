// Package services содержит доменные сервисы: бизнес-правила одной сущности поверх репозиториев.
//
// Сервисы не управляют транзакциями. Их вызывают use cases внутри UnitOfWork,
// поэтому все переданные ctx могут содержать открытую транзакцию.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
)

// ErrStoragePathMismatch - хранилище вернуло путь плана, отличный от ожидаемого.
// Ошибка не имеет kind и отдаётся клиенту как 500.
var ErrStoragePathMismatch = errors.New("storage returned unexpected plan path")

// ProjectService - правила создания и изменения проектов.
type ProjectService struct {
	projects  ports.ProjectRepository
	users     ports.UserRepository
	companies ports.CompanyRepository
	catalog   ports.CatalogRepository
	storage   ports.FileStorage
}

// NewProjectService создаёт ProjectService.
func NewProjectService(
	projects ports.ProjectRepository,
	users ports.UserRepository,
	companies ports.CompanyRepository,
	catalog ports.CatalogRepository,
	storage ports.FileStorage,
) *ProjectService {
	return &ProjectService{
		projects:  projects,
		users:     users,
		companies: companies,
		catalog:   catalog,
		storage:   storage,
	}
}

// Create проверяет ссылки, сохраняет проект и загружает план.
//
// Шаги выполняются строго по порядку, первая ошибка прерывает создание:
//  1. категория существует
//  2. создатель существует
//  3. модель финансирования существует
//  4. компания существует
//  5. создатель - представитель компании
//  6. INSERT проекта
//  7. загрузка плана по PlanPath(project.ID) и сверка пути
//  8. UPDATE проекта с путём плана
//
// Если ошибка произошла после шага 6, возвращается и созданный проект,
// чтобы вызывающий мог удалить загруженный файл после отката транзакции.
func (s *ProjectService) Create(ctx context.Context, cmd dtos.ProjectCreateCommand) (*entities.Project, error) {
	// 1. Category
	if _, err := s.catalog.FindCategory(ctx, cmd.CategoryID); err != nil {
		return nil, err
	}

	// 2. Creator
	if _, err := s.users.FindByID(ctx, cmd.CreatorID); err != nil {
		return nil, err
	}

	// 3. Funding model
	if _, err := s.catalog.FindFundingModel(ctx, cmd.FundingModelID); err != nil {
		return nil, err
	}

	// 4. Company
	company, err := s.companies.FindByID(ctx, cmd.CompanyID)
	if err != nil {
		return nil, err
	}

	// 5. Ownership
	if !company.IsRepresentedBy(cmd.CreatorID) {
		return nil, domainerrors.ErrOwnershipRequired
	}

	// 6. Project row
	project := entities.NewProject(
		cmd.Name,
		cmd.Description,
		cmd.CategoryID,
		cmd.CreatorID,
		cmd.FundingModelID,
		cmd.CompanyID,
		cmd.GoalSum,
		cmd.Deadline,
	)
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	// 7. Plan upload
	expected := entities.PlanPath(project.ID())
	stored, err := s.storage.Upload(ctx, cmd.Plan.Content(), expected, cmd.Plan.ContentType())
	if err != nil {
		return project, fmt.Errorf("failed to upload plan: %w", err)
	}
	if stored != expected {
		return project, fmt.Errorf("%w: want %q, got %q", ErrStoragePathMismatch, expected, stored)
	}

	// 8. Plan reference
	project.AttachPlan(stored)
	if err := s.projects.Update(ctx, project); err != nil {
		return project, err
	}

	return project, nil
}

// Update применяет частичное обновление. Менять проект может только его создатель.
// Возвращает обновлённый проект и имена изменённых полей.
func (s *ProjectService) Update(ctx context.Context, cmd dtos.ProjectUpdateCommand) (*entities.Project, []string, error) {
	project, err := s.ownedProject(ctx, cmd.ProjectID, cmd.UserID)
	if err != nil {
		return nil, nil, err
	}

	var changed []string

	if cmd.CategoryID != nil && *cmd.CategoryID != project.CategoryID() {
		if _, err := s.catalog.FindCategory(ctx, *cmd.CategoryID); err != nil {
			return nil, nil, err
		}
		project.ChangeCategory(*cmd.CategoryID)
		changed = append(changed, "category_id")
	}
	if cmd.FundingModelID != nil && *cmd.FundingModelID != project.FundingModelID() {
		if _, err := s.catalog.FindFundingModel(ctx, *cmd.FundingModelID); err != nil {
			return nil, nil, err
		}
		project.ChangeFundingModel(*cmd.FundingModelID)
		changed = append(changed, "funding_model_id")
	}
	if cmd.Name != nil {
		project.Rename(*cmd.Name)
		changed = append(changed, "name")
	}
	if cmd.Description != nil {
		project.ChangeDescription(*cmd.Description)
		changed = append(changed, "description")
	}
	if cmd.GoalSum != nil {
		project.ChangeGoalSum(*cmd.GoalSum)
		changed = append(changed, "goal_sum")
	}
	if cmd.Deadline != nil {
		project.ChangeDeadline(*cmd.Deadline)
		changed = append(changed, "deadline")
	}
	if cmd.IsActive != nil {
		project.SetActive(*cmd.IsActive)
		changed = append(changed, "is_active")
	}

	if len(changed) == 0 {
		return project, nil, nil
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, nil, err
	}
	return project, changed, nil
}

// Delete удаляет проект владельца. Возвращает удалённый проект (нужен путь плана).
func (s *ProjectService) Delete(ctx context.Context, projectID, userID uuid.UUID) (*entities.Project, error) {
	project, err := s.ownedProject(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.projects.Delete(ctx, project.ID()); err != nil {
		return nil, err
	}
	return project, nil
}

// Get загружает проект.
func (s *ProjectService) Get(ctx context.Context, projectID uuid.UUID) (*entities.Project, error) {
	return s.projects.FindByID(ctx, projectID)
}

// List возвращает страницу проектов и общее количество.
func (s *ProjectService) List(ctx context.Context, filter ports.ProjectFilter, offset, limit int) ([]*entities.Project, int, error) {
	return s.projects.List(ctx, filter, offset, limit)
}

func (s *ProjectService) ownedProject(ctx context.Context, projectID, userID uuid.UUID) (*entities.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.IsOwnedBy(userID) {
		return nil, domainerrors.ErrPermissionDenied
	}
	return project, nil
}
