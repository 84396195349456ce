// Package ports определяет интерфейсы (порты) для внешних зависимостей.
// Эти интерфейсы реализуются в Infrastructure Layer.
//
// SOLID Principles:
// - DIP: Application зависит от абстракций, не от конкретных реализаций
// - ISP: Каждый интерфейс фокусируется на одной сущности
// - SRP: Repository отвечает только за persistence
//
// Pattern: Repository Pattern + Ports & Adapters (Hexagonal Architecture)
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/domain/entities"
)

// Все FindByID возвращают NotFound-sentinel сущности (errors.ErrProjectNotFound и т.д.),
// все Create возвращают AlreadyExists-sentinel при нарушении уникальности.

// UserRepository определяет контракт для хранения пользователей.
type UserRepository interface {
	// Create сохраняет нового пользователя.
	// Дубликат username/email -> ErrUsernameAlreadyExists / ErrEmailAlreadyExists.
	Create(ctx context.Context, user *entities.User) error

	// Update сохраняет изменённый профиль.
	Update(ctx context.Context, user *entities.User) error

	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)

	// FindByEmail загружает пользователя по email (email уникален).
	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// ExistsByUsername / ExistsByEmail - проверка уникальности без загрузки entity.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RoleRepository хранит роли и их права.
type RoleRepository interface {
	// AssignRole добавляет пользователю роль по имени.
	AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error

	// PermissionsOf возвращает объединение прав всех ролей пользователя.
	PermissionsOf(ctx context.Context, userID uuid.UUID) ([]string, error)

	// RolesOf возвращает имена ролей пользователя.
	RolesOf(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// ProjectFilter определяет критерии фильтрации проектов.
// nil-поля не участвуют в фильтрации.
type ProjectFilter struct {
	CategoryID *int64
	CreatorID  *uuid.UUID
	CompanyID  *uuid.UUID
	IsActive   *bool
	Search     string      // подстрока в названии, без учёта регистра
	IDs        []uuid.UUID // ограничить набором id (избранное)
}

// ProjectRepository определяет контракт для хранения проектов.
type ProjectRepository interface {
	// Create сохраняет новый проект. Дубликат имени -> ErrProjectAlreadyExists.
	Create(ctx context.Context, project *entities.Project) error

	// Update сохраняет изменённые поля проекта (включая plan path).
	Update(ctx context.Context, project *entities.Project) error

	// Delete удаляет проект вместе с зависимыми строками (ON DELETE CASCADE).
	Delete(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*entities.Project, error)

	// List возвращает проекты с фильтрацией и пагинацией, а также общее количество.
	List(ctx context.Context, filter ProjectFilter, offset, limit int) ([]*entities.Project, int, error)
}

// TeamMemberRepository хранит участников команды проекта.
type TeamMemberRepository interface {
	Create(ctx context.Context, member *entities.TeamMember) error

	// ListByProject возвращает участников в порядке position.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*entities.TeamMember, error)
}

// ProjectPhoneRepository хранит телефоны проектов.
type ProjectPhoneRepository interface {
	// Create: дубликат (project, number) -> ErrPhoneAlreadyExists.
	Create(ctx context.Context, phone *entities.ProjectPhone) error

	// FindByProject возвращает телефон проекта или nil, nil если телефона нет.
	FindByProject(ctx context.Context, projectID uuid.UUID) (*entities.ProjectPhone, error)
}

// ProjectSocialLinkRepository хранит ссылки на соцсети проектов.
type ProjectSocialLinkRepository interface {
	// Create: дубликат (project, link) -> ErrSocialLinkAlreadyExists.
	Create(ctx context.Context, link *entities.ProjectSocialLink) error

	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*entities.ProjectSocialLink, error)
}

// CompanyRepository определяет контракт для хранения компаний.
type CompanyRepository interface {
	// Create: дубликат (country, business_number) -> ErrCompanyAlreadyExists.
	Create(ctx context.Context, company *entities.Company) error

	FindByID(ctx context.Context, id uuid.UUID) (*entities.Company, error)

	ListByRepresentative(ctx context.Context, userID uuid.UUID) ([]*entities.Company, error)
}

// CatalogRepository отдаёт справочники, заполненные миграциями.
type CatalogRepository interface {
	FindCategory(ctx context.Context, id int64) (*entities.Category, error)
	FindFundingModel(ctx context.Context, id int64) (*entities.FundingModel, error)
	FindCountry(ctx context.Context, code string) (*entities.Country, error)

	ListCategories(ctx context.Context) ([]*entities.Category, error)
	ListFundingModels(ctx context.Context) ([]*entities.FundingModel, error)
	ListCountries(ctx context.Context) ([]*entities.Country, error)
}

// NewsFilter определяет критерии фильтрации новостей.
type NewsFilter struct {
	ProjectID *uuid.UUID
}

// NewsRepository определяет контракт для хранения новостей.
type NewsRepository interface {
	Create(ctx context.Context, news *entities.News) error
	Update(ctx context.Context, news *entities.News) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.News, error)
	List(ctx context.Context, filter NewsFilter, offset, limit int) ([]*entities.News, int, error)
}

// FavoriteRepository хранит избранные проекты пользователей.
type FavoriteRepository interface {
	// Add: повторное добавление -> ErrFavoriteAlreadyExists.
	Add(ctx context.Context, favorite *entities.Favorite) error

	// Remove: отсутствующая запись -> ErrFavoriteNotFound.
	Remove(ctx context.Context, userID, projectID uuid.UUID) error

	// ProjectIDs возвращает id избранных проектов пользователя, новые первыми.
	ProjectIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
