// Package dtos определяет Data Transfer Objects для передачи данных между слоями.
//
// Commands - агрегаты уже провалидированных value objects. Они создаются только
// конвертерами (application/converters), поэтому use case никогда не получает
// частично валидных данных.
//
// Pattern: Command + Data Transfer Object
package dtos

import (
	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// ============================================
// Project Commands
// ============================================

// TeamMemberPayload - участник команды в команде создания проекта.
type TeamMemberPayload struct {
	FirstName   valueobjects.FirstName
	LastName    valueobjects.LastName
	Description valueobjects.Description
}

// ProjectCreateCommand - команда для создания проекта вместе с командой, телефоном, соцсетями и планом.
// CreatorID заполняется из аутентифицированного пользователя.
type ProjectCreateCommand struct {
	Name           valueobjects.Name
	Description    valueobjects.Description
	CategoryID     int64
	FundingModelID int64
	CompanyID      uuid.UUID
	GoalSum        valueobjects.GoalSum
	Deadline       valueobjects.DeadlineDate
	TeamMembers    []TeamMemberPayload // порядок сохраняется
	Phone          valueobjects.PhoneNumber
	SocialLinks    []valueobjects.SocialLink
	Plan           valueobjects.PlanFile
	CreatorID      uuid.UUID
}

// ProjectUpdateCommand - частичное обновление проекта.
// nil = поле не передано и не изменяется (в отличие от "установить пустое").
type ProjectUpdateCommand struct {
	ProjectID      uuid.UUID
	UserID         uuid.UUID
	Name           *valueobjects.Name
	Description    *valueobjects.Description
	CategoryID     *int64
	FundingModelID *int64
	GoalSum        *valueobjects.GoalSum
	Deadline       *valueobjects.DeadlineDate
	IsActive       *bool
}

// IsEmpty reports whether the update carries no fields.
func (c ProjectUpdateCommand) IsEmpty() bool {
	return c.Name == nil && c.Description == nil && c.CategoryID == nil && c.FundingModelID == nil &&
		c.GoalSum == nil && c.Deadline == nil && c.IsActive == nil
}

// ============================================
// Company Commands
// ============================================

// CompanyCreateDraft - сырые, но уже провалидированные по формату данные компании.
// Business number проверяется только после того, как страна найдена в справочнике.
type CompanyCreateDraft struct {
	Name              valueobjects.Name
	CountryCode       valueobjects.CountryCode
	RawBusinessNumber string
	EstablishedDate   valueobjects.EstablishedDate
	Description       valueobjects.Description
	FounderFirstName  valueobjects.FirstName
	FounderLastName   valueobjects.LastName
	RepresentativeID  uuid.UUID
}

// CompanyCreatePayload - полностью провалидированная команда создания компании.
type CompanyCreatePayload struct {
	Name             valueobjects.Name
	BusinessNumber   valueobjects.BusinessNumber
	EstablishedDate  valueobjects.EstablishedDate
	Description      valueobjects.Description
	FounderFirstName valueobjects.FirstName
	FounderLastName  valueobjects.LastName
	RepresentativeID uuid.UUID
}

// ============================================
// User & Auth Commands
// ============================================

// RegisterCommand - команда регистрации пользователя.
type RegisterCommand struct {
	Username  valueobjects.Username
	Email     valueobjects.Email
	Password  valueobjects.Password
	FirstName valueobjects.FirstName
	LastName  valueobjects.LastName
}

// LoginCommand - учётные данные. Не валидируются по формату,
// чтобы любая ошибка давала одинаковый ответ "invalid credentials".
type LoginCommand struct {
	Email    string
	Password string
}

// ProfileUpdateCommand - частичное обновление профиля. nil = не изменять.
type ProfileUpdateCommand struct {
	UserID    uuid.UUID
	FirstName *valueobjects.FirstName
	LastName  *valueobjects.LastName
	About     *valueobjects.Description
	Phone     *valueobjects.PhoneNumber
}

// ============================================
// News Commands
// ============================================

// NewsCreateCommand - команда публикации новости.
type NewsCreateCommand struct {
	Title     valueobjects.Title
	Content   valueobjects.Content
	ProjectID *uuid.UUID
	AuthorID  uuid.UUID
}

// NewsUpdateCommand - частичное обновление новости.
type NewsUpdateCommand struct {
	NewsID    uuid.UUID
	UserID    uuid.UUID
	Title     *valueobjects.Title
	Content   *valueobjects.Content
	ProjectID *uuid.UUID
}

// ============================================
// Queries
// ============================================

// ListProjectsQuery - фильтры и пагинация списка проектов.
type ListProjectsQuery struct {
	CategoryID *int64
	CreatorID  *uuid.UUID
	CompanyID  *uuid.UUID
	IsActive   *bool
	Search     string
	Offset     int
	Limit      int
}

// ListNewsQuery - фильтры и пагинация списка новостей.
type ListNewsQuery struct {
	ProjectID *uuid.UUID
	Offset    int
	Limit     int
}

// Пагинация по умолчанию.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// NormalizePage ограничивает offset и limit допустимыми значениями.
func NormalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return offset, limit
}
