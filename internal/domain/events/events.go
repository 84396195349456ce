// Package events defines domain events that represent significant business occurrences.
// Events are immutable facts about what happened in the past.
//
// Pattern: Domain Events + Transactional Outbox
// - Use cases save events in the same transaction as the state change
// - The outbox relay publishes them to the message broker afterwards
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the base interface for all domain events.
// All events must have an ID, timestamp, and type.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID // ID of the entity that raised this event
	AggregateType() string
}

// BaseEvent provides common fields for all events.
// Embedded in specific event types to avoid duplication (DRY).
type BaseEvent struct {
	eventID       uuid.UUID
	eventType     string
	occurredAt    time.Time
	aggregateID   uuid.UUID
	aggregateType string
}

func newBaseEvent(eventType, aggregateType string, aggregateID uuid.UUID) BaseEvent {
	return BaseEvent{
		eventID:       uuid.New(),
		eventType:     eventType,
		occurredAt:    time.Now().UTC(),
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
	}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.eventID }
func (e BaseEvent) EventType() string      { return e.eventType }
func (e BaseEvent) OccurredAt() time.Time  { return e.occurredAt }
func (e BaseEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e BaseEvent) AggregateType() string  { return e.aggregateType }

// Event Types (constants for type checking)
const (
	EventTypeProjectCreated = "project.created"
	EventTypeProjectUpdated = "project.updated"
	EventTypeProjectDeleted = "project.deleted"
	EventTypeCompanyCreated = "company.created"
	EventTypeUserRegistered = "user.registered"
	EventTypeNewsPublished  = "news.published"
)

// Aggregate types
const (
	AggregateProject = "project"
	AggregateCompany = "company"
	AggregateUser    = "user"
	AggregateNews    = "news"
)

// ===== Project Events =====

// ProjectCreated is raised after a project and all its contacts are stored.
type ProjectCreated struct {
	BaseEvent
	Name        string    `json:"name"`
	CreatorID   uuid.UUID `json:"creator_id"`
	CompanyID   uuid.UUID `json:"company_id"`
	GoalSum     string    `json:"goal_sum"`
	Deadline    string    `json:"deadline"`
	TeamMembers int       `json:"team_members"`
	SocialLinks int       `json:"social_links"`
}

func NewProjectCreated(projectID, creatorID, companyID uuid.UUID, name, goalSum, deadline string, teamMembers, socialLinks int) *ProjectCreated {
	return &ProjectCreated{
		BaseEvent:   newBaseEvent(EventTypeProjectCreated, AggregateProject, projectID),
		Name:        name,
		CreatorID:   creatorID,
		CompanyID:   companyID,
		GoalSum:     goalSum,
		Deadline:    deadline,
		TeamMembers: teamMembers,
		SocialLinks: socialLinks,
	}
}

// ProjectUpdated is raised when the owner changes project fields.
type ProjectUpdated struct {
	BaseEvent
	ChangedFields []string `json:"changed_fields"`
}

func NewProjectUpdated(projectID uuid.UUID, changedFields []string) *ProjectUpdated {
	return &ProjectUpdated{
		BaseEvent:     newBaseEvent(EventTypeProjectUpdated, AggregateProject, projectID),
		ChangedFields: changedFields,
	}
}

// ProjectDeleted is raised when the owner deletes a project.
type ProjectDeleted struct {
	BaseEvent
	DeletedBy uuid.UUID `json:"deleted_by"`
}

func NewProjectDeleted(projectID, deletedBy uuid.UUID) *ProjectDeleted {
	return &ProjectDeleted{
		BaseEvent: newBaseEvent(EventTypeProjectDeleted, AggregateProject, projectID),
		DeletedBy: deletedBy,
	}
}

// ===== Company Events =====

// CompanyCreated is raised when a representative registers a company.
type CompanyCreated struct {
	BaseEvent
	Name             string    `json:"name"`
	RepresentativeID uuid.UUID `json:"representative_id"`
	CountryCode      string    `json:"country_code"`
}

func NewCompanyCreated(companyID, representativeID uuid.UUID, name, countryCode string) *CompanyCreated {
	return &CompanyCreated{
		BaseEvent:        newBaseEvent(EventTypeCompanyCreated, AggregateCompany, companyID),
		Name:             name,
		RepresentativeID: representativeID,
		CountryCode:      countryCode,
	}
}

// ===== User Events =====

// UserRegistered is raised when a new account is created.
type UserRegistered struct {
	BaseEvent
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewUserRegistered(userID uuid.UUID, username, email string) *UserRegistered {
	return &UserRegistered{
		BaseEvent: newBaseEvent(EventTypeUserRegistered, AggregateUser, userID),
		Username:  username,
		Email:     email,
	}
}

// ===== News Events =====

// NewsPublished is raised when an editor publishes news.
type NewsPublished struct {
	BaseEvent
	Title     string     `json:"title"`
	AuthorID  uuid.UUID  `json:"author_id"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
}

func NewNewsPublished(newsID, authorID uuid.UUID, title string, projectID *uuid.UUID) *NewsPublished {
	return &NewsPublished{
		BaseEvent: newBaseEvent(EventTypeNewsPublished, AggregateNews, newsID),
		Title:     title,
		AuthorID:  authorID,
		ProjectID: projectID,
	}
}
