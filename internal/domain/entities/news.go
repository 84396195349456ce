package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// News is an editorial post, optionally about a project.
type News struct {
	id        uuid.UUID
	title     string
	content   string
	authorID  uuid.UUID
	projectID *uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// NewNews creates a news item. projectID may be nil.
func NewNews(title valueobjects.Title, content valueobjects.Content, authorID uuid.UUID, projectID *uuid.UUID) *News {
	now := time.Now().UTC()
	return &News{
		id:        uuid.New(),
		title:     title.String(),
		content:   content.String(),
		authorID:  authorID,
		projectID: projectID,
		createdAt: now,
		updatedAt: now,
	}
}

// ReconstructNews hydrates News from storage.
func ReconstructNews(id uuid.UUID, title, content string, authorID uuid.UUID, projectID *uuid.UUID, createdAt, updatedAt time.Time) *News {
	return &News{
		id:        id,
		title:     title,
		content:   content,
		authorID:  authorID,
		projectID: projectID,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (n *News) ID() uuid.UUID         { return n.id }
func (n *News) Title() string         { return n.title }
func (n *News) Content() string       { return n.content }
func (n *News) AuthorID() uuid.UUID   { return n.authorID }
func (n *News) ProjectID() *uuid.UUID { return n.projectID }
func (n *News) CreatedAt() time.Time  { return n.createdAt }
func (n *News) UpdatedAt() time.Time  { return n.updatedAt }

// ChangeTitle replaces the headline.
func (n *News) ChangeTitle(t valueobjects.Title) {
	n.title = t.String()
	n.updatedAt = time.Now().UTC()
}

// ChangeContent replaces the body.
func (n *News) ChangeContent(c valueobjects.Content) {
	n.content = c.String()
	n.updatedAt = time.Now().UTC()
}

// LinkProject relates the news item to a project, or unlinks it when projectID is nil.
func (n *News) LinkProject(projectID *uuid.UUID) {
	n.projectID = projectID
	n.updatedAt = time.Now().UTC()
}

// Favorite marks a project as followed by a user.
type Favorite struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
	CreatedAt time.Time
}

// NewFavorite creates a favorite mark.
func NewFavorite(userID, projectID uuid.UUID) *Favorite {
	return &Favorite{UserID: userID, ProjectID: projectID, CreatedAt: time.Now().UTC()}
}
