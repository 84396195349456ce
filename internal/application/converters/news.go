package converters

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/domain/errors"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// NewsCreate строит команду публикации новости: title, content, опционально project_id.
func NewsCreate(in Input, authorID uuid.UUID) (dtos.NewsCreateCommand, error) {
	if err := in.requireFields("title", "content"); err != nil {
		return dtos.NewsCreateCommand{}, err
	}

	cmd := dtos.NewsCreateCommand{AuthorID: authorID}
	var err error
	if cmd.Title, err = valueobjects.NewTitle(in.Fields["title"]); err != nil {
		return cmd, err
	}
	if cmd.Content, err = valueobjects.NewContent(in.Fields["content"]); err != nil {
		return cmd, err
	}
	if cmd.ProjectID, err = optionalUUID(in, "project_id"); err != nil {
		return cmd, err
	}
	return cmd, nil
}

// NewsUpdate строит частичное обновление новости.
func NewsUpdate(in Input, newsID, userID uuid.UUID) (dtos.NewsUpdateCommand, error) {
	cmd := dtos.NewsUpdateCommand{NewsID: newsID, UserID: userID}

	if raw, ok := in.field("title"); ok {
		v, err := valueobjects.NewTitle(raw)
		if err != nil {
			return cmd, err
		}
		cmd.Title = &v
	}
	if raw, ok := in.field("content"); ok {
		v, err := valueobjects.NewContent(raw)
		if err != nil {
			return cmd, err
		}
		cmd.Content = &v
	}
	pid, err := optionalUUID(in, "project_id")
	if err != nil {
		return cmd, err
	}
	cmd.ProjectID = pid
	return cmd, nil
}

func optionalUUID(in Input, key string) (*uuid.UUID, error) {
	raw, ok := in.field(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, errors.NewValidationError(key, "invalid_type", "field '"+key+"' must be a UUID")
	}
	return &id, nil
}
