// Package postgres - NewsRepository implementation.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainErrors "github.com/Haleralex/fundhub/internal/domain/errors"
)

// Compile-time check
var _ ports.NewsRepository = (*NewsRepository)(nil)

// NewsRepository реализует ports.NewsRepository.
type NewsRepository struct {
	db DB
}

// NewNewsRepository создаёт новый NewsRepository.
func NewNewsRepository(db DB) *NewsRepository {
	return &NewsRepository{db: db}
}

const newsColumns = `id, title, content, author_id, project_id, created_at, updated_at`

// Create сохраняет новость.
func (r *NewsRepository) Create(ctx context.Context, news *entities.News) error {
	query := `INSERT INTO news (` + newsColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		news.ID(),
		news.Title(),
		news.Content(),
		news.AuthorID(),
		news.ProjectID(),
		news.CreatedAt(),
		news.UpdatedAt(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domainErrors.ErrProjectNotFound
		}
		return fmt.Errorf("failed to create news: %w", err)
	}

	return nil
}

// Update сохраняет заголовок, текст и привязку к проекту.
func (r *NewsRepository) Update(ctx context.Context, news *entities.News) error {
	query := `UPDATE news SET title = $2, content = $3, project_id = $4, updated_at = $5 WHERE id = $1`

	result, err := conn(ctx, r.db).Exec(ctx, query,
		news.ID(),
		news.Title(),
		news.Content(),
		news.ProjectID(),
		news.UpdatedAt(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domainErrors.ErrProjectNotFound
		}
		return fmt.Errorf("failed to update news: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domainErrors.ErrNewsNotFound
	}

	return nil
}

func (r *NewsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete news: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domainErrors.ErrNewsNotFound
	}

	return nil
}

func (r *NewsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.News, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE id = $1`

	news, err := scanNews(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, domainErrors.ErrNewsNotFound, "news")
	}

	return news, nil
}

// List возвращает страницу новостей (новые первыми) и общее количество.
func (r *NewsRepository) List(ctx context.Context, filter ports.NewsFilter, offset, limit int) ([]*entities.News, int, error) {
	q := conn(ctx, r.db)

	where := ""
	args := []any{}
	if filter.ProjectID != nil {
		where = " WHERE project_id = $1"
		args = append(args, *filter.ProjectID)
	}

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM news`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count news: %w", err)
	}

	argNum := len(args) + 1
	query := `SELECT ` + newsColumns + ` FROM news` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, offset, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	items := make([]*entities.News, 0)
	for rows.Next() {
		news, err := scanNews(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan news: %w", err)
		}
		items = append(items, news)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating news: %w", err)
	}

	return items, total, nil
}

func scanNews(scanner rowScanner) (*entities.News, error) {
	var (
		id, authorID         uuid.UUID
		projectID            *uuid.UUID
		title, content       string
		createdAt, updatedAt time.Time
	)

	if err := scanner.Scan(&id, &title, &content, &authorID, &projectID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	return entities.ReconstructNews(id, title, content, authorID, projectID, createdAt, updatedAt), nil
}
