// Package postgres - CatalogRepository: справочники, заполненные миграциями.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainErrors "github.com/Haleralex/fundhub/internal/domain/errors"
)

// Compile-time check
var _ ports.CatalogRepository = (*CatalogRepository)(nil)

// CatalogRepository реализует ports.CatalogRepository. Только чтение.
type CatalogRepository struct {
	db DB
}

// NewCatalogRepository создаёт новый CatalogRepository.
func NewCatalogRepository(db DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) FindCategory(ctx context.Context, id int64) (*entities.Category, error) {
	var c entities.Category
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT id, name, slug FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Slug)
	if err != nil {
		return nil, notFoundOr(err, domainErrors.ErrCategoryNotFound, "category")
	}
	return &c, nil
}

func (r *CatalogRepository) FindFundingModel(ctx context.Context, id int64) (*entities.FundingModel, error) {
	var m entities.FundingModel
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT id, name, description FROM funding_models WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.Description)
	if err != nil {
		return nil, notFoundOr(err, domainErrors.ErrFundingModelNotFound, "funding model")
	}
	return &m, nil
}

// FindCountry ищет страну по ISO-коду (регистр не важен).
func (r *CatalogRepository) FindCountry(ctx context.Context, code string) (*entities.Country, error) {
	var c entities.Country
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT code, name FROM countries WHERE code = UPPER($1)`, code).
		Scan(&c.Code, &c.Name)
	if err != nil {
		return nil, notFoundOr(err, domainErrors.ErrCountryNotFound, "country")
	}
	return &c, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id, name, slug FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[entities.Category])
	if err != nil {
		return nil, fmt.Errorf("failed to scan categories: %w", err)
	}
	return items, nil
}

func (r *CatalogRepository) ListFundingModels(ctx context.Context) ([]*entities.FundingModel, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id, name, description FROM funding_models ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list funding models: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[entities.FundingModel])
	if err != nil {
		return nil, fmt.Errorf("failed to scan funding models: %w", err)
	}
	return items, nil
}

func (r *CatalogRepository) ListCountries(ctx context.Context) ([]*entities.Country, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT code, name FROM countries ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[entities.Country])
	if err != nil {
		return nil, fmt.Errorf("failed to scan countries: %w", err)
	}
	return items, nil
}

// notFoundOr переводит pgx.ErrNoRows в sentinel, остальное оборачивает.
func notFoundOr(err, notFound error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}
