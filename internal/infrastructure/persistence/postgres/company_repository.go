// Package postgres - CompanyRepository implementation.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainErrors "github.com/Haleralex/fundhub/internal/domain/errors"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

// Compile-time check
var _ ports.CompanyRepository = (*CompanyRepository)(nil)

// CompanyRepository реализует ports.CompanyRepository.
type CompanyRepository struct {
	db DB
}

// NewCompanyRepository создаёт новый CompanyRepository.
func NewCompanyRepository(db DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

const companyColumns = `id, name, representative_id, country_code, business_number, established_date,
	description, founder_first_name, founder_last_name, created_at`

// Create сохраняет новую компанию.
func (r *CompanyRepository) Create(ctx context.Context, company *entities.Company) error {
	query := `INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		company.ID(),
		company.Name(),
		company.RepresentativeID(),
		company.Country().Code(),
		company.BusinessNumber().Value(),
		company.EstablishedDate().Time(),
		company.Description(),
		company.Founder().FirstName,
		company.Founder().LastName,
		company.CreatedAt(),
	)
	if err != nil {
		if isUniqueViolation(err, constraintCompaniesNumber) {
			return domainErrors.ErrCompanyAlreadyExists
		}
		if pgErr, ok := asPgError(err); ok && pgErr.Code == pgForeignKeyViolation {
			if pgErr.ConstraintName == "companies_country_code_fkey" {
				return domainErrors.ErrCountryNotFound
			}
			return domainErrors.ErrUserNotFound
		}
		return fmt.Errorf("failed to create company: %w", err)
	}

	return nil
}

// FindByID загружает компанию по ID.
func (r *CompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	company, err := scanCompany(conn(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to find company by id: %w", err)
	}

	return company, nil
}

// ListByRepresentative возвращает компании пользователя, новые первыми.
func (r *CompanyRepository) ListByRepresentative(ctx context.Context, userID uuid.UUID) ([]*entities.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE representative_id = $1 ORDER BY created_at DESC`

	rows, err := conn(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]*entities.Company, 0)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating companies: %w", err)
	}

	return companies, nil
}

func scanCompany(scanner rowScanner) (*entities.Company, error) {
	var (
		id, representativeID                   uuid.UUID
		name, countryCode, businessNumber      string
		description, founderFirst, founderLast string
		established, createdAt                 time.Time
	)

	err := scanner.Scan(
		&id, &name, &representativeID, &countryCode, &businessNumber, &established,
		&description, &founderFirst, &founderLast, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	country, err := valueobjects.NewCountryCode(countryCode)
	if err != nil {
		return nil, fmt.Errorf("corrupt country_code %q: %w", countryCode, err)
	}

	return entities.ReconstructCompany(
		id, name, representativeID,
		valueobjects.ReconstructBusinessNumber(country, businessNumber),
		valueobjects.ReconstructEstablishedDate(established),
		description,
		entities.Founder{FirstName: founderFirst, LastName: founderLast},
		createdAt,
	), nil
}
