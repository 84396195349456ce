// Package postgres - UserRepository implementation.
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
)

// Compile-time check: UserRepository implements ports.UserRepository
var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository реализует ports.UserRepository с использованием PostgreSQL.
//
// Thread-safe: использует connection pool.
// Transaction-aware: автоматически использует транзакцию из context если есть.
type UserRepository struct {
	db DB
}

// NewUserRepository создаёт новый UserRepository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, about, phone,
	is_active, is_superuser, created_at, updated_at`

// Create сохраняет нового пользователя.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := conn(ctx, r.db).Exec(ctx, query,
		user.ID(),
		user.Username(),
		user.Email(),
		user.PasswordHash(),
		user.FirstName(),
		user.LastName(),
		user.About(),
		user.Phone(),
		user.IsActive(),
		user.IsSuperuser(),
		user.CreatedAt(),
		user.UpdatedAt(),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err, constraintUsersUsername):
			return domainErrors.ErrUsernameAlreadyExists
		case isUniqueViolation(err, constraintUsersEmail):
			return domainErrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// Update сохраняет изменённый профиль.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, about = $4, phone = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := conn(ctx, r.db).Exec(ctx, query,
		user.ID(),
		user.FirstName(),
		user.LastName(),
		user.About(),
		user.Phone(),
		user.IsActive(),
		user.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}

	return nil
}

// scanUser сканирует строку в domain entity User.
func scanUser(scanner rowScanner) (*entities.User, error) {
	var (
		id                                uuid.UUID
		username, email, passwordHash     string
		firstName, lastName, about, phone string
		isActive, isSuperuser             bool
		createdAt, updatedAt              time.Time
	)

	err := scanner.Scan(
		&id, &username, &email, &passwordHash,
		&firstName, &lastName, &about, &phone,
		&isActive, &isSuperuser, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	return entities.ReconstructUser(
		id, username, email, passwordHash, firstName, lastName, about, phone,
		isActive, isSuperuser, createdAt, updatedAt,
	), nil
}

// FindByID загружает пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail загружает пользователя по email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*entities.User, error) {
	user, err := scanUser(conn(ctx, r.db).QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ExistsByUsername проверяет занятость username.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}

// ExistsByEmail проверяет занятость email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	if err := conn(ctx, r.db).QueryRow(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// =====================================================================
// Roles
// =====================================================================

// Compile-time check
var _ ports.RoleRepository = (*RoleRepository)(nil)

// RoleRepository реализует ports.RoleRepository.
type RoleRepository struct {
	db DB
}

// NewRoleRepository создаёт новый RoleRepository.
func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// AssignRole добавляет пользователю роль по имени. Повторное назначение игнорируется.
func (r *RoleRepository) AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT DO NOTHING
	`

	result, err := conn(ctx, r.db).Exec(ctx, query, userID, roleName)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domainErrors.ErrUserNotFound
		}
		return fmt.Errorf("failed to assign role: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Либо роль уже назначена, либо роли нет.
		var exists bool
		err := conn(ctx, r.db).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM roles WHERE name = $1)`, roleName).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check role: %w", err)
		}
		if !exists {
			return domainErrors.ErrRoleNotFound
		}
	}

	return nil
}

// PermissionsOf возвращает объединение прав всех ролей пользователя.
func (r *RoleRepository) PermissionsOf(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT DISTINCT p.code
		FROM user_roles ur
		JOIN role_permissions rp ON rp.role_id = ur.role_id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE ur.user_id = $1
		ORDER BY p.code
	`
	return r.strings(ctx, query, userID)
}

// RolesOf возвращает имена ролей пользователя.
func (r *RoleRepository) RolesOf(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT r.name
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`
	return r.strings(ctx, query, userID)
}

func (r *RoleRepository) strings(ctx context.Context, query string, userID uuid.UUID) ([]string, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan roles: %w", err)
	}
	return values, nil
}
