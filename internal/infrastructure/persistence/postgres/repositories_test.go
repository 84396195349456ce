package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/fundhub/internal/application/apptest"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainErrors "github.com/Haleralex/fundhub/internal/domain/errors"
	"github.com/Haleralex/fundhub/internal/domain/events"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

var errDatabaseDown = errors.New("connection refused")

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraint}
}

func foreignKeyViolation(constraint string) error {
	return &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: constraint}
}

// ============================================
// Helpers
// ============================================

func TestIsUniqueViolation(t *testing.T) {
	err := uniqueViolation(constraintUsersEmail)

	assert.True(t, isUniqueViolation(err, ""))
	assert.True(t, isUniqueViolation(err, constraintUsersEmail))
	assert.False(t, isUniqueViolation(err, constraintUsersUsername))
	assert.True(t, isUniqueViolation(wrap(err), constraintUsersEmail), "wrapped errors are unwrapped")
	assert.False(t, isUniqueViolation(errDatabaseDown, ""))
	assert.False(t, isUniqueViolation(nil, ""))
}

func wrap(err error) error {
	return errors.Join(errors.New("context"), err)
}

func TestTruncateUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "timeout", 10, "timeout"},
		{"ascii cut", "connection refused", 10, "connection"},
		{"inside rune", "nats: ошибка", 7, "nats: "},
		{"rune boundary", "nats: ошибка", 10, "nats: ош"},
		{"invalid bytes", "bad \xff\xfe", 20, "bad \uFFFD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateUTF8(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, len(got), tt.max)
		})
	}
}

func TestProjectWhere(t *testing.T) {
	category := int64(3)
	active := true
	ids := []uuid.UUID{uuid.New()}

	where, args := projectWhere(ports.ProjectFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = projectWhere(ports.ProjectFilter{
		CategoryID: &category,
		IsActive:   &active,
		Search:     "50%_off",
		IDs:        ids,
	})
	assert.Equal(t, " WHERE category_id = $1 AND is_active = $2 AND name ILIKE $3 AND id = ANY($4)", where)
	assert.Equal(t, []any{category, active, `%50\%\_off%`, ids}, args)
}

// ============================================
// Unit of Work
// ============================================

func TestUnitOfWork(t *testing.T) {
	ctx := context.Background()
	readCommitted := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

	t.Run("commit on success", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBeginTx(readCommitted)
		mock.ExpectExec("DELETE FROM news").WithArgs(pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		uow := NewUnitOfWork(mock)
		err := uow.Execute(ctx, func(txCtx context.Context) error {
			assert.True(t, hasTx(txCtx))
			return NewNewsRepository(mock).Delete(txCtx, uuid.New())
		})
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBeginTx(readCommitted)
		mock.ExpectRollback()

		err := NewUnitOfWork(mock).Execute(ctx, func(context.Context) error {
			return domainErrors.ErrPhoneAlreadyExists
		})
		assert.ErrorIs(t, err, domainErrors.ErrPhoneAlreadyExists)
	})

	t.Run("nested call reuses transaction", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBeginTx(readCommitted)
		mock.ExpectCommit()

		uow := NewUnitOfWork(mock)
		err := uow.Execute(ctx, func(txCtx context.Context) error {
			outer := extractTx(txCtx)
			return uow.Execute(txCtx, func(inner context.Context) error {
				assert.Equal(t, outer, extractTx(inner))
				return nil
			})
		})
		require.NoError(t, err)
	})

	t.Run("rollback on panic", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBeginTx(readCommitted)
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = NewUnitOfWork(mock).Execute(ctx, func(context.Context) error {
				panic("boom")
			})
		})
	})

	t.Run("begin failure", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBeginTx(readCommitted).WillReturnError(errDatabaseDown)

		err := NewUnitOfWork(mock).Execute(ctx, func(context.Context) error { return nil })
		assert.ErrorIs(t, err, errDatabaseDown)
	})

	t.Run("retries deadlock", func(t *testing.T) {
		mock := newMock(t)
		deadlock := &pgconn.PgError{Code: pgDeadlockDetected}
		mock.ExpectBeginTx(readCommitted)
		mock.ExpectRollback()
		mock.ExpectBeginTx(readCommitted)
		mock.ExpectCommit()

		calls := 0
		err := NewUnitOfWork(mock).Execute(ctx, func(context.Context) error {
			calls++
			if calls == 1 {
				return deadlock
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		mock := newMock(t)
		serialization := &pgconn.PgError{Code: pgSerializationFailure}
		for range 2 {
			mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
			mock.ExpectRollback()
		}

		uow := NewUnitOfWork(mock, WithIsolation(pgx.Serializable), WithTxAttempts(2))
		err := uow.Execute(ctx, func(context.Context) error { return serialization })

		require.Error(t, err)
		assert.ErrorIs(t, err, serialization)
		assert.Contains(t, err.Error(), "after 2 attempts")
	})

	t.Run("commit conflict is retried", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBeginTx(readCommitted)
		mock.ExpectCommit().WillReturnError(&pgconn.PgError{Code: pgSerializationFailure})
		mock.ExpectBeginTx(readCommitted)
		mock.ExpectCommit()

		err := NewUnitOfWork(mock).Execute(ctx, func(context.Context) error { return nil })
		require.NoError(t, err)
	})

	t.Run("business errors are not retried", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectBeginTx(readCommitted)
		mock.ExpectRollback()

		calls := 0
		err := NewUnitOfWork(mock).Execute(ctx, func(context.Context) error {
			calls++
			return uniqueViolation(constraintProjectsName)
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

// ============================================
// Users & roles
// ============================================

var userRowColumns = []string{
	"id", "username", "email", "password_hash", "first_name", "last_name", "about", "phone",
	"is_active", "is_superuser", "created_at", "updated_at",
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	user := apptest.NewUser("alice")

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "success"},
		{name: "duplicate username", dbErr: uniqueViolation(constraintUsersUsername), wantErr: domainErrors.ErrUsernameAlreadyExists},
		{name: "duplicate email", dbErr: uniqueViolation(constraintUsersEmail), wantErr: domainErrors.ErrEmailAlreadyExists},
		{name: "database error", dbErr: errDatabaseDown, wantErr: errDatabaseDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			exec := mock.ExpectExec("INSERT INTO users").WithArgs(
				user.ID(), "alice", "alice@example.com", "hashed:password123", "Test", "User", "", "",
				true, false, pgxmock.AnyArg(), pgxmock.AnyArg(),
			)
			if tt.dbErr != nil {
				exec.WillReturnError(tt.dbErr)
			} else {
				exec.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			err := NewUserRepository(mock).Create(ctx, user)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserRepository_Find(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	now := time.Now().UTC()

	t.Run("by email", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("FROM users WHERE email").WithArgs("bob@example.com").WillReturnRows(
			pgxmock.NewRows(userRowColumns).AddRow(
				id, "bob", "bob@example.com", "hash", "Bob", "Smith", "about", "+77026992839",
				true, false, now, now,
			))

		user, err := NewUserRepository(mock).FindByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID())
		assert.Equal(t, "bob", user.Username())
		assert.Equal(t, "+77026992839", user.Phone())
		assert.True(t, user.IsActive())
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("FROM users WHERE id").WithArgs(id).WillReturnError(pgx.ErrNoRows)

		user, err := NewUserRepository(mock).FindByID(ctx, id)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
	})

	t.Run("exists by username", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT EXISTS").WithArgs("bob").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := NewUserRepository(mock).ExistsByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestUserRepository_Update(t *testing.T) {
	mock := newMock(t)
	user := apptest.NewUser("carol")
	mock.ExpectExec("UPDATE users").WithArgs(
		user.ID(), "Test", "User", "", "", true, pgxmock.AnyArg(),
	).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewUserRepository(mock).Update(context.Background(), user)
	assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
}

func TestRoleRepository(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("permissions of user", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("SELECT DISTINCT p.code").WithArgs(userID).WillReturnRows(
			pgxmock.NewRows([]string{"code"}).AddRow("add.news.news").AddRow("change.news.news"))

		perms, err := NewRoleRepository(mock).PermissionsOf(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, []string{"add.news.news", "change.news.news"}, perms)
	})

	t.Run("assign unknown role", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("INSERT INTO user_roles").WithArgs(userID, "ghost").
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mock.ExpectQuery("SELECT EXISTS").WithArgs("ghost").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

		err := NewRoleRepository(mock).AssignRole(ctx, userID, "ghost")
		assert.ErrorIs(t, err, domainErrors.ErrRoleNotFound)
	})

	t.Run("assign is idempotent", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("INSERT INTO user_roles").WithArgs(userID, entities.RoleUser).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))
		mock.ExpectQuery("SELECT EXISTS").WithArgs(entities.RoleUser).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, NewRoleRepository(mock).AssignRole(ctx, userID, entities.RoleUser))
	})
}

// ============================================
// Projects
// ============================================

var projectRowColumns = []string{
	"id", "name", "description", "category_id", "creator_id", "funding_model_id", "company_id",
	"goal_sum", "current_sum", "deadline", "plan_path", "is_active", "created_at", "updated_at",
}

func TestProjectRepository_Create(t *testing.T) {
	ctx := context.Background()
	project := apptest.NewProject("Solar", uuid.New(), uuid.New())

	t.Run("amounts are written as decimal strings", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("INSERT INTO projects").WithArgs(
			project.ID(), "Solar", pgxmock.AnyArg(), apptest.CategoryID, project.CreatorID(),
			apptest.FundingModelID, project.CompanyID(), "100.00", "0.00",
			pgxmock.AnyArg(), "", true, pgxmock.AnyArg(), pgxmock.AnyArg(),
		).WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, NewProjectRepository(mock).Create(ctx, project))
	})

	t.Run("duplicate name", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("INSERT INTO projects").WillReturnError(uniqueViolation(constraintProjectsName))

		err := NewProjectRepository(mock).Create(ctx, project)
		assert.ErrorIs(t, err, domainErrors.ErrProjectAlreadyExists)
	})
}

func TestProjectRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	deadline := time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	t.Run("scans numeric text into amounts", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("FROM projects WHERE id").WithArgs(id).WillReturnRows(
			pgxmock.NewRows(projectRowColumns).AddRow(
				id, "Solar", "desc", int64(1), uuid.New(), int64(2), uuid.New(),
				"100.00", "25.50", deadline, "projects/plan.pdf", true, now, now,
			))

		project, err := NewProjectRepository(mock).FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "100.00", project.GoalSum().String())
		assert.Equal(t, "25.50", project.CurrentSum().String())
		assert.Equal(t, "2030-01-15", project.Deadline().String())
		assert.Equal(t, int64(2), project.FundingModelID())
		assert.Equal(t, "projects/plan.pdf", project.PlanPath())
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("FROM projects WHERE id").WithArgs(id).WillReturnError(pgx.ErrNoRows)

		_, err := NewProjectRepository(mock).FindByID(ctx, id)
		assert.ErrorIs(t, err, domainErrors.ErrProjectNotFound)
	})

	t.Run("corrupt amount", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("FROM projects WHERE id").WithArgs(id).WillReturnRows(
			pgxmock.NewRows(projectRowColumns).AddRow(
				id, "Solar", "desc", int64(1), uuid.New(), int64(2), uuid.New(),
				"-1", "0", deadline, "", true, now, now,
			))

		_, err := NewProjectRepository(mock).FindByID(ctx, id)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domainErrors.ErrProjectNotFound)
	})
}

func TestProjectRepository_List(t *testing.T) {
	mock := newMock(t)
	creator := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT COUNT").WithArgs(creator, "%sol%").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("ORDER BY created_at DESC").WithArgs(creator, "%sol%", 2, 1).WillReturnRows(
		pgxmock.NewRows(projectRowColumns).AddRow(
			uuid.New(), "Solar", "desc", int64(1), creator, int64(1), uuid.New(),
			"10.00", "0.00", now, "", true, now, now,
		))

	projects, total, err := NewProjectRepository(mock).List(context.Background(),
		ports.ProjectFilter{CreatorID: &creator, Search: "sol"}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, projects, 1)
	assert.Equal(t, "Solar", projects[0].Name())
}

func TestProjectRepository_Delete(t *testing.T) {
	mock := newMock(t)
	id := uuid.New()
	mock.ExpectExec("DELETE FROM projects").WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewProjectRepository(mock).Delete(context.Background(), id)
	assert.ErrorIs(t, err, domainErrors.ErrProjectNotFound)
}

// ============================================
// Project contacts
// ============================================

func TestTeamMemberRepository_ListByProject(t *testing.T) {
	mock := newMock(t)
	projectID := uuid.New()
	mock.ExpectQuery("FROM team_members").WithArgs(projectID).WillReturnRows(
		pgxmock.NewRows([]string{"id", "project_id", "first_name", "last_name", "description", "position"}).
			AddRow(uuid.New(), projectID, "Aigerim", "Nurlanova", "CEO", 0).
			AddRow(uuid.New(), projectID, "Daniyar", "Kassymov", "CTO", 1))

	members, err := NewTeamMemberRepository(mock).ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Aigerim", members[0].FirstName())
	assert.Equal(t, 1, members[1].Position())
}

func TestProjectPhoneRepository(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	phone := entities.NewProjectPhone(projectID, valueobjects.ReconstructPhoneNumber("+77026992839"))

	t.Run("duplicate", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("INSERT INTO project_phones").WithArgs(phone.ID(), projectID, "+77026992839").
			WillReturnError(uniqueViolation(constraintProjectPhones))

		err := NewProjectPhoneRepository(mock).Create(ctx, phone)
		assert.ErrorIs(t, err, domainErrors.ErrPhoneAlreadyExists)
	})

	t.Run("missing phone is not an error", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("FROM project_phones").WithArgs(projectID).WillReturnError(pgx.ErrNoRows)

		got, err := NewProjectPhoneRepository(mock).FindByProject(ctx, projectID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestProjectSocialLinkRepository(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	link := entities.NewProjectSocialLink(projectID, valueobjects.ReconstructSocialLink("telegram", "https://t.me/solar"))

	t.Run("duplicate", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("INSERT INTO project_social_links").
			WithArgs(link.ID(), projectID, "telegram", "https://t.me/solar").
			WillReturnError(uniqueViolation(constraintProjectSocialLink))

		err := NewProjectSocialLinkRepository(mock).Create(ctx, link)
		assert.ErrorIs(t, err, domainErrors.ErrSocialLinkAlreadyExists)
	})

	t.Run("list", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery(`FROM project_social_links\s+WHERE project_id = \$1\s+ORDER BY ordinal`).WithArgs(projectID).WillReturnRows(
			pgxmock.NewRows([]string{"id", "project_id", "platform", "link"}).
				AddRow(uuid.New(), projectID, "youtube", "https://youtu.be/solar").
				AddRow(uuid.New(), projectID, "telegram", "https://t.me/solar"))

		links, err := NewProjectSocialLinkRepository(mock).ListByProject(ctx, projectID)
		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, valueobjects.PlatformYouTube, links[0].Link().Platform())
		assert.Equal(t, valueobjects.PlatformTelegram, links[1].Link().Platform())
	})
}

// ============================================
// Companies, catalog, news, favorites
// ============================================

func TestCompanyRepository_Create(t *testing.T) {
	ctx := context.Background()
	company := apptest.NewCompany(uuid.New(), "123456789012")

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "duplicate business number", dbErr: uniqueViolation(constraintCompaniesNumber), wantErr: domainErrors.ErrCompanyAlreadyExists},
		{name: "unknown country", dbErr: foreignKeyViolation("companies_country_code_fkey"), wantErr: domainErrors.ErrCountryNotFound},
		{name: "unknown representative", dbErr: foreignKeyViolation("companies_representative_id_fkey"), wantErr: domainErrors.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec("INSERT INTO companies").WillReturnError(tt.dbErr)

			err := NewCompanyRepository(mock).Create(ctx, company)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompanyRepository_FindByID(t *testing.T) {
	mock := newMock(t)
	id, rep := uuid.New(), uuid.New()
	established := time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM companies WHERE id").WithArgs(id).WillReturnRows(
		pgxmock.NewRows([]string{
			"id", "name", "representative_id", "country_code", "business_number", "established_date",
			"description", "founder_first_name", "founder_last_name", "created_at",
		}).AddRow(id, "Steppe Energy", rep, "KZ", "123456789012", established, "Renewable", "Aigerim", "Nurlanova", time.Now()))

	company, err := NewCompanyRepository(mock).FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "KZ", company.Country().Code())
	assert.Equal(t, "123456789012", company.BusinessNumber().Value())
	assert.True(t, company.IsRepresentedBy(rep))
	assert.Equal(t, "Nurlanova", company.Founder().LastName)
}

func TestCatalogRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("category not found", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("FROM categories WHERE id").WithArgs(int64(42)).WillReturnError(pgx.ErrNoRows)

		_, err := NewCatalogRepository(mock).FindCategory(ctx, 42)
		assert.ErrorIs(t, err, domainErrors.ErrCategoryNotFound)
	})

	t.Run("country lookup", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("FROM countries WHERE code").WithArgs("kz").
			WillReturnRows(pgxmock.NewRows([]string{"code", "name"}).AddRow("KZ", "Kazakhstan"))

		country, err := NewCatalogRepository(mock).FindCountry(ctx, "kz")
		require.NoError(t, err)
		assert.Equal(t, "Kazakhstan", country.Name)
	})
}

func TestNewsRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("update missing", func(t *testing.T) {
		mock := newMock(t)
		news := entities.NewNews(
			mustVO(valueobjects.NewTitle("Launch")), mustVO(valueobjects.NewContent("We launched")), uuid.New(), nil)
		mock.ExpectExec("UPDATE news").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, NewNewsRepository(mock).Update(ctx, news), domainErrors.ErrNewsNotFound)
	})

	t.Run("list by project", func(t *testing.T) {
		mock := newMock(t)
		projectID := uuid.New()
		now := time.Now().UTC()
		mock.ExpectQuery("SELECT COUNT").WithArgs(projectID).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("FROM news WHERE project_id").WithArgs(projectID, 0, 20).WillReturnRows(
			pgxmock.NewRows([]string{"id", "title", "content", "author_id", "project_id", "created_at", "updated_at"}).
				AddRow(uuid.New(), "Launch", "We launched", uuid.New(), &projectID, now, now))

		items, total, err := NewNewsRepository(mock).List(ctx, ports.NewsFilter{ProjectID: &projectID}, 0, 20)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, items, 1)
		require.NotNil(t, items[0].ProjectID())
		assert.Equal(t, projectID, *items[0].ProjectID())
	})
}

func mustVO[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestFavoriteRepository(t *testing.T) {
	ctx := context.Background()
	userID, projectID := uuid.New(), uuid.New()

	t.Run("duplicate", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("INSERT INTO favorites").WillReturnError(uniqueViolation(constraintFavoritesPK))

		err := NewFavoriteRepository(mock).Add(ctx, entities.NewFavorite(userID, projectID))
		assert.ErrorIs(t, err, domainErrors.ErrFavoriteAlreadyExists)
	})

	t.Run("unknown project", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("INSERT INTO favorites").WillReturnError(foreignKeyViolation("favorites_project_id_fkey"))

		err := NewFavoriteRepository(mock).Add(ctx, entities.NewFavorite(userID, projectID))
		assert.ErrorIs(t, err, domainErrors.ErrProjectNotFound)
	})

	t.Run("remove missing", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("DELETE FROM favorites").WithArgs(userID, projectID).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := NewFavoriteRepository(mock).Remove(ctx, userID, projectID)
		assert.ErrorIs(t, err, domainErrors.ErrFavoriteNotFound)
	})

	t.Run("project ids newest first", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("FROM favorites").WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"project_id"}).AddRow(projectID))

		ids, err := NewFavoriteRepository(mock).ProjectIDs(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{projectID}, ids)
	})
}

// ============================================
// Outbox
// ============================================

func TestOutboxRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("save stores aggregate and payload", func(t *testing.T) {
		mock := newMock(t)
		event := events.NewProjectDeleted(uuid.New(), uuid.New())
		payload, err := json.Marshal(event)
		require.NoError(t, err)

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox") + `.*VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)$`).WithArgs(
			event.EventID(), events.AggregateProject, event.AggregateID(), events.EventTypeProjectDeleted,
			payload, outboxPending, pgxmock.AnyArg(),
		).WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, NewOutboxRepository(mock).Publish(ctx, event))
	})

	t.Run("batch is a single insert", func(t *testing.T) {
		mock := newMock(t)
		first := events.NewProjectDeleted(uuid.New(), uuid.New())
		second := events.NewProjectDeleted(uuid.New(), uuid.New())

		mock.ExpectExec(regexp.QuoteMeta("($8, $9, $10, $11, $12, $13, $14)")).
			WithArgs(
				first.EventID(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), outboxPending, pgxmock.AnyArg(),
				second.EventID(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), outboxPending, pgxmock.AnyArg(),
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 2))

		require.NoError(t, NewOutboxRepository(mock).PublishBatch(ctx, []events.DomainEvent{first, second}))
	})

	t.Run("empty batch skips database", func(t *testing.T) {
		require.NoError(t, NewOutboxRepository(newMock(t)).PublishBatch(ctx, nil))
	})

	t.Run("find unpublished", func(t *testing.T) {
		mock := newMock(t)
		id, aggregateID := uuid.New(), uuid.New()
		mock.ExpectQuery("next_attempt_at <= \\$2").WithArgs(outboxPending, pgxmock.AnyArg(), 10).WillReturnRows(
			pgxmock.NewRows([]string{"id", "aggregate_type", "aggregate_id", "event_type", "payload", "retry_count", "created_at"}).
				AddRow(id, "project", aggregateID, "project.created", []byte(`{"name":"Solar"}`), 1, time.Now()))

		messages, err := NewOutboxRepository(mock).FindUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, id, messages[0].ID)
		assert.Equal(t, "project.created", messages[0].EventType)
		assert.Equal(t, 1, messages[0].RetryCount)
	})

	t.Run("mark published twice", func(t *testing.T) {
		mock := newMock(t)
		id := uuid.New()
		mock.ExpectExec("UPDATE outbox").WithArgs(id, outboxPublished, pgxmock.AnyArg(), outboxPending).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.Error(t, NewOutboxRepository(mock).MarkPublished(ctx, id))
	})

	t.Run("mark failed", func(t *testing.T) {
		mock := newMock(t)
		id := uuid.New()
		mock.ExpectExec("next_attempt_at").
			WithArgs(id, "nats down", 5, outboxFailed, pgxmock.AnyArg(), outboxMaxBackoffSeconds).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, NewOutboxRepository(mock).MarkFailed(ctx, id, "nats down", 5))
	})

	t.Run("mark failed truncates long errors", func(t *testing.T) {
		mock := newMock(t)
		id := uuid.New()
		long := strings.Repeat("e", outboxMaxErrorLength+50)
		mock.ExpectExec("UPDATE outbox").
			WithArgs(id, long[:outboxMaxErrorLength], 5, outboxFailed, pgxmock.AnyArg(), outboxMaxBackoffSeconds).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, NewOutboxRepository(mock).MarkFailed(ctx, id, long, 5))
	})

	t.Run("mark failed keeps multibyte errors valid", func(t *testing.T) {
		mock := newMock(t)
		id := uuid.New()
		// "a" сдвигает двухбайтовые руны: граница 1000 байт попадает в середину "ж"
		long := "a" + strings.Repeat("ж", outboxMaxErrorLength)
		mock.ExpectExec("UPDATE outbox").
			WithArgs(id, "a"+strings.Repeat("ж", (outboxMaxErrorLength-1)/2), 5, outboxFailed, pgxmock.AnyArg(), outboxMaxBackoffSeconds).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, NewOutboxRepository(mock).MarkFailed(ctx, id, long, 5))
	})

	t.Run("cleanup", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectExec("DELETE FROM outbox").WithArgs(outboxPublished, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("DELETE", 7))

		n, err := NewOutboxRepository(mock).CleanupPublished(ctx, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, int64(7), n)
	})
}
