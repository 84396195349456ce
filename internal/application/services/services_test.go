package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/fundhub/internal/application/apptest"
	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/application/services"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
	"github.com/Haleralex/fundhub/internal/domain/valueobjects"
)

type projectFixture struct {
	store   *apptest.Store
	storage *apptest.MemStorage
	svc     *services.ProjectService
	owner   *entities.User
	company *entities.Company
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	store := apptest.NewStore()
	store.Seed()
	storage := apptest.NewMemStorage()

	owner := apptest.NewUser("owner")
	store.SeedUser(owner, entities.RoleUser)
	company := apptest.NewCompany(owner.ID(), "123456789012")
	store.SeedCompany(company)

	svc := services.NewProjectService(store.Projects(), store.Users(), store.Companies(), store.Catalog(), storage)
	return &projectFixture{store: store, storage: storage, svc: svc, owner: owner, company: company}
}

func TestProjectService_Create(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	project, err := f.svc.Create(ctx, apptest.ProjectCommand("Solar Kiosk", f.owner.ID(), f.company.ID()))
	require.NoError(t, err)

	assert.Equal(t, entities.PlanPath(project.ID()), project.PlanPath())
	assert.True(t, f.storage.Has(project.PlanPath()))
	assert.Equal(t, "100.00", project.GoalSum().String())
	assert.True(t, project.CurrentSum().IsZero())

	stored, err := f.store.Projects().FindByID(ctx, project.ID())
	require.NoError(t, err)
	assert.Equal(t, project.PlanPath(), stored.PlanPath())
}

func TestProjectService_Create_CheckOrder(t *testing.T) {
	missing := uuid.New()

	tests := []struct {
		name    string
		mutate  func(f *projectFixture, cmd *dtos.ProjectCreateCommand)
		wantErr error
	}{
		{
			name: "category checked first",
			mutate: func(f *projectFixture, cmd *dtos.ProjectCreateCommand) {
				cmd.CategoryID = 99
				cmd.CreatorID = missing
				cmd.CompanyID = missing
			},
			wantErr: domainerrors.ErrCategoryNotFound,
		},
		{
			name: "creator before funding model",
			mutate: func(f *projectFixture, cmd *dtos.ProjectCreateCommand) {
				cmd.CreatorID = missing
				cmd.FundingModelID = 99
			},
			wantErr: domainerrors.ErrUserNotFound,
		},
		{
			name: "funding model before company",
			mutate: func(f *projectFixture, cmd *dtos.ProjectCreateCommand) {
				cmd.FundingModelID = 99
				cmd.CompanyID = missing
			},
			wantErr: domainerrors.ErrFundingModelNotFound,
		},
		{
			name:    "company",
			mutate:  func(f *projectFixture, cmd *dtos.ProjectCreateCommand) { cmd.CompanyID = missing },
			wantErr: domainerrors.ErrCompanyNotFound,
		},
		{
			name: "creator must represent the company",
			mutate: func(f *projectFixture, cmd *dtos.ProjectCreateCommand) {
				stranger := apptest.NewUser("stranger")
				f.store.SeedUser(stranger)
				cmd.CreatorID = stranger.ID()
			},
			wantErr: domainerrors.ErrOwnershipRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProjectFixture(t)
			cmd := apptest.ProjectCommand("Solar Kiosk", f.owner.ID(), f.company.ID())
			tt.mutate(f, &cmd)

			project, err := f.svc.Create(context.Background(), cmd)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, project)
			assert.Equal(t, 0, f.store.Counts().Projects)
			assert.Empty(t, f.storage.Objects)
		})
	}
}

func TestProjectService_Create_StoragePathMismatch(t *testing.T) {
	f := newProjectFixture(t)
	f.storage.UploadFunc = func(_ context.Context, _ []byte, path, _ string) (string, error) {
		return "elsewhere/" + path, nil
	}

	project, err := f.svc.Create(context.Background(), apptest.ProjectCommand("Solar Kiosk", f.owner.ID(), f.company.ID()))

	assert.ErrorIs(t, err, services.ErrStoragePathMismatch)
	_, kinded := domainerrors.KindOf(err)
	assert.False(t, kinded, "path mismatch is an internal error")
	require.NotNil(t, project, "created project is returned for blob cleanup")
}

func TestProjectService_Create_UploadFailure(t *testing.T) {
	f := newProjectFixture(t)
	boom := errors.New("gcs unavailable")
	f.storage.UploadFunc = func(context.Context, []byte, string, string) (string, error) { return "", boom }

	_, err := f.svc.Create(context.Background(), apptest.ProjectCommand("Solar Kiosk", f.owner.ID(), f.company.ID()))
	assert.ErrorIs(t, err, boom)
}

func TestProjectService_Update(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	project := apptest.NewProject("Solar Kiosk", f.owner.ID(), f.company.ID())
	f.store.SeedProject(project)

	newName, _ := valueobjects.NewName("Solar Kiosk 2")
	goal, _ := valueobjects.NewGoalSum("250.50")

	t.Run("owner updates only given fields", func(t *testing.T) {
		updated, changed, err := f.svc.Update(ctx, dtos.ProjectUpdateCommand{
			ProjectID: project.ID(),
			UserID:    f.owner.ID(),
			Name:      &newName,
			GoalSum:   &goal,
		})
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"name", "goal_sum"}, changed)
		assert.Equal(t, "Solar Kiosk 2", updated.Name())
		assert.Equal(t, "250.50", updated.GoalSum().String())
		assert.Equal(t, project.Description(), updated.Description())
		assert.Equal(t, project.Deadline(), updated.Deadline())
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		_, _, err := f.svc.Update(ctx, dtos.ProjectUpdateCommand{ProjectID: project.ID(), UserID: uuid.New(), Name: &newName})
		assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
	})

	t.Run("changed category must exist", func(t *testing.T) {
		unknown := int64(42)
		_, _, err := f.svc.Update(ctx, dtos.ProjectUpdateCommand{ProjectID: project.ID(), UserID: f.owner.ID(), CategoryID: &unknown})
		assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)
	})

	t.Run("unchanged category is not looked up", func(t *testing.T) {
		same := project.CategoryID()
		_, changed, err := f.svc.Update(ctx, dtos.ProjectUpdateCommand{ProjectID: project.ID(), UserID: f.owner.ID(), CategoryID: &same})
		require.NoError(t, err)
		assert.Empty(t, changed)
	})
}

func TestProjectService_Delete(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	project := apptest.NewProject("Solar Kiosk", f.owner.ID(), f.company.ID())
	other := apptest.NewProject("Wind Farm", f.owner.ID(), f.company.ID())
	f.store.SeedProject(project)
	f.store.SeedProject(other)

	_, err := f.svc.Delete(ctx, project.ID(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	deleted, err := f.svc.Delete(ctx, project.ID(), f.owner.ID())
	require.NoError(t, err)
	assert.Equal(t, project.ID(), deleted.ID())

	_, err = f.store.Projects().FindByID(ctx, project.ID())
	assert.ErrorIs(t, err, domainerrors.ErrProjectNotFound)
	_, err = f.store.Projects().FindByID(ctx, other.ID())
	assert.NoError(t, err)
}

func TestCompanyService(t *testing.T) {
	store := apptest.NewStore()
	store.Seed()
	rep := apptest.NewUser("rep")
	store.SeedUser(rep)
	svc := services.NewCompanyService(store.Companies(), store.Users(), store.Catalog())
	ctx := context.Background()

	country, err := svc.ResolveCountry(ctx, valueobjects.CountryKZ)
	require.NoError(t, err)
	assert.Equal(t, "Kazakhstan", country.Name)

	_, err = svc.ResolveCountry(ctx, valueobjects.MustNewCountryCode("DE"))
	assert.ErrorIs(t, err, domainerrors.ErrCountryNotFound)

	payload := companyPayload(t, rep.ID(), "123456789012")
	company, err := svc.Create(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, "KZ", company.Country().Code())
	assert.Equal(t, "Aigerim", company.Founder().FirstName)

	_, err = svc.Create(ctx, payload)
	assert.ErrorIs(t, err, domainerrors.ErrCompanyAlreadyExists)

	_, err = svc.Create(ctx, companyPayload(t, uuid.New(), "999999999999"))
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	mine, err := svc.ListByRepresentative(ctx, rep.ID())
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func companyPayload(t *testing.T, rep uuid.UUID, bin string) dtos.CompanyCreatePayload {
	t.Helper()
	name, _ := valueobjects.NewName("Steppe Energy")
	bn, err := valueobjects.NewBusinessNumber(valueobjects.CountryKZ, bin)
	require.NoError(t, err)
	established, _ := valueobjects.NewEstablishedDate(time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC))
	desc, _ := valueobjects.NewDescription("Renewables")
	first, _ := valueobjects.NewFirstName("Aigerim")
	last, _ := valueobjects.NewLastName("Nurlanova")
	return dtos.CompanyCreatePayload{
		Name:             name,
		BusinessNumber:   bn,
		EstablishedDate:  established,
		Description:      desc,
		FounderFirstName: first,
		FounderLastName:  last,
		RepresentativeID: rep,
	}
}

func registerCommand(t *testing.T, username, email string) dtos.RegisterCommand {
	t.Helper()
	u, err := valueobjects.NewUsername(username)
	require.NoError(t, err)
	e, err := valueobjects.NewEmail(email)
	require.NoError(t, err)
	p, _ := valueobjects.NewPassword("password123")
	first, _ := valueobjects.NewFirstName("Test")
	last, _ := valueobjects.NewLastName("User")
	return dtos.RegisterCommand{Username: u, Email: e, Password: p, FirstName: first, LastName: last}
}

func TestUserService_Register(t *testing.T) {
	store := apptest.NewStore()
	svc := services.NewUserService(store.Users(), store.Roles(), apptest.PlainHasher{})
	ctx := context.Background()

	user, err := svc.Register(ctx, registerCommand(t, "aigerim", "aigerim@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "hashed:password123", user.PasswordHash())

	roles, _ := store.Roles().RolesOf(ctx, user.ID())
	assert.Equal(t, []string{entities.RoleUser}, roles)

	_, err = svc.Register(ctx, registerCommand(t, "aigerim", "other@example.com"))
	assert.ErrorIs(t, err, domainerrors.ErrUsernameAlreadyExists)

	_, err = svc.Register(ctx, registerCommand(t, "other", "aigerim@example.com"))
	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyExists)
}

func TestUserService_Authenticate_SameErrorForEmailAndPassword(t *testing.T) {
	store := apptest.NewStore()
	svc := services.NewUserService(store.Users(), store.Roles(), apptest.PlainHasher{})
	ctx := context.Background()
	user := apptest.NewUser("aigerim")
	store.SeedUser(user)

	got, err := svc.Authenticate(ctx, "aigerim@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID(), got.ID())

	_, wrongPassword := svc.Authenticate(ctx, "aigerim@example.com", "nope")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@example.com", "password123")

	assert.ErrorIs(t, wrongPassword, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

// verifyCounter считает вызовы Verify поверх PlainHasher.
type verifyCounter struct {
	apptest.PlainHasher
	calls int
}

func (h *verifyCounter) Verify(hash, password string) (bool, error) {
	h.calls++
	return h.PlainHasher.Verify(hash, password)
}

func TestUserService_Authenticate_UnknownEmailStillVerifies(t *testing.T) {
	store := apptest.NewStore()
	hasher := &verifyCounter{}
	svc := services.NewUserService(store.Users(), store.Roles(), hasher)
	ctx := context.Background()
	store.SeedUser(apptest.NewUser("aigerim"))

	_, err := svc.Authenticate(ctx, "aigerim@example.com", "nope")
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, 1, hasher.calls)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "nope")
	require.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, 2, hasher.calls, "unknown email must cost one password check too")

	// Фиктивный пароль не открывает несуществующий аккаунт
	_, err = svc.Authenticate(ctx, "nobody@example.com", "fundhub-dummy-password")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_UpdateProfile(t *testing.T) {
	store := apptest.NewStore()
	svc := services.NewUserService(store.Users(), store.Roles(), apptest.PlainHasher{})
	user := apptest.NewUser("aigerim")
	store.SeedUser(user)

	phone, _ := valueobjects.NewPhoneNumber("+7 702 699 28 39")
	about, _ := valueobjects.NewDescription("Maker")

	updated, err := svc.UpdateProfile(context.Background(), dtos.ProfileUpdateCommand{UserID: user.ID(), Phone: &phone, About: &about})
	require.NoError(t, err)
	assert.Equal(t, "+77026992839", updated.Phone())
	assert.Equal(t, "Maker", updated.About())
	assert.Equal(t, "Test", updated.FirstName())
}

func TestPermissionService(t *testing.T) {
	store := apptest.NewStore()
	svc := services.NewPermissionService(store.Users(), store.Roles())
	ctx := context.Background()

	editor := apptest.NewUser("editor")
	store.SeedUser(editor, entities.RoleEditor)
	plain := apptest.NewUser("plain")
	store.SeedUser(plain, entities.RoleUser)
	admin := entities.ReconstructUser(uuid.New(), "admin", "admin@example.com", "", "A", "B", "", "", true, true, time.Now(), time.Now())
	store.SeedUser(admin)

	tests := []struct {
		name string
		user *entities.User
		want bool
	}{
		{"editor can add news", editor, true},
		{"plain user cannot", plain, false},
		{"superuser bypasses roles", admin, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := svc.HasPermission(ctx, tt.user, services.PermAddNews)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	_, err := svc.Require(ctx, plain.ID(), services.PermDeleteNews)
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
	assert.Equal(t, "add.news.news", services.PermAddNews.Code())
}

func TestTokenService(t *testing.T) {
	signer := apptest.NewStubSigner()
	svc := services.NewTokenService(signer, 15*time.Minute, 24*time.Hour)
	user := apptest.NewUser("aigerim")

	access, err := svc.IssueAccess(user)
	require.NoError(t, err)
	refresh, err := svc.IssueRefresh(user)
	require.NoError(t, err)

	claims, err := svc.Verify(access.Token, ports.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID().String(), claims.Subject)
	assert.Equal(t, "aigerim@example.com", claims.Email)

	refreshClaims, err := svc.Verify(refresh.Token, ports.TokenTypeRefresh)
	require.NoError(t, err)
	assert.Empty(t, refreshClaims.Email, "refresh token carries no email")

	t.Run("wrong type is invalid", func(t *testing.T) {
		_, err := svc.Verify(refresh.Token, ports.TokenTypeAccess)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})

	t.Run("missing claims are invalid", func(t *testing.T) {
		token := signer.Forge(ports.TokenClaims{Type: ports.TokenTypeRefresh, ExpiresAt: time.Now().Add(time.Hour)})
		_, err := svc.Verify(token, ports.TokenTypeRefresh)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})

	t.Run("expired differs from invalid", func(t *testing.T) {
		signer.Now = func() time.Time { return time.Now().Add(48 * time.Hour) }
		defer func() { signer.Now = time.Now }()

		_, err := svc.Verify(refresh.Token, ports.TokenTypeRefresh)
		assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
		assert.NotErrorIs(t, err, domainerrors.ErrInvalidToken)
	})
}
