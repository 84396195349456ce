package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
)

// ============================================
// Mock Use Cases
// ============================================

type MockGetProfileUseCase struct {
	ExecuteFunc func(ctx context.Context, userID uuid.UUID) (*dtos.UserDTO, error)
}

func (m *MockGetProfileUseCase) Execute(ctx context.Context, userID uuid.UUID) (*dtos.UserDTO, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

type MockUpdateProfileUseCase struct {
	ExecuteFunc func(ctx context.Context, cmd dtos.ProfileUpdateCommand) (*dtos.UserDTO, error)
}

func (m *MockUpdateProfileUseCase) Execute(ctx context.Context, cmd dtos.ProfileUpdateCommand) (*dtos.UserDTO, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, cmd)
	}
	return nil, errors.New("not implemented")
}

type MockFavoritesUseCase struct {
	AddFunc    func(ctx context.Context, userID, projectID uuid.UUID) error
	RemoveFunc func(ctx context.Context, userID, projectID uuid.UUID) error
	ListFunc   func(ctx context.Context, userID uuid.UUID) ([]dtos.ProjectDTO, error)
}

func (m *MockFavoritesUseCase) Add(ctx context.Context, userID, projectID uuid.UUID) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, userID, projectID)
	}
	return errors.New("not implemented")
}

func (m *MockFavoritesUseCase) Remove(ctx context.Context, userID, projectID uuid.UUID) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, projectID)
	}
	return errors.New("not implemented")
}

func (m *MockFavoritesUseCase) List(ctx context.Context, userID uuid.UUID) ([]dtos.ProjectDTO, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

type MockListMyCompaniesUseCase struct {
	ExecuteFunc func(ctx context.Context, userID uuid.UUID) ([]dtos.CompanyDTO, error)
}

func (m *MockListMyCompaniesUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]dtos.CompanyDTO, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

// ============================================
// Test Setup
// ============================================

type userMocks struct {
	getProfile    *MockGetProfileUseCase
	updateProfile *MockUpdateProfileUseCase
	favorites     *MockFavoritesUseCase
	companies     *MockListMyCompaniesUseCase
}

func setupUserRouter(auth gin.HandlerFunc) (*gin.Engine, *userMocks) {
	m := &userMocks{
		getProfile:    &MockGetProfileUseCase{},
		updateProfile: &MockUpdateProfileUseCase{},
		favorites:     &MockFavoritesUseCase{},
		companies:     &MockListMyCompaniesUseCase{},
	}
	router := newTestRouter()
	NewUserHandler(m.getProfile, m.updateProfile, m.favorites, m.companies).
		RegisterRoutes(router.Group("/api/v1"), auth)
	return router, m
}

// ============================================
// Tests
// ============================================

func TestUserHandler_Profile(t *testing.T) {
	userID := uuid.New()

	t.Run("Get", func(t *testing.T) {
		router, m := setupUserRouter(fakeAuth(userID))
		m.getProfile.ExecuteFunc = func(_ context.Context, id uuid.UUID) (*dtos.UserDTO, error) {
			return &dtos.UserDTO{ID: id.String(), Username: "alice"}, nil
		}

		w := doJSON(router, http.MethodGet, "/api/v1/users/me", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), decodeBody[dtos.UserDTO](t, w).ID)
	})

	t.Run("RequiresAuth", func(t *testing.T) {
		router, _ := setupUserRouter(denyAuth())

		w := doJSON(router, http.MethodGet, "/api/v1/users/me", "")

		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "not_authenticated", decodeError(t, w).Code)
	})

	t.Run("UpdatePhone", func(t *testing.T) {
		router, m := setupUserRouter(fakeAuth(userID))
		var got dtos.ProfileUpdateCommand
		m.updateProfile.ExecuteFunc = func(_ context.Context, cmd dtos.ProfileUpdateCommand) (*dtos.UserDTO, error) {
			got = cmd
			return &dtos.UserDTO{ID: cmd.UserID.String(), Phone: cmd.Phone.String()}, nil
		}

		w := doJSON(router, http.MethodPatch, "/api/v1/users/me", `{"phone":"+7 702 699 2839","about":"Builder"}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, userID, got.UserID)
		require.NotNil(t, got.Phone)
		assert.Equal(t, "+77026992839", got.Phone.String())
		require.NotNil(t, got.About)
		assert.Nil(t, got.FirstName)
	})

	t.Run("UpdateInvalidPhone", func(t *testing.T) {
		router, _ := setupUserRouter(fakeAuth(userID))

		w := doJSON(router, http.MethodPatch, "/api/v1/users/me", `{"phone":"12"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		require.Len(t, resp.Fields, 1)
		assert.Equal(t, "phone", resp.Fields[0].Field)
	})
}

func TestUserHandler_Favorites(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()

	t.Run("Add", func(t *testing.T) {
		router, m := setupUserRouter(fakeAuth(userID))
		m.favorites.AddFunc = func(_ context.Context, u, p uuid.UUID) error {
			assert.Equal(t, userID, u)
			assert.Equal(t, projectID, p)
			return nil
		}

		w := doJSON(router, http.MethodPost, "/api/v1/users/me/favorites/"+projectID.String(), "")

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("AddUnknownProject", func(t *testing.T) {
		router, m := setupUserRouter(fakeAuth(userID))
		m.favorites.AddFunc = func(context.Context, uuid.UUID, uuid.UUID) error {
			return domainerrors.ErrProjectNotFound
		}

		w := doJSON(router, http.MethodPost, "/api/v1/users/me/favorites/"+projectID.String(), "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Remove", func(t *testing.T) {
		router, m := setupUserRouter(fakeAuth(userID))
		m.favorites.RemoveFunc = func(context.Context, uuid.UUID, uuid.UUID) error { return nil }

		w := doJSON(router, http.MethodDelete, "/api/v1/users/me/favorites/"+projectID.String(), "")

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("ListEmptyIsArray", func(t *testing.T) {
		router, m := setupUserRouter(fakeAuth(userID))
		m.favorites.ListFunc = func(context.Context, uuid.UUID) ([]dtos.ProjectDTO, error) { return nil, nil }

		w := doJSON(router, http.MethodGet, "/api/v1/users/me/favorites", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})
}

func TestUserHandler_ListCompanies(t *testing.T) {
	userID := uuid.New()
	router, m := setupUserRouter(fakeAuth(userID))
	m.companies.ExecuteFunc = func(_ context.Context, id uuid.UUID) ([]dtos.CompanyDTO, error) {
		return []dtos.CompanyDTO{{RepresentativeID: id.String(), Name: "Steppe Energy"}}, nil
	}

	w := doJSON(router, http.MethodGet, "/api/v1/users/me/companies", "")

	require.Equal(t, http.StatusOK, w.Code)
	companies := decodeBody[[]dtos.CompanyDTO](t, w)
	require.Len(t, companies, 1)
	assert.Equal(t, userID.String(), companies[0].RepresentativeID)
}
