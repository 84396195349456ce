package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/dtos"
	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
)

// UserService - регистрация, аутентификация и профиль.
type UserService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher ports.PasswordHasher

	// Хеш для неизвестного email: проверка пароля занимает то же время,
	// что и для существующего пользователя.
	dummyOnce sync.Once
	dummyHash string
}

const dummyPassword = "fundhub-dummy-password"

// NewUserService создаёт UserService.
func NewUserService(users ports.UserRepository, roles ports.RoleRepository, hasher ports.PasswordHasher) *UserService {
	return &UserService{users: users, roles: roles, hasher: hasher}
}

// Register создаёт пользователя с ролью "user".
// Username проверяется раньше email.
func (s *UserService) Register(ctx context.Context, cmd dtos.RegisterCommand) (*entities.User, error) {
	exists, err := s.users.ExistsByUsername(ctx, cmd.Username.String())
	if err != nil {
		return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
	}
	if exists {
		return nil, domainerrors.ErrUsernameAlreadyExists
	}

	exists, err = s.users.ExistsByEmail(ctx, cmd.Email.String())
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if exists {
		return nil, domainerrors.ErrEmailAlreadyExists
	}

	hash, err := s.hasher.Hash(cmd.Password.Plain())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entities.NewUser(cmd.Username, cmd.Email, hash, cmd.FirstName, cmd.LastName)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.roles.AssignRole(ctx, user.ID(), entities.RoleUser); err != nil {
		return nil, fmt.Errorf("failed to assign default role: %w", err)
	}
	return user, nil
}

// Authenticate проверяет email и пароль.
// Неизвестный email и неверный пароль дают одну и ту же ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if domainerrors.IsNotFound(err) {
			s.burnVerify(password)
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(user.PasswordHash(), password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, domainerrors.ErrUserInactive
	}
	return user, nil
}

// burnVerify выполняет проверку пароля против фиктивного хеша. Результат не используется.
func (s *UserService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPassword)
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(s.dummyHash, password)
	}
}

// Get загружает пользователя.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile применяет частичное обновление профиля.
func (s *UserService) UpdateProfile(ctx context.Context, cmd dtos.ProfileUpdateCommand) (*entities.User, error) {
	user, err := s.users.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.FirstName != nil {
		user.ChangeFirstName(*cmd.FirstName)
	}
	if cmd.LastName != nil {
		user.ChangeLastName(*cmd.LastName)
	}
	if cmd.About != nil {
		user.ChangeAbout(*cmd.About)
	}
	if cmd.Phone != nil {
		user.ChangePhone(*cmd.Phone)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
