// Package apptest - in-memory реализации портов для тестов application layer.
//
// Store хранит все сущности в памяти и реализует UnitOfWork со снимками:
// ошибка внутри Execute восстанавливает состояние на момент начала транзакции.
// Сущности хранятся копиями, поэтому изменения объекта вне репозитория
// не видны до вызова Update.
package apptest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Haleralex/fundhub/internal/application/ports"
	"github.com/Haleralex/fundhub/internal/domain/entities"
	domainerrors "github.com/Haleralex/fundhub/internal/domain/errors"
	"github.com/Haleralex/fundhub/internal/domain/events"
)

type state struct {
	users         map[uuid.UUID]entities.User
	userRoles     map[uuid.UUID][]string
	rolePerms     map[string][]string
	projects      map[uuid.UUID]entities.Project
	members       []entities.TeamMember
	phones        []entities.ProjectPhone
	links         []entities.ProjectSocialLink
	companies     map[uuid.UUID]entities.Company
	categories    map[int64]entities.Category
	fundingModels map[int64]entities.FundingModel
	countries     map[string]entities.Country
	news          map[uuid.UUID]entities.News
	favorites     []entities.Favorite
	outbox        []events.DomainEvent
}

func (s state) clone() state {
	c := state{
		users:         cloneMap(s.users),
		userRoles:     make(map[uuid.UUID][]string, len(s.userRoles)),
		rolePerms:     make(map[string][]string, len(s.rolePerms)),
		projects:      cloneMap(s.projects),
		members:       append([]entities.TeamMember(nil), s.members...),
		phones:        append([]entities.ProjectPhone(nil), s.phones...),
		links:         append([]entities.ProjectSocialLink(nil), s.links...),
		companies:     cloneMap(s.companies),
		categories:    cloneMap(s.categories),
		fundingModels: cloneMap(s.fundingModels),
		countries:     cloneMap(s.countries),
		news:          cloneMap(s.news),
		favorites:     append([]entities.Favorite(nil), s.favorites...),
		outbox:        append([]events.DomainEvent(nil), s.outbox...),
	}
	for k, v := range s.userRoles {
		c.userRoles[k] = append([]string(nil), v...)
	}
	for k, v := range s.rolePerms {
		c.rolePerms[k] = append([]string(nil), v...)
	}
	return c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Store - общее in-memory хранилище. Безопасно для конкурентного доступа,
// но транзакции не изолированы друг от друга.
type Store struct {
	mu    sync.Mutex
	state state

	// FailOn позволяет внедрить ошибку в операцию, например "team_members.Create".
	FailOn map[string]error
	// FailOnce - как FailOn, но ошибка срабатывает только при первом вызове.
	FailOnce map[string]error

	// RetryOn - ошибка, после которой Execute откатывает и повторяет fn,
	// как UnitOfWork после deadlock. Не больше TxAttempts попыток.
	RetryOn error

	Commits   int
	Rollbacks int
	Attempts  int
}

// TxAttempts - предел попыток Execute при RetryOn.
const TxAttempts = 3

// NewStore создаёт пустое хранилище с ролями user и editor.
func NewStore() *Store {
	s := &Store{
		state:    state{}.clone(),
		FailOn:   map[string]error{},
		FailOnce: map[string]error{},
	}
	s.state.rolePerms[entities.RoleUser] = nil
	s.state.rolePerms[entities.RoleEditor] = []string{"add.news.news", "change.news.news", "delete.news.news"}
	return s
}

func (s *Store) fail(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.FailOnce[op]; ok {
		delete(s.FailOnce, op)
		return err
	}
	if err, ok := s.FailOn[op]; ok {
		return err
	}
	return nil
}

// ============================================
// UnitOfWork + EventPublisher
// ============================================

var _ ports.UnitOfWork = (*Store)(nil)
var _ ports.EventPublisher = (*Store)(nil)

type txKey struct{}

// Execute выполняет fn; при ошибке откатывает все изменения, сделанные внутри.
// Вложенный Execute переиспользует внешнюю транзакцию. Ошибка RetryOn
// запускает fn заново на восстановленном состоянии.
func (s *Store) Execute(ctx context.Context, fn func(context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	for attempt := 1; ; attempt++ {
		err := s.runOnce(ctx, fn)
		if err == nil || s.RetryOn == nil || !errors.Is(err, s.RetryOn) || attempt >= TxAttempts {
			return err
		}
	}
}

func (s *Store) runOnce(ctx context.Context, fn func(context.Context) error) error {
	s.mu.Lock()
	snapshot := s.state.clone()
	s.Attempts++
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.state = snapshot
		s.Rollbacks++
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.Commits++
	s.mu.Unlock()
	return nil
}

// Publish сохраняет событие в in-memory outbox.
func (s *Store) Publish(_ context.Context, event events.DomainEvent) error {
	if err := s.fail("outbox.Publish"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.outbox = append(s.state.outbox, event)
	return nil
}

// PublishBatch сохраняет несколько событий.
func (s *Store) PublishBatch(ctx context.Context, list []events.DomainEvent) error {
	for _, e := range list {
		if err := s.Publish(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Events возвращает события outbox.
func (s *Store) Events() []events.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.DomainEvent(nil), s.state.outbox...)
}

// ============================================
// Seeding & inspection
// ============================================

// SeedCategory добавляет категорию.
func (s *Store) SeedCategory(c entities.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.categories[c.ID] = c
}

// SeedFundingModel добавляет модель финансирования.
func (s *Store) SeedFundingModel(f entities.FundingModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.fundingModels[f.ID] = f
}

// SeedCountry добавляет страну.
func (s *Store) SeedCountry(c entities.Country) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.countries[c.Code] = c
}

// SeedUser сохраняет пользователя с ролями.
func (s *Store) SeedUser(u *entities.User, roles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.users[u.ID()] = *u
	s.state.userRoles[u.ID()] = append(s.state.userRoles[u.ID()], roles...)
}

// SeedCompany сохраняет компанию.
func (s *Store) SeedCompany(c *entities.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.companies[c.ID()] = *c
}

// SeedProject сохраняет проект.
func (s *Store) SeedProject(p *entities.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.projects[p.ID()] = *p
}

// Counts - количество строк проектной части, для проверок атомарности.
type Counts struct {
	Projects, TeamMembers, Phones, SocialLinks, Companies, Users, News int
}

// Counts возвращает текущее количество строк.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Projects:    len(s.state.projects),
		TeamMembers: len(s.state.members),
		Phones:      len(s.state.phones),
		SocialLinks: len(s.state.links),
		Companies:   len(s.state.companies),
		Users:       len(s.state.users),
		News:        len(s.state.news),
	}
}

// ============================================
// Repositories
// ============================================

// Users возвращает репозиторий пользователей.
func (s *Store) Users() *UserRepo { return &UserRepo{s} }

// Roles возвращает репозиторий ролей.
func (s *Store) Roles() *RoleRepo { return &RoleRepo{s} }

// Projects возвращает репозиторий проектов.
func (s *Store) Projects() *ProjectRepo { return &ProjectRepo{s} }

// TeamMembers возвращает репозиторий участников команды.
func (s *Store) TeamMembers() *TeamMemberRepo { return &TeamMemberRepo{s} }

// Phones возвращает репозиторий телефонов проектов.
func (s *Store) Phones() *PhoneRepo { return &PhoneRepo{s} }

// SocialLinks возвращает репозиторий соцсетей проектов.
func (s *Store) SocialLinks() *SocialLinkRepo { return &SocialLinkRepo{s} }

// Companies возвращает репозиторий компаний.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s} }

// Catalog возвращает репозиторий справочников.
func (s *Store) Catalog() *CatalogRepo { return &CatalogRepo{s} }

// News возвращает репозиторий новостей.
func (s *Store) News() *NewsRepo { return &NewsRepo{s} }

// Favorites возвращает репозиторий избранного.
func (s *Store) Favorites() *FavoriteRepo { return &FavoriteRepo{s} }

// UserRepo implements ports.UserRepository.
type UserRepo struct{ s *Store }

var _ ports.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *entities.User) error {
	if err := r.s.fail("users.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.state.users {
		if existing.Username() == u.Username() {
			return domainerrors.ErrUsernameAlreadyExists
		}
		if existing.Email() == u.Email() {
			return domainerrors.ErrEmailAlreadyExists
		}
	}
	r.s.state.users[u.ID()] = *u
	return nil
}

func (r *UserRepo) Update(_ context.Context, u *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.state.users[u.ID()]; !ok {
		return domainerrors.ErrUserNotFound
	}
	r.s.state.users[u.ID()] = *u
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.state.users[id]
	if !ok {
		return nil, domainerrors.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.state.users {
		if u.Email() == strings.ToLower(strings.TrimSpace(email)) {
			return &u, nil
		}
	}
	return nil, domainerrors.ErrUserNotFound
}

func (r *UserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.state.users {
		if u.Username() == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.state.users {
		if u.Email() == email {
			return true, nil
		}
	}
	return false, nil
}

// RoleRepo implements ports.RoleRepository.
type RoleRepo struct{ s *Store }

var _ ports.RoleRepository = (*RoleRepo)(nil)

func (r *RoleRepo) AssignRole(_ context.Context, userID uuid.UUID, roleName string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.state.rolePerms[roleName]; !ok {
		return domainerrors.ErrRoleNotFound
	}
	r.s.state.userRoles[userID] = append(r.s.state.userRoles[userID], roleName)
	return nil
}

func (r *RoleRepo) PermissionsOf(_ context.Context, userID uuid.UUID) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var perms []string
	for _, role := range r.s.state.userRoles[userID] {
		perms = append(perms, r.s.state.rolePerms[role]...)
	}
	return perms, nil
}

func (r *RoleRepo) RolesOf(_ context.Context, userID uuid.UUID) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]string(nil), r.s.state.userRoles[userID]...), nil
}

// ProjectRepo implements ports.ProjectRepository.
type ProjectRepo struct{ s *Store }

var _ ports.ProjectRepository = (*ProjectRepo)(nil)

func (r *ProjectRepo) Create(_ context.Context, p *entities.Project) error {
	if err := r.s.fail("projects.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.state.projects {
		if existing.Name() == p.Name() {
			return domainerrors.ErrProjectAlreadyExists
		}
	}
	r.s.state.projects[p.ID()] = *p
	return nil
}

func (r *ProjectRepo) Update(_ context.Context, p *entities.Project) error {
	if err := r.s.fail("projects.Update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.state.projects[p.ID()]; !ok {
		return domainerrors.ErrProjectNotFound
	}
	r.s.state.projects[p.ID()] = *p
	return nil
}

// Delete удаляет проект каскадно, как ON DELETE CASCADE в схеме.
func (r *ProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.state.projects[id]; !ok {
		return domainerrors.ErrProjectNotFound
	}
	delete(r.s.state.projects, id)
	r.s.state.members = filter(r.s.state.members, func(m entities.TeamMember) bool { return m.ProjectID() != id })
	r.s.state.phones = filter(r.s.state.phones, func(p entities.ProjectPhone) bool { return p.ProjectID() != id })
	r.s.state.links = filter(r.s.state.links, func(l entities.ProjectSocialLink) bool { return l.ProjectID() != id })
	r.s.state.favorites = filter(r.s.state.favorites, func(f entities.Favorite) bool { return f.ProjectID != id })
	return nil
}

func (r *ProjectRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.state.projects[id]
	if !ok {
		return nil, domainerrors.ErrProjectNotFound
	}
	return &p, nil
}

func (r *ProjectRepo) List(_ context.Context, f ports.ProjectFilter, offset, limit int) ([]*entities.Project, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*entities.Project
	for _, p := range r.s.state.projects {
		if f.CategoryID != nil && p.CategoryID() != *f.CategoryID {
			continue
		}
		if f.CreatorID != nil && p.CreatorID() != *f.CreatorID {
			continue
		}
		if f.CompanyID != nil && p.CompanyID() != *f.CompanyID {
			continue
		}
		if f.IsActive != nil && p.IsActive() != *f.IsActive {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name()), strings.ToLower(f.Search)) {
			continue
		}
		if f.IDs != nil && !containsID(f.IDs, p.ID()) {
			continue
		}
		p := p
		matched = append(matched, &p)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt().After(matched[j].CreatedAt())
	})
	return page(matched, offset, limit), len(matched), nil
}

// TeamMemberRepo implements ports.TeamMemberRepository.
type TeamMemberRepo struct{ s *Store }

var _ ports.TeamMemberRepository = (*TeamMemberRepo)(nil)

func (r *TeamMemberRepo) Create(_ context.Context, m *entities.TeamMember) error {
	if err := r.s.fail("team_members.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.members = append(r.s.state.members, *m)
	return nil
}

func (r *TeamMemberRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]*entities.TeamMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entities.TeamMember
	for _, m := range r.s.state.members {
		if m.ProjectID() == projectID {
			m := m
			result = append(result, &m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Position() < result[j].Position() })
	return result, nil
}

// PhoneRepo implements ports.ProjectPhoneRepository.
type PhoneRepo struct{ s *Store }

var _ ports.ProjectPhoneRepository = (*PhoneRepo)(nil)

func (r *PhoneRepo) Create(_ context.Context, p *entities.ProjectPhone) error {
	if err := r.s.fail("phones.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.state.phones {
		if existing.ProjectID() == p.ProjectID() && existing.Number().Equals(p.Number()) {
			return domainerrors.ErrPhoneAlreadyExists
		}
	}
	r.s.state.phones = append(r.s.state.phones, *p)
	return nil
}

func (r *PhoneRepo) FindByProject(_ context.Context, projectID uuid.UUID) (*entities.ProjectPhone, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.state.phones {
		if p.ProjectID() == projectID {
			return &p, nil
		}
	}
	return nil, nil
}

// SocialLinkRepo implements ports.ProjectSocialLinkRepository.
type SocialLinkRepo struct{ s *Store }

var _ ports.ProjectSocialLinkRepository = (*SocialLinkRepo)(nil)

func (r *SocialLinkRepo) Create(_ context.Context, l *entities.ProjectSocialLink) error {
	if err := r.s.fail("social_links.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.state.links {
		if existing.ProjectID() == l.ProjectID() && existing.Link().Link() == l.Link().Link() {
			return domainerrors.ErrSocialLinkAlreadyExists
		}
	}
	r.s.state.links = append(r.s.state.links, *l)
	return nil
}

func (r *SocialLinkRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]*entities.ProjectSocialLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entities.ProjectSocialLink
	for _, l := range r.s.state.links {
		if l.ProjectID() == projectID {
			l := l
			result = append(result, &l)
		}
	}
	return result, nil
}

// CompanyRepo implements ports.CompanyRepository.
type CompanyRepo struct{ s *Store }

var _ ports.CompanyRepository = (*CompanyRepo)(nil)

func (r *CompanyRepo) Create(_ context.Context, c *entities.Company) error {
	if err := r.s.fail("companies.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.state.companies {
		if existing.Country().Equals(c.Country()) && existing.BusinessNumber().Value() == c.BusinessNumber().Value() {
			return domainerrors.ErrCompanyAlreadyExists
		}
	}
	r.s.state.companies[c.ID()] = *c
	return nil
}

func (r *CompanyRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.state.companies[id]
	if !ok {
		return nil, domainerrors.ErrCompanyNotFound
	}
	return &c, nil
}

func (r *CompanyRepo) ListByRepresentative(_ context.Context, userID uuid.UUID) ([]*entities.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entities.Company
	for _, c := range r.s.state.companies {
		if c.RepresentativeID() == userID {
			c := c
			result = append(result, &c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt().After(result[j].CreatedAt()) })
	return result, nil
}

// CatalogRepo implements ports.CatalogRepository.
type CatalogRepo struct{ s *Store }

var _ ports.CatalogRepository = (*CatalogRepo)(nil)

func (r *CatalogRepo) FindCategory(_ context.Context, id int64) (*entities.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.state.categories[id]
	if !ok {
		return nil, domainerrors.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *CatalogRepo) FindFundingModel(_ context.Context, id int64) (*entities.FundingModel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.state.fundingModels[id]
	if !ok {
		return nil, domainerrors.ErrFundingModelNotFound
	}
	return &f, nil
}

func (r *CatalogRepo) FindCountry(_ context.Context, code string) (*entities.Country, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.state.countries[code]
	if !ok {
		return nil, domainerrors.ErrCountryNotFound
	}
	return &c, nil
}

func (r *CatalogRepo) ListCategories(_ context.Context) ([]*entities.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entities.Category, 0, len(r.s.state.categories))
	for _, c := range r.s.state.categories {
		c := c
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *CatalogRepo) ListFundingModels(_ context.Context) ([]*entities.FundingModel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entities.FundingModel, 0, len(r.s.state.fundingModels))
	for _, f := range r.s.state.fundingModels {
		f := f
		result = append(result, &f)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *CatalogRepo) ListCountries(_ context.Context) ([]*entities.Country, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*entities.Country, 0, len(r.s.state.countries))
	for _, c := range r.s.state.countries {
		c := c
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// NewsRepo implements ports.NewsRepository.
type NewsRepo struct{ s *Store }

var _ ports.NewsRepository = (*NewsRepo)(nil)

func (r *NewsRepo) Create(_ context.Context, n *entities.News) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.state.news[n.ID()] = *n
	return nil
}

func (r *NewsRepo) Update(_ context.Context, n *entities.News) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.state.news[n.ID()]; !ok {
		return domainerrors.ErrNewsNotFound
	}
	r.s.state.news[n.ID()] = *n
	return nil
}

func (r *NewsRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.state.news[id]; !ok {
		return domainerrors.ErrNewsNotFound
	}
	delete(r.s.state.news, id)
	return nil
}

func (r *NewsRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.News, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.state.news[id]
	if !ok {
		return nil, domainerrors.ErrNewsNotFound
	}
	return &n, nil
}

func (r *NewsRepo) List(_ context.Context, f ports.NewsFilter, offset, limit int) ([]*entities.News, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*entities.News
	for _, n := range r.s.state.news {
		if f.ProjectID != nil && (n.ProjectID() == nil || *n.ProjectID() != *f.ProjectID) {
			continue
		}
		n := n
		matched = append(matched, &n)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt().After(matched[j].CreatedAt()) })
	return page(matched, offset, limit), len(matched), nil
}

// FavoriteRepo implements ports.FavoriteRepository.
type FavoriteRepo struct{ s *Store }

var _ ports.FavoriteRepository = (*FavoriteRepo)(nil)

func (r *FavoriteRepo) Add(_ context.Context, f *entities.Favorite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.state.favorites {
		if existing.UserID == f.UserID && existing.ProjectID == f.ProjectID {
			return domainerrors.ErrFavoriteAlreadyExists
		}
	}
	r.s.state.favorites = append(r.s.state.favorites, *f)
	return nil
}

func (r *FavoriteRepo) Remove(_ context.Context, userID, projectID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	before := len(r.s.state.favorites)
	r.s.state.favorites = filter(r.s.state.favorites, func(f entities.Favorite) bool {
		return f.UserID != userID || f.ProjectID != projectID
	})
	if len(r.s.state.favorites) == before {
		return domainerrors.ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepo) ProjectIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uuid.UUID
	for i := len(r.s.state.favorites) - 1; i >= 0; i-- {
		if f := r.s.state.favorites[i]; f.UserID == userID {
			ids = append(ids, f.ProjectID)
		}
	}
	return ids, nil
}

// ============================================
// helpers
// ============================================

func filter[T any](items []T, keep func(T) bool) []T {
	result := items[:0:0]
	for _, it := range items {
		if keep(it) {
			result = append(result, it)
		}
	}
	return result
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
