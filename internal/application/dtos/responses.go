package dtos

import "time"

// ============================================
// Response DTOs (Результаты операций)
// ============================================

// UserDTO - представление пользователя для API. Не раскрывает password hash.
type UserDTO struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	About       string    `json:"about"`
	Phone       string    `json:"phone,omitempty"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TokenPairDTO - результат логина.
type TokenPairDTO struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// TokenDTO - один выпущенный токен (reissue).
type TokenDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenClaimsDTO - результат проверки access токена.
type TokenClaimsDTO struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TeamMemberDTO - участник команды.
type TeamMemberDTO struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Description string `json:"description"`
}

// SocialLinkDTO - ссылка на соцсеть.
type SocialLinkDTO struct {
	Platform string `json:"platform"`
	Link     string `json:"link"`
}

// ProjectDTO - краткое представление проекта (списки).
type ProjectDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	CategoryID     int64     `json:"category_id"`
	CreatorID      string    `json:"creator_id"`
	FundingModelID int64     `json:"funding_model_id"`
	CompanyID      string    `json:"company_id"`
	GoalSum        string    `json:"goal_sum"`    // decimal string, "100.00"
	CurrentSum     string    `json:"current_sum"` // decimal string
	Deadline       string    `json:"deadline"`    // YYYY-MM-DD
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProjectDetailDTO - проект со всеми зависимыми данными.
type ProjectDetailDTO struct {
	ProjectDTO
	TeamMembers []TeamMemberDTO `json:"team_members"`
	Phone       string          `json:"phone,omitempty"`
	SocialLinks []SocialLinkDTO `json:"social_links"`
	PlanURL     string          `json:"plan_url,omitempty"`
}

// ProjectCreatedDTO - результат создания проекта.
type ProjectCreatedDTO struct {
	ProjectID string `json:"project_id"`
}

// ProjectListDTO - результат для списка проектов.
type ProjectListDTO struct {
	Projects   []ProjectDTO `json:"projects"`
	TotalCount int          `json:"total_count"` // Общее количество (для пагинации)
	Offset     int          `json:"offset"`
	Limit      int          `json:"limit"`
}

// FounderDTO - основатель компании.
type FounderDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CompanyDTO - представление компании.
type CompanyDTO struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	RepresentativeID string     `json:"representative_id"`
	CountryCode      string     `json:"country_code"`
	BusinessNumber   string     `json:"business_number"`
	EstablishedDate  string     `json:"established_date"`
	Description      string     `json:"description"`
	Founder          FounderDTO `json:"founder"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewsDTO - представление новости.
type NewsDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	ProjectID *string   `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewsListDTO - результат для списка новостей.
type NewsListDTO struct {
	News       []NewsDTO `json:"news"`
	TotalCount int       `json:"total_count"`
	Offset     int       `json:"offset"`
	Limit      int       `json:"limit"`
}

// CategoryDTO - категория проектов.
type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// FundingModelDTO - модель финансирования.
type FundingModelDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CountryDTO - страна.
type CountryDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
