package entities

// Reference data seeded by migrations. Read-only for the application.

// Category groups projects by topic.
type Category struct {
	ID   int64
	Name string
	Slug string
}

// FundingModel describes how a project collects money (donation, reward, equity...).
type FundingModel struct {
	ID          int64
	Name        string
	Description string
}

// Country is a country the platform accepts companies from.
type Country struct {
	Code string // ISO 3166-1 alpha-2
	Name string
}

// Role is a named set of permission codes.
type Role struct {
	ID          int64
	Name        string
	Permissions []string
}

// Default role names.
const (
	RoleUser   = "user"
	RoleEditor = "editor"
)
