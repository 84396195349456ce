// Package errors defines domain-specific error types.
// Every business failure belongs to exactly one Kind, so the transport layer can translate
// it with a single lookup table instead of type-switch ordering.
//
// Pattern: Sentinel Errors + Tagged Error Kinds
package errors

import (
	"errors"
	"fmt"
)

// Kind - закрытый набор категорий бизнес-ошибок.
type Kind string

const (
	KindValidation    Kind = "validation"     // malformed or out-of-range field value
	KindNotFound      Kind = "not_found"      // referenced entity is absent
	KindAlreadyExists Kind = "already_exists" // unique constraint would be violated
	KindAuth          Kind = "auth"           // credentials or token rejected
	KindPermission    Kind = "permission"     // ownership or role denial
)

// Kinds возвращает все известные категории (для таблиц маппинга и тестов).
func Kinds() []Kind {
	return []Kind{KindValidation, KindNotFound, KindAlreadyExists, KindAuth, KindPermission}
}

// DomainError is a custom error type that wraps errors with additional context.
// Code is a stable machine-readable identifier (e.g. "category_not_found").
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError with the same kind and code, so a sentinel still matches
// after Wrap attached a cause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Wrap returns a copy of the sentinel with a cause attached.
func (e *DomainError) Wrap(err error) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

// NewDomainError creates a new domain error.
func NewDomainError(kind Kind, code, message string, err error) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewNotFound создаёт ошибку отсутствующей сущности.
func NewNotFound(code, message string) *DomainError {
	return NewDomainError(KindNotFound, code, message, nil)
}

// NewAlreadyExists создаёт ошибку нарушения уникальности.
func NewAlreadyExists(code, message string) *DomainError {
	return NewDomainError(KindAlreadyExists, code, message, nil)
}

// NewAuthError создаёт ошибку аутентификации.
func NewAuthError(code, message string) *DomainError {
	return NewDomainError(KindAuth, code, message, nil)
}

// NewPermissionError создаёт ошибку авторизации.
func NewPermissionError(code, message string) *DomainError {
	return NewDomainError(KindPermission, code, message, nil)
}

// ValidationError represents a single field that failed validation.
// It is comparable, so package-level values work with errors.Is.
type ValidationError struct {
	Field   string // Field name that failed validation
	Code    string // Machine-readable code (e.g. "first_name_too_long")
	Message string // What went wrong
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new field validation error.
func NewValidationError(field, code, message string) ValidationError {
	return ValidationError{Field: field, Code: code, Message: message}
}

// MissingField возвращает ошибку отсутствующего обязательного поля.
func MissingField(field string) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    "missing_field",
		Message: fmt.Sprintf("field '%s' is required", field),
	}
}

// ============================================
// Sentinel errors
// ============================================

// Not found
var (
	ErrUserNotFound         = NewNotFound("user_not_found", "user not found")
	ErrProjectNotFound      = NewNotFound("project_not_found", "project not found")
	ErrCompanyNotFound      = NewNotFound("company_not_found", "company not found")
	ErrCategoryNotFound     = NewNotFound("category_not_found", "category not found")
	ErrFundingModelNotFound = NewNotFound("funding_model_not_found", "funding model not found")
	ErrCountryNotFound      = NewNotFound("country_not_found", "country not found")
	ErrPermissionNotFound   = NewNotFound("permission_not_found", "permission not found")
	ErrNewsNotFound         = NewNotFound("news_not_found", "news not found")
	ErrFavoriteNotFound     = NewNotFound("favorite_not_found", "favorite not found")
	ErrRoleNotFound         = NewNotFound("role_not_found", "role not found")
)

// Already exists
var (
	ErrUsernameAlreadyExists   = NewAlreadyExists("username_already_exists", "user with this username already exists")
	ErrEmailAlreadyExists      = NewAlreadyExists("email_already_exists", "user with this email already exists")
	ErrProjectAlreadyExists    = NewAlreadyExists("project_already_exists", "project with this name already exists")
	ErrCompanyAlreadyExists    = NewAlreadyExists("company_already_exists", "company with this business number already exists")
	ErrPhoneAlreadyExists      = NewAlreadyExists("phone_already_exists", "phone already exists for this project")
	ErrSocialLinkAlreadyExists = NewAlreadyExists("social_link_already_exists", "social link already exists for this project")
	ErrFavoriteAlreadyExists   = NewAlreadyExists("favorite_already_exists", "project is already in favorites")
)

// Auth
var (
	ErrInvalidCredentials = NewAuthError("invalid_credentials", "invalid email or password")
	ErrInvalidToken       = NewAuthError("invalid_token", "token is invalid")
	ErrTokenExpired       = NewAuthError("token_expired", "token has expired")
	ErrNotAuthenticated   = NewAuthError("not_authenticated", "authentication credentials were not provided")
	ErrUserInactive       = NewAuthError("user_inactive", "user account is disabled")
)

// Permission
var (
	ErrPermissionDenied  = NewPermissionError("permission_denied", "you do not have permission to perform this action")
	ErrOwnershipRequired = NewPermissionError("ownership_required", "only the company representative can create projects for it")
)

// ============================================
// Helper functions for common error checking
// ============================================

// KindOf возвращает категорию ошибки, проходя по цепочке wrap.
func KindOf(err error) (Kind, bool) {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Kind, true
	}
	var valErr ValidationError
	if errors.As(err, &valErr) {
		return KindValidation, true
	}
	return "", false
}

// CodeOf возвращает машинный код ошибки или пустую строку.
func CodeOf(err error) string {
	var domErr *DomainError
	if errors.As(err, &domErr) {
		return domErr.Code
	}
	var valErr ValidationError
	if errors.As(err, &valErr) {
		return valErr.Code
	}
	return ""
}

// IsKind checks whether err belongs to the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsNotFound checks if an error is a "not found" error.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return IsKind(err, KindValidation)
}

// IsAlreadyExists checks if an error is a uniqueness error.
func IsAlreadyExists(err error) bool {
	return IsKind(err, KindAlreadyExists)
}
