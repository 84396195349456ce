package valueobjects

import (
	"regexp"
	"strings"

	"github.com/Haleralex/fundhub/internal/domain/errors"
)

// Action is the verb part of a permission code.
type Action string

const (
	ActionView   Action = "view"
	ActionAdd    Action = "add"
	ActionChange Action = "change"
	ActionDelete Action = "delete"
)

// IsValid checks if the action is known.
func (a Action) IsValid() bool {
	switch a {
	case ActionView, ActionAdd, ActionChange, ActionDelete:
		return true
	default:
		return false
	}
}

var permissionPartRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ErrInvalidPermission is returned for malformed permission parts.
var ErrInvalidPermission = errors.NewValidationError("permission", "invalid_permission", "permission must look like action.scope.model[.field]")

// Permission is a permission code composed as {action}.{scope}.{model_key}[.{field}].
// Two permissions built from the same parts always produce the same code.
type Permission struct {
	code string
}

// NewPermission composes a permission from its parts. field may be empty.
func NewPermission(action Action, scope, modelKey, field string) (Permission, error) {
	if !action.IsValid() {
		return Permission{}, ErrInvalidPermission
	}
	parts := []string{string(action), scope, modelKey}
	if field != "" {
		parts = append(parts, field)
	}
	for _, p := range parts[1:] {
		if !permissionPartRegex.MatchString(p) {
			return Permission{}, ErrInvalidPermission
		}
	}
	return Permission{code: strings.Join(parts, ".")}, nil
}

// ParsePermission parses a stored permission code.
func ParsePermission(code string) (Permission, error) {
	parts := strings.Split(strings.TrimSpace(code), ".")
	switch len(parts) {
	case 3:
		return NewPermission(Action(parts[0]), parts[1], parts[2], "")
	case 4:
		return NewPermission(Action(parts[0]), parts[1], parts[2], parts[3])
	default:
		return Permission{}, ErrInvalidPermission
	}
}

// MustNewPermission panics on invalid input. Use only for package-level constants.
func MustNewPermission(action Action, scope, modelKey, field string) Permission {
	p, err := NewPermission(action, scope, modelKey, field)
	if err != nil {
		panic(err)
	}
	return p
}

// Code returns the dotted permission code.
func (p Permission) Code() string {
	return p.code
}

// String implements fmt.Stringer.
func (p Permission) String() string {
	return p.code
}
