package repository

import (
	"context"

	"github.com/halahlab/backend/domain"
)

// MatchKind selects how a filter value is compared against a column.
type MatchKind int

const (
	// MatchSubstring compares case-insensitively on containment.
	MatchSubstring MatchKind = iota
	// MatchInt compares numeric-looking values as integers.
	MatchInt
	// MatchBool compares coerced boolean values.
	MatchBool
	// MatchExact compares on equality.
	MatchExact
)

// FieldMatch is one conjunctive criterion of a user search. The set of
// accepted field names is fixed by the repository implementation.
type FieldMatch struct {
	Field string
	Kind  MatchKind
	Text  string
	Int   int64
	Bool  bool
}

// UserPatch carries a partial user update; nil fields are left untouched.
type UserPatch struct {
	FirstName  *string
	LastName   *string
	DocumentID *string
	Email      *string
	Role       *string
	IsActive   *bool
}

// IsEmpty reports whether the patch would change nothing.
func (p UserPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.DocumentID == nil &&
		p.Email == nil && p.Role == nil && p.IsActive == nil
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// FindByLogin matches the value against username or email (logical OR).
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, matches []FieldMatch) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) (string, error)
	Update(ctx context.Context, id string, patch UserPatch) error
}
