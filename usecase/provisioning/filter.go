package provisioning

import (
	"context"
	"strconv"
	"strings"

	"github.com/halahlab/backend/domain"
	"github.com/halahlab/backend/repository"
)

// filterFieldName is handled after the fetch: it matches against the
// concatenation of first and last name in either order.
const filterFieldName = "name"

// matcherRules maps accepted filter fields to their comparison kind.
// Fields not listed here are rejected rather than passed through to
// the store.
var matcherRules = map[string]repository.MatchKind{
	"firstName":  repository.MatchSubstring,
	"lastName":   repository.MatchSubstring,
	"email":      repository.MatchSubstring,
	"username":   repository.MatchSubstring,
	"role":       repository.MatchSubstring,
	"documentID": repository.MatchSubstring,
	"isActive":   repository.MatchBool,
}

// GetUsers searches users with a conjunctive filter set. Numeric-looking
// values compare as integers, isActive coerces to boolean, everything
// else matches as a case-insensitive substring. An empty result set is
// reported as not found.
func (uc *UseCase) GetUsers(ctx context.Context, filters map[string]string) ([]domain.User, error) {
	matches := make([]repository.FieldMatch, 0, len(filters))
	nameFilter := ""

	for field, value := range filters {
		if field == filterFieldName {
			nameFilter = value
			continue
		}

		kind, ok := matcherRules[field]
		if !ok {
			return nil, domain.NewError(domain.ErrCodeInvalid, "unknown filter field "+strconv.Quote(field))
		}

		match := repository.FieldMatch{Field: field, Kind: kind}
		switch kind {
		case repository.MatchBool:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, domain.NewError(domain.ErrCodeInvalid, "filter "+field+" expects a boolean")
			}
			match.Bool = b
		default:
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				match.Kind = repository.MatchInt
				match.Int = n
			} else {
				match.Text = value
			}
		}
		matches = append(matches, match)
	}

	users, err := uc.users.List(ctx, matches)
	if err != nil {
		return nil, err
	}
	if nameFilter != "" {
		users = filterByName(users, nameFilter)
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return users, nil
}

// filterByName keeps users whose concatenated first+last name, in
// either order, contains the needle case-insensitively.
func filterByName(users []domain.User, needle string) []domain.User {
	needle = strings.ToLower(strings.Join(strings.Fields(needle), " "))

	kept := users[:0]
	for _, u := range users {
		forward := strings.ToLower(u.FirstName + " " + u.LastName)
		reverse := strings.ToLower(u.LastName + " " + u.FirstName)
		if strings.Contains(forward, needle) || strings.Contains(reverse, needle) {
			kept = append(kept, u)
		}
	}
	return kept
}
