package repositories

import (
	"strings"

	"github.com/anonto42/friend-circle/backend/internal/models"
	"gorm.io/gorm/clause"
)

// UserSearchFilter selects users for a search keyword. The predicate is
//
//	(email = kw OR first_name CONTAINS kw OR last_name CONTAINS kw) AND is_active
//
// with every comparison case-insensitive. Expression and Matches must agree.
type UserSearchFilter struct {
	Keyword string
}

func NewUserSearchFilter(keyword string) UserSearchFilter {
	return UserSearchFilter{Keyword: strings.TrimSpace(keyword)}
}

// IsEmpty reports whether the filter matches nothing.
func (f UserSearchFilter) IsEmpty() bool {
	return f.Keyword == ""
}

// Expression renders the predicate as a GORM clause.
func (f UserSearchFilter) Expression() clause.Expression {
	pattern := "%" + likeEscaper.Replace(f.Keyword) + "%"
	return clause.And(
		clause.Or(
			clause.Expr{SQL: "LOWER(email) = LOWER(?)", Vars: []interface{}{f.Keyword}},
			clause.Expr{SQL: "first_name ILIKE ?", Vars: []interface{}{pattern}},
			clause.Expr{SQL: "last_name ILIKE ?", Vars: []interface{}{pattern}},
		),
		clause.Eq{Column: clause.Column{Name: "is_active"}, Value: true},
	)
}

// Matches evaluates the predicate against a single user.
func (f UserSearchFilter) Matches(u *models.User) bool {
	if f.IsEmpty() || !u.IsActive {
		return false
	}
	keyword := strings.ToLower(f.Keyword)
	return strings.EqualFold(u.Email, f.Keyword) ||
		strings.Contains(strings.ToLower(u.FirstName), keyword) ||
		strings.Contains(strings.ToLower(u.LastName), keyword)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
