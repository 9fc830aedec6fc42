package segment

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// AudienceMember carries the identifier and denormalized display fields of
// one matched customer
type AudienceMember struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Scope applies the compiled conditions to a customers query. With no usable
// conditions the query is returned unchanged (match-all).
func (c Compiled) Scope(db *gorm.DB) *gorm.DB {
	if len(c.clauses) == 0 {
		return db
	}
	sep := " AND "
	if c.Logic == LogicOr {
		sep = " OR "
	}
	return db.Where("("+strings.Join(c.clauses, sep)+")", c.args...)
}

// ResolveAudience executes the compiled predicate against the customer store
// in a single query, returning the ordered matching members and the names of
// any dropped predicates. A malformed description degrades to match-all
// rather than failing; storage errors propagate.
func ResolveAudience(db *gorm.DB, rules Rules, now time.Time) ([]AudienceMember, []string, error) {
	compiled := rules.Compile(now)

	members := make([]AudienceMember, 0)
	err := compiled.Scope(db.Table("customers").Where("deleted_at IS NULL")).
		Select("id, name, email").
		Order("id").
		Scan(&members).Error
	if err != nil {
		return nil, compiled.Dropped, err
	}
	return members, compiled.Dropped, nil
}
