// Package segment compiles declarative segment-rule descriptions into
// customer predicates. The compiler is deliberately permissive: predicates
// with a missing value or an unrecognized operator are dropped rather than
// rejected, and a description with no usable predicates matches every
// customer. Callers get the list of dropped predicate names so the behavior
// stays observable.
package segment

import (
	"time"
)

// Combining modes
const (
	LogicAnd = "AND"
	LogicOr  = "OR"
)

// operatorSQL whitelists the comparison operators. Anything else is dropped.
var operatorSQL = map[string]string{
	">":  ">",
	"<":  "<",
	"=":  "=",
	">=": ">=",
	"<=": "<=",
}

// Predicate is a single comparison over a semantic field
type Predicate struct {
	Operator string   `json:"operator"`
	Value    *float64 `json:"value"`
}

// Rules is the segment-rule description submitted by a client and stored
// verbatim on the campaign
type Rules struct {
	Logic        string     `json:"logic,omitempty"`
	Spend        *Predicate `json:"spend,omitempty"`
	Visits       *Predicate `json:"visits,omitempty"`
	InactiveDays *Predicate `json:"inactiveDays,omitempty"`
}

// matcher evaluates one compiled predicate against customer fields
type matcher func(totalSpent float64, visitCount int, lastLogin time.Time) bool

// Compiled is the result of compiling a rule description at a point in time.
// The inactiveDays cutoff is fixed at compile time, so one compilation is one
// consistent snapshot of "now".
type Compiled struct {
	Logic string

	// Dropped names the predicates that were present but unusable
	Dropped []string

	clauses  []string
	args     []interface{}
	matchers []matcher
}

// Compile translates the description into SQL fragments and an equivalent
// in-memory predicate. Thresholds are always bind parameters.
func (r Rules) Compile(now time.Time) Compiled {
	logic := LogicAnd
	if r.Logic == LogicOr {
		logic = LogicOr
	}
	c := Compiled{Logic: logic}

	c.compileNumeric("spend", "total_spent", r.Spend,
		func(spent float64, _ int, _ time.Time) float64 { return spent })
	c.compileNumeric("visits", "visit_count", r.Visits,
		func(_ float64, visits int, _ time.Time) float64 { return float64(visits) })
	c.compileInactiveDays(r.InactiveDays, now)

	return c
}

func (c *Compiled) compileNumeric(name, column string, p *Predicate, field func(float64, int, time.Time) float64) {
	if p == nil {
		return
	}
	op, ok := operatorSQL[p.Operator]
	if !ok || p.Value == nil {
		c.Dropped = append(c.Dropped, name)
		return
	}
	threshold := *p.Value

	c.clauses = append(c.clauses, column+" "+op+" ?")
	c.args = append(c.args, threshold)
	c.matchers = append(c.matchers, func(spent float64, visits int, lastLogin time.Time) bool {
		return compare(op, field(spent, visits, lastLogin), threshold)
	})
}

// compileInactiveDays translates a predicate over "days inactive" into one
// over the last-activity timestamp. Operator ">" means "inactive for more
// than N days", i.e. last activity at or before now minus N days; every
// other operator selects activity at or after that cutoff.
func (c *Compiled) compileInactiveDays(p *Predicate, now time.Time) {
	if p == nil {
		return
	}
	if _, ok := operatorSQL[p.Operator]; !ok || p.Value == nil {
		c.Dropped = append(c.Dropped, "inactiveDays")
		return
	}
	cutoff := now.AddDate(0, 0, -int(*p.Value))

	if p.Operator == ">" {
		c.clauses = append(c.clauses, "last_login <= ?")
		c.args = append(c.args, cutoff)
		c.matchers = append(c.matchers, func(_ float64, _ int, lastLogin time.Time) bool {
			return !lastLogin.After(cutoff)
		})
		return
	}

	c.clauses = append(c.clauses, "last_login >= ?")
	c.args = append(c.args, cutoff)
	c.matchers = append(c.matchers, func(_ float64, _ int, lastLogin time.Time) bool {
		return !lastLogin.Before(cutoff)
	})
}

// Matches evaluates the compiled predicate against one customer's fields.
// Zero usable predicates match everything.
func (c Compiled) Matches(totalSpent float64, visitCount int, lastLogin time.Time) bool {
	if len(c.matchers) == 0 {
		return true
	}
	for _, m := range c.matchers {
		ok := m(totalSpent, visitCount, lastLogin)
		if c.Logic == LogicOr && ok {
			return true
		}
		if c.Logic == LogicAnd && !ok {
			return false
		}
	}
	return c.Logic == LogicAnd
}

func compare(op string, a, b float64) bool {
	switch op {
	case ">":
		return a > b
	case "<":
		return a < b
	case "=":
		return a == b
	case ">=":
		return a >= b
	case "<=":
		return a <= b
	}
	return false
}
