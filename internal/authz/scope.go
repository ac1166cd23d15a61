package authz

import (
	"fmt"
	"strings"
)

// Condition is one column-equality clause inside a Filter.
type Condition struct {
	Column string
	Value  any
}

// Filter is a conjunction of equality clauses that bulk list queries AND
// into their WHERE clause. MatchNone poisons the filter: it renders to a
// predicate matching zero rows and survives any further And calls.
type Filter struct {
	Conditions []Condition
	MatchNone  bool
}

// Where starts a filter from a caller-supplied base clause.
func Where(column string, value any) Filter {
	return Filter{Conditions: []Condition{{Column: column, Value: value}}}
}

// And returns a copy of the filter with one more equality clause.
func (f Filter) And(column string, value any) Filter {
	conds := make([]Condition, 0, len(f.Conditions)+1)
	conds = append(conds, f.Conditions...)
	conds = append(conds, Condition{Column: column, Value: value})
	return Filter{Conditions: conds, MatchNone: f.MatchNone}
}

// Empty reports whether the filter restricts nothing.
func (f Filter) Empty() bool {
	return !f.MatchNone && len(f.Conditions) == 0
}

// SQL renders the filter as a WHERE fragment with positional arguments
// starting at $argOffset. An empty filter renders to "true" so callers can
// interpolate it unconditionally.
func (f Filter) SQL(argOffset int) (string, []any) {
	if f.MatchNone {
		return "false", nil
	}
	if len(f.Conditions) == 0 {
		return "true", nil
	}
	parts := make([]string, 0, len(f.Conditions))
	args := make([]any, 0, len(f.Conditions))
	for i, c := range f.Conditions {
		parts = append(parts, fmt.Sprintf("%s = $%d", c.Column, argOffset+i))
		args = append(args, c.Value)
	}
	return strings.Join(parts, " and "), args
}

// BuildScope narrows a base filter to the rows the session's single-resource
// authorization would allow, as an O(1) predicate instead of per-row checks.
// System admins get the base filter back unchanged. A mill-scoped session
// without a mill id yields a filter matching nothing: the caller must treat
// that as a denial, never as an empty-but-valid result.
//
// The per-type ownership narrowing of Authorize cannot be expressed here
// (it needs nested per-row data); callers requiring it re-check individual
// rows before exposing them.
func BuildScope(sess Session, base Filter) Filter {
	if sess.IsAdmin() {
		return base
	}
	out := base
	if sess.TenantID != "" {
		out = out.And("tenant_id", sess.TenantID)
	}
	def, ok := roleRegistry[sess.Role]
	if !ok {
		out.MatchNone = true
		return out
	}
	if def.MillScoped {
		if sess.MillID == "" {
			out.MatchNone = true
			return out
		}
		out = out.And("mill_id", sess.MillID)
	}
	return out
}
