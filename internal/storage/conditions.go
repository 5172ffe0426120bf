package storage

import (
	"fmt"
	"strings"

	"github.com/guttosm/salespulse/internal/domain/models"
)

// Conditions composes SQL predicates that are ANDed together, numbering
// positional placeholders ($1, $2, ...) in the order arguments are added.
//
// Expressions passed to Add use "?" for each argument. Each query should build
// its own Conditions, because Placeholder appends to the same argument list.
type Conditions struct {
	clauses []string
	args    []any
}

// Add appends one predicate. Every "?" in expr consumes the next value of args.
func (c *Conditions) Add(expr string, args ...any) *Conditions {
	var b strings.Builder
	next := 0
	for _, r := range expr {
		if r == '?' && next < len(args) {
			b.WriteString(c.Placeholder(args[next]))
			next++
			continue
		}
		b.WriteRune(r)
	}
	c.clauses = append(c.clauses, b.String())
	return c
}

// Placeholder registers arg and returns its positional marker, for use
// outside the WHERE clause (LIMIT, OFFSET).
func (c *Conditions) Placeholder(arg any) string {
	c.args = append(c.args, arg)
	return fmt.Sprintf("$%d", len(c.args))
}

// Where renders "WHERE a AND b", or an empty string when no predicate is set.
func (c *Conditions) Where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(c.clauses, " AND ")
}

// Args returns a copy of the bound arguments.
func (c *Conditions) Args() []any {
	return append([]any(nil), c.args...)
}

// Len returns the number of predicates.
func (c *Conditions) Len() int { return len(c.clauses) }

// FilterConditions builds the base predicate for f:
//   - search (only when non-empty): title, description or price text contains
//     the lower-cased search as a literal substring;
//   - month (only when filtered): calendar month of date_of_sale equals f.Month.
func FilterConditions(f models.FilterCriteria) *Conditions {
	c := &Conditions{}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(strings.ToLower(s)) + "%"
		c.Add(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR price::text LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}
	if f.MonthFiltered() {
		c.Add("EXTRACT(MONTH FROM date_of_sale) = ?", f.Month)
	}
	return c
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
