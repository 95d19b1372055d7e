// Package repository implements account persistence for PostgreSQL and MySQL.
// Domain names cross this boundary in reversed form: repositories encode on
// write and decode on read, so suffix lookups become index-friendly prefix
// scans while callers only ever see the human-readable name.
package repository

import (
	"fmt"
	"strings"

	accountsDomain "github.com/durfee/passwords/internal/accounts/domain"
)

// placeholderStyle selects the SQL parameter placeholder syntax.
type placeholderStyle int

const (
	postgresPlaceholders placeholderStyle = iota // $1, $2, ...
	mysqlPlaceholders                            // ?
)

// condition is one predicate fragment targeting a single column.
type condition struct {
	column string
	op     string // "=", "<", ">", "LIKE"
	value  any
}

// sortColumns maps caller-facing sort field names to storage columns. Sorting
// by domainName orders the stored reversed form, which is the order the
// (tenant_key, domain_name) index serves.
var sortColumns = map[string]string{
	accountsDomain.SortByDomainName: "domain_name",
	accountsDomain.SortByUsername:   "username",
	accountsDomain.SortByCreatedAt:  "created_at",
	accountsDomain.SortByModifiedAt: "modified_at",
	accountsDomain.SortByAccessedAt: "accessed_at",
}

// buildConditions translates list options into predicate fragments, always
// prefixed by the tenant scope. Options are evaluated in a fixed order and
// each one overwrites any earlier fragment for the same column, so supplying
// e.g. both domainName and domainNameContains deterministically keeps the
// last-evaluated fragment rather than AND-ing conflicting constraints on one
// column.
func buildConditions(tenantKey string, opts *accountsDomain.ListOptions) []condition {
	byColumn := make(map[string]condition)

	set := func(column, op string, value any) {
		byColumn[column] = condition{column: column, op: op, value: value}
	}

	if opts.DomainName != nil {
		set("domain_name", "=", accountsDomain.ReverseDomainName(*opts.DomainName))
	}
	if opts.DomainNameEndsWith != nil {
		set("domain_name", "LIKE", escapeLike(accountsDomain.ReverseDomainName(*opts.DomainNameEndsWith))+"%")
	}
	if opts.DomainNameContains != nil {
		set("domain_name", "LIKE", "%"+escapeLike(accountsDomain.ReverseDomainName(*opts.DomainNameContains))+"%")
	}
	if opts.Username != nil {
		set("username", "=", *opts.Username)
	}
	if opts.UsernameStartsWith != nil {
		set("username", "LIKE", escapeLike(*opts.UsernameStartsWith)+"%")
	}
	if opts.UsernameContains != nil {
		set("username", "LIKE", "%"+escapeLike(*opts.UsernameContains)+"%")
	}
	if opts.CreatedAt != nil {
		set("created_at", "=", *opts.CreatedAt)
	}
	if opts.CreatedBefore != nil {
		set("created_at", "<", *opts.CreatedBefore)
	}
	if opts.CreatedAfter != nil {
		set("created_at", ">", *opts.CreatedAfter)
	}
	if opts.ModifiedAt != nil {
		set("modified_at", "=", *opts.ModifiedAt)
	}
	if opts.ModifiedBefore != nil {
		set("modified_at", "<", *opts.ModifiedBefore)
	}
	if opts.ModifiedAfter != nil {
		set("modified_at", ">", *opts.ModifiedAfter)
	}
	if opts.AccessedAt != nil {
		set("accessed_at", "=", *opts.AccessedAt)
	}
	if opts.AccessedBefore != nil {
		set("accessed_at", "<", *opts.AccessedBefore)
	}
	if opts.AccessedAfter != nil {
		set("accessed_at", ">", *opts.AccessedAfter)
	}

	conditions := []condition{{column: "tenant_key", op: "=", value: tenantKey}}
	for _, column := range []string{"domain_name", "username", "created_at", "modified_at", "accessed_at"} {
		if cond, ok := byColumn[column]; ok {
			conditions = append(conditions, cond)
		}
	}
	return conditions
}

// renderWhere produces the WHERE clause body and its arguments. The offset is
// the number of placeholders already consumed by the enclosing statement
// (relevant for PostgreSQL's positional placeholders).
func renderWhere(style placeholderStyle, offset int, conditions []condition) (string, []any) {
	fragments := make([]string, 0, len(conditions))
	args := make([]any, 0, len(conditions))

	for i, cond := range conditions {
		var placeholder string
		if style == postgresPlaceholders {
			placeholder = fmt.Sprintf("$%d", offset+i+1)
		} else {
			placeholder = "?"
		}
		fragments = append(fragments, fmt.Sprintf("%s %s %s", cond.column, cond.op, placeholder))
		args = append(args, cond.value)
	}

	return strings.Join(fragments, " AND "), args
}

// orderByClause renders the sort spec. The sort field was validated against
// the allow-list at the option-parsing boundary; the lookup here is a safety
// net that falls back to the default rather than interpolating caller input.
func orderByClause(opts *accountsDomain.ListOptions) string {
	column, ok := sortColumns[opts.OrderBy]
	if !ok {
		column = "domain_name"
	}

	direction := "DESC"
	if opts.Ascending() {
		direction = "ASC"
	}

	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}

// escapeLike escapes LIKE metacharacters so filter values match literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
