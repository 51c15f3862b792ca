// AngelaMos | 2026
// builder.go

// Package query translates an HTTP query string into the filter, sort,
// projection and pagination stages of a collection read. Parsing and
// rendering are pure: no I/O happens until the caller executes the
// rendered statement.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/angelamos/trailhead/internal/core"
)

type Op string

const (
	OpEq  Op = "="
	OpGTE Op = ">="
	OpGT  Op = ">"
	OpLTE Op = "<="
	OpLT  Op = "<"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// Reserved keys govern their own stage and never become filters.
var reservedKeys = map[string]struct{}{
	"page":   {},
	"sort":   {},
	"limit":  {},
	"fields": {},
}

var opSuffixes = []struct {
	suffix string
	op     Op
}{
	{"[gte]", OpGTE},
	{"[gt]", OpGT},
	{"[lte]", OpLTE},
	{"[lt]", OpLT},
}

type Filter struct {
	Field string
	Op    Op
	Value string
}

type Sort struct {
	Field string
	Desc  bool
}

type Options struct {
	Filters []Filter
	Sorts   []Sort
	Fields  []string
	Page    int
	Limit   int
}

// Parse reads the raw query string into Options. Absent parameters fall back
// to their defaults: no filters, sort by schema default, full public
// projection, page 1, limit 100.
func Parse(values url.Values) Options {
	opts := Options{
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}

	for key := range values {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}

		field, op := splitOperator(key)
		opts.Filters = append(opts.Filters, Filter{
			Field: field,
			Op:    op,
			Value: values.Get(key),
		})
	}

	if raw := values.Get("sort"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if strings.HasPrefix(part, "-") {
				opts.Sorts = append(opts.Sorts, Sort{Field: part[1:], Desc: true})
			} else {
				opts.Sorts = append(opts.Sorts, Sort{Field: part})
			}
		}
	}

	if raw := values.Get("fields"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				opts.Fields = append(opts.Fields, part)
			}
		}
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		opts.Page = page
	}

	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}

	return opts
}

func splitOperator(key string) (string, Op) {
	for _, s := range opSuffixes {
		if strings.HasSuffix(key, s.suffix) {
			return strings.TrimSuffix(key, s.suffix), s.op
		}
	}
	return key, OpEq
}

func (o Options) Offset() int {
	return (o.Page - 1) * o.Limit
}

// Schema whitelists the API-visible fields of one resource and maps them to
// columns. Requests referencing fields outside the schema are rejected
// before any SQL is built.
type Schema struct {
	Columns     map[string]string
	Projection  []string
	DefaultSort []Sort
}

// Statement is a rendered read: clause fragments plus positional args,
// ready to be assembled into a SELECT by the repository.
type Statement struct {
	Columns []string
	Where   string
	Args    []any
	OrderBy string
	Limit   int
	Offset  int
}

// Build renders Options against a schema. Conditions are appended to any
// base conditions the repository supplies (secret/inactive exclusion);
// argument placeholders start after baseArgs.
func (o Options) Build(s Schema, baseConds []string, baseArgs []any) (Statement, error) {
	stmt := Statement{
		Args:   append([]any{}, baseArgs...),
		Limit:  o.Limit,
		Offset: o.Offset(),
	}

	conds := append([]string{}, baseConds...)
	for _, f := range o.Filters {
		col, ok := s.Columns[f.Field]
		if !ok {
			return Statement{}, fmt.Errorf(
				"unknown filter field %q: %w", f.Field, core.ErrInvalidInput,
			)
		}

		stmt.Args = append(stmt.Args, coerceValue(f.Value))
		conds = append(conds, fmt.Sprintf("%s %s $%d", col, f.Op, len(stmt.Args)))
	}
	stmt.Where = strings.Join(conds, " AND ")

	sorts := o.Sorts
	if len(sorts) == 0 {
		sorts = s.DefaultSort
	}
	orderParts := make([]string, 0, len(sorts))
	for _, srt := range sorts {
		col, ok := s.Columns[srt.Field]
		if !ok {
			return Statement{}, fmt.Errorf(
				"unknown sort field %q: %w", srt.Field, core.ErrInvalidInput,
			)
		}
		dir := "ASC"
		if srt.Desc {
			dir = "DESC"
		}
		orderParts = append(orderParts, col+" "+dir)
	}
	stmt.OrderBy = strings.Join(orderParts, ", ")

	projection := o.Fields
	if len(projection) == 0 {
		projection = s.Projection
	}
	for _, field := range projection {
		col, ok := s.Columns[field]
		if !ok {
			return Statement{}, fmt.Errorf(
				"unknown field %q: %w", field, core.ErrInvalidInput,
			)
		}
		stmt.Columns = append(stmt.Columns, col)
	}

	return stmt, nil
}

// coerceValue lets numeric and boolean comparisons bind with the right
// parameter type; everything else stays text.
func coerceValue(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
