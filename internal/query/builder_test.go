// AngelaMos | 2026
// builder_test.go

package query

import (
	"errors"
	"net/url"
	"testing"

	"github.com/angelamos/trailhead/internal/core"
)

var testSchema = Schema{
	Columns: map[string]string{
		"name":           "name",
		"price":          "price",
		"duration":       "duration",
		"difficulty":     "difficulty",
		"ratingsAverage": "ratings_average",
		"createdAt":      "created_at",
	},
	DefaultSort: []Sort{{Field: "createdAt", Desc: true}},
}

func TestParseEqualityFilter(t *testing.T) {
	opts := Parse(url.Values{"difficulty": {"easy"}})

	if len(opts.Filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(opts.Filters))
	}
	f := opts.Filters[0]
	if f.Field != "difficulty" || f.Op != OpEq || f.Value != "easy" {
		t.Fatalf("unexpected filter: %+v", f)
	}
}

func TestParseOperatorSuffixes(t *testing.T) {
	cases := []struct {
		key  string
		want Op
	}{
		{"duration[gte]", OpGTE},
		{"duration[gt]", OpGT},
		{"price[lte]", OpLTE},
		{"price[lt]", OpLT},
	}

	for _, tc := range cases {
		opts := Parse(url.Values{tc.key: {"5"}})
		if len(opts.Filters) != 1 {
			t.Fatalf("%s: expected 1 filter, got %d", tc.key, len(opts.Filters))
		}
		if opts.Filters[0].Op != tc.want {
			t.Errorf("%s: expected op %q, got %q",
				tc.key, tc.want, opts.Filters[0].Op)
		}
	}
}

func TestParseReservedKeysAreNotFilters(t *testing.T) {
	opts := Parse(url.Values{
		"page":  {"2"},
		"sort":  {"price"},
		"limit": {"10"},
		"fields": {
			"name,price",
		},
	})

	if len(opts.Filters) != 0 {
		t.Fatalf("reserved keys leaked into filters: %+v", opts.Filters)
	}
	if opts.Page != 2 || opts.Limit != 10 {
		t.Fatalf("expected page=2 limit=10, got page=%d limit=%d",
			opts.Page, opts.Limit)
	}
	if len(opts.Fields) != 2 {
		t.Fatalf("expected 2 projected fields, got %v", opts.Fields)
	}
}

func TestParseSortDirections(t *testing.T) {
	opts := Parse(url.Values{"sort": {"-ratingsAverage,price"}})

	if len(opts.Sorts) != 2 {
		t.Fatalf("expected 2 sort keys, got %d", len(opts.Sorts))
	}
	if !opts.Sorts[0].Desc || opts.Sorts[0].Field != "ratingsAverage" {
		t.Errorf("expected ratingsAverage desc, got %+v", opts.Sorts[0])
	}
	if opts.Sorts[1].Desc || opts.Sorts[1].Field != "price" {
		t.Errorf("expected price asc, got %+v", opts.Sorts[1])
	}
}

func TestParseDefaults(t *testing.T) {
	opts := Parse(url.Values{})

	if opts.Page != DefaultPage {
		t.Errorf("expected default page %d, got %d", DefaultPage, opts.Page)
	}
	if opts.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, opts.Limit)
	}
}

func TestParseRejectsBadPagination(t *testing.T) {
	opts := Parse(url.Values{"page": {"-3"}, "limit": {"nope"}})

	if opts.Page != DefaultPage || opts.Limit != DefaultLimit {
		t.Fatalf("invalid pagination should fall back to defaults, got %+v", opts)
	}
}

func TestOffset(t *testing.T) {
	opts := Options{Page: 3, Limit: 10}
	if got := opts.Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
}

func TestBuildRendersWhereAndArgs(t *testing.T) {
	opts := Parse(url.Values{
		"duration[gte]": {"5"},
		"price[lt]":     {"1000"},
	})

	stmt, err := opts.Build(testSchema, []string{"secret = FALSE"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stmt.Args) != 2 {
		t.Fatalf("expected 2 args, got %v", stmt.Args)
	}
	// Numeric values bind as numbers, not strings.
	if _, ok := stmt.Args[0].(int64); !ok {
		t.Errorf("expected int64 arg, got %T", stmt.Args[0])
	}
	if stmt.Where == "" || stmt.Where == "secret = FALSE" {
		t.Fatalf("filters missing from where clause: %q", stmt.Where)
	}
}

func TestBuildPlaceholdersContinueAfterBaseArgs(t *testing.T) {
	opts := Parse(url.Values{"difficulty": {"easy"}})

	stmt, err := opts.Build(
		testSchema,
		[]string{"tour_id = $1"},
		[]any{"abc"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stmt.Args) != 2 {
		t.Fatalf("expected 2 args, got %v", stmt.Args)
	}
	if stmt.Where != "tour_id = $1 AND difficulty = $2" {
		t.Fatalf("unexpected where clause: %q", stmt.Where)
	}
}

func TestBuildDefaultSort(t *testing.T) {
	stmt, err := Parse(url.Values{}).Build(testSchema, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stmt.OrderBy != "created_at DESC" {
		t.Fatalf("expected default sort, got %q", stmt.OrderBy)
	}
}

func TestBuildRejectsUnknownFilterField(t *testing.T) {
	_, err := Parse(url.Values{"passwordHash": {"x"}}).Build(testSchema, nil, nil)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildRejectsUnknownSortField(t *testing.T) {
	_, err := Parse(url.Values{"sort": {"evil"}}).Build(testSchema, nil, nil)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildRejectsUnknownProjectionField(t *testing.T) {
	_, err := Parse(url.Values{"fields": {"name,secret"}}).Build(testSchema, nil, nil)
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
