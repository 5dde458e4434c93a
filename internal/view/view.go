// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package view filters, sorts, and paginates in-memory entity lists. An
// Engine is generic over the row type and driven by a Schema describing
// which fields are searchable, filterable and sortable. Views are pure
// functions of their input and never fail: a page past the end is simply
// empty.
package view

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"polidex/internal/slug"
)

// PageSize is the fixed number of rows per page.
const PageSize = 20

// Tiers are the minimum-metric thresholds offered to users.
var Tiers = []int{1, 5, 10, 50}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc" or "desc" in any case.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	}
	return "", false
}

// Criteria is the full set of user-controlled view inputs except the page.
type Criteria struct {
	Query   string
	Facets  map[string]string
	MinTier int
	Sort    string
	Dir     Direction
}

// Key is a canonical encoding of the criteria. Two criteria with the same
// key produce the same filtered, sorted sequence.
func (c Criteria) Key() string {
	v := url.Values{}
	if q := strings.TrimSpace(c.Query); q != "" {
		v.Set("q", slug.Fold(q))
	}
	for name, val := range c.Facets {
		if val = strings.TrimSpace(val); val != "" {
			v.Set("f."+name, strings.ToLower(val))
		}
	}
	if c.MinTier > 0 {
		v.Set("min", strconv.Itoa(c.MinTier))
	}
	if c.Sort != "" {
		v.Set("sort", c.Sort)
	}
	if c.Dir != "" {
		v.Set("dir", string(c.Dir))
	}
	return v.Encode()
}

// SortKey extracts a comparable value from a row. Exactly one of Text or
// Number is set.
type SortKey[T any] struct {
	Text   func(T) string
	Number func(T) int
}

// Schema describes how an Engine reads rows of type T.
type Schema[T any] struct {
	// Searchable synthesizes the text that free-text queries match against.
	Searchable func(T) string

	// Facets are equality filters keyed by parameter name.
	Facets map[string]func(T) string

	// Metric feeds both the MinTier filter and the Sum aggregate. Nil
	// disables both.
	Metric func(T) int

	// Bucket classifies a row for the bucket counts. Empty means none.
	Bucket func(T) string

	Sorts       map[string]SortKey[T]
	DefaultSort string
	DefaultDir  Direction
}

// Aggregates summarize the filtered set before pagination.
type Aggregates struct {
	Count   int            `json:"count"`
	Sum     int            `json:"sum"`
	Buckets map[string]int `json:"buckets"`
}

// Result is one page of a view.
type Result[T any] struct {
	Rows       []T        `json:"rows"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	PageSize   int        `json:"page_size"`
	Aggregates Aggregates `json:"aggregates"`
}

// Engine applies a Schema to row slices.
type Engine[T any] struct {
	schema Schema[T]
	tag    language.Tag
}

// NewEngine creates an engine that collates text in the given locale.
func NewEngine[T any](schema Schema[T], tag language.Tag) *Engine[T] {
	return &Engine[T]{schema: schema, tag: tag}
}

// Normalize fills in defaults and drops unknown sort keys and facets.
func (e *Engine[T]) Normalize(c Criteria) Criteria {
	out := Criteria{
		Query:   strings.TrimSpace(c.Query),
		MinTier: c.MinTier,
		Sort:    c.Sort,
		Dir:     c.Dir,
	}
	if _, ok := e.schema.Sorts[out.Sort]; !ok {
		out.Sort = e.schema.DefaultSort
	}
	if out.Dir == "" {
		out.Dir = Asc
		if out.Sort == e.schema.DefaultSort {
			out.Dir = e.schema.DefaultDir
		}
	}
	if out.MinTier < 0 || e.schema.Metric == nil {
		out.MinTier = 0
	}
	for name, val := range c.Facets {
		if _, ok := e.schema.Facets[name]; !ok || strings.TrimSpace(val) == "" {
			continue
		}
		if out.Facets == nil {
			out.Facets = map[string]string{}
		}
		out.Facets[name] = strings.TrimSpace(val)
	}
	return out
}

// View filters, sorts and paginates rows. rows is not modified.
func (e *Engine[T]) View(rows []T, c Criteria, page int) Result[T] {
	c = e.Normalize(c)

	filtered := e.filter(rows, c)
	e.sort(filtered, c)

	res := Result[T]{
		Total:      len(filtered),
		PageSize:   PageSize,
		Aggregates: e.aggregate(filtered),
	}
	res.TotalPages = (len(filtered) + PageSize - 1) / PageSize
	if page < 1 {
		page = 1
	}
	res.Page = page

	// Compare page numbers before multiplying so huge pages cannot overflow.
	if page > res.TotalPages {
		res.Rows = []T{}
		return res
	}
	start := (page - 1) * PageSize
	end := min(start+PageSize, len(filtered))
	res.Rows = filtered[start:end]
	return res
}

// FacetValues lists the distinct non-empty values of a facet over rows,
// in collation order. Used to populate filter choices.
func (e *Engine[T]) FacetValues(rows []T, name string) []string {
	get, ok := e.schema.Facets[name]
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	values := []string{}
	for _, r := range rows {
		v := strings.TrimSpace(get(r))
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		values = append(values, v)
	}
	col := collate.New(e.tag, collate.IgnoreCase)
	col.SortStrings(values)
	return values
}

func (e *Engine[T]) filter(rows []T, c Criteria) []T {
	needle := slug.Fold(c.Query)
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if needle != "" && e.schema.Searchable != nil &&
			!strings.Contains(slug.Fold(e.schema.Searchable(r)), needle) {
			continue
		}
		if !e.matchFacets(r, c.Facets) {
			continue
		}
		if c.MinTier > 0 && e.schema.Metric(r) < c.MinTier {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (e *Engine[T]) matchFacets(r T, facets map[string]string) bool {
	for name, want := range facets {
		if !strings.EqualFold(strings.TrimSpace(e.schema.Facets[name](r)), want) {
			return false
		}
	}
	return true
}

func (e *Engine[T]) sort(rows []T, c Criteria) {
	key, ok := e.schema.Sorts[c.Sort]
	if !ok {
		return
	}
	sign := 1
	if c.Dir == Desc {
		sign = -1
	}

	// Collators keep internal buffers and are not safe for concurrent use.
	col := collate.New(e.tag, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		var cmp int
		if key.Number != nil {
			cmp = compareInts(key.Number(rows[i]), key.Number(rows[j]))
		} else {
			cmp = col.CompareString(key.Text(rows[i]), key.Text(rows[j]))
		}
		return sign*cmp < 0
	})
}

func (e *Engine[T]) aggregate(rows []T) Aggregates {
	agg := Aggregates{Count: len(rows), Buckets: map[string]int{}}
	for _, r := range rows {
		if e.schema.Metric != nil {
			agg.Sum += e.schema.Metric(r)
		}
		if e.schema.Bucket != nil {
			if b := e.schema.Bucket(r); b != "" {
				agg.Buckets[b]++
			}
		}
	}
	return agg
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

var leadingYear = regexp.MustCompile(`^\s*(\d{4})`)

// Year extracts a leading four-digit year ("1998-03-01" → 1998), or 0.
func Year(s string) int {
	m := leadingYear.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
