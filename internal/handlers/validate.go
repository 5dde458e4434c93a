package handlers

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"polidex/internal/apperr"
	"polidex/internal/view"
)

// Limits for query parameters.
const (
	maxQueryLen   = 200
	maxFacetLen   = 100
	maxSlugLen    = 300
	maxLatest     = 50
	maxPage       = 10000
	defaultLatest = 10
)

// listRequest is a parsed listing query.
type listRequest struct {
	criteria view.Criteria
	page     int
	prevKey  string
}

// parseList reads q, the named facets, min_seats, sort, dir, page and ck.
// All problems are reported together.
func parseList(q url.Values, facets ...string) (listRequest, error) {
	var errs []apperr.FieldError
	req := listRequest{
		criteria: view.Criteria{
			Query:  strings.TrimSpace(q.Get("q")),
			Facets: map[string]string{},
			Sort:   strings.ToLower(strings.TrimSpace(q.Get("sort"))),
		},
		page:    1,
		prevKey: q.Get("ck"),
	}

	if utf8.RuneCountInString(req.criteria.Query) > maxQueryLen {
		errs = append(errs, apperr.FieldError{Field: "q", Message: "is too long (max 200 characters)"})
	}

	for _, name := range facets {
		v := strings.TrimSpace(q.Get(name))
		if v == "" {
			continue
		}
		if utf8.RuneCountInString(v) > maxFacetLen {
			errs = append(errs, apperr.FieldError{Field: name, Message: "is too long (max 100 characters)"})
			continue
		}
		req.criteria.Facets[name] = v
	}

	if raw := strings.TrimSpace(q.Get("min_seats")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, apperr.FieldError{Field: "min_seats", Message: "must be a non-negative integer"})
		} else {
			req.criteria.MinTier = n
		}
	}

	if raw := q.Get("dir"); strings.TrimSpace(raw) != "" {
		dir, ok := view.ParseDirection(raw)
		if !ok {
			errs = append(errs, apperr.FieldError{Field: "dir", Message: "must be asc or desc"})
		}
		req.criteria.Dir = dir
	}

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPage {
			errs = append(errs, apperr.FieldError{Field: "page", Message: "must be between 1 and " + strconv.Itoa(maxPage)})
		} else {
			req.page = n
		}
	}

	if len(errs) > 0 {
		return listRequest{}, apperr.Validation("Invalid query parameters.", errs...)
	}
	return req, nil
}

// parseLatest reads n, defaulting to 10 and capped at 50.
func parseLatest(q url.Values) (int, error) {
	raw := strings.TrimSpace(q.Get("n"))
	if raw == "" {
		return defaultLatest, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.Validation("Invalid query parameters.",
			apperr.FieldError{Field: "n", Message: "must be a positive integer"})
	}
	return min(n, maxLatest), nil
}

// validateSlug checks a path or query slug and returns the first error found.
func validateSlug(field, s string) error {
	if strings.TrimSpace(s) == "" {
		return apperr.Validation("Invalid parameters.",
			apperr.FieldError{Field: field, Message: "is required"})
	}
	if utf8.RuneCountInString(s) > maxSlugLen {
		return apperr.Validation("Invalid parameters.",
			apperr.FieldError{Field: field, Message: "is too long (max 300 characters)"})
	}
	return nil
}

// validateQuery checks a free-text search query. Empty is allowed.
func validateQuery(s string) error {
	if utf8.RuneCountInString(s) > maxQueryLen {
		return apperr.Validation("Invalid query parameters.",
			apperr.FieldError{Field: "q", Message: "is too long (max 200 characters)"})
	}
	return nil
}
