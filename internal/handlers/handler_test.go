// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// an in-memory store, a catalog over it, and a chi router carrying the
// same routes the production router mounts.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"polidex/internal/catalog"
	"polidex/internal/imageproxy"
	"polidex/internal/models"
	"polidex/internal/sharecard"
	"polidex/internal/store"
)

// memSource is an in-memory store.Source with the same matching rules as
// the real adapters: case-insensitive substring search and equality match.
type memSource struct {
	mu      sync.Mutex
	records map[models.Table][]models.Record
	queries int
}

func (m *memSource) Query(ctx context.Context, q store.Query) ([]models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++

	var out []models.Record
	for _, rec := range m.records[q.Table] {
		if q.MatchField != "" && !strings.EqualFold(str(rec.Fields[q.MatchField]), q.MatchValue) {
			continue
		}
		if q.Search != "" && !matchesAny(rec, q.SearchFields, q.Search) {
			continue
		}
		out = append(out, rec)
	}
	if q.Order == store.OrderRecent {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *memSource) Get(ctx context.Context, table models.Table, id string) (*models.Record, error) {
	for _, rec := range m.records[table] {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (m *memSource) Ping(ctx context.Context) error { return nil }

func str(v any) string {
	s, _ := v.(string)
	return s
}

func matchesAny(rec models.Record, fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(str(rec.Fields[f])), needle) {
			return true
		}
	}
	return false
}

// fixtures are listed oldest first.
func fixtures() map[models.Table][]models.Record {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	pol := func(id, name, slug, party, state string, age float64) models.Record {
		created = created.Add(time.Hour)
		return models.Record{ID: id, CreatedTime: created, Fields: map[string]any{
			"Name": name, "slug": slug, "Party": party, "State": state, "Age": age,
			"Life Events": "Elected in **2019**.",
		}}
	}
	party := func(id, name, slug, abbr, status, seats string) models.Record {
		return models.Record{ID: id, Fields: map[string]any{
			"Name": name, "slug": slug, "Abbreviation": abbr, "Status": status, "Seats": seats,
			"Details": "Founded as a *farmers'* movement.",
		}}
	}
	return map[models.Table][]models.Record{
		models.TablePoliticians: {
			pol("recPOL00000000001", "Asha Rao", "asha-rao", "Pragati Morcha", "Kerala", 54),
			pol("recPOL00000000002", "Vikram Sethi", "vikram-sethi", "Lok Janata Party", "Punjab", 61),
			pol("recPOL00000000003", "Émile Dsouza", "emile-dsouza", "Pragati Morcha", "Goa", 47),
		},
		models.TableParties: {
			party("recPTY00000000001", "Pragati Morcha", "pragati-morcha", "PM", "National Party", "1,234"),
			party("recPTY00000000002", "Lok Janata Party", "lok-janata-party", "LJP", "State Party", "12"),
			party("recPTY00000000003", "Goa Front", "goa-front", "GF", "Unrecognised", ""),
		},
	}
}

// testEnv bundles the handlers under test.
type testEnv struct {
	source *memSource
	router chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	src := &memSource{records: fixtures()}
	cat := catalog.New(src, catalog.Options{Retries: -1})

	renderer, err := sharecard.NewRenderer(imageproxy.New(nil), nil)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	public := NewPublic(cat, language.English)
	share := NewShare(cat, renderer, "https://polidex.example")

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/parties", public.Parties)
		r.Get("/parties/compare", public.CompareParties)
		r.Get("/parties/{slug}", public.Party)
		r.Get("/politicians", public.Politicians)
		r.Get("/politicians/latest", public.LatestPoliticians)
		r.Get("/politicians/compare", public.ComparePoliticians)
		r.Get("/politicians/{slug}", public.Politician)
		r.Get("/selection", public.Selection)
		r.Get("/search", public.Search)
		r.Get("/share", share.Link)
	})
	r.Get("/og/card.png", share.Card)

	return &testEnv{source: src, router: r}
}

// get performs a GET against the test router.
func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

// decode unmarshals a JSON response body into v.
func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v (body: %s)", err, rr.Body.String())
	}
}

// errorBody is the error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details []struct {
		Field string `json:"field"`
	} `json:"details"`
}
