// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"polidex/internal/apperr"
	"polidex/internal/catalog"
	"polidex/internal/markdown"
	"polidex/internal/models"
	"polidex/internal/respond"
	"polidex/internal/search"
	"polidex/internal/selection"
	"polidex/internal/view"
)

// Catalog is the read side the public handlers depend on.
type Catalog interface {
	search.Lister
	LatestPoliticians(ctx context.Context, n int) []models.Politician
	PoliticianBySlug(ctx context.Context, s string) *models.Politician
	PartyBySlug(ctx context.Context, s string) *models.Party
}

// Public groups the read-only JSON API handlers. Listings are fetched in
// full from the catalog and then filtered, sorted and paginated in memory
// by the view engines.
type Public struct {
	catalog     Catalog
	search      *search.Service
	parties     *view.Engine[models.Party]
	politicians *view.Engine[models.Politician]
}

// NewPublic creates the public handler group. Text sorting collates
// according to tag.
func NewPublic(c Catalog, tag language.Tag) *Public {
	return &Public{
		catalog:     c,
		search:      search.NewService(c),
		parties:     view.NewEngine(view.PartySchema, tag),
		politicians: view.NewEngine(view.PoliticianSchema, tag),
	}
}

// listMeta accompanies every listing page. CK is the canonical criteria
// key; clients send it back as ck so a changed filter restarts at page 1.
type listMeta struct {
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"total_pages"`
	CK         string              `json:"ck"`
	Sort       string              `json:"sort"`
	Dir        view.Direction      `json:"dir"`
	Aggregates view.Aggregates     `json:"aggregates"`
	Facets     map[string][]string `json:"facets"`
}

// renderList applies req to rows with eng and writes the page envelope.
func renderList[T any](w http.ResponseWriter, eng *view.Engine[T], rows []T, req listRequest, facets ...string) {
	c := eng.Normalize(req.criteria)
	page := view.Resume(req.prevKey, c, req.page)
	res := eng.View(rows, c, page)

	meta := listMeta{
		Page:       res.Page,
		PageSize:   res.PageSize,
		Total:      res.Total,
		TotalPages: res.TotalPages,
		CK:         c.Key(),
		Sort:       c.Sort,
		Dir:        c.Dir,
		Aggregates: res.Aggregates,
		Facets:     make(map[string][]string, len(facets)),
	}
	for _, name := range facets {
		meta.Facets[name] = eng.FacetValues(rows, name)
	}
	respond.Page(w, res.Rows, meta)
}

// Parties lists parties. Query params: q, state, status, min_seats, sort,
// dir, page, ck.
func (p *Public) Parties(w http.ResponseWriter, r *http.Request) {
	req, err := parseList(r.URL.Query(), "state", "status")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	rows := p.catalog.Parties(r.Context(), catalog.ListOptions{})
	renderList(w, p.parties, rows, req, "state", "status")
}

// Politicians lists politicians. Query params: q, state, party, sort, dir,
// page, ck.
func (p *Public) Politicians(w http.ResponseWriter, r *http.Request) {
	req, err := parseList(r.URL.Query(), "state", "party")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	rows := p.catalog.Politicians(r.Context(), catalog.ListOptions{})
	renderList(w, p.politicians, rows, req, "state", "party")
}

// LatestPoliticians returns the n most recently created politicians.
func (p *Public) LatestPoliticians(w http.ResponseWriter, r *http.Request) {
	n, err := parseLatest(r.URL.Query())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, p.catalog.LatestPoliticians(r.Context(), n))
}

// partyDetail adds rendered markdown to a party.
type partyDetail struct {
	models.Party
	DetailsHTML string `json:"details_html,omitempty"`
}

// politicianDetail adds rendered markdown to a politician.
type politicianDetail struct {
	models.Politician
	LifeEventsHTML string `json:"life_events_html,omitempty"`
}

// Party returns one party by slug or record id.
func (p *Public) Party(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")
	if err := validateSlug("slug", s); err != nil {
		respond.Error(w, r, err)
		return
	}
	party := p.catalog.PartyBySlug(r.Context(), s)
	if party == nil {
		respond.Error(w, r, apperr.NotFound("Party"))
		return
	}
	respond.OK(w, partyDetail{Party: *party, DetailsHTML: markdown.Field(party.Details)})
}

// Politician returns one politician by slug or record id.
func (p *Public) Politician(w http.ResponseWriter, r *http.Request) {
	s := chi.URLParam(r, "slug")
	if err := validateSlug("slug", s); err != nil {
		respond.Error(w, r, err)
		return
	}
	pol := p.catalog.PoliticianBySlug(r.Context(), s)
	if pol == nil {
		respond.Error(w, r, apperr.NotFound("Politician"))
		return
	}
	respond.OK(w, politicianDetail{Politician: *pol, LifeEventsHTML: markdown.Field(pol.LifeEvents)})
}

// comparison is the payload of the compare endpoints. Missing lists the
// requested slugs that resolved to nothing.
type comparison[T any] struct {
	Items   []T      `json:"items"`
	Missing []string `json:"missing"`
}

// compare resolves up to selection.Max slugs from the slugs parameter.
func compare[T any](w http.ResponseWriter, r *http.Request, lookup func(context.Context, string) *T) {
	slugs := selection.ParseCompareParam(r.URL.Query().Get("slugs"))
	if len(slugs) == 0 {
		respond.Error(w, r, apperr.Validation("Invalid query parameters.",
			apperr.FieldError{Field: "slugs", Message: "is required"}))
		return
	}

	out := comparison[T]{Items: []T{}, Missing: []string{}}
	for _, s := range slugs {
		if err := validateSlug("slugs", s); err != nil {
			respond.Error(w, r, err)
			return
		}
		if v := lookup(r.Context(), s); v != nil {
			out.Items = append(out.Items, *v)
		} else {
			out.Missing = append(out.Missing, s)
		}
	}
	respond.OK(w, out)
}

// ComparePoliticians resolves ?slugs=a,b to politicians.
func (p *Public) ComparePoliticians(w http.ResponseWriter, r *http.Request) {
	compare(w, r, p.catalog.PoliticianBySlug)
}

// CompareParties resolves ?slugs=a,b to parties.
func (p *Public) CompareParties(w http.ResponseWriter, r *http.Request) {
	compare(w, r, p.catalog.PartyBySlug)
}

// selectionState is the result of applying a toggle to a selection.
type selectionState struct {
	Selected []string `json:"selected"`
	Ready    bool     `json:"ready"`
	Compare  string   `json:"compare"`
}

// Selection applies ?toggle= to the selection carried in ?selected= and
// returns the new selection with its compare parameter.
func (p *Public) Selection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := selection.New(selection.ParseCompareParam(q.Get("selected"))...)
	if t := strings.TrimSpace(q.Get("toggle")); t != "" {
		if err := validateSlug("toggle", t); err != nil {
			respond.Error(w, r, err)
			return
		}
		sel.Toggle(t)
	}
	ids := sel.IDs()
	respond.OK(w, selectionState{
		Selected: ids,
		Ready:    sel.Ready(),
		Compare:  selection.CompareParam(ids),
	})
}

// Search runs a combined politician and party search for ?q=.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if err := validateQuery(q); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, p.search.Search(r.Context(), q))
}
