package handlers

import (
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"polidex/internal/apperr"
	"polidex/internal/imageproxy"
	"polidex/internal/respond"
	"polidex/internal/sharecard"
)

// Share serves share links and the share-card image.
type Share struct {
	catalog  Catalog
	renderer *sharecard.Renderer
	baseURL  string
}

// NewShare creates the share handler group. baseURL is the public origin
// used for canonical and card URLs.
func NewShare(c Catalog, renderer *sharecard.Renderer, baseURL string) *Share {
	return &Share{catalog: c, renderer: renderer, baseURL: baseURL}
}

// shareLink is everything a client needs to share a politician.
type shareLink struct {
	URL       string           `json:"url"`
	Canonical string           `json:"canonical"`
	Card      string           `json:"card"`
	Params    sharecard.Params `json:"params"`
}

// Link builds the share URL and card URL for ?slug=, featuring ?stat=.
func (s *Share) Link(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	slug := strings.TrimSpace(q.Get("slug"))
	if err := validateSlug("slug", slug); err != nil {
		respond.Error(w, r, err)
		return
	}
	stat := strings.TrimSpace(q.Get("stat"))
	if _, ok := sharecard.Stats[stat]; stat != "" && !ok {
		allowed := slices.Sorted(maps.Keys(sharecard.Stats))
		respond.Error(w, r, apperr.Validation("Invalid query parameters.",
			apperr.FieldError{Field: "stat", Message: "must be one of " + strings.Join(allowed, ", ")}))
		return
	}

	pol := s.catalog.PoliticianBySlug(r.Context(), slug)
	if pol == nil {
		respond.Error(w, r, apperr.NotFound("Politician"))
		return
	}

	p := sharecard.ParamsFromPolitician(*pol, stat)
	respond.OK(w, shareLink{
		URL:       sharecard.ShareURL(s.baseURL, pol.Slug, p),
		Canonical: sharecard.CanonicalURL(s.baseURL, pol.Slug),
		Card:      sharecard.CardURL(s.baseURL, pol.Slug, p),
		Params:    p,
	})
}

// Card renders the share-card PNG from query parameters. Missing values
// are drawn as placeholders; the request never fails on bad input.
func (s *Share) Card(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := sharecard.ParamsFromQuery(q)

	slug := strings.TrimSpace(q.Get("slug"))
	if utf8.RuneCountInString(slug) > maxSlugLen {
		slug = ""
	}

	png, err := s.renderer.Render(r.Context(), p, sharecard.CanonicalURL(s.baseURL, slug))
	if err != nil {
		respond.Error(w, r, apperr.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", imageproxy.CacheControl)
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
