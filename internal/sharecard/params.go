// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sharecard

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"polidex/internal/models"
)

// Placeholders used when a parameter is missing.
const (
	PlaceholderName  = "Unknown Politician"
	PlaceholderParty = "Independent"
	PlaceholderDash  = "—"
)

// Query parameter names shared by card and share URLs.
const (
	paramName       = "name"
	paramParty      = "party"
	paramState      = "state"
	paramStatKey    = "stat_key"
	paramStatValue  = "stat_value"
	paramStatSuffix = "stat_suffix"
	paramPhoto      = "photo"
)

// Params are the named strings a card is drawn from.
type Params struct {
	Name       string `json:"name"`
	Party      string `json:"party"`
	State      string `json:"state"`
	StatKey    string `json:"stat_key"`
	StatValue  string `json:"stat_value"`
	StatSuffix string `json:"stat_suffix"`
	Photo      string `json:"photo"`
}

// ParamsFromQuery reads card parameters, substituting placeholders for
// anything missing. It never fails.
func ParamsFromQuery(q url.Values) Params {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			return v
		}
		return fallback
	}
	return Params{
		Name:       get(paramName, PlaceholderName),
		Party:      get(paramParty, PlaceholderParty),
		State:      get(paramState, PlaceholderDash),
		StatKey:    get(paramStatKey, ""),
		StatValue:  get(paramStatValue, PlaceholderDash),
		StatSuffix: get(paramStatSuffix, ""),
		Photo:      get(paramPhoto, ""),
	}
}

// Query encodes p, leaving out empty values and placeholders.
func (p Params) Query() url.Values {
	q := url.Values{}
	set := func(key, v, placeholder string) {
		if v != "" && v != placeholder {
			q.Set(key, v)
		}
	}
	set(paramName, p.Name, PlaceholderName)
	set(paramParty, p.Party, PlaceholderParty)
	set(paramState, p.State, PlaceholderDash)
	set(paramStatKey, p.StatKey, "")
	set(paramStatValue, p.StatValue, PlaceholderDash)
	set(paramStatSuffix, p.StatSuffix, "")
	set(paramPhoto, p.Photo, "")
	return q
}

// Stats a card can feature, keyed by the "stat" parameter.
var Stats = map[string]struct {
	Label  string
	Suffix string
	Value  func(models.Politician) *int
}{
	"age":            {"Age", "yrs", func(p models.Politician) *int { return p.Age }},
	"years":          {"In Politics", "yrs", func(p models.Politician) *int { return p.YearsInPolitics }},
	"criminal_cases": {"Criminal Cases", "", func(p models.Politician) *int { return p.CriminalCases }},
}

// ParamsFromPolitician builds card parameters for p featuring the named
// stat. Unknown stats and missing values fall back to placeholders.
func ParamsFromPolitician(p models.Politician, stat string) Params {
	q := url.Values{}
	q.Set(paramName, p.Name)
	q.Set(paramParty, models.Deref(p.Party))
	q.Set(paramState, models.Deref(p.State))
	q.Set(paramPhoto, models.Deref(p.Photo))
	if s, ok := Stats[stat]; ok {
		q.Set(paramStatKey, s.Label)
		if v := s.Value(p); v != nil {
			q.Set(paramStatValue, strconv.Itoa(*v))
			q.Set(paramStatSuffix, s.Suffix)
		}
	}
	return ParamsFromQuery(q)
}

// StatLine joins the stat value and suffix for display: "54 yrs", "87%".
func (p Params) StatLine() string {
	if p.StatSuffix == "" {
		return p.StatValue
	}
	first := []rune(p.StatSuffix)[0]
	if unicode.IsLetter(first) || unicode.IsDigit(first) {
		return p.StatValue + " " + p.StatSuffix
	}
	return p.StatValue + p.StatSuffix
}

// ShareURL is the canonical politician page carrying p as query
// parameters, so that link unfurlers request the matching card.
func ShareURL(base, slug string, p Params) string {
	u := CanonicalURL(base, slug)
	if q := p.Query().Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// CanonicalURL is the public page of the politician with the given slug,
// or the site root when slug is empty.
func CanonicalURL(base, slug string) string {
	base = strings.TrimRight(base, "/")
	if slug == "" {
		return base + "/"
	}
	return base + "/politicians/" + url.PathEscape(slug)
}

// CardURL is the image URL for p. The slug travels along so the card's
// QR code can point at the politician's page.
func CardURL(base, slug string, p Params) string {
	q := p.Query()
	if slug != "" {
		q.Set("slug", slug)
	}
	u := strings.TrimRight(base, "/") + "/og/card.png"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}
