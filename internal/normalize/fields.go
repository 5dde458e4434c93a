// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package normalize

import (
	"strings"

	"polidex/internal/models"
)

// Field is one canonical attribute and the source keys it may appear under,
// in precedence order. The explicit/custom spelling comes first and the
// legacy capitalized spelling after it.
type Field struct {
	Name string
	Keys []string
}

// Politician resolution table.
var (
	PoliticianName            = Field{"name", []string{"name", "Name"}}
	PoliticianSlug            = Field{"slug", []string{"slug", "Slug"}}
	PoliticianDOB             = Field{"dob", []string{"dob", "DOB", "Date of Birth"}}
	PoliticianPhoto           = Field{"photo", []string{"photo", "Photo"}}
	PoliticianOffices         = Field{"offices", []string{"offices", "Offices"}}
	PoliticianLifeEvents      = Field{"life_events", []string{"life_events", "Life Events"}}
	PoliticianLinks           = Field{"links", []string{"links", "Links"}}
	PoliticianParty           = Field{"party", []string{"party", "Party"}}
	PoliticianState           = Field{"state", []string{"state", "State"}}
	PoliticianPosition        = Field{"current_position", []string{"current_position", "position", "Current Position", "Position"}}
	PoliticianConstituency    = Field{"constituency", []string{"constituency", "Constituency"}}
	PoliticianAge             = Field{"age", []string{"age", "Age"}}
	PoliticianYearsInPolitics = Field{"years_in_politics", []string{"years_in_politics", "Years in Politics"}}
	PoliticianAttendance      = Field{"attendance", []string{"attendance", "Attendance"}}
	PoliticianAssets          = Field{"assets", []string{"assets", "Assets"}}
	PoliticianLiabilities     = Field{"liabilities", []string{"liabilities", "Liabilities"}}
	PoliticianCriminalCases   = Field{"criminal_cases", []string{"criminal_cases", "Criminal Cases"}}
	PoliticianWebsite         = Field{"website", []string{"website", "Website"}}
)

// Party resolution table.
var (
	PartyName       = Field{"name", []string{"name", "Name"}}
	PartySlug       = Field{"slug", []string{"slug", "Slug"}}
	PartyAbbr       = Field{"abbr", []string{"abbr", "abbrev", "Abbreviation", "Abbr"}}
	PartyState      = Field{"state", []string{"state", "State"}}
	PartyStatus     = Field{"status", []string{"status", "Status"}}
	PartyFounded    = Field{"founded", []string{"founded", "Founded", "Founded Year"}}
	PartyLogo       = Field{"logo", []string{"logo", "Logo"}}
	PartyLeaders    = Field{"leaders", []string{"leaders", "Leaders"}}
	PartySymbolText = Field{"symbol_text", []string{"symbol_text", "Symbol", "Symbol Text"}}
	PartySeats      = Field{"seats", []string{"seats", "Seats"}}
	PartyDetails    = Field{"details", []string{"details", "Details", "Description"}}
)

// tables lists every resolved field per store table.
var tables = map[models.Table][]Field{
	models.TablePoliticians: {
		PoliticianName, PoliticianSlug, PoliticianDOB, PoliticianPhoto, PoliticianOffices,
		PoliticianLifeEvents, PoliticianLinks, PoliticianParty, PoliticianState,
		PoliticianPosition, PoliticianConstituency, PoliticianAge, PoliticianYearsInPolitics,
		PoliticianAttendance, PoliticianAssets, PoliticianLiabilities, PoliticianCriminalCases,
		PoliticianWebsite,
	},
	models.TableParties: {
		PartyName, PartySlug, PartyAbbr, PartyState, PartyStatus, PartyFounded, PartyLogo,
		PartyLeaders, PartySymbolText, PartySeats, PartyDetails,
	},
}

// Spellings returns every source key the field containing key may appear
// under in table, in precedence order. A key no field lists is returned
// alone.
func Spellings(table models.Table, key string) []string {
	for _, f := range tables[table] {
		for _, k := range f.Keys {
			if k == key {
				return f.Keys
			}
		}
	}
	return []string{key}
}

// Fields is the validated entry seam for a raw record's field map. All
// normalizer access to upstream data goes through it.
type Fields map[string]any

// Lookup returns the value stored under the first present key of f.
// A key counts as absent when it is missing, nil, a blank string, or an
// empty list.
func (fs Fields) Lookup(f Field) (any, bool) {
	return Resolve(fs, f, func(v any) (any, bool) { return v, true })
}

// Resolve walks f's keys in order and returns the first value coerce
// accepts. A present value that coerce rejects falls through to the next
// spelling, so an unusable explicit key never hides a usable legacy one.
func Resolve[T any](fs Fields, f Field, coerce func(any) (T, bool)) (T, bool) {
	for _, key := range f.Keys {
		v, ok := fs[key]
		if !ok || isBlank(v) {
			continue
		}
		if out, ok := coerce(v); ok {
			return out, true
		}
	}
	var zero T
	return zero, false
}

// Key reports which source key satisfied f, or "" when none did.
func (fs Fields) Key(f Field) string {
	for _, key := range f.Keys {
		if v, ok := fs[key]; ok && !isBlank(v) {
			return key
		}
	}
	return ""
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}
