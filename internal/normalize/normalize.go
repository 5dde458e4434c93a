// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package normalize turns raw store records into canonical politician and
// party entities. Every canonical field resolves through a fixed,
// priority-ordered key table (see fields.go), and every malformed or
// missing value degrades to a documented default: "" for names, an empty
// list for list fields, nil for everything else. Nothing here returns an
// error or panics on upstream data.
package normalize

import (
	"polidex/internal/models"
)

// Politician builds a Politician from one raw record.
func Politician(rec models.Record) models.Politician {
	fs := Fields(rec.Fields)

	return models.Politician{
		ID:              rec.ID,
		Slug:            slugOrID(fs, PoliticianSlug, rec.ID),
		Name:            text(fs, PoliticianName),
		DOB:             optText(fs, PoliticianDOB),
		Photo:           attachment(fs, PoliticianPhoto),
		Offices:         list(fs, PoliticianOffices),
		LifeEvents:      optText(fs, PoliticianLifeEvents),
		Links:           list(fs, PoliticianLinks),
		Party:           optText(fs, PoliticianParty),
		State:           optText(fs, PoliticianState),
		CurrentPosition: optText(fs, PoliticianPosition),
		Constituency:    optText(fs, PoliticianConstituency),
		Age:             integer(fs, PoliticianAge),
		YearsInPolitics: integer(fs, PoliticianYearsInPolitics),
		Attendance:      optText(fs, PoliticianAttendance),
		Assets:          optText(fs, PoliticianAssets),
		Liabilities:     optText(fs, PoliticianLiabilities),
		CriminalCases:   integer(fs, PoliticianCriminalCases),
		Website:         optText(fs, PoliticianWebsite),
	}
}

// Party builds a Party from one raw record.
func Party(rec models.Record) models.Party {
	fs := Fields(rec.Fields)

	return models.Party{
		ID:         rec.ID,
		Slug:       slugOrID(fs, PartySlug, rec.ID),
		Name:       text(fs, PartyName),
		Abbr:       optText(fs, PartyAbbr),
		State:      optText(fs, PartyState),
		Status:     optText(fs, PartyStatus),
		Founded:    optText(fs, PartyFounded),
		Logo:       attachment(fs, PartyLogo),
		Leaders:    list(fs, PartyLeaders),
		SymbolText: optText(fs, PartySymbolText),
		Seats:      integer(fs, PartySeats),
		Details:    optText(fs, PartyDetails),
	}
}

// Politicians normalizes a batch, preserving order.
func Politicians(recs []models.Record) []models.Politician {
	out := make([]models.Politician, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Politician(rec))
	}
	return out
}

// Parties normalizes a batch, preserving order.
func Parties(recs []models.Record) []models.Party {
	out := make([]models.Party, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Party(rec))
	}
	return out
}

func slugOrID(fs Fields, f Field, id string) string {
	if s := text(fs, f); s != "" {
		return s
	}
	return id
}

func text(fs Fields, f Field) string {
	s, _ := Resolve(fs, f, Text)
	return s
}

func optText(fs Fields, f Field) *string {
	s, ok := Resolve(fs, f, Text)
	if !ok {
		return nil
	}
	return &s
}

func list(fs Fields, f Field) []string {
	items, ok := Resolve(fs, f, func(v any) ([]string, bool) {
		items := List(v)
		return items, len(items) > 0
	})
	if !ok {
		return []string{}
	}
	return items
}

func attachment(fs Fields, f Field) *string {
	u, ok := Resolve(fs, f, Attachment)
	if !ok {
		return nil
	}
	return &u
}

func integer(fs Fields, f Field) *int {
	n, _ := Resolve(fs, f, func(v any) (*int, bool) {
		n := ParseInt(v)
		return n, n != nil
	})
	return n
}
