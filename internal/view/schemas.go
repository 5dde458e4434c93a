package view

import (
	"strings"

	"polidex/internal/models"
)

// PartySchema views parties: default order is most seats first.
var PartySchema = Schema[models.Party]{
	Searchable: func(p models.Party) string {
		return strings.Join([]string{
			p.Name, models.Deref(p.Abbr), models.Deref(p.State), models.Deref(p.Status),
			strings.Join(p.Leaders, " "), models.Deref(p.SymbolText), models.Deref(p.Details),
		}, " ")
	},
	Facets: map[string]func(models.Party) string{
		"state":  func(p models.Party) string { return models.Deref(p.State) },
		"status": func(p models.Party) string { return models.Deref(p.Status) },
	},
	Metric: func(p models.Party) int { return models.IntOrZero(p.Seats) },
	Bucket: func(p models.Party) string { return string(p.Tier()) },
	Sorts: map[string]SortKey[models.Party]{
		"seats":   {Number: func(p models.Party) int { return models.IntOrZero(p.Seats) }},
		"name":    {Text: func(p models.Party) string { return p.Name }},
		"founded": {Number: func(p models.Party) int { return Year(models.Deref(p.Founded)) }},
		"abbr":    {Text: func(p models.Party) string { return models.Deref(p.Abbr) }},
	},
	DefaultSort: "seats",
	DefaultDir:  Desc,
}

// PoliticianSchema views politicians: default order is by name.
var PoliticianSchema = Schema[models.Politician]{
	Searchable: func(p models.Politician) string {
		return strings.Join([]string{
			p.Name, models.Deref(p.Party), models.Deref(p.State),
			models.Deref(p.Constituency), models.Deref(p.CurrentPosition),
		}, " ")
	},
	Facets: map[string]func(models.Politician) string{
		"state": func(p models.Politician) string { return models.Deref(p.State) },
		"party": func(p models.Politician) string { return models.Deref(p.Party) },
	},
	Sorts: map[string]SortKey[models.Politician]{
		"name":     {Text: func(p models.Politician) string { return p.Name }},
		"party":    {Text: func(p models.Politician) string { return models.Deref(p.Party) }},
		"state":    {Text: func(p models.Politician) string { return models.Deref(p.State) }},
		"position": {Text: func(p models.Politician) string { return models.Deref(p.CurrentPosition) }},
		"age":      {Number: func(p models.Politician) int { return models.IntOrZero(p.Age) }},
		"years":    {Number: func(p models.Politician) int { return models.IntOrZero(p.YearsInPolitics) }},
	},
	DefaultSort: "name",
	DefaultDir:  Asc,
}
