// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Politician is the canonical politician profile. Optional text fields are
// nil when the source record carried none of their spellings; list fields
// are always non-nil.
type Politician struct {
	ID              string   `json:"id"`
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	DOB             *string  `json:"dob,omitempty"`
	Photo           *string  `json:"photo,omitempty"`
	Offices         []string `json:"offices"`
	LifeEvents      *string  `json:"life_events,omitempty"`
	Links           []string `json:"links"`
	Party           *string  `json:"party,omitempty"`
	State           *string  `json:"state,omitempty"`
	CurrentPosition *string  `json:"current_position,omitempty"`
	Constituency    *string  `json:"constituency,omitempty"`
	Age             *int     `json:"age,omitempty"`
	YearsInPolitics *int     `json:"years_in_politics,omitempty"`
	Attendance      *string  `json:"attendance,omitempty"`
	Assets          *string  `json:"assets,omitempty"`
	Liabilities     *string  `json:"liabilities,omitempty"`
	CriminalCases   *int     `json:"criminal_cases,omitempty"`
	Website         *string  `json:"website,omitempty"`
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// IntOrZero returns the pointed-to int, or 0 for nil.
func IntOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
