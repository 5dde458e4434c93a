// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "strings"

// PartyTier is the display tier derived from a party's free-text status.
type PartyTier string

const (
	TierNational PartyTier = "national"
	TierState    PartyTier = "state"
	TierNone     PartyTier = ""
)

// Party is the canonical political party record.
type Party struct {
	ID         string   `json:"id"`
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Abbr       *string  `json:"abbr,omitempty"`
	State      *string  `json:"state,omitempty"`
	Status     *string  `json:"status,omitempty"`
	Founded    *string  `json:"founded,omitempty"`
	Logo       *string  `json:"logo,omitempty"`
	Leaders    []string `json:"leaders"`
	SymbolText *string  `json:"symbol_text,omitempty"`
	Seats      *int     `json:"seats"`
	Details    *string  `json:"details,omitempty"`
}

// Tier inspects the status case-insensitively. "national" wins over
// "state" so that "National (formerly State) Party" ranks as national.
func (p *Party) Tier() PartyTier {
	status := strings.ToLower(Deref(p.Status))
	switch {
	case strings.Contains(status, "national"):
		return TierNational
	case strings.Contains(status, "state"):
		return TierState
	default:
		return TierNone
	}
}
