// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the raw store record shape and the canonical
// politician and party entities built from it.
package models

import "time"

// Table names a logical collection in the external store.
type Table string

const (
	TablePoliticians Table = "politicians"
	TableParties     Table = "parties"
)

// Record is one loosely-typed row as returned by the external store.
// Field values may be strings, numbers, booleans, lists, or attachment
// objects, and the same concept can appear under several key spellings.
type Record struct {
	ID          string         `json:"id"`
	CreatedTime time.Time      `json:"createdTime"`
	Fields      map[string]any `json:"fields"`
}
