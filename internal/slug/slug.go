// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation, accent folding for
// case-insensitive matching, and detection of raw store record identifiers.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, or space.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`[\s-]+`)
	// airtableID matches Airtable record identifiers such as recA1b2C3d4E5f6G7.
	airtableID = regexp.MustCompile(`^rec[A-Za-z0-9]{14}$`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Pragati Morcha (Kerala)" → "pragati-morcha-kerala"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(stripMarks(s)))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Fold lowercases s and strips combining marks so "Émile" and "emile"
// compare equal.
func Fold(s string) string {
	return strings.ToLower(stripMarks(s))
}

// IsRecordID reports whether s looks like a store record identifier rather
// than a human slug: an Airtable "rec" id or a UUID.
func IsRecordID(s string) bool {
	if airtableID.MatchString(s) {
		return true
	}
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
