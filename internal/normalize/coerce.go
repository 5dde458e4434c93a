// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var (
	// listSeparator splits a delimited single-string list value.
	listSeparator = regexp.MustCompile(`[,;\n]`)
	// numericNoise is stripped before integer parsing: thousands
	// separators and any whitespace.
	numericNoise = regexp.MustCompile(`[,\s]`)
)

// thumbnailOrder is the attachment thumbnail preference, largest first.
var thumbnailOrder = []string{"full", "large", "small"}

// Text coerces a loosely-typed value into a trimmed string. Lookup fields
// arrive as lists, so the first non-empty element is used. ok is false when
// nothing usable was found.
func Text(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case []string:
		for _, item := range t {
			if s := strings.TrimSpace(item); s != "" {
				return s, true
			}
		}
		return "", false
	case []any:
		for _, item := range t {
			if s, ok := Text(item); ok {
				return s, true
			}
		}
		return "", false
	case map[string]any:
		// Collaborator and linked-record objects carry a display name.
		return Text(t["name"])
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// List materializes a list-valued field. Sequences are kept in order with
// blank elements dropped; a single string is split on comma, semicolon, or
// newline. The result is never nil.
func List(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case nil:
		return out
	case string:
		for _, piece := range listSeparator.Split(t, -1) {
			if s := strings.TrimSpace(piece); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, item := range t {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range t {
			if s, ok := Text(item); ok {
				out = append(out, s)
			}
		}
	default:
		if s, ok := Text(t); ok {
			out = append(out, s)
		}
	}
	return out
}

// Attachment extracts a single image URL. A list of attachment objects
// yields its first element; an object yields its url, else the largest
// available thumbnail. A bare string is taken as the URL itself.
func Attachment(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case []any:
		if len(t) == 0 {
			return "", false
		}
		return Attachment(t[0])
	case []string:
		if len(t) == 0 {
			return "", false
		}
		return Attachment(t[0])
	case map[string]any:
		if u, ok := t["url"].(string); ok && strings.TrimSpace(u) != "" {
			return strings.TrimSpace(u), true
		}
		thumbs, _ := t["thumbnails"].(map[string]any)
		for _, size := range thumbnailOrder {
			variant, _ := thumbs[size].(map[string]any)
			if u, ok := variant["url"].(string); ok && strings.TrimSpace(u) != "" {
				return strings.TrimSpace(u), true
			}
		}
	}
	return "", false
}

// ParseInt parses an integer from a string or number. Thousands separators
// and whitespace are stripped first. Anything non-numeric, empty, or
// fractional yields nil.
func ParseInt(v any) *int {
	switch t := v.(type) {
	case nil, bool:
		return nil
	case string:
		cleaned := numericNoise.ReplaceAllString(t, "")
		if cleaned == "" {
			return nil
		}
		if n, err := strconv.Atoi(cleaned); err == nil {
			return &n
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return wholeNumber(f)
	case []any:
		if len(t) == 0 {
			return nil
		}
		return ParseInt(t[0])
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return wholeNumber(f)
}

// ParseSeats is ParseInt under the name the party listing uses.
// ParseSeats("1,234") is 1234; ParseSeats("") and ParseSeats("abc") are nil.
func ParseSeats(v any) *int {
	return ParseInt(v)
}

func wholeNumber(f float64) *int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	n := int(f)
	return &n
}
