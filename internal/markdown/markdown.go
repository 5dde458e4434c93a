// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts the free-text record fields (party details,
// life events) into HTML using goldmark. Raw HTML in the source is not
// passed through: store text is untrusted.
package markdown

import (
	"bytes"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(), // editors type line breaks, not paragraphs
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Field renders an optional text field. Absent fields and conversion
// failures yield "".
func Field(source *string) string {
	if source == nil || *source == "" {
		return ""
	}
	out, err := ToHTML(*source)
	if err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return ""
	}
	return out
}
