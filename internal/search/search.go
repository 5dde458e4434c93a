// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search answers the cross-entity quick search: one query fanned
// out to politicians and parties concurrently, merged into a short list of
// typed hits.
package search

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"polidex/internal/catalog"
	"polidex/internal/models"
)

// Hit caps per entity type.
const (
	MaxPoliticians = 8
	MaxParties     = 6
)

// HitType names the entity a hit refers to.
type HitType string

const (
	TypePolitician HitType = "politician"
	TypeParty      HitType = "party"
)

// Hit is one search suggestion.
type Hit struct {
	Type HitType `json:"type"`
	Name string  `json:"name"`
	Slug string  `json:"slug"`
}

// Totals counts every match before capping.
type Totals struct {
	Politicians int `json:"politicians"`
	Parties     int `json:"parties"`
}

// Result holds the capped hits, politicians first.
type Result struct {
	Query  string `json:"query"`
	Hits   []Hit  `json:"hits"`
	Totals Totals `json:"totals"`
}

// Lister is the slice of the catalog the search needs.
type Lister interface {
	Politicians(ctx context.Context, opts catalog.ListOptions) []models.Politician
	Parties(ctx context.Context, opts catalog.ListOptions) []models.Party
}

// Service runs searches against a Lister.
type Service struct {
	catalog Lister
}

// NewService creates a search service.
func NewService(c Lister) *Service {
	return &Service{catalog: c}
}

// Search trims q and, when anything remains, queries both tables
// concurrently. An empty query returns an empty result without touching
// the store.
func (s *Service) Search(ctx context.Context, q string) Result {
	q = strings.TrimSpace(q)
	res := Result{Query: q, Hits: []Hit{}}
	if q == "" {
		return res
	}

	var (
		politicians []models.Politician
		parties     []models.Party
	)
	// The catalog degrades failures to empty slices, so neither goroutine
	// returns an error; errgroup is used for its join semantics.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		politicians = s.catalog.Politicians(gctx, catalog.ListOptions{Query: q})
		return nil
	})
	g.Go(func() error {
		parties = s.catalog.Parties(gctx, catalog.ListOptions{Query: q})
		return nil
	})
	_ = g.Wait()

	res.Totals = Totals{Politicians: len(politicians), Parties: len(parties)}
	for _, p := range politicians[:min(len(politicians), MaxPoliticians)] {
		res.Hits = append(res.Hits, Hit{Type: TypePolitician, Name: p.Name, Slug: p.Slug})
	}
	for _, p := range parties[:min(len(parties), MaxParties)] {
		res.Hits = append(res.Hits, Hit{Type: TypeParty, Name: p.Name, Slug: p.Slug})
	}
	return res
}
