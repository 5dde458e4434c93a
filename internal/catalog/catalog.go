// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog is the list and lookup service over the record store.
// Every fetch runs under a timeout with retries for transient failures,
// and store failures degrade to an empty result plus a logged warning so
// that listing pages always render.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"polidex/internal/models"
	"polidex/internal/normalize"
	"polidex/internal/slug"
	"polidex/internal/store"
)

const (
	// DefaultLimit caps list fetches when the caller passes no limit.
	DefaultLimit = 500

	// DefaultTimeout bounds a single store fetch, retries included.
	DefaultTimeout = 8 * time.Second

	// DefaultRetries is how many times a transient failure is retried.
	DefaultRetries = 2

	defaultBackoff = 200 * time.Millisecond
)

// Store column names used for filtering and ordering.
const (
	columnName = "Name"
	columnSlug = "slug"
)

// Searchable columns per table, matched as OR'd substrings.
var (
	PoliticianSearchFields = []string{"Name", "slug", "Party", "Constituency"}
	PartySearchFields      = []string{"Name", "slug", "Abbreviation", "Status", "State"}
)

// RecordCache is the optional raw-response cache consulted before the store.
type RecordCache interface {
	Get(ctx context.Context, key string) ([]models.Record, bool)
	Set(ctx context.Context, key string, recs []models.Record)
}

// Options tunes fetch behaviour. Zero values select the defaults.
type Options struct {
	Timeout time.Duration
	Retries int
	Backoff time.Duration
	Cache   RecordCache
}

// ListOptions narrows a list fetch.
type ListOptions struct {
	Limit int
	Query string
	Order store.Order
}

// Catalog fetches and normalizes politicians and parties.
type Catalog struct {
	src     store.Source
	timeout time.Duration
	retries uint64
	backoff time.Duration
	cache   RecordCache
}

// New creates a catalog over src.
func New(src store.Source, opts Options) *Catalog {
	c := &Catalog{
		src:     src,
		timeout: opts.Timeout,
		backoff: opts.Backoff,
		cache:   opts.Cache,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.backoff <= 0 {
		c.backoff = defaultBackoff
	}
	switch {
	case opts.Retries < 0:
		c.retries = 0
	case opts.Retries == 0:
		c.retries = DefaultRetries
	default:
		c.retries = uint64(opts.Retries)
	}
	return c
}

// Politicians lists politicians matching opts. Never returns nil.
func (c *Catalog) Politicians(ctx context.Context, opts ListOptions) []models.Politician {
	recs := c.list(ctx, models.TablePoliticians, PoliticianSearchFields, opts)
	return normalize.Politicians(recs)
}

// Parties lists parties matching opts. Never returns nil.
func (c *Catalog) Parties(ctx context.Context, opts ListOptions) []models.Party {
	recs := c.list(ctx, models.TableParties, PartySearchFields, opts)
	return normalize.Parties(recs)
}

// LatestPoliticians returns the n most recently created politicians.
func (c *Catalog) LatestPoliticians(ctx context.Context, n int) []models.Politician {
	return c.Politicians(ctx, ListOptions{Limit: n, Order: store.OrderRecent})
}

// PoliticianBySlug returns the politician with the given slug or record
// id, or nil when none exists.
func (c *Catalog) PoliticianBySlug(ctx context.Context, s string) *models.Politician {
	rec := c.lookup(ctx, models.TablePoliticians, s)
	if rec == nil {
		return nil
	}
	p := normalize.Politician(*rec)
	return &p
}

// PartyBySlug returns the party with the given slug or record id, or nil
// when none exists.
func (c *Catalog) PartyBySlug(ctx context.Context, s string) *models.Party {
	rec := c.lookup(ctx, models.TableParties, s)
	if rec == nil {
		return nil
	}
	p := normalize.Party(*rec)
	return &p
}

// Ping reports whether the store is reachable.
func (c *Catalog) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.src.Ping(ctx)
}

func (c *Catalog) list(ctx context.Context, table models.Table, searchFields []string, opts ListOptions) []models.Record {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	q := store.Query{
		Table:     table,
		Search:    strings.ToLower(strings.TrimSpace(opts.Query)),
		SortField: columnName,
		Order:     opts.Order,
		Limit:     limit,
	}
	if q.Search != "" {
		q.SearchFields = searchFields
	}

	recs, err := c.fetch(ctx, q)
	if err != nil {
		slog.Warn("store query failed", "table", table, "query", q.Search, "error", err)
		return []models.Record{}
	}
	return recs
}

// lookup resolves a slug to one record. Record ids are fetched directly;
// anything else is a case-insensitive match on the slug column.
func (c *Catalog) lookup(ctx context.Context, table models.Table, s string) *models.Record {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if slug.IsRecordID(s) {
		var rec *models.Record
		err := c.withRetry(ctx, func(ctx context.Context) error {
			var err error
			rec, err = c.src.Get(ctx, table, s)
			return err
		})
		if err != nil {
			slog.Warn("store get failed", "table", table, "id", s, "error", err)
			return nil
		}
		return rec
	}

	// Two rows are enough to notice a duplicate slug.
	recs, err := c.fetch(ctx, store.Query{
		Table:      table,
		MatchField: columnSlug,
		MatchValue: s,
		SortField:  columnName,
		Limit:      2,
	})
	if err != nil {
		slog.Warn("store lookup failed", "table", table, "slug", s, "error", err)
		return nil
	}
	if len(recs) == 0 {
		return nil
	}
	if len(recs) > 1 {
		slog.Warn("duplicate slug", "table", table, "slug", s, "kept", recs[0].ID, "also", recs[1].ID)
	}
	return &recs[0]
}

// fetch runs q through the cache, timeout and retry policy.
func (c *Catalog) fetch(ctx context.Context, q store.Query) ([]models.Record, error) {
	key := cacheKey(q)
	if c.cache != nil {
		if recs, ok := c.cache.Get(ctx, key); ok {
			return recs, nil
		}
	}

	var recs []models.Record
	err := c.withRetry(ctx, func(ctx context.Context) error {
		var err error
		recs, err = c.src.Query(ctx, q)
		return err
	})
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []models.Record{}
	}
	if c.cache != nil {
		c.cache.Set(ctx, key, recs)
	}
	return recs, nil
}

func (c *Catalog) withRetry(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	b := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && store.IsTransient(err) && ctx.Err() == nil {
			return retry.RetryableError(err)
		}
		return err
	})
}

// cacheKey encodes every Query field that changes the store response.
func cacheKey(q store.Query) string {
	var b strings.Builder
	b.WriteString(string(q.Table))
	b.WriteString("|o=")
	b.WriteString(strconv.Itoa(int(q.Order)))
	b.WriteString("|n=")
	b.WriteString(strconv.Itoa(q.Limit))
	if q.Search != "" {
		fmt.Fprintf(&b, "|q=%s|f=%s", q.Search, strings.Join(q.SearchFields, ","))
	}
	if q.MatchField != "" {
		fmt.Fprintf(&b, "|m=%s=%s", q.MatchField, strings.ToLower(q.MatchValue))
	}
	if q.SortField != "" {
		b.WriteString("|s=")
		b.WriteString(q.SortField)
	}
	return b.String()
}
