// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"polidex/internal/models"
	"polidex/internal/normalize"
)

// postgresTables whitelists the table names that may appear in SQL text.
var postgresTables = map[models.Table]string{
	models.TablePoliticians: "politicians",
	models.TableParties:     "parties",
}

// Postgres implements Source over a hosted PostgreSQL database whose tables
// keep each row's loose field map in a jsonb column. It only ever reads.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres source over an open connection pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Query translates q into a parameterized SELECT. Field names travel as
// bind parameters to the ->> operator, never as SQL text.
func (p *Postgres) Query(ctx context.Context, q Query) ([]models.Record, error) {
	table, ok := postgresTables[q.Table]
	if !ok {
		return nil, fmt.Errorf("postgres query: unknown table %q", q.Table)
	}

	var (
		where []string
		args  []any
	)
	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if q.Search != "" && len(q.SearchFields) > 0 {
		pattern := bind("%" + escapeLike(q.Search) + "%")
		ors := make([]string, 0, len(q.SearchFields))
		for _, key := range spellings(q.Table, q.SearchFields...) {
			ors = append(ors, fmt.Sprintf("fields->>%s ILIKE %s", bind(key), pattern))
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}
	if q.MatchField != "" {
		value := bind(q.MatchValue)
		ors := []string{}
		for _, key := range spellings(q.Table, q.MatchField) {
			ors = append(ors, fmt.Sprintf("LOWER(fields->>%s) = LOWER(%s)", bind(key), value))
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}

	query := "SELECT id, created_at, fields FROM " + table
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	switch {
	case q.Order == OrderRecent:
		query += " ORDER BY created_at DESC, id"
	case q.SortField != "":
		query += fmt.Sprintf(" ORDER BY LOWER(fields->>%s) ASC NULLS LAST, id", bind(q.SortField))
	default:
		query += " ORDER BY id"
	}
	if q.Limit > 0 {
		query += " LIMIT " + bind(q.Limit)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres query %s: %w", table, err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// spellings expands column names to every key the normalizer resolves
// them from. Rows store loose field maps, so a search on "Abbreviation"
// must also see "abbr" and "abbrev". Missing jsonb keys are simply NULL.
func spellings(table models.Table, columns ...string) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range columns {
		for _, key := range normalize.Spellings(table, c) {
			if !seen[key] {
				seen[key] = true
				out = append(out, key)
			}
		}
	}
	return out
}

// Get retrieves one row by id. Returns nil if not found.
func (p *Postgres) Get(ctx context.Context, table models.Table, id string) (*models.Record, error) {
	name, ok := postgresTables[table]
	if !ok {
		return nil, fmt.Errorf("postgres get: unknown table %q", table)
	}
	row := p.db.QueryRowContext(ctx, "SELECT id, created_at, fields FROM "+name+" WHERE id = $1", id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Ping verifies the pool can reach the database.
func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.Record, error) {
	var (
		rec models.Record
		raw []byte
	)
	if err := row.Scan(&rec.ID, &rec.CreatedTime, &raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rec.Fields); err != nil {
			return nil, fmt.Errorf("decode fields of %s: %w", rec.ID, err)
		}
	}
	return &rec, nil
}

// escapeLike neutralizes LIKE metacharacters in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
