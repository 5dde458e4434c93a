// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"polidex/internal/models"
)

// DefaultAirtableBaseURL is the public REST endpoint.
const DefaultAirtableBaseURL = "https://api.airtable.com/v0"

// airtablePageSize is the API's per-request maximum.
const airtablePageSize = 100

// AirtableConfig holds the credentials and table mapping for one base.
type AirtableConfig struct {
	APIKey  string
	BaseID  string
	BaseURL string

	// Tables maps logical tables onto the base's table names.
	Tables map[models.Table]string

	// CreatedField is the created-time column used for OrderRecent.
	CreatedField string

	Timeout time.Duration
}

// Airtable implements Source over the Airtable REST API.
type Airtable struct {
	config AirtableConfig
	client *http.Client
}

// NewAirtable creates an Airtable source. Missing table names default to
// the logical table names.
func NewAirtable(cfg AirtableConfig) *Airtable {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAirtableBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.CreatedField == "" {
		cfg.CreatedField = "Created"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Airtable{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Query lists records page by page until Limit rows have been read or the
// API stops returning an offset.
func (a *Airtable) Query(ctx context.Context, q Query) ([]models.Record, error) {
	params := url.Values{}
	if q.Limit > 0 {
		params.Set("maxRecords", strconv.Itoa(q.Limit))
		params.Set("pageSize", strconv.Itoa(min(q.Limit, airtablePageSize)))
	}
	if formula := buildFormula(q); formula != "" {
		params.Set("filterByFormula", formula)
	}
	switch q.Order {
	case OrderRecent:
		params.Set("sort[0][field]", a.config.CreatedField)
		params.Set("sort[0][direction]", "desc")
	default:
		if q.SortField != "" {
			params.Set("sort[0][field]", q.SortField)
			params.Set("sort[0][direction]", "asc")
		}
	}

	var records []models.Record
	for {
		var page airtableListResponse
		if err := a.getJSON(ctx, a.tableURL(q.Table)+"?"+params.Encode(), &page); err != nil {
			return nil, err
		}
		records = append(records, page.Records...)

		if page.Offset == "" || (q.Limit > 0 && len(records) >= q.Limit) {
			break
		}
		params.Set("offset", page.Offset)
	}

	if q.Limit > 0 && len(records) > q.Limit {
		records = records[:q.Limit]
	}
	return records, nil
}

// Get retrieves a single record by its rec... identifier.
func (a *Airtable) Get(ctx context.Context, table models.Table, id string) (*models.Record, error) {
	var rec models.Record
	err := a.getJSON(ctx, a.tableURL(table)+"/"+url.PathEscape(id), &rec)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Ping lists a single politician row.
func (a *Airtable) Ping(ctx context.Context) error {
	_, err := a.Query(ctx, Query{Table: models.TablePoliticians, Limit: 1})
	return err
}

func (a *Airtable) tableURL(table models.Table) string {
	name, ok := a.config.Tables[table]
	if !ok || name == "" {
		name = string(table)
	}
	return a.config.BaseURL + "/" + url.PathEscape(a.config.BaseID) + "/" + url.PathEscape(name)
}

// getJSON performs an authenticated GET and decodes a 2xx body into out.
func (a *Airtable) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("airtable request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("airtable http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("airtable read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("airtable unmarshal: %w", err)
	}
	return nil
}

type airtableListResponse struct {
	Records []models.Record `json:"records"`
	Offset  string          `json:"offset"`
}

// buildFormula renders the Search and Match parts of q as an Airtable
// formula. Values are lowercased on both sides so comparisons ignore case;
// concatenating "" coerces lookup arrays and numbers to text.
func buildFormula(q Query) string {
	var clauses []string

	if q.Search != "" && len(q.SearchFields) > 0 {
		needle := quoteFormula(strings.ToLower(q.Search))
		ors := make([]string, 0, len(q.SearchFields))
		for _, f := range q.SearchFields {
			ors = append(ors, fmt.Sprintf("FIND(%s, LOWER(%s&\"\"))", needle, fieldRef(f)))
		}
		if len(ors) == 1 {
			clauses = append(clauses, ors[0])
		} else {
			clauses = append(clauses, "OR("+strings.Join(ors, ", ")+")")
		}
	}

	if q.MatchField != "" {
		clauses = append(clauses, fmt.Sprintf("LOWER(%s&\"\") = %s",
			fieldRef(q.MatchField), quoteFormula(strings.ToLower(q.MatchValue))))
	}

	switch len(clauses) {
	case 0:
		return ""
	case 1:
		return clauses[0]
	default:
		return "AND(" + strings.Join(clauses, ", ") + ")"
	}
}

func quoteFormula(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func fieldRef(name string) string {
	return "{" + strings.ReplaceAll(name, "}", "") + "}"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
