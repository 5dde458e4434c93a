// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store holds the read-only adapters for the external structured
// data store. Each adapter answers the same small query shape and hands
// back loosely-typed records; normalization happens elsewhere.
package store

import (
	"context"
	"errors"
	"fmt"
	"net"

	"polidex/internal/models"
)

// Order selects the row ordering requested from the store.
type Order int

const (
	// OrderName sorts by the name column, ascending.
	OrderName Order = iota
	// OrderRecent sorts by creation time, newest first.
	OrderRecent
)

// Query is the store-independent description of one fetch.
type Query struct {
	Table models.Table

	// Search is matched case-insensitively as a substring against each of
	// SearchFields; a row matches when any field matches.
	Search       string
	SearchFields []string

	// MatchField/MatchValue add a case-insensitive equality constraint.
	MatchField string
	MatchValue string

	// SortField names the column used for OrderName.
	SortField string
	Order     Order
	Limit     int
}

// Source is an external store that can answer a Query.
type Source interface {
	// Query returns the matching records in the requested order.
	Query(ctx context.Context, q Query) ([]models.Record, error)

	// Get fetches one record by its store identity. Returns nil, nil
	// when no such record exists.
	Get(ctx context.Context, table models.Table, id string) (*models.Record, error)

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// StatusError is returned when the store answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("store responded with status %d: %s", e.Code, e.Body)
}

// IsTransient reports whether err is worth retrying: network failures,
// rate limiting, and upstream 5xx responses.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == 429 || se.Code >= 500
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
