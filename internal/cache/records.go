// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// records.go keeps raw store responses in Valkey for a short time so that
// bursts of identical listing requests reach the store once. Only raw
// records are cached; entities are normalized fresh on every read.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"polidex/internal/models"
)

const (
	// recordKeyPrefix is the Valkey key prefix for cached store responses.
	recordKeyPrefix = "records:"

	// DefaultRecordTTL is how long a store response stays cached.
	DefaultRecordTTL = 60 * time.Second
)

// RecordCache stores raw record slices keyed by query shape.
type RecordCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRecordCache creates a record cache backed by the given Valkey client.
func NewRecordCache(client *redis.Client, ttl time.Duration) *RecordCache {
	if ttl == 0 {
		ttl = DefaultRecordTTL
	}
	return &RecordCache{client: client, ttl: ttl}
}

// Get returns the cached records for key. Errors are logged and reported
// as a miss so the caller falls through to the store.
func (rc *RecordCache) Get(ctx context.Context, key string) ([]models.Record, bool) {
	val, err := rc.client.Get(ctx, recordKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("record cache get error", "key", key, "error", err)
		return nil, false
	}

	var recs []models.Record
	if err := json.Unmarshal(val, &recs); err != nil {
		slog.Warn("record cache decode error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("record cache hit", "key", key)
	return recs, true
}

// Set stores records under key with the configured TTL.
func (rc *RecordCache) Set(ctx context.Context, key string, recs []models.Record) {
	data, err := json.Marshal(recs)
	if err != nil {
		slog.Warn("record cache encode error", "key", key, "error", err)
		return
	}
	if err := rc.client.Set(ctx, recordKeyPrefix+key, data, rc.ttl).Err(); err != nil {
		slog.Warn("record cache set error", "key", key, "error", err)
	}
}

// Flush removes every cached store response.
func (rc *RecordCache) Flush(ctx context.Context) (int, error) {
	n, err := flushPrefix(ctx, rc.client, recordKeyPrefix)
	if n > 0 {
		slog.Info("record cache cleared", "deleted", n)
	}
	return n, err
}
