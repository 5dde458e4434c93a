// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cardKeyPrefix = "card:"

	// DefaultCardTTL matches the max-age advertised on card responses.
	DefaultCardTTL = time.Hour
)

// CardCache holds rendered share-card PNGs.
type CardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCardCache creates a card cache backed by the given Valkey client.
func NewCardCache(client *redis.Client, ttl time.Duration) *CardCache {
	if ttl == 0 {
		ttl = DefaultCardTTL
	}
	return &CardCache{client: client, ttl: ttl}
}

// Get returns the cached PNG for key. Returns false on miss or error.
func (cc *CardCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := cc.client.Get(ctx, cardKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("card cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("card cache hit", "key", key)
	return val, true
}

// Set stores a rendered PNG under key.
func (cc *CardCache) Set(ctx context.Context, key string, png []byte) {
	if err := cc.client.Set(ctx, cardKeyPrefix+key, png, cc.ttl).Err(); err != nil {
		slog.Warn("card cache set error", "key", key, "error", err)
	}
}

// Flush removes every cached card.
func (cc *CardCache) Flush(ctx context.Context) (int, error) {
	n, err := flushPrefix(ctx, cc.client, cardKeyPrefix)
	if n > 0 {
		slog.Info("card cache cleared", "deleted", n)
	}
	return n, err
}

// HashKey condenses arbitrary key material into a fixed-length cache key.
func HashKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}
