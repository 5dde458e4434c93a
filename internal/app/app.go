// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package app connects the services both binaries share: the record
// store selected by configuration, the optional Valkey caches, and the
// catalog on top of them.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"polidex/internal/cache"
	"polidex/internal/catalog"
	"polidex/internal/config"
	"polidex/internal/database"
	"polidex/internal/models"
	"polidex/internal/store"
)

// Services holds the connected dependencies. Valkey, Records and Cards
// are nil when Valkey is unreachable; callers must check before use.
type Services struct {
	Config  *config.Config
	Source  store.Source
	Catalog *catalog.Catalog

	Valkey  *redis.Client
	Records *cache.RecordCache
	Cards   *cache.CardCache

	db *sql.DB
}

// Open connects the configured store and, when reachable, Valkey. A
// Postgres store is migrated on open and seeded in development.
func Open(ctx context.Context, cfg *config.Config) (*Services, error) {
	s := &Services{Config: cfg}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.Connect(ctx, cfg.DSN(), database.DefaultPool)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.db = db
		if _, err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		if cfg.IsDev() {
			if err := database.Seed(db); err != nil {
				db.Close()
				return nil, fmt.Errorf("seed: %w", err)
			}
		}
		s.Source = store.NewPostgres(db)
	default:
		s.Source = store.NewAirtable(store.AirtableConfig{
			APIKey:  cfg.AirtableAPIKey,
			BaseID:  cfg.AirtableBaseID,
			BaseURL: cfg.AirtableBaseURL,
			Tables: map[models.Table]string{
				models.TablePoliticians: cfg.AirtablePoliticiansTable,
				models.TableParties:     cfg.AirtablePartiesTable,
			},
			CreatedField: cfg.AirtableCreatedField,
			Timeout:      cfg.StoreTimeout,
		})
	}
	slog.Info("record store selected", "backend", cfg.StoreBackend)

	// The service works without Valkey, just uncached.
	client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, caching disabled", "error", err)
	} else {
		s.Valkey = client
		s.Records = cache.NewRecordCache(client, cfg.CacheTTL)
		s.Cards = cache.NewCardCache(client, cache.DefaultCardTTL)
	}

	opts := catalog.Options{
		Timeout: cfg.StoreTimeout,
		Retries: cfg.StoreRetries,
	}
	// Zero means no retries here; the catalog reads zero as its default.
	if cfg.StoreRetries == 0 {
		opts.Retries = -1
	}
	if s.Records != nil {
		opts.Cache = s.Records
	}
	s.Catalog = catalog.New(s.Source, opts)

	return s, nil
}

// FlushCaches removes every cached record response and share card.
func (s *Services) FlushCaches(ctx context.Context) (records, cards int, err error) {
	if s.Valkey == nil {
		return 0, 0, errors.New("valkey is not connected")
	}
	if records, err = s.Records.Flush(ctx); err != nil {
		return records, 0, err
	}
	cards, err = s.Cards.Flush(ctx)
	return records, cards, err
}

// Close releases every open connection.
func (s *Services) Close() {
	if s.Valkey != nil {
		s.Valkey.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
}
