// Package postgres persists search history. Persistence is optional: the
// service runs without a database and simply keeps no history.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
)

// Store wraps a pgx connection pool over the searches table.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against url and verifies connectivity.
func Connect(ctx context.Context, url string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// SaveSearch records one assembled planet record. The record ID is
// deterministic, so replays of the same search are idempotent inserts.
func (s *Store) SaveSearch(ctx context.Context, record domain.PlanetRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	category := ""
	if record.Habitability != nil {
		category = record.Habitability.Category
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO searches (id, planet_name, query, search_type, category, record, searched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, record.ID, record.Name, record.Query, record.SearchType, category, payload, record.Timestamp)
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	return nil
}

// RecentSearches returns the most recent records, newest first.
func (s *Store) RecentSearches(ctx context.Context, limit int) ([]domain.PlanetRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx, `
		SELECT record FROM searches
		ORDER BY searched_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query searches: %w", err)
	}
	defer rows.Close()

	records := make([]domain.PlanetRecord, 0, limit)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		var record domain.PlanetRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate searches: %w", err)
	}
	return records, nil
}

// Ping verifies the pool is healthy, for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}
