package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"league-history/internal/constants"
	"league-history/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// ResponseRepository persists raw provider payloads keyed by request.
type ResponseRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewResponseRepository(sqlDB *sql.DB, logger zerolog.Logger) *ResponseRepository {
	return &ResponseRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Get returns nil, nil when nothing is stored under key.
func (r *ResponseRepository) Get(ctx context.Context, key string) (*domain.CachedResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	var resp domain.CachedResponse
	err := r.db.QueryRowContext(ctx,
		`SELECT id, cache_key, season, body, fetched_at, created_at, updated_at
		 FROM api_responses WHERE cache_key = ?`, key,
	).Scan(&resp.ID, &resp.CacheKey, &resp.Season, &resp.Body, &resp.FetchedAt, &resp.CreatedAt, &resp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached response %s: %w", key, err)
	}
	return &resp, nil
}

func (r *ResponseRepository) Upsert(ctx context.Context, resp *domain.CachedResponse) error {
	return r.UpsertBatch(ctx, []domain.CachedResponse{*resp})
}

func (r *ResponseRepository) UpsertBatch(ctx context.Context, responses []domain.CachedResponse) error {
	if len(responses) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO api_responses (id, cache_key, season, body, fetched_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET
			season = excluded.season,
			body = excluded.body,
			fetched_at = excluded.fetched_at,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := 0; i < len(responses); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(responses))

		for _, resp := range responses[i:end] {
			id := resp.ID
			if id == "" {
				id, err = gonanoid.New()
				if err != nil {
					return fmt.Errorf("failed to generate nanoid: %w", err)
				}
			}
			fetchedAt := resp.FetchedAt
			if fetchedAt.IsZero() {
				fetchedAt = now
			}

			if _, err := stmt.ExecContext(ctx, id, resp.CacheKey, resp.Season, resp.Body, fetchedAt, now, now); err != nil {
				return fmt.Errorf("failed to upsert cached response %s: %w", resp.CacheKey, err)
			}
		}
	}

	return tx.Commit()
}

// DeleteSeason drops every payload cached for a season.
func (r *ResponseRepository) DeleteSeason(ctx context.Context, season int) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM api_responses WHERE season = ?`, season)
	if err != nil {
		return 0, fmt.Errorf("failed to delete season %d: %w", season, err)
	}
	return res.RowsAffected()
}
