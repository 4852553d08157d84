package service

import (
	"context"
	"time"

	"league-history/internal/api"
	"league-history/internal/constants"
	"league-history/internal/domain"
	"league-history/internal/repository"

	"github.com/rs/zerolog"
)

// ResponseCache serves ESPN payloads from SQLite. Completed seasons never
// expire; the season in progress is refetched after CurrentSeasonCacheTTL.
type ResponseCache struct {
	repo   *repository.ResponseRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewResponseCache(repo *repository.ResponseRepository, logger zerolog.Logger) *ResponseCache {
	return &ResponseCache{repo: repo, logger: logger, now: time.Now}
}

func (c *ResponseCache) ttl(year int) time.Duration {
	if year < domain.CurrentSeasonYear(c.now()) {
		return 0
	}
	return constants.CurrentSeasonCacheTTL
}

func (c *ResponseCache) Lookup(ctx context.Context, r api.Request) ([]byte, bool, error) {
	resp, err := c.repo.Get(ctx, r.Key)
	if err != nil {
		return nil, false, err
	}
	if resp == nil {
		c.logger.Debug().Str("key", r.Key).Msg("cache miss")
		return nil, false, nil
	}
	if resp.Expired(c.ttl(r.Year), c.now()) {
		c.logger.Debug().Str("key", r.Key).Time("fetched_at", resp.FetchedAt).Msg("cached response expired")
		return nil, false, nil
	}
	return resp.Body, true, nil
}

func (c *ResponseCache) Store(ctx context.Context, r api.Request, body []byte) {
	err := c.repo.Upsert(ctx, &domain.CachedResponse{
		CacheKey:  r.Key,
		Season:    r.Year,
		Body:      body,
		FetchedAt: c.now().UTC(),
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("key", r.Key).Msg("failed to cache response")
	}
}

// Purge drops a season's payloads so the next reads go to the network.
func (c *ResponseCache) Purge(ctx context.Context, year int) error {
	n, err := c.repo.DeleteSeason(ctx, year)
	if err != nil {
		return err
	}
	c.logger.Info().Int("year", year).Int64("responses", n).Msg("purged cached responses")
	return nil
}
