package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"league-history/internal/api"
	"league-history/internal/database"
	"league-history/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ResponseCache, *time.Time) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "cache.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := time.Date(2024, time.October, 6, 12, 0, 0, 0, time.UTC)
	cache := NewResponseCache(repository.NewResponseRepository(db, zerolog.Nop()), zerolog.Nop())
	cache.now = func() time.Time { return clock }
	return cache, &clock
}

func TestResponseCache_CurrentSeasonExpires(t *testing.T) {
	cache, clock := newTestCache(t)
	ctx := context.Background()
	req := api.Request{Key: "matchup/77/2024/5", Year: 2024}

	cache.Store(ctx, req, []byte(`{"id":77}`))

	body, ok, err := cache.Lookup(ctx, req)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":77}`, string(body))

	*clock = clock.Add(2 * time.Hour)
	_, ok, err = cache.Lookup(ctx, req)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResponseCache_CompletedSeasonNeverExpires(t *testing.T) {
	cache, clock := newTestCache(t)
	ctx := context.Background()
	req := api.Request{Key: "league/77/2023/mTeam", Year: 2023}

	cache.Store(ctx, req, []byte(`{}`))
	*clock = clock.AddDate(1, 0, 0)

	_, ok, err := cache.Lookup(ctx, req)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResponseCache_JanuaryBelongsToLastSeason(t *testing.T) {
	cache, clock := newTestCache(t)
	*clock = time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Hour, cache.ttl(2024))
	assert.Zero(t, cache.ttl(2023))
}

func TestResponseCache_Purge(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	keep := api.Request{Key: "league/77/2022/mTeam", Year: 2022}
	drop := api.Request{Key: "league/77/2023/mTeam", Year: 2023}

	cache.Store(ctx, keep, []byte(`{}`))
	cache.Store(ctx, drop, []byte(`{}`))
	require.NoError(t, cache.Purge(ctx, 2023))

	_, ok, err := cache.Lookup(ctx, drop)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = cache.Lookup(ctx, keep)
	require.NoError(t, err)
	assert.True(t, ok)
}
