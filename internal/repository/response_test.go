package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"league-history/internal/database"
	"league-history/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *ResponseRepository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "cache", "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewResponseRepository(db, zerolog.Nop())
}

func TestResponseRepository_GetMissing(t *testing.T) {
	repo := newTestRepository(t)

	resp, err := repo.Get(context.Background(), "league/1/2020/mTeam")
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestResponseRepository_UpsertOverwritesBody(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	key := "matchup/1/2021/4"

	fetched := time.Now().Add(-2 * time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, repo.Upsert(ctx, &domain.CachedResponse{CacheKey: key, Season: 2021, Body: []byte(`{"v":1}`), FetchedAt: fetched}))

	first, err := repo.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Len(t, first.ID, 21)
	assert.Equal(t, `{"v":1}`, string(first.Body))
	assert.True(t, first.FetchedAt.Equal(fetched))
	assert.True(t, first.Expired(time.Hour, time.Now()))
	assert.False(t, first.Expired(0, time.Now()))

	require.NoError(t, repo.Upsert(ctx, &domain.CachedResponse{CacheKey: key, Season: 2021, Body: []byte(`{"v":2}`)}))

	second, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, `{"v":2}`, string(second.Body))
	assert.False(t, second.Expired(time.Hour, time.Now()))
}

func TestResponseRepository_DeleteSeason(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	batch := []domain.CachedResponse{
		{CacheKey: "a", Season: 2019, Body: []byte("[]")},
		{CacheKey: "b", Season: 2019, Body: []byte("[]")},
		{CacheKey: "c", Season: 2020, Body: []byte("[]")},
	}
	require.NoError(t, repo.UpsertBatch(ctx, batch))

	n, err := repo.DeleteSeason(ctx, 2019)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	gone, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := repo.Get(ctx, "c")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}
