package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/review-service/internal/domain"
)

func setupTestRedis(t *testing.T) (*SummaryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cache := NewSummaryCache(client, 5*time.Minute)
	return cache, mr
}

func sampleSummary() domain.RatingSummary {
	return domain.RatingSummary{
		ItemID:      42,
		WilsonScore: 0.477545,
		AvgStars:    4.09,
	}
}

func TestSummaryCache_Get_Hit(t *testing.T) {
	cache, mr := setupTestRedis(t)

	s := sampleSummary()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.NoError(t, mr.Set("rating:summary:42", string(data)))

	result, err := cache.Get(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, s, *result)
}

func TestSummaryCache_Get_Miss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	result, err := cache.Get(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSummaryCache_Get_CorruptValue(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, mr.Set("rating:summary:42", "not-json"))

	result, err := cache.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestSummaryCache_Set_RoundTrip(t *testing.T) {
	cache, mr := setupTestRedis(t)

	s := sampleSummary()
	require.NoError(t, cache.Set(context.Background(), s))

	assert.True(t, mr.Exists("rating:summary:42"))

	result, err := cache.Get(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, s, *result)

	// TTL was applied.
	mr.FastForward(10 * time.Minute)
	result, err = cache.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSummaryCache_Invalidate(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(context.Background(), sampleSummary()))
	require.True(t, mr.Exists("rating:summary:42"))

	require.NoError(t, cache.Invalidate(context.Background(), 42))
	assert.False(t, mr.Exists("rating:summary:42"))
}

func TestSummaryCache_Invalidate_AbsentKey(t *testing.T) {
	cache, _ := setupTestRedis(t)

	assert.NoError(t, cache.Invalidate(context.Background(), 12345))
}
