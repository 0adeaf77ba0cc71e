package dump

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *ResultCache {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewResultCacheFromClient(client, time.Minute)
}

func TestResultCacheMissReturnsNil(t *testing.T) {
	c := newTestCache(t)
	summary, err := c.Get(context.Background(), "widget", "1.0.0", "1.1.0", "binary")
	require.NoError(t, err)
	require.Nil(t, summary)
}

func TestResultCachePutThenGetRoundTrips(t *testing.T) {
	c := newTestCache(t)
	want := CheckSummary{Compatible: false, HighCount: 2, MediumCount: 1, CheckedAt: "2026-07-29T00:00:00Z"}

	err := c.Put(context.Background(), "widget", "1.0.0", "1.1.0", "binary", want)
	require.NoError(t, err)

	got, err := c.Get(context.Background(), "widget", "1.0.0", "1.1.0", "binary")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, want, *got)
}

func TestResultCacheDistinguishesLevelsAndVersions(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "widget", "1.0.0", "1.1.0", "binary", CheckSummary{Compatible: true}))
	require.NoError(t, c.Put(ctx, "widget", "1.0.0", "1.1.0", "source", CheckSummary{Compatible: false}))

	binary, err := c.Get(ctx, "widget", "1.0.0", "1.1.0", "binary")
	require.NoError(t, err)
	require.True(t, binary.Compatible)

	source, err := c.Get(ctx, "widget", "1.0.0", "1.1.0", "source")
	require.NoError(t, err)
	require.False(t, source.Compatible)

	other, err := c.Get(ctx, "widget", "1.0.0", "2.0.0", "binary")
	require.NoError(t, err)
	require.Nil(t, other)
}

func TestResultCacheEntryExpiresAfterTTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewResultCacheFromClient(client, time.Second)

	require.NoError(t, c.Put(context.Background(), "widget", "1.0.0", "1.1.0", "binary", CheckSummary{Compatible: true}))
	mr.FastForward(2 * time.Second)

	got, err := c.Get(context.Background(), "widget", "1.0.0", "1.1.0", "binary")
	require.NoError(t, err)
	require.Nil(t, got)
}
