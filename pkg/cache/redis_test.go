package cache

import (
	"testing"
	"time"

	"quiz-portal/internal/models"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return NewRedisCache(mr.Addr()), mr
}

func TestLeaderboardRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)

	entries := []models.LeaderboardEntry{
		{DisplayName: "Alice", TotalScore: 12},
		{DisplayName: "Bob", TotalScore: 7},
		{DisplayName: "Carol", TotalScore: 3},
	}
	require.NoError(t, c.SetLeaderboard(entries))

	got, ok, err := c.GetLeaderboard(50)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entries, got)

	// The limit caps what comes back, highest scores first.
	got, ok, err = c.GetLeaderboard(2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entries[:2], got)
}

func TestLeaderboardMissAfterInvalidate(t *testing.T) {
	c, _ := newTestCache(t)

	require.NoError(t, c.SetLeaderboard([]models.LeaderboardEntry{
		{DisplayName: "Alice", TotalScore: 12},
	}))
	require.NoError(t, c.InvalidateLeaderboard())

	_, ok, err := c.GetLeaderboard(50)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLeaderboardExpires(t *testing.T) {
	c, mr := newTestCache(t)

	require.NoError(t, c.SetLeaderboard([]models.LeaderboardEntry{
		{DisplayName: "Alice", TotalScore: 12},
	}))

	mr.FastForward(LeaderboardTTL + time.Second)

	_, ok, err := c.GetLeaderboard(50)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestForecastRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)

	type row struct {
		Date    string  `json:"date"`
		AvgTemp float64 `json:"avg_temp"`
	}
	stored := []row{{Date: "2026-08-30", AvgTemp: 29.5}}
	require.NoError(t, c.SetForecast("Surabaya", stored, time.Minute))

	// Lookup is case-insensitive on the city name.
	var got []row
	require.NoError(t, c.GetForecast("surabaya", &got))
	assert.Equal(t, stored, got)

	mr.FastForward(2 * time.Minute)
	err := c.GetForecast("Surabaya", &got)
	assert.ErrorIs(t, err, redis.Nil)
}
