// pkg/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"quiz-portal/internal/models"

	"github.com/go-redis/redis/v8"
)

const leaderboardKey = "leaderboard:global"

// LeaderboardTTL bounds staleness if an invalidation is ever missed.
const LeaderboardTTL = 30 * time.Second

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetLeaderboard(entries []models.LeaderboardEntry) error {
	pipe := c.client.Pipeline()
	pipe.Del(c.ctx, leaderboardKey)

	for _, entry := range entries {
		pipe.ZAdd(c.ctx, leaderboardKey, &redis.Z{
			Score:  float64(entry.TotalScore),
			Member: entry.DisplayName,
		})
	}
	pipe.Expire(c.ctx, leaderboardKey, LeaderboardTTL)

	_, err := pipe.Exec(c.ctx)
	return err
}

// GetLeaderboard returns the cached top entries, highest score first.
// ok is false on a cache miss (key absent or expired).
func (c *RedisCache) GetLeaderboard(limit int64) ([]models.LeaderboardEntry, bool, error) {
	exists, err := c.client.Exists(c.ctx, leaderboardKey).Result()
	if err != nil {
		return nil, false, err
	}
	if exists == 0 {
		return nil, false, nil
	}

	results, err := c.client.ZRevRangeWithScores(c.ctx, leaderboardKey, 0, limit-1).Result()
	if err != nil {
		return nil, false, err
	}

	entries := make([]models.LeaderboardEntry, len(results))
	for i, z := range results {
		name, _ := z.Member.(string)
		entries[i] = models.LeaderboardEntry{
			DisplayName: name,
			TotalScore:  int(z.Score),
		}
	}
	return entries, true, nil
}

// InvalidateLeaderboard drops the cached board after a score change.
func (c *RedisCache) InvalidateLeaderboard() error {
	return c.client.Del(c.ctx, leaderboardKey).Err()
}

func (c *RedisCache) SetForecast(city string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, forecastKey(city), data, ttl).Err()
}

// GetForecast unmarshals the cached forecast for city into dest.
// Returns redis.Nil on a cache miss.
func (c *RedisCache) GetForecast(city string, dest interface{}) error {
	data, err := c.client.Get(c.ctx, forecastKey(city)).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func forecastKey(city string) string {
	return "forecast:" + strings.ToLower(city)
}
