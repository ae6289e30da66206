package results

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"cyberquest/internal/arena"
)

const (
	leaderboardKey = "arena:leaderboard"
	gamesPlayedKey = "arena:games"
)

type sortedSet interface {
	ZIncrBy(ctx context.Context, key string, increment float64, member string) *redis.FloatCmd
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd
}

type Standing struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Leaderboard keeps cumulative final scores per display name in a Redis sorted set.
type Leaderboard struct {
	client sortedSet
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

func (l *Leaderboard) Save(ctx context.Context, record arena.MatchRecord) error {
	for _, result := range record.Results {
		name := strings.TrimSpace(result.DisplayName)
		if name == "" {
			continue
		}
		if err := l.client.ZIncrBy(ctx, leaderboardKey, float64(result.FinalScore), name).Err(); err != nil {
			return err
		}
		if err := l.client.ZIncrBy(ctx, gamesPlayedKey, 1, name).Err(); err != nil {
			return err
		}
	}
	return nil
}

func (l *Leaderboard) Top(ctx context.Context, n int) ([]Standing, error) {
	if n <= 0 {
		n = 10
	}
	entries, err := l.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	standings := make([]Standing, 0, len(entries))
	for _, entry := range entries {
		standings = append(standings, Standing{Name: entry.Member, Score: entry.Score})
	}
	return standings, nil
}
