package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/social-feed/social-feed/internal/models"
	"github.com/social-feed/social-feed/pkg/cache"
)

const activityStatsKey = "activity:stats"

// StatsService keeps per-type activity counters in a Redis hash. The worker
// writes them from the event stream; admins read them.
type StatsService struct {
	redis *cache.RedisClient
}

func NewStatsService(redis *cache.RedisClient) *StatsService {
	return &StatsService{redis: redis}
}

func (s *StatsService) Increment(ctx context.Context, activityType models.ActivityType) error {
	if _, err := s.redis.HIncrBy(ctx, activityStatsKey, string(activityType), 1); err != nil {
		return fmt.Errorf("failed to increment activity stats: %w", err)
	}
	return nil
}

// ActivityStats 返回所有已知类型的计数，缺失的类型为 0
func (s *StatsService) ActivityStats(ctx context.Context) (map[models.ActivityType]int64, error) {
	raw, err := s.redis.HGetAll(ctx, activityStatsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read activity stats: %w", err)
	}

	stats := make(map[models.ActivityType]int64, len(raw))
	for _, t := range models.ActivityTypes() {
		stats[t] = 0
	}
	for field, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		stats[models.ActivityType(field)] = n
	}
	return stats, nil
}
