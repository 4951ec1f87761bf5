package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dish-recommendations/internal/domain"
	"dish-recommendations/internal/infra/metrics"
)

// RedisEventQueue публикует события в Redis list.
type RedisEventQueue struct {
	client *redis.Client
	key    string
}

var _ domain.EventPublisher = (*RedisEventQueue)(nil)

// NewRedisEventQueue создаёт очередь по указанному ключу.
func NewRedisEventQueue(client *redis.Client, key string) *RedisEventQueue {
	return &RedisEventQueue{client: client, key: key}
}

// Publish кладёт событие в начало списка.
func (q *RedisEventQueue) Publish(ctx context.Context, event domain.RecommendationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	start := time.Now()
	err = q.client.LPush(ctx, q.key, payload).Err()
	metrics.ObserveNetworkRequest("redis", "publish", q.key, start, err)
	if err != nil {
		return fmt.Errorf("push event: %w", err)
	}
	return nil
}

// Pop читает самое старое событие; используется потребителями и в тестах.
func (q *RedisEventQueue) Pop(ctx context.Context, timeout time.Duration) (domain.RecommendationEvent, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		return domain.RecommendationEvent{}, err
	}
	if len(res) != 2 {
		return domain.RecommendationEvent{}, fmt.Errorf("redis queue: unexpected response")
	}
	var event domain.RecommendationEvent
	if err := json.Unmarshal([]byte(res[1]), &event); err != nil {
		return domain.RecommendationEvent{}, fmt.Errorf("decode event: %w", err)
	}
	return event, nil
}
