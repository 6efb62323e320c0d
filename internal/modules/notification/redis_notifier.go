package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type listPusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// RedisQueueNotifier pushes booking messages onto a Redis list consumed by
// the mail and spreadsheet workers.
type RedisQueueNotifier struct {
	client listPusher
	key    string
}

func NewRedisQueueNotifier(client listPusher, key string) *RedisQueueNotifier {
	return &RedisQueueNotifier{client: client, key: key}
}

// NewRedisClient builds the client used by NewRedisQueueNotifier.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (n *RedisQueueNotifier) Name() string { return "redis" }

func (n *RedisQueueNotifier) Notify(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	if err := n.client.LPush(ctx, n.key, payload).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", n.key, err)
	}
	return nil
}
