package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisClients keeps blocking queue reads off the connection used for
// key/value access and pub/sub fan-out.
type RedisClients struct {
	Data   *redis.Client
	Queue  *redis.Client
	PubSub *redis.Client
}

func NewRedisClients(ctx context.Context, redisURL string) (*RedisClients, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	clients := &RedisClients{}
	for _, c := range []struct {
		name string
		dst  **redis.Client
	}{
		{"data", &clients.Data},
		{"queue", &clients.Queue},
		{"pubsub", &clients.PubSub},
	} {
		o := *opt
		client := redis.NewClient(&o)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			clients.Close()
			return nil, fmt.Errorf("failed to ping Redis (%s): %w", c.name, err)
		}
		*c.dst = client
	}

	return clients, nil
}

func (r *RedisClients) Close() {
	for _, c := range []*redis.Client{r.Data, r.Queue, r.PubSub} {
		if c != nil {
			c.Close()
		}
	}
}
