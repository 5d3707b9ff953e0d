package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Connect opens and pings a Redis client for pub/sub fan-out.
func Connect(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	// Transient command errors retry in place; pub/sub subscriptions
	// reconnect on their own inside go-redis.
	opt.MaxRetries = 3

	client := redis.NewClient(opt)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
