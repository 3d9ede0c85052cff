/**
 * @description
 * Redis connection manager using go-redis. Backs the event-stream fan-out
 * bridge between the in-process event bus and connected WebSocket clients.
 * When no URL is configured, an embedded in-memory broker (miniredis) is
 * started instead, so the system runs with zero external Redis dependency
 * in a single-operator deployment.
 *
 * @dependencies
 * - github.com/redis/go-redis/v9
 * - github.com/alicebob/miniredis/v2 (embedded fallback broker)
 */

package db

import (
	"context"
	"fmt"

	"github.com/alicebob/miniredis/v2"
	"github.com/oracle-observer/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis initializes the Redis client used by the event-stream hub.
// If cfg.Redis.URL is empty it starts an embedded in-memory server and
// returns a client pointed at it, along with a cleanup func.
func ConnectRedis(cfg *config.Config) (*redis.Client, func(), error) {
	if cfg.Redis.URL == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("starting embedded redis: %w", err)
		}
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		if _, err := client.Ping(context.Background()).Result(); err != nil {
			mr.Close()
			return nil, nil, fmt.Errorf("pinging embedded redis: %w", err)
		}
		return client, func() { _ = client.Close(); mr.Close() }, nil
	}

	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, func() { _ = client.Close() }, nil
}
