// Package cache provides the optional Valkey (Redis-compatible) response
// cache for the public portfolio API.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// dialTimeout bounds the startup ping; a dead Valkey should fail fast.
const dialTimeout = 5 * time.Second

// Connect dials Valkey, verifies the connection with a ping, and returns a
// project response cache on top of it. ttl <= 0 falls back to
// DefaultProjectTTL.
func Connect(host, port, password string, ttl time.Duration) (*ProjectCache, error) {
	addr := net.JoinHostPort(host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", addr, err)
	}

	slog.Info("valkey connected", "addr", addr)
	return NewProjectCache(client, ttl), nil
}
