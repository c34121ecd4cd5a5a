package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs admin sessions, the response cache, IP rate limits and
// the request event channel.
var RedisClient *redis.Client

// ErrNotConnected is returned by Ping before the stores are connected.
var ErrNotConnected = errors.New("database not connected")

// RedisOptions parses a redis:// or rediss:// URL and applies the pool and
// timeout settings the server runs with.
func RedisOptions(redisURI string) (*redis.Options, error) {
	opt, err := redis.ParseURL(redisURI)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 5
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute
	return opt, nil
}

func ConnectRedis(redisURI string) error {
	opt, err := RedisOptions(redisURI)
	if err != nil {
		return err
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), opt.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("ping redis: %w", err)
	}

	RedisClient = client
	log.Printf("✅ Connected to Redis (db %d)", opt.DB)
	return nil
}

func DisconnectRedis() error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Close()
}

// Ping checks PostgreSQL and Redis for the health endpoint. MongoDB only
// holds secondary data and is left out.
func Ping(ctx context.Context) error {
	if PostgresDB == nil || RedisClient == nil {
		return ErrNotConnected
	}
	if err := PostgresDB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}
