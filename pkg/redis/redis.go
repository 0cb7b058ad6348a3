package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "blacklist:"

// TokenBlacklist stores revoked auth tokens until they would have expired anyway.
type TokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist connects to Redis and verifies the connection.
func NewTokenBlacklist(cfg *config.RedisConfig) (*TokenBlacklist, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return &TokenBlacklist{client: client}, nil
}

// NewTokenBlacklistWithClient wraps an existing client.
func NewTokenBlacklistWithClient(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke blacklists the token for ttl. A non-positive ttl is a no-op.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	logger.Debug("Adding token to blacklist", map[string]interface{}{
		"expiry": ttl.String(),
	})

	if err := b.client.Set(ctx, blacklistPrefix+token, "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to blacklist token", err)
		return err
	}
	return nil
}

// IsRevoked reports whether the token was blacklisted.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	val, err := b.client.Get(ctx, blacklistPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err)
		return false, err
	}
	return val == "revoked", nil
}

func (b *TokenBlacklist) Close() error {
	logger.Info("Closing Redis connection")
	return b.client.Close()
}
