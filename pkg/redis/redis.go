package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/frahmantamala/gearguard/internal"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	blacklistPrefix = "gearguard:token:blacklist:"
	rateLimitPrefix = "gearguard:ratelimit:"
)

// Client wraps go-redis for session revocation and rate limiting.
type Client struct {
	rdb    *goredis.Client
	logger *slog.Logger
}

// NewClient connects and pings the server.
func NewClient(cfg internal.RedisConfig, logger *slog.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := internal.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("redis connected", "addr", cfg.Addr)

	return &Client{rdb: rdb, logger: logger}, nil
}

// BlacklistToken revokes a token id until its natural expiry.
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Allow records a hit for key in a sliding window and reports whether the hit
// is within limit. Rejected hits are not recorded.
func (c *Client) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	k := rateLimitPrefix + key
	now := time.Now()
	floor := strconv.FormatInt(now.Add(-window).UnixMilli(), 10)

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "-inf", "("+floor)
	count := pipe.ZCard(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit lookup: %w", err)
	}

	if count.Val() >= int64(limit) {
		c.logger.Debug("rate limit reached", "key", key, "limit", limit)
		return false, nil
	}

	pipe = c.rdb.TxPipeline()
	pipe.ZAdd(ctx, k, goredis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()})
	pipe.Expire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit record: %w", err)
	}
	return true, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
