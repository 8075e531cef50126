package redis

import (
	"context"
	"fmt"
	"time"

	"backend/internal/app/config"

	"github.com/go-redis/redis/v8"
)

const jwtPrefix = "jwt."

var errNotFound = fmt.Errorf("key not found")

type Client struct {
	cfg    config.RedisConfig
	client *redis.Client
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := &Client{cfg: cfg}

	client.client = redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		Username:    cfg.User,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if err := client.client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cannot ping redis: %w", err)
	}

	return client, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func getJWTKey(token string) string {
	return jwtPrefix + token
}

// WriteJWTToBlacklist помещает токен в blacklist до истечения его срока жизни.
func (c *Client) WriteJWTToBlacklist(ctx context.Context, jwtStr string, jwtTTL time.Duration) error {
	return c.client.Set(ctx, getJWTKey(jwtStr), true, jwtTTL).Err()
}

// CheckJWTInBlacklist возвращает nil, если токен находится в blacklist.
func (c *Client) CheckJWTInBlacklist(ctx context.Context, jwtStr string) error {
	_, err := c.client.Get(ctx, getJWTKey(jwtStr)).Result()
	if err == redis.Nil {
		return errNotFound
	}

	return err
}
