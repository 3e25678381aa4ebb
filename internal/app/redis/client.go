package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"pipespec/internal/app/config"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	servicePrefix = "pipespec."
	jwtPrefix     = "jwt."
)

type Client struct {
	cfg    config.RedisConfig
	client *redis.Client
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := &Client{cfg: cfg}

	client.client = redis.NewClient(&redis.Options{
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Username:    cfg.User,
		Password:    cfg.Password,
		DB:          0,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if _, err := client.client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("cant ping redis: %w", err)
	}

	log.WithField("addr", client.client.Options().Addr).Info("redis connected")

	return client, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func jwtKey(token string) string {
	return servicePrefix + jwtPrefix + token
}

// WriteJWTToBlacklist кладёт токен в blacklist до истечения его срока.
func (c *Client) WriteJWTToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// токен уже истёк, хранить нечего
		return nil
	}
	return c.client.Set(ctx, jwtKey(token), true, ttl).Err()
}

// CheckJWTInBlacklist сообщает, отозван ли токен.
func (c *Client) CheckJWTInBlacklist(ctx context.Context, token string) (bool, error) {
	err := c.client.Get(ctx, jwtKey(token)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
