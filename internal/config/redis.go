package config

// Redis backs the rate limiter and the response cache.  If the server
// cannot be reached at startup NewRedisClient returns nil and callers
// disable both features.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes the Redis connection.  REDIS_ADDR is used unless
// both REDIS_HOST and REDIS_PORT are set.
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"true"`
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT"`
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	TLS      bool   `env:"REDIS_TLS" envDefault:"false"`
}

// Address resolves host/port vs. addr.
func (c RedisConfig) Address() string {
	if c.Host != "" && c.Port != "" {
		return c.Host + ":" + c.Port
	}
	return c.Addr
}

// NewRedisClient connects and pings with a short timeout.  The returned
// client is nil when Redis is disabled or unreachable.
func NewRedisClient(c RedisConfig) *redis.Client {
	if !c.Enabled {
		return nil
	}
	var tlsConf *tls.Config
	if c.TLS {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      c.Address(),
		Password:  c.Password,
		DB:        c.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
