package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBase(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
}

func TestParse_MemoryDriverDefaults(t *testing.T) {
	setBase(t)
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("ADMIN_PASSWORD", "pw")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "HostelAdmin", cfg.AdminRole)
	assert.Equal(t, "HostelAdmin", cfg.AdminUsername)
	assert.Equal(t, 259200, cfg.AccessTTLMin)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.True(t, cfg.Cache.Caches("get"))
	assert.False(t, cfg.Cache.Caches("POST"))
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
}

func TestParse_MemoryDriverRequiresAdminPassword(t *testing.T) {
	setBase(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
}

func TestParse_MySQLRequiresDB(t *testing.T) {
	setBase(t)
	t.Setenv("STORE_DRIVER", "mysql")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_NAME", "hostel")
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "3306", cfg.DBPort)
}

func TestParse_RequiredVars(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "x")
	_, err := Parse()
	assert.Error(t, err)
}

func TestParse_UnknownDriver(t *testing.T) {
	setBase(t)
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := Parse()
	assert.Error(t, err)
}

func TestRateLimitNormalize(t *testing.T) {
	c := RateLimitConfig{Capacity: 0, Burst: 5, RefillEvery: 2 * time.Second, TTL: time.Second}
	c.normalize()
	assert.Equal(t, 5, c.Capacity)
	assert.Equal(t, 1, c.RefillTokens)
	assert.Equal(t, 2*time.Second, c.RefillInterval)
	assert.Equal(t, 10*time.Second, c.TTL)
}

func TestRedisAddress(t *testing.T) {
	assert.Equal(t, "redis:6380", RedisConfig{Host: "redis", Port: "6380", Addr: "x:1"}.Address())
	assert.Equal(t, "x:1", RedisConfig{Host: "redis", Addr: "x:1"}.Address())
	assert.Nil(t, NewRedisClient(RedisConfig{Enabled: false}))
}
