package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"station-dashboard/internal/common/config"
)

func TestRedisOptions(t *testing.T) {
	opts := RedisOptions(config.RedisConfig{Address: "cache:6379", DB: 2, PoolSize: 7, MinIdle: 1, OpTimeout: 250})

	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, 250*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 250*time.Millisecond, opts.WriteTimeout)
	assert.Equal(t, 5*time.Second, opts.DialTimeout)
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}
