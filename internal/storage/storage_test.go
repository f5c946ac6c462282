package storage

import (
	"context"
	"testing"

	"relief-exchange/internal/config"
	"relief-exchange/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedisOptions(t *testing.T) {
	opts, err := RedisOptions("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	opts, err = RedisOptions("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	_, err = RedisOptions("redis://cache:6379/notadb")
	assert.Error(t, err)
}

func TestOpenMemoryStore(t *testing.T) {
	store, err := Open(context.Background(), &config.Config{StorageDriver: config.DriverMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, store.Requests)
	assert.NotNil(t, store.Atomic)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StorageDriver: "cassandra"}, zap.NewNop())
	assert.Error(t, err)
}

func TestOpenBrokerFallsBackToHub(t *testing.T) {
	broker, closeFn, err := OpenBroker(context.Background(), &config.Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &realtime.Hub{}, broker)
	assert.NoError(t, closeFn())
}
