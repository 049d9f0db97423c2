package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Domenick1991/cargobooking/internal/domain"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityLockKey(t *testing.T) {
	assert.Equal(t, "lock:flight:F1:capacity", CapacityLockKey("F1"))
}

func TestAcquireCapacityLock(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewRedisCacheWithClient(client, time.Minute)

	ctx := context.Background()

	mockRedis.ExpectSetNX("lock:flight:F1:capacity", "locked", 3*time.Second).SetVal(true)

	ok, err := cache.AcquireCapacityLock(ctx, "F1", 3*time.Second)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestAcquireCapacityLock_AlreadyHeld(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewRedisCacheWithClient(client, time.Minute)

	ctx := context.Background()

	mockRedis.ExpectSetNX("lock:flight:F1:capacity", "locked", 3*time.Second).SetVal(false)

	ok, err := cache.AcquireCapacityLock(ctx, "F1", 3*time.Second)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReleaseCapacityLock(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewRedisCacheWithClient(client, time.Minute)

	ctx := context.Background()

	mockRedis.ExpectDel("lock:flight:F1:capacity").SetVal(1)

	err := cache.ReleaseCapacityLock(ctx, "F1")

	assert.NoError(t, err)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestGetRoutes_Miss(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewRedisCacheWithClient(client, time.Minute)

	ctx := context.Background()
	date := time.Date(2023, time.October, 15, 0, 0, 0, 0, time.UTC)

	mockRedis.ExpectGet("cache:routes:DEL:BLR:2023-10-15").RedisNil()

	routes, err := cache.GetRoutes(ctx, "DEL", "BLR", date)

	require.NoError(t, err)
	assert.Nil(t, routes)
}

func TestSetThenGetRoutes(t *testing.T) {
	client, mockRedis := redismock.NewClientMock()
	cache := NewRedisCacheWithClient(client, time.Minute)

	ctx := context.Background()
	date := time.Date(2023, time.October, 15, 0, 0, 0, 0, time.UTC)
	routes := []domain.Route{{domain.Flight{FlightID: "F1", Origin: "DEL", Destination: "BLR"}}}

	payload, err := json.Marshal(routes)
	require.NoError(t, err)

	mockRedis.ExpectSet("cache:routes:DEL:BLR:2023-10-15", payload, time.Minute).SetVal("OK")
	mockRedis.ExpectGet("cache:routes:DEL:BLR:2023-10-15").SetVal(string(payload))

	require.NoError(t, cache.SetRoutes(ctx, "DEL", "BLR", date, routes))

	got, err := cache.GetRoutes(ctx, "DEL", "BLR", date)
	require.NoError(t, err)
	assert.Equal(t, routes, got)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}
