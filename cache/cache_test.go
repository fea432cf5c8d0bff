package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rangequery/trees/prefix"
)

type memKV struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memKV) Get(_ context.Context, key string) *redis.StringCmd {
	if m.getErr != nil {
		return redis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memKV) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = string(value.([]byte))
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestKey(t *testing.T) {
	a := Key([]float64{1, 2, 3})
	assert.Equal(t, a, Key([]float64{1, 2, 3}))
	assert.NotEqual(t, a, Key([]float64{1, 2, 4}))
	assert.NotEqual(t, a, Key([]float64{1, 2}))
	assert.Contains(t, a, keyPrefix+"3:")
}

func TestLoadMiss(t *testing.T) {
	c := NewPrefixCache(newMemKV(), time.Minute)
	tbl, ok, err := c.Load(context.Background(), []float64{1, 2})
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, tbl)
}

func TestStoreThenLoad(t *testing.T) {
	kv := newMemKV()
	c := NewPrefixCache(kv, time.Minute)
	seq := []float64{1, 2, 3, 4, 5}
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, seq, prefix.Build(seq)))
	assert.Equal(t, time.Minute, kv.ttls[Key(seq)])

	tbl, ok, err := c.Load(ctx, seq)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 3, 6, 10, 15}, tbl.All())
	assert.Equal(t, []float64{1, -1, 2, -2, 3}, tbl.Alternating())

	answers, err := tbl.Resolve([]prefix.Query{prefix.NewQuery(prefix.AlternatingRange, 1, 3)})
	require.NoError(t, err)
	assert.Equal(t, []float64{-3}, answers)
}

func TestCollisionIsMiss(t *testing.T) {
	kv := newMemKV()
	c := NewPrefixCache(kv, 0)
	ctx := context.Background()
	seq := []float64{1, 2, 3}
	other := []float64{7, 8, 9}

	// pretend other hashed onto seq's key
	require.NoError(t, c.Store(ctx, other, prefix.Build(other)))
	kv.data[Key(seq)] = kv.data[Key(other)]

	_, ok, err := c.Load(ctx, seq)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadErrors(t *testing.T) {
	kv := newMemKV()
	c := NewPrefixCache(kv, 0)
	ctx := context.Background()
	seq := []float64{1}

	kv.data[Key(seq)] = "not msgpack \xc1"
	_, _, err := c.Load(ctx, seq)
	assert.Error(t, err)

	kv.getErr = errors.New("connection reset")
	_, _, err = c.Load(ctx, seq)
	assert.Error(t, err)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("RANGEQUERY_REDIS_ADDR")
	if addr == "" {
		t.Skip("RANGEQUERY_REDIS_ADDR not set")
	}

	client := NewRedisClient(addr, "", 0)
	defer client.Close()
	c := NewPrefixCache(client, 10*time.Second)
	ctx := context.Background()
	seq := []float64{2, 7, 1, 8, 2, 8}

	require.NoError(t, c.Store(ctx, seq, prefix.Build(seq)))
	tbl, ok, err := c.Load(ctx, seq)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, prefix.Build(seq).All(), tbl.All())
}
