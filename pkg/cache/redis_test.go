package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func TestSetGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))

	value, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", value)

	_, found, err = store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetGetJSON(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, store.SetJSON(ctx, "k", payload{Name: "a", Count: 2}, time.Minute))

	var got payload
	found, err := store.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "a", Count: 2}, got)

	// corrupt value behaves like a miss
	require.NoError(t, store.Set(ctx, "bad", "{not json", time.Minute))
	found, err = store.GetJSON(ctx, "bad", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetJSONKeepTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetJSON(ctx, "k", map[string]string{"v": "1"}, 10*time.Minute))
	mr.FastForward(4 * time.Minute)

	require.NoError(t, store.SetJSONKeepTTL(ctx, "k", map[string]string{"v": "2"}))

	left, hasTTL, err := store.TimeLeft(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hasTTL)
	assert.Equal(t, 6*time.Minute, left)

	var got map[string]string
	found, err := store.GetJSON(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2", got["v"])
}

func TestHasRequiresAllKeys(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, store.Set(ctx, "b", "1", time.Minute))

	ok, err := store.Has(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Has(ctx, "a", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, store.Del(ctx, "k"))
	require.NoError(t, store.Del(ctx, "k")) // deleting an absent key is fine

	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTimeLeft(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", 5*time.Minute))

	left, hasTTL, err := store.TimeLeft(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hasTTL)
	assert.Equal(t, 5*time.Minute, left)

	mr.FastForward(2 * time.Minute)
	left, hasTTL, err = store.TimeLeft(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hasTTL)
	assert.Equal(t, 3*time.Minute, left)

	// key without expiration
	require.NoError(t, store.Set(ctx, "forever", "v", 0))
	_, hasTTL, err = store.TimeLeft(ctx, "forever")
	require.NoError(t, err)
	assert.False(t, hasTTL)

	// missing key
	_, hasTTL, err = store.TimeLeft(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, hasTTL)

	// expiry actually evicts
	mr.FastForward(10 * time.Minute)
	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}
