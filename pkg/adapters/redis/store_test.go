package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/femtree/pkg/adapters/redis"
	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func sampleDoc() *document.Document {
	return &document.Document{
		Attributes: map[string]any{domain.KeyTag: "m", domain.KeyTypeInfo: "model"},
		Children:   []*document.Document{},
	}
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunProjectStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "channel", sampleDoc()))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "channel")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "channel")
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)

	// The index is pruned against the wall clock, not miniredis time.
	time.Sleep(1200 * time.Millisecond)

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "my-project", sampleDoc()))

	assert.True(t, mr.Exists("custom:app:my-project"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"my-project"}, names)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"broken", "not an archive"))

	_, err := store.Load(context.Background(), "broken")
	assert.ErrorIs(t, err, domain.ErrIO)
}
