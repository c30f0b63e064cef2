package redis

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
)

// redisFixture is an in-memory server plus a client dialled to it. Both are
// closed when the test ends.
type redisFixture struct {
	server *miniredis.Miniredis
	client *redislib.Client
}

func newRedisFixture(t *testing.T) *redisFixture {
	t.Helper()

	server := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &redisFixture{server: server, client: client}
}

// cache returns the statistics cache backed by the fixture.
func (f *redisFixture) cache() *Cache {
	return NewCache(f.client)
}

// idempotencyStore returns the request key store backed by the fixture.
func (f *redisFixture) idempotencyStore() *IdempotencyStore {
	return NewIdempotencyStore(f.client)
}
