package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testClient returns a Valkey client on DB 15, skipping when unreachable.
func testClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, projectKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}

// TestNilCacheIsSafe exercises every method on a nil receiver; caching is
// optional and a nil cache must behave as a permanent miss.
func TestNilCacheIsSafe(t *testing.T) {
	var pc *ProjectCache
	ctx := context.Background()

	if _, ok := pc.GetList(ctx); ok {
		t.Error("nil cache reported a list hit")
	}
	if _, ok := pc.GetBySlug(ctx, "any"); ok {
		t.Error("nil cache reported a slug hit")
	}
	// Writes, invalidation, and close must not panic.
	pc.SetList(ctx, []byte("[]"))
	pc.SetBySlug(ctx, "any", []byte("{}"))
	pc.Invalidate(ctx)
	if err := pc.Close(); err != nil {
		t.Errorf("nil cache Close: %v", err)
	}
}

// TestConnect dials the configured Valkey and returns a working cache.
func TestConnect(t *testing.T) {
	// Reuse testClient only for the reachability check and key cleanup.
	testClient(t)

	pc, err := Connect(envOr("VALKEY_HOST", "localhost"), envOr("VALKEY_PORT", "6379"), os.Getenv("VALKEY_PASSWORD"), 0)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer pc.Close()

	if pc.ttl != DefaultProjectTTL {
		t.Errorf("ttl = %v, want DefaultProjectTTL for a zero ttl", pc.ttl)
	}

	ctx := context.Background()
	pc.SetBySlug(ctx, "connect-test", []byte("{}"))
	if _, ok := pc.GetBySlug(ctx, "connect-test"); !ok {
		t.Error("miss after SetBySlug on a freshly connected cache")
	}
	// Connect uses DB 0, outside testClient's cleanup.
	pc.client.Del(ctx, projectKeyPrefix+"slug:connect-test")
}

// TestConnectUnreachable fails fast instead of returning a broken cache.
func TestConnectUnreachable(t *testing.T) {
	if pc, err := Connect("localhost", "1", "", 0); err == nil {
		pc.Close()
		t.Fatal("Connect to a closed port returned no error")
	}
}

// TestCacheRoundTrip stores and retrieves both response kinds.
func TestCacheRoundTrip(t *testing.T) {
	pc := NewProjectCache(testClient(t), time.Minute)
	ctx := context.Background()

	if _, ok := pc.GetList(ctx); ok {
		t.Fatal("unexpected list hit on an empty cache")
	}

	pc.SetList(ctx, []byte(`[{"id":1}]`))
	payload, ok := pc.GetList(ctx)
	if !ok {
		t.Fatal("list miss after SetList")
	}
	if string(payload) != `[{"id":1}]` {
		t.Errorf("list payload = %s, want the stored JSON", payload)
	}

	pc.SetBySlug(ctx, "cyber-portfolio", []byte(`{"id":1}`))
	payload, ok = pc.GetBySlug(ctx, "cyber-portfolio")
	if !ok {
		t.Fatal("slug miss after SetBySlug")
	}
	if string(payload) != `{"id":1}` {
		t.Errorf("slug payload = %s, want the stored JSON", payload)
	}

	if _, ok := pc.GetBySlug(ctx, "other-slug"); ok {
		t.Error("hit for a slug that was never stored")
	}
}

// TestCacheInvalidate clears the whole project namespace.
func TestCacheInvalidate(t *testing.T) {
	pc := NewProjectCache(testClient(t), time.Minute)
	ctx := context.Background()

	pc.SetList(ctx, []byte("[]"))
	pc.SetBySlug(ctx, "a", []byte("{}"))
	pc.SetBySlug(ctx, "b", []byte("{}"))

	pc.Invalidate(ctx)

	if _, ok := pc.GetList(ctx); ok {
		t.Error("list survived invalidation")
	}
	if _, ok := pc.GetBySlug(ctx, "a"); ok {
		t.Error("slug entry survived invalidation")
	}
	if _, ok := pc.GetBySlug(ctx, "b"); ok {
		t.Error("slug entry survived invalidation")
	}
}

// TestCacheTTLExpiry lets a short-TTL entry lapse.
func TestCacheTTLExpiry(t *testing.T) {
	pc := NewProjectCache(testClient(t), 100*time.Millisecond)
	ctx := context.Background()

	pc.SetList(ctx, []byte("[]"))
	if _, ok := pc.GetList(ctx); !ok {
		t.Fatal("miss immediately after set")
	}

	time.Sleep(200 * time.Millisecond)

	if _, ok := pc.GetList(ctx); ok {
		t.Error("entry survived past its TTL")
	}
}
