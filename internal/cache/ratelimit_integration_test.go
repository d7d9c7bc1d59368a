//go:build integration

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/asdf-project/user-service/internal/testutil"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	ctx := context.Background()

	redisURL := testutil.RequireEnv(t, "TEST_REDIS_URL")
	c, err := New(ctx, redisURL, "user-service-test:")
	if err != nil {
		t.Skipf("Skipping integration test: Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := testutil.FlushRedis(ctx, c.Client()); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	return c
}

func TestIPRateLimitConcurrency(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	testIP := "192.168.1.100"
	rps := 5
	burst := 3

	var allowed, rejected int64
	var wg sync.WaitGroup

	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := c.CheckIPRateLimit(ctx, testIP, rps, burst)
			if err != nil {
				t.Errorf("CheckIPRateLimit error: %v", err)
				return
			}
			if result.Allowed {
				atomic.AddInt64(&allowed, 1)
			} else {
				atomic.AddInt64(&rejected, 1)
			}
		}()
	}

	wg.Wait()

	t.Logf("IP rate limit: %d allowed, %d rejected", allowed, rejected)

	if rejected == 0 {
		t.Error("Expected some requests to be rejected")
	}
	if allowed > int64(burst+rps) {
		t.Errorf("Too many requests allowed: %d (expected <= %d)", allowed, burst+rps)
	}
}

func TestIPRateLimit_SeparateBuckets(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.CheckIPRateLimit(ctx, "10.0.0.1", 1, 2); err != nil {
			t.Fatalf("CheckIPRateLimit error: %v", err)
		}
	}

	result, err := c.CheckIPRateLimit(ctx, "10.0.0.2", 1, 2)
	if err != nil {
		t.Fatalf("CheckIPRateLimit error: %v", err)
	}
	if !result.Allowed {
		t.Error("a different IP should have its own bucket")
	}
}
