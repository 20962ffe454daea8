package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisLimiterFixedWindow(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := NewRedisLimiter(client, "test")
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		res, err := limiter.Allow(ctx, "user:1", 3, time.Minute)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !res.Allowed || res.Remaining != 3-i {
			t.Fatalf("request %d: unexpected result %+v", i, res)
		}
	}
	res, err := limiter.Allow(ctx, "user:1", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if res.Allowed || res.RetryAfter <= 0 {
		t.Fatalf("expected rejection with retry hint, got %+v", res)
	}
	if ttl := mr.TTL("test:user:1"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected window ttl %v", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	res, err = limiter.Allow(ctx, "user:1", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow after window: %v", err)
	}
	if !res.Allowed {
		t.Fatalf("expected new window to allow request, got %+v", res)
	}
}

func TestRedisLimiterErrorsWhenServerGone(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	if _, err := NewRedisLimiter(client, "").Allow(context.Background(), "ip:1", 1, time.Minute); err == nil {
		t.Fatalf("expected error when redis is unreachable")
	}
}

func TestMemoryLimiterWindowAndPrune(t *testing.T) {
	limiter := NewMemoryLimiter()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if res, _ := limiter.Allow(ctx, "k", 2, time.Minute); !res.Allowed {
			t.Fatalf("request %d should pass", i)
		}
	}
	res, _ := limiter.Allow(ctx, "k", 2, time.Minute)
	if res.Allowed || res.RetryAfter != time.Minute {
		t.Fatalf("expected rejection with full window retry, got %+v", res)
	}

	now = now.Add(2 * time.Minute)
	if res, _ := limiter.Allow(ctx, "other", 2, time.Minute); !res.Allowed {
		t.Fatalf("other key should pass")
	}
	if limiter.Len() != 1 {
		t.Fatalf("expected expired key to be pruned, got %d keys", limiter.Len())
	}
}

func TestCheckNamespacesByPolicy(t *testing.T) {
	limiter := NewMemoryLimiter()
	ctx := context.Background()
	general := Policy{Name: "general", Limit: 1, Window: time.Minute}
	mutation := Policy{Name: "mutation", Limit: 1, Window: time.Minute}

	if res, _ := Check(ctx, limiter, general, "ip:1"); !res.Allowed {
		t.Fatalf("general should pass")
	}
	if res, _ := Check(ctx, limiter, mutation, "ip:1"); !res.Allowed {
		t.Fatalf("mutation counter must be separate from general")
	}
	if res, _ := Check(ctx, limiter, general, "ip:1"); res.Allowed {
		t.Fatalf("second general request should be limited")
	}
	if res, _ := Check(ctx, nil, general, "ip:1"); !res.Allowed {
		t.Fatalf("nil limiter should allow")
	}
	if res, _ := Check(ctx, limiter, Policy{Name: "off"}, "ip:1"); !res.Allowed {
		t.Fatalf("disabled policy should allow")
	}
}
