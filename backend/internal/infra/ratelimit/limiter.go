package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Policy 描述一档固定窗口限流策略。
type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Enabled 判断策略是否生效，Limit<=0 表示不限流。
func (p Policy) Enabled() bool {
	return p.Limit > 0
}

// AllowResult 限流判定结果。
type AllowResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Remaining  int
}

// Limiter 限流器通用接口，Redis 与内存实现均满足。
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (AllowResult, error)
}

// Check 以策略调用限流器，key 会带上策略名作为命名空间。
func Check(ctx context.Context, l Limiter, p Policy, key string) (AllowResult, error) {
	if l == nil || !p.Enabled() {
		return AllowResult{Allowed: true, Remaining: -1}, nil
	}
	return l.Allow(ctx, p.Name+":"+key, p.Limit, p.Window)
}

// RedisLimiter 基于 Redis INCR 的固定窗口计数，多实例部署时共享计数。
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter 构造 Redis 限流器。
func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "community:ratelimit"
	}
	return &RedisLimiter{client: client, prefix: prefix}
}

// Allow 计数 +1，首次命中时设置窗口过期时间；窗口内超过 limit 即拒绝。
func (r *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (AllowResult, error) {
	if limit <= 0 {
		return AllowResult{Allowed: true, Remaining: -1}, nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if r == nil || r.client == nil {
		return AllowResult{Allowed: true, Remaining: -1}, nil
	}

	namespaced := r.prefix + ":" + key
	pipe := r.client.TxPipeline()
	counter := pipe.Incr(ctx, namespaced)
	ttlCmd := pipe.PTTL(ctx, namespaced)
	if _, err := pipe.Exec(ctx); err != nil {
		return AllowResult{}, err
	}

	ttl := ttlCmd.Val()
	// 只在 key 尚无过期时间时设置，避免每次请求都把窗口往后推。
	if ttl < 0 {
		if err := r.client.PExpire(ctx, namespaced, window).Err(); err != nil {
			return AllowResult{}, err
		}
		ttl = window
	}

	count := int(counter.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	if count > limit {
		return AllowResult{Allowed: false, RetryAfter: ttl, Remaining: 0}, nil
	}
	return AllowResult{Allowed: true, Remaining: remaining}, nil
}

// MemoryLimiter 单实例内存限流器，用于本地模式与测试。
type MemoryLimiter struct {
	mu        sync.Mutex
	store     map[string]entry
	now       func() time.Time
	lastPrune time.Time
}

type entry struct {
	count   int
	expires time.Time
}

const memoryPruneInterval = time.Minute

// NewMemoryLimiter 构造内存限流器。
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{store: make(map[string]entry), now: time.Now}
}

// Allow 与 RedisLimiter 语义一致的固定窗口计数。
func (m *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (AllowResult, error) {
	if limit <= 0 {
		return AllowResult{Allowed: true, Remaining: -1}, nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if m == nil {
		return AllowResult{Allowed: true, Remaining: -1}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.pruneLocked(now)

	ent, ok := m.store[key]
	if !ok || !now.Before(ent.expires) {
		m.store[key] = entry{count: 1, expires: now.Add(window)}
		return AllowResult{Allowed: true, Remaining: limit - 1}, nil
	}

	ent.count++
	m.store[key] = ent

	if ent.count > limit {
		return AllowResult{Allowed: false, RetryAfter: ent.expires.Sub(now), Remaining: 0}, nil
	}
	return AllowResult{Allowed: true, Remaining: limit - ent.count}, nil
}

// pruneLocked 定期清理过期窗口，防止按 IP 计数时 map 无限增长。
func (m *MemoryLimiter) pruneLocked(now time.Time) {
	if now.Sub(m.lastPrune) < memoryPruneInterval {
		return
	}
	for k, ent := range m.store {
		if !now.Before(ent.expires) {
			delete(m.store, k)
		}
	}
	m.lastPrune = now
}

// Len 返回当前跟踪的 key 数量。
func (m *MemoryLimiter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}
