package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	allowed, count, err := client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 1 {
		t.Fatalf("expected first request allowed with count 1, got allowed=%v count=%d", allowed, count)
	}
	if len(mock.expireCalls) != 1 {
		t.Fatalf("expected expire for first increment")
	}

	allowed, count, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed || count != 2 {
		t.Fatalf("unexpected second call state allowed=%v count=%d", allowed, count)
	}
	if len(mock.expireCalls) != 1 {
		t.Fatalf("expire should not be set again")
	}

	allowed, _, err = client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatalf("expected limit reached")
	}
}

func TestAcquireCooldown(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	ok, remaining, err := client.AcquireCooldown(ctx, "reset:ana@example.com", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || remaining != 0 {
		t.Fatalf("first claim should succeed, got ok=%v remaining=%v", ok, remaining)
	}

	ok, remaining, err = client.AcquireCooldown(ctx, "reset:ana@example.com", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("second claim inside window should be refused")
	}
	if remaining != time.Minute {
		t.Fatalf("expected remaining 1m, got %v", remaining)
	}

	if err := client.ReleaseCooldown(ctx, "reset:ana@example.com"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _, _ := client.AcquireCooldown(ctx, "reset:ana@example.com", time.Minute); !ok {
		t.Fatal("claim should succeed after release")
	}
}

func TestGetDelConsumesValue(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	key := client.PasswordResetKey("abc")
	if err := client.Set(ctx, key, "user-1", time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := client.GetDel(ctx, key)
	if err != nil || v != "user-1" {
		t.Fatalf("expected user-1, got %q err=%v", v, err)
	}
	if _, err := client.GetDel(ctx, key); !IsNil(err) {
		t.Fatalf("expected redis.Nil after consume, got %v", err)
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	if err := client.Ping(context.Background()); err != ErrNotInitialized {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on empty client should be a no-op: %v", err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.RateLimitKey("scope"); got != "sf:rate_limit:scope" {
		t.Fatalf("unexpected rate limit key %s", got)
	}
	if got := client.AccessSessionKey("jti"); got != "sf:session:access:jti" {
		t.Fatalf("unexpected session key %s", got)
	}
	if got := client.PasswordResetKey("hash"); got != "sf:password_reset:hash" {
		t.Fatalf("unexpected reset key %s", got)
	}
	if got := client.CooldownKey(" "); got != "sf:cooldown" {
		t.Fatalf("blank parts should be skipped, got %s", got)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url")
	}
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 || opts.PoolSize != 7 {
		t.Fatalf("unexpected options db=%d pool=%d", opts.DB, opts.PoolSize)
	}
}

type mockCmdable struct {
	data        map[string]string
	ttl         map[string]time.Duration
	incr        map[string]int64
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		ttl:  make(map[string]time.Duration),
		incr: make(map[string]int64),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	m.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) GetDel(ctx context.Context, key string) *redis.StringCmd {
	cmd := m.Get(ctx, key)
	delete(m.data, key)
	return cmd
}

func (m *mockCmdable) SetNX(_ context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	m.ttl[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(_ context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) PTTL(_ context.Context, key string) *redis.DurationCmd {
	if _, ok := m.data[key]; !ok {
		return redis.NewDurationResult(-2*time.Millisecond, nil)
	}
	return redis.NewDurationResult(m.ttl[key], nil)
}

func (m *mockCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
		delete(m.ttl, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
