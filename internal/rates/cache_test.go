package rates

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryCacheExpiresAfterTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewMemoryCache(5*time.Minute, clock.Now)
	ctx := context.Background()

	if err := cache.Put(ctx, "USD", RateSet{"EUR": 0.9}); err != nil {
		t.Fatalf("put: %v", err)
	}

	clock.Advance(299 * time.Second)
	set, ok, err := cache.Get(ctx, "USD")
	if err != nil || !ok {
		t.Fatalf("expected hit at t0+299s, ok=%v err=%v", ok, err)
	}
	if set["EUR"] != 0.9 {
		t.Fatalf("expected cached EUR 0.9, got %v", set["EUR"])
	}

	clock.Advance(time.Second)
	if _, ok, _ := cache.Get(ctx, "USD"); ok {
		t.Fatalf("expected miss exactly at expiry")
	}

	clock.Advance(time.Second)
	if _, ok, _ := cache.Get(ctx, "USD"); ok {
		t.Fatalf("expected miss at t0+301s")
	}
}

func TestMemoryCacheEntriesArePerBase(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	cache := NewMemoryCache(time.Minute, clock.Now)
	ctx := context.Background()

	_ = cache.Put(ctx, "USD", RateSet{"EUR": 0.9})
	clock.Advance(50 * time.Second)
	_ = cache.Put(ctx, "EUR", RateSet{"USD": 1.1})
	clock.Advance(20 * time.Second)

	if _, ok, _ := cache.Get(ctx, "USD"); ok {
		t.Fatalf("USD entry should have expired independently of EUR")
	}
	if _, ok, _ := cache.Get(ctx, "EUR"); !ok {
		t.Fatalf("EUR entry should still be fresh")
	}

	entry, ok := cache.Entry("EUR")
	if !ok {
		t.Fatalf("expected raw EUR entry")
	}
	if got := entry.ExpiresAt.Sub(entry.FetchedAt); got != time.Minute {
		t.Fatalf("expected one minute window, got %s", got)
	}
}

func TestRedisCacheHonoursKeyTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewRedisCache(client, 5*time.Minute)
	ctx := context.Background()

	if err := cache.Put(ctx, "GBP", RateSet{"USD": 1.27}); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(299 * time.Second)
	set, ok, err := cache.Get(ctx, "GBP")
	if err != nil || !ok {
		t.Fatalf("expected hit before ttl, ok=%v err=%v", ok, err)
	}
	if set["USD"] != 1.27 {
		t.Fatalf("expected USD 1.27, got %v", set["USD"])
	}

	mr.FastForward(2 * time.Second)
	if _, ok, err := cache.Get(ctx, "GBP"); ok || err != nil {
		t.Fatalf("expected clean miss after ttl, ok=%v err=%v", ok, err)
	}
}

func TestRedisCacheRejectsCorruptEntry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	if err := mr.Set(redisCachePrefix+"USD", "not-json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cache := NewRedisCache(client, time.Minute)
	if _, ok, err := cache.Get(context.Background(), "USD"); ok || err == nil {
		t.Fatalf("expected decode error, ok=%v err=%v", ok, err)
	}
}
