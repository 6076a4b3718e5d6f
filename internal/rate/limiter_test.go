package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, cfg Config) (*miniredis.Miniredis, *Limiter) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, New(client, cfg)
}

func TestLimiterAllowsWithinBudget(t *testing.T) {
	mr, limiter := newTestLimiter(t, Config{MaxSignInAttempts: 3, CooldownDuration: time.Minute})
	defer mr.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := limiter.CheckSignIn(ctx, "alice", ""); err != nil {
			t.Fatalf("check %d failed: %v", i, err)
		}
		if err := limiter.IncrementSignIn(ctx, "alice", ""); err != nil {
			t.Fatalf("increment %d failed: %v", i, err)
		}
	}
}

func TestLimiterBlocksOverBudget(t *testing.T) {
	mr, limiter := newTestLimiter(t, Config{MaxSignInAttempts: 2, CooldownDuration: time.Minute})
	defer mr.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_ = limiter.IncrementSignIn(ctx, "alice", "")
	}
	if err := limiter.IncrementSignIn(ctx, "alice", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if err := limiter.CheckSignIn(ctx, "alice", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited on check, got %v", err)
	}
}

func TestLimiterPerIPThrottle(t *testing.T) {
	mr, limiter := newTestLimiter(t, Config{
		EnableIPThrottle:  true,
		MaxSignInAttempts: 2,
		CooldownDuration:  time.Minute,
	})
	defer mr.Close()

	ctx := context.Background()
	for _, id := range []string{"user-a", "user-b", "user-c"} {
		_ = limiter.IncrementSignIn(ctx, id, "198.51.100.7")
	}

	// A fresh identifier from the same IP is still throttled.
	if err := limiter.CheckSignIn(ctx, "user-d", "198.51.100.7"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected IP throttle, got %v", err)
	}
}

func TestLimiterResetClearsCounters(t *testing.T) {
	mr, limiter := newTestLimiter(t, Config{MaxSignInAttempts: 2, CooldownDuration: time.Minute})
	defer mr.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_ = limiter.IncrementSignIn(ctx, "alice", "")
	}
	if err := limiter.ResetSignIn(ctx, "alice", ""); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if err := limiter.CheckSignIn(ctx, "alice", ""); err != nil {
		t.Fatalf("expected fresh budget after reset, got %v", err)
	}

	attempts, err := limiter.SignInAttempts(ctx, "alice")
	if err != nil {
		t.Fatalf("SignInAttempts failed: %v", err)
	}
	if attempts != 0 {
		t.Fatalf("expected 0 attempts, got %d", attempts)
	}
}

func TestLimiterWindowExpires(t *testing.T) {
	mr, limiter := newTestLimiter(t, Config{MaxSignInAttempts: 1, CooldownDuration: time.Minute})
	defer mr.Close()

	ctx := context.Background()
	_ = limiter.IncrementSignIn(ctx, "alice", "")
	_ = limiter.IncrementSignIn(ctx, "alice", "")

	if err := limiter.CheckSignIn(ctx, "alice", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected throttle before window expiry, got %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if err := limiter.CheckSignIn(ctx, "alice", ""); err != nil {
		t.Fatalf("expected fresh window after cooldown, got %v", err)
	}
}
