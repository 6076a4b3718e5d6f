// Command authguard-loadtest measures the Redis-backed hot paths of the
// guardian: the sign-in throttle and the activity log. Without -redis-addr
// (or REDIS_ADDR) it runs against an embedded miniredis, which measures
// protocol and allocation overhead rather than network latency.
//
// Run:
//
//	go run ./cmd/authguard-loadtest -users 50000 -concurrency 256 -ops 200000
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fsdiasv/authguard/internal/activity"
	"github.com/fsdiasv/authguard/internal/rate"
)

func main() {
	var (
		users       = flag.Int("users", 50000, "number of distinct user identifiers")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (throttle + activity)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "aact", "activity log key prefix")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var cleanup func()
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		cleanup = mr.Close
		fmt.Println("using embedded miniredis")
	}

	client := redis.NewClient(&redis.Options{Addr: addr, PoolSize: *concurrency * 2})
	defer func() {
		_ = client.Close()
		if cleanup != nil {
			cleanup()
		}
	}()

	if err := client.Ping(ctx).Err(); err != nil {
		fmt.Fprintf(os.Stderr, "redis unreachable at %s: %v\n", addr, err)
		os.Exit(1)
	}

	limiter := rate.New(client, rate.Config{
		MaxSignInAttempts: 5,
		CooldownDuration:  15 * time.Minute,
	})
	log := activity.NewRedisLog(client, *prefix, time.Hour, 256)

	ids := make([]string, *users)
	for i := range ids {
		ids[i] = fmt.Sprintf("user-%d@example.com", i)
	}

	fmt.Printf("users=%d concurrency=%d ops=%d\n\n", *users, *concurrency, *ops)

	runPhase("throttle check+increment", *ops, *concurrency, func(r *rand.Rand) error {
		id := ids[r.Intn(len(ids))]
		if err := limiter.CheckSignIn(ctx, id, ""); err != nil {
			// Saturated identifiers are expected under load; reset and move on.
			return limiter.ResetSignIn(ctx, id, "")
		}
		err := limiter.IncrementSignIn(ctx, id, "")
		if errors.Is(err, rate.ErrRateLimited) {
			return nil
		}
		return err
	})

	runPhase("activity record", *ops, *concurrency, func(r *rand.Rand) error {
		id := ids[r.Intn(len(ids))]
		return log.Record(ctx, id, activity.Entry{
			Action:    "login",
			Timestamp: time.Now(),
			Success:   r.Intn(4) != 0,
		})
	})

	runPhase("activity recent", *ops, *concurrency, func(r *rand.Rand) error {
		id := ids[r.Intn(len(ids))]
		_, err := log.Recent(ctx, id, 15*time.Minute)
		return err
	})
}

func runPhase(name string, ops, concurrency int, op func(r *rand.Rand) error) {
	var (
		wg       sync.WaitGroup
		next     atomic.Int64
		failures atomic.Int64
		mu       sync.Mutex
	)
	latencies := make([]time.Duration, 0, ops)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			local := make([]time.Duration, 0, ops/concurrency+1)

			for {
				if next.Add(1) > int64(ops) {
					break
				}
				opStart := time.Now()
				if err := op(r); err != nil {
					failures.Add(1)
				}
				local = append(local, time.Since(opStart))
			}

			mu.Lock()
			latencies = append(latencies, local...)
			mu.Unlock()
		}(int64(w) + 1)
	}
	wg.Wait()
	elapsed := time.Since(start)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Printf("%s:\n", name)
	fmt.Printf("  ops        %d\n", len(latencies))
	fmt.Printf("  failures   %d\n", failures.Load())
	fmt.Printf("  elapsed    %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  throughput %.0f ops/s\n", float64(len(latencies))/elapsed.Seconds())
	fmt.Printf("  p50        %v\n", percentile(latencies, 0.50))
	fmt.Printf("  p95        %v\n", percentile(latencies, 0.95))
	fmt.Printf("  p99        %v\n\n", percentile(latencies, 0.99))
}

func percentile(sorted []time.Duration, q float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * q)
	return sorted[idx]
}
