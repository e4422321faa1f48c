// Copyright 2025 DealDesk
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiter enforces a per-client sliding-window request limit backed by
// Redis. Without Redis it is a no-op: analysis availability is never held
// hostage to the limiter, and Redis errors fail open the same way.
type RateLimiter struct {
	client *redis.Client
	limit  int
}

// NewRateLimiter connects to Redis at redisURL. An empty URL or a failed
// connection yields a disabled limiter.
func NewRateLimiter(redisURL string, limitPerMinute int) *RateLimiter {
	if redisURL == "" {
		log.Printf("[RateLimit] REDIS_URL not set, rate limiting disabled")
		return &RateLimiter{limit: limitPerMinute}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[RateLimit] Failed to parse Redis URL, rate limiting disabled: %v", err)
		return &RateLimiter{limit: limitPerMinute}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[RateLimit] Failed to connect to Redis, rate limiting disabled: %v", err)
		return &RateLimiter{limit: limitPerMinute}
	}

	log.Printf("[RateLimit] Redis connected, limit %d requests/minute", limitPerMinute)
	return &RateLimiter{client: client, limit: limitPerMinute}
}

// newRateLimiterWithClient wraps an existing client. Used by tests.
func newRateLimiterWithClient(client *redis.Client, limitPerMinute int) *RateLimiter {
	return &RateLimiter{client: client, limit: limitPerMinute}
}

// Enabled reports whether requests are being counted.
func (l *RateLimiter) Enabled() bool {
	return l != nil && l.client != nil
}

// Allow records one request for clientID and reports whether it is within
// the per-minute limit. Redis failures allow the request.
func (l *RateLimiter) Allow(ctx context.Context, clientID string) bool {
	if !l.Enabled() {
		return true
	}

	now := time.Now()
	key := fmt.Sprintf("ratelimit:%s", clientID)

	pipe := l.client.Pipeline()
	minScore := now.Add(-time.Minute).Unix()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", minScore))
	pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, &redis.Z{
		Score:  float64(now.Unix()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	pipe.Expire(ctx, key, 2*time.Minute)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		log.Printf("[RateLimit] Redis check failed for %s, failing open: %v", clientID, err)
		return true
	}

	count := cmds[1].(*redis.IntCmd).Val()
	return count < int64(l.limit)
}

// Close releases the Redis connection.
func (l *RateLimiter) Close() error {
	if !l.Enabled() {
		return nil
	}
	return l.client.Close()
}
