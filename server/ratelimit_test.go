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
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newMiniredisLimiter(t *testing.T, limit int) *RateLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return newRateLimiterWithClient(client, limit)
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	limiter := newMiniredisLimiter(t, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow(context.Background(), "10.0.0.1") {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}
	if limiter.Allow(context.Background(), "10.0.0.1") {
		t.Error("Request over the limit should be rejected")
	}
}

func TestRateLimiterPerClient(t *testing.T) {
	limiter := newMiniredisLimiter(t, 1)

	if !limiter.Allow(context.Background(), "10.0.0.1") {
		t.Fatal("First client should be allowed")
	}
	if !limiter.Allow(context.Background(), "10.0.0.2") {
		t.Error("Second client has its own window")
	}
	if limiter.Allow(context.Background(), "10.0.0.1") {
		t.Error("First client should now be limited")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := NewRateLimiter("", 1)

	if limiter.Enabled() {
		t.Error("Limiter without Redis should be disabled")
	}
	for i := 0; i < 10; i++ {
		if !limiter.Allow(context.Background(), "10.0.0.1") {
			t.Fatal("Disabled limiter must always allow")
		}
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := newRateLimiterWithClient(client, 1)

	// Kill the backend: checks must fail open.
	mr.Close()
	if !limiter.Allow(context.Background(), "10.0.0.1") {
		t.Error("Redis failure should allow the request")
	}
}
