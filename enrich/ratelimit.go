// Copyright 2026 Emberfield Systems
//
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


package enrich

import (
	"context"
	"math"
	"sync"
	"time"
)

// Limiter is a token-bucket rate limiter shared by all workers calling one
// external service. It defends a hard sustained QPS ceiling while allowing
// short bursts up to the bucket capacity.
//
// A nil *Limiter is valid and never blocks, for services without a quota.
type Limiter struct {
	mu           sync.Mutex
	capacity     float64
	tokens       float64
	refillPerSec float64
	last         time.Time
}

// NewLimiter creates a limiter sustaining refillPerSec calls per second with
// bursts up to capacity. The bucket starts full. Returns nil (unlimited)
// when refillPerSec is not positive; a non-positive capacity defaults to
// one-token bursts.
func NewLimiter(refillPerSec, capacity float64) *Limiter {
	if refillPerSec <= 0 {
		return nil
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Limiter{
		capacity:     capacity,
		tokens:       capacity,
		refillPerSec: refillPerSec,
		last:         time.Now(),
	}
}

// Acquire blocks until a token is available, consumes it, and returns.
//
// Refill is continuous: elapsed wall-clock time times the refill rate is
// added to the bucket, capped at capacity. When the bucket is short, the
// caller reserves the next token under the lock and sleeps until it
// materializes outside the lock, so other callers' refill accounting is
// never blocked by a sleeper. Reservations stack: `last` is the frontier
// instant up to which tokens are already spoken for, and each new waiter
// extends it by its own deficit, keeping concurrent waiters at the
// sustained rate instead of waking together.
//
// Returns early with the context error if ctx is done before the token
// becomes available; the reservation is refunded.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l == nil {
		return ctx.Err()
	}

	l.mu.Lock()
	now := time.Now()
	if elapsed := now.Sub(l.last).Seconds(); elapsed > 0 {
		l.tokens = math.Min(l.capacity, l.tokens+elapsed*l.refillPerSec)
		l.last = now
	}

	if l.tokens >= 1 {
		l.tokens--
		l.mu.Unlock()
		return nil
	}

	// Reserve the next token at the frontier and drain the bucket. When
	// `last` already sits in the future, earlier reservations are queued
	// ahead of this one and the deficit is a full token interval.
	deficit := time.Duration((1 - l.tokens) / l.refillPerSec * float64(time.Second))
	wake := l.last.Add(deficit)
	l.tokens = 0
	l.last = wake
	l.mu.Unlock()

	timer := time.NewTimer(wake.Sub(now))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		// The token was never consumed; pull the frontier back so the
		// bucket is not permanently short one token.
		l.mu.Lock()
		l.last = l.last.Add(-deficit)
		l.mu.Unlock()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Tokens reports the currently available tokens after refill. Intended for
// tests and progress reporting.
func (l *Limiter) Tokens() float64 {
	if l == nil {
		return math.Inf(1)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if elapsed := now.Sub(l.last).Seconds(); elapsed > 0 {
		l.tokens = math.Min(l.capacity, l.tokens+elapsed*l.refillPerSec)
		l.last = now
	}
	return l.tokens
}
