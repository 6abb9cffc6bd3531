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
	"log/slog"
	"math/rand"
	"time"
)

// Policy retries an external call when it fails with a retryable error,
// sleeping an exponentially growing delay plus random jitter between
// attempts. Failures the classifier rejects are surfaced immediately.
//
// The policy wraps each individual external call, not a whole per-record
// workflow.
type Policy struct {
	// MaxRetries is how many times a retryable failure is retried after
	// the initial attempt. Must be >= 0.
	MaxRetries int

	// InitialDelay is the sleep before the first retry; it doubles on
	// each subsequent retry.
	InitialDelay time.Duration

	// Retryable classifies which failures are worth retrying. Required;
	// typically ai.IsRateLimited.
	Retryable func(error) bool

	// jitter produces the random component added to each sleep.
	// Overridable in tests; nil means a uniform draw from [0, 1s).
	jitter func() time.Duration
}

// Execute invokes op, retrying per the policy. The error from the last
// attempt is returned when the retry budget is exhausted. The context is
// honored during backoff sleeps.
func (p Policy) Execute(ctx context.Context, op func() error) error {
	if p.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}

	jitter := p.jitter
	if jitter == nil {
		jitter = func() time.Duration {
			return time.Duration(rand.Int63n(int64(time.Second)))
		}
	}

	delay := p.InitialDelay
	var lastErr error
	for attempt := 0; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = op()
		if lastErr == nil {
			if attempt > 0 {
				slog.Debug("call succeeded after retry", "attempt", attempt+1)
			}
			return nil
		}

		if p.Retryable == nil || !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxRetries {
			return lastErr
		}

		sleep := delay + jitter()
		slog.Debug("rate limited, backing off",
			"attempt", attempt+1,
			"maxRetries", p.MaxRetries,
			"sleep", sleep,
			"err", lastErr)

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
