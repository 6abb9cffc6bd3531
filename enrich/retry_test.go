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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfield/faultwise/ai"
)

// testPolicy returns a fast policy with deterministic (zero) jitter.
func testPolicy(maxRetries int, initialDelay time.Duration) Policy {
	return Policy{
		MaxRetries:   maxRetries,
		InitialDelay: initialDelay,
		Retryable:    ai.IsRateLimited,
		jitter:       func() time.Duration { return 0 },
	}
}

func TestExecuteSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := testPolicy(3, time.Millisecond).Execute(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteRetriesRateLimited(t *testing.T) {
	calls := 0
	err := testPolicy(3, time.Millisecond).Execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return ai.ErrRateLimited
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteExhaustsBudget(t *testing.T) {
	calls := 0
	err := testPolicy(2, time.Millisecond).Execute(context.Background(), func() error {
		calls++
		return ai.ErrRateLimited
	})
	assert.ErrorIs(t, err, ai.ErrRateLimited)
	assert.Equal(t, 3, calls, "initial attempt plus two retries")
}

func TestExecuteNonRetryableSurfacedImmediately(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := testPolicy(5, time.Millisecond).Execute(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestExecuteDelayDoubles(t *testing.T) {
	var attempts []time.Time
	policy := testPolicy(2, 20*time.Millisecond)

	_ = policy.Execute(context.Background(), func() error {
		attempts = append(attempts, time.Now())
		return ai.ErrRateLimited
	})

	require.Len(t, attempts, 3)
	first := attempts[1].Sub(attempts[0])
	second := attempts[2].Sub(attempts[1])
	assert.GreaterOrEqual(t, first, 20*time.Millisecond)
	assert.GreaterOrEqual(t, second, 40*time.Millisecond)
}

func TestExecuteHonorsContextDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	err := testPolicy(5, time.Second).Execute(ctx, func() error {
		calls++
		return ai.ErrRateLimited
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls, "cancellation interrupts the first backoff sleep")
}

func TestExecuteNegativeMaxRetries(t *testing.T) {
	err := Policy{MaxRetries: -1}.Execute(context.Background(), func() error {
		t.Fatal("op must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrInvalidMaxRetries)
}
