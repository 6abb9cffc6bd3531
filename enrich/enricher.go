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
	"time"

	"github.com/emberfield/faultwise/ai"
	"github.com/emberfield/faultwise/cache"
	"github.com/emberfield/faultwise/core"
)

// State tracks a record's progress through the enrichment workflow.
type State int

const (
	// StatePending means no external call has been made yet.
	StatePending State = iota
	// StateContextFetched means the best-effort context lookup completed.
	StateContextFetched
	// StateGenerated means the overview generation succeeded.
	StateGenerated
	// StateResourcesFetched means the best-effort resource search completed.
	StateResourcesFetched
	// StateDone is the successful terminal state.
	StateDone
	// StateFailed is the failed terminal state: the original record fields
	// are preserved and the failure recorded in the enrichment metadata.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateContextFetched:
		return "context-fetched"
	case StateGenerated:
		return "generated"
	case StateResourcesFetched:
		return "resources-fetched"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the terminal outcome of enriching one record.
type Result struct {
	// Fault is the enriched copy (or, on failure, a copy of the original
	// with failure metadata attached). Never nil.
	Fault *core.Fault

	// State is StateDone or StateFailed.
	State State

	// Calls is how many logical external calls were issued for the record.
	Calls int

	// Err is the failure that moved the record to StateFailed, nil otherwise.
	Err error
}

// Enricher runs the per-record workflow: context lookup, overview
// generation, resource search, merge. Each external call goes through the
// shared rate limiter and the retry policy. Safe for concurrent use by
// pipeline workers.
type Enricher struct {
	generator ai.OverviewGenerator
	contexts  ai.ContextFetcher
	resources ai.ResourceSearcher
	limiter   *Limiter
	retry     Policy
	cache     *cache.Store
	model     string
	logger    *slog.Logger
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher)

// WithContextFetcher enables the best-effort context lookup step.
func WithContextFetcher(fetcher ai.ContextFetcher) EnricherOption {
	return func(e *Enricher) {
		e.contexts = fetcher
	}
}

// WithResourceSearcher enables the best-effort resource search step.
func WithResourceSearcher(searcher ai.ResourceSearcher) EnricherOption {
	return func(e *Enricher) {
		e.resources = searcher
	}
}

// WithLimiter sets the shared rate limiter. Nil means unthrottled.
func WithLimiter(limiter *Limiter) EnricherOption {
	return func(e *Enricher) {
		e.limiter = limiter
	}
}

// WithRetryPolicy sets the per-call retry policy.
func WithRetryPolicy(policy Policy) EnricherOption {
	return func(e *Enricher) {
		e.retry = policy
	}
}

// WithCache enables the response cache.
func WithCache(store *cache.Store) EnricherOption {
	return func(e *Enricher) {
		e.cache = store
	}
}

// WithEnricherLogger sets a custom logger. Default is slog.Default().
func WithEnricherLogger(logger *slog.Logger) EnricherOption {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEnricher creates an enricher. The overview generator is the one
// mandatory capability; context fetching and resource search are optional
// and skipped when absent.
func NewEnricher(generator ai.OverviewGenerator, model string, opts ...EnricherOption) (*Enricher, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	e := &Enricher{
		generator: generator,
		model:     model,
		retry: Policy{
			MaxRetries:   4,
			InitialDelay: 1 * time.Second,
			Retryable:    ai.IsRateLimited,
		},
		logger: slog.Default().With("component", "enricher"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Enrich runs the workflow for one record and returns its terminal outcome.
// The input fault is never mutated. Only a generation failure fails the
// record; context and resource failures degrade to empty values.
func (e *Enricher) Enrich(ctx context.Context, fault *core.Fault, index int) *Result {
	out := fault.Clone()
	calls := 0
	state := StatePending

	// Pending -> ContextFetched: best-effort, never fails the record.
	searchContext := ""
	if e.contexts != nil {
		if err := e.limiter.Acquire(ctx); err != nil {
			return e.fail(out, index, calls, err)
		}
		calls++
		err := e.retry.Execute(ctx, func() error {
			var callErr error
			searchContext, callErr = e.contexts.FetchContext(ctx, fault)
			return callErr
		})
		if err != nil {
			e.logger.Warn("context lookup failed, continuing without context",
				"fault", fault.Key(), "index", index, "err", err)
			searchContext = ""
		}
	}
	state = StateContextFetched

	// ContextFetched -> Generated: mandatory, failure fails the record.
	overview, cached := e.cachedOverview(fault)
	if !cached {
		if err := e.limiter.Acquire(ctx); err != nil {
			return e.fail(out, index, calls, err)
		}
		calls++
		err := e.retry.Execute(ctx, func() error {
			var callErr error
			overview, callErr = e.generator.GenerateOverview(ctx, fault, searchContext)
			return callErr
		})
		if err != nil {
			e.logger.Error("overview generation failed",
				"fault", fault.Key(), "index", index, "state", state, "err", err)
			return e.fail(out, index, calls, err)
		}
		if e.cache != nil {
			e.cache.PutOverview(fault.KeyID(), overview)
		}
	}
	state = StateGenerated

	// Generated -> ResourcesFetched: best-effort, never fails the record.
	resources, cached := e.cachedResources(fault)
	if !cached && e.resources != nil {
		if err := e.limiter.Acquire(ctx); err != nil {
			return e.fail(out, index, calls, err)
		}
		calls++
		err := e.retry.Execute(ctx, func() error {
			var callErr error
			resources, callErr = e.resources.SearchResources(ctx, fault)
			return callErr
		})
		if err != nil {
			e.logger.Warn("resource search failed, continuing without resources",
				"fault", fault.Key(), "index", index, "err", err)
			resources = nil
		} else if e.cache != nil {
			e.cache.PutResources(fault.KeyID(), resources)
		}
	}
	state = StateResourcesFetched

	// ResourcesFetched -> Done: merge into the record copy.
	if overview.Troubleshooting != "" {
		out.Troubleshooting = overview.Troubleshooting
	}
	out.AIOverview = overview.AIOverview
	if resources == nil {
		resources = []core.Resource{}
	}
	out.HelpfulResources = resources
	out.Enrichment = &core.EnrichmentMetadata{
		EnrichedAt: time.Now().UTC(),
		ModelUsed:  e.model,
		CallCount:  calls,
		Success:    true,
	}
	state = StateDone

	return &Result{Fault: out, State: state, Calls: calls}
}

// fail builds the failed terminal result: original fields untouched,
// failure recorded in the metadata.
func (e *Enricher) fail(out *core.Fault, index, calls int, err error) *Result {
	out.Enrichment = &core.EnrichmentMetadata{
		EnrichedAt: time.Now().UTC(),
		ModelUsed:  e.model,
		CallCount:  calls,
		Success:    false,
		Error:      err.Error(),
	}
	return &Result{Fault: out, State: StateFailed, Calls: calls, Err: err}
}

// cachedOverview consults the response cache for a prior generation.
func (e *Enricher) cachedOverview(fault *core.Fault) (*ai.Overview, bool) {
	if e.cache == nil {
		return nil, false
	}
	overview, ok := e.cache.GetOverview(fault.KeyID())
	if ok {
		e.logger.Debug("overview served from cache", "fault", fault.Key())
	}
	return overview, ok
}

// cachedResources consults the response cache for a prior search.
func (e *Enricher) cachedResources(fault *core.Fault) ([]core.Resource, bool) {
	if e.cache == nil {
		return nil, false
	}
	resources, ok := e.cache.GetResources(fault.KeyID())
	if ok {
		e.logger.Debug("resources served from cache", "fault", fault.Key())
	}
	return resources, ok
}
