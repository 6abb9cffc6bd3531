// Package enrich implements the fault enrichment pipeline: a fixed worker
// pool fans fault records out to the per-record enrichment workflow, with a
// shared token-bucket rate limiter on every external call, exponential
// backoff for rate-limited failures, a per-record checkpoint for resumable
// runs, and atomically rewritten batched output.
package enrich
