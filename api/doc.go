// Package api serves read-only queries over an enriched fault document:
// maker and model listings, per-model fault summaries, and full fault
// detail lookups.
package api
