package ai

import (
	"context"

	"github.com/emberfield/faultwise/core"
)

// ContextFetcher looks up contextual text about a fault from an external
// search service. It is a best-effort capability: missing credentials or no
// results yield an empty string, never an error the pipeline treats as fatal.
// Implementations must be safe for concurrent use.
type ContextFetcher interface {
	// FetchContext returns free-form contextual text for the fault, or an
	// empty string when nothing useful is available.
	FetchContext(ctx context.Context, fault *core.Fault) (string, error)
}

// OverviewGenerator produces the AI overview and rewritten troubleshooting
// text for a fault. This is the one mandatory capability: a generation
// failure fails the record. Implementations must be safe for concurrent use.
type OverviewGenerator interface {
	// GenerateOverview asks the model for an overview of the fault, using
	// searchContext (possibly empty) as supporting material. The response
	// must parse as the two plain-text fields of Overview; a parse failure
	// after stripping wrapper markers is surfaced as ErrMalformedResponse.
	GenerateOverview(ctx context.Context, fault *core.Fault, searchContext string) (*Overview, error)
}

// ResourceSearcher finds curated repair resources for a fault. Best-effort:
// when the call ultimately fails the pipeline records an empty resource list
// rather than failing the record. Implementations must be safe for
// concurrent use.
type ResourceSearcher interface {
	// SearchResources returns an ordered list of typed resource links.
	SearchResources(ctx context.Context, fault *core.Fault) ([]core.Resource, error)
}

// Client aggregates the external enrichment capabilities for convenient
// wiring and lifecycle management.
type Client interface {
	ContextFetcher
	OverviewGenerator
	ResourceSearcher

	// Close releases resources held by the client. After Close the client
	// must not be used.
	Close() error
}
