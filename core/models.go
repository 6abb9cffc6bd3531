package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a deterministic 64-bit identifier derived from a fault's identity key.
type ID uint64

// IDFromKey generates a deterministic ID from an identity key using BLAKE2b
// hashing. Identical keys always produce identical IDs, which makes the ID
// usable as a cache key across runs.
func IDFromKey(key string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(key))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ResourceType categorizes a helpful resource by the kind of site hosting it.
type ResourceType string

const (
	// ResourceTypeVideo is a video walkthrough (YouTube, Vimeo, ...).
	ResourceTypeVideo ResourceType = "video"
	// ResourceTypeForum is a forum or community thread.
	ResourceTypeForum ResourceType = "forum"
	// ResourceTypeArticle is any other web page.
	ResourceTypeArticle ResourceType = "article"
)

// Resource is a single curated link showing how to fix a fault.
type Resource struct {
	Type        ResourceType `json:"type"`
	Title       string       `json:"title"`
	URL         string       `json:"url"`
	Description string       `json:"description"`
}

// EnrichmentMetadata records the outcome of enriching a single fault.
// Success=false means the original troubleshooting and possible cause were
// left untouched and Error describes what went wrong.
type EnrichmentMetadata struct {
	EnrichedAt time.Time `json:"enriched_at"`
	ModelUsed  string    `json:"model_used"`
	CallCount  int       `json:"api_calls"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
}

// Fault is one boiler-fault entry. Maker, Model and ErrorCode form the
// identity key and are immutable once assigned; the free-text fields are
// overwritten by enrichment, and the remaining fields are output-only.
type Fault struct {
	Maker           string `json:"maker"`
	Model           string `json:"model"`
	ErrorCode       string `json:"error_code"`
	ErrorType       string `json:"error_type,omitempty"`
	PossibleCause   string `json:"possible_cause,omitempty"`
	Troubleshooting string `json:"troubleshooting,omitempty"`

	AIOverview       string              `json:"ai_overview,omitempty"`
	HelpfulResources []Resource          `json:"helpful_resources,omitempty"`
	Enrichment       *EnrichmentMetadata `json:"enrichment_metadata,omitempty"`
}

// Key returns the identity key "maker|model|errorCode". Missing identity
// fields contribute an empty component, so malformed records still
// deduplicate consistently.
func (f *Fault) Key() string {
	return f.Maker + "|" + f.Model + "|" + f.ErrorCode
}

// KeyID returns the BLAKE2b hash of the identity key.
func (f *Fault) KeyID() ID {
	return IDFromKey(f.Key())
}

// Clone returns a deep copy of the fault. Workers enrich a copy so the
// input record set is never mutated during a run.
func (f *Fault) Clone() *Fault {
	out := *f
	if f.HelpfulResources != nil {
		out.HelpfulResources = make([]Resource, len(f.HelpfulResources))
		copy(out.HelpfulResources, f.HelpfulResources)
	}
	if f.Enrichment != nil {
		meta := *f.Enrichment
		out.Enrichment = &meta
	}
	return &out
}
