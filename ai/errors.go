package ai

import (
	"errors"
	"strings"
)

var (
	// ErrMissingAPIKey indicates the mandatory generation credential is absent.
	ErrMissingAPIKey = errors.New("ai config: API key is required")

	// ErrEmptyResponse indicates the model returned no content.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrMalformedResponse indicates the model output could not be parsed
	// even after stripping known wrapper markers.
	ErrMalformedResponse = errors.New("malformed response from model")

	// ErrRateLimited marks a failure caused by a provider quota or 429
	// response. Wrap it so IsRateLimited can classify the error.
	ErrRateLimited = errors.New("rate limited")
)

// rateLimitMarkers are substrings that identify quota failures in provider
// error text. Providers do not surface a typed error for 429s, so
// classification falls back to message matching.
var rateLimitMarkers = []string{
	"429",
	"rate limit",
	"rate_limit",
	"too many requests",
	"quota",
}

// IsRateLimited reports whether err represents a provider rate-limit or
// quota failure. Only these failures are worth retrying with backoff; all
// other failures are surfaced immediately.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
