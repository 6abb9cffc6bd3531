package ai

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emberfield/faultwise/core"
)

func TestClassifyResourceURL(t *testing.T) {
	tests := []struct {
		url  string
		want core.ResourceType
	}{
		{"https://www.youtube.com/watch?v=abc123", core.ResourceTypeVideo},
		{"https://youtu.be/abc123", core.ResourceTypeVideo},
		{"https://vimeo.com/12345", core.ResourceTypeVideo},
		{"https://www.reddit.com/r/Plumbing/comments/x", core.ResourceTypeForum},
		{"https://www.diynot.com/diy/threads/f28.123/", core.ResourceTypeForum},
		{"https://community.screwfix.com/threads/boiler.1/", core.ResourceTypeForum},
		{"https://www.plumbersforums.net/threads/f28.456/", core.ResourceTypeForum},
		{"https://www.vaillant.co.uk/advice/f28-fault/", core.ResourceTypeArticle},
		{"https://heatinghub.co.uk/blog/fixing-f28", core.ResourceTypeArticle},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyResourceURL(tt.url), "url %s", tt.url)
	}
}

func TestClassifyResourceURL_CaseInsensitive(t *testing.T) {
	assert.Equal(t, core.ResourceTypeVideo, ClassifyResourceURL("HTTPS://WWW.YOUTUBE.COM/watch"))
}

func TestNormalizeDescription_CollapsesWhitespace(t *testing.T) {
	got := NormalizeDescription("  step by\n\tstep   guide  ")
	assert.Equal(t, "step by step guide", got)
}

func TestNormalizeDescription_ShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "short", NormalizeDescription("short"))
	assert.Equal(t, "", NormalizeDescription("   "))
}

func TestNormalizeDescription_TruncatesAtWordBoundary(t *testing.T) {
	long := strings.Repeat("word ", 60) // 300 chars
	got := NormalizeDescription(long)

	assert.LessOrEqual(t, len(got), MaxDescriptionLength+3)
	assert.True(t, strings.HasSuffix(got, "..."), "truncated text ends with ellipsis")
	assert.True(t, strings.HasSuffix(strings.TrimSuffix(got, "..."), "word"), "cut lands on a word boundary")
}

func TestIsRateLimited(t *testing.T) {
	assert.False(t, IsRateLimited(nil))
	assert.False(t, IsRateLimited(errors.New("connection refused")))

	assert.True(t, IsRateLimited(ErrRateLimited))
	assert.True(t, IsRateLimited(fmt.Errorf("call failed: %w", ErrRateLimited)))
	assert.True(t, IsRateLimited(errors.New("API returned unexpected status code: 429")))
	assert.True(t, IsRateLimited(errors.New("Rate limit reached for requests")))
	assert.True(t, IsRateLimited(errors.New("insufficient quota for this request")))
}
