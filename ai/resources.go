package ai

import (
	"strings"

	"github.com/emberfield/faultwise/core"
)

// MaxDescriptionLength is the longest a resource description may be after
// normalization. Longer text is cut at a word boundary with an ellipsis.
const MaxDescriptionLength = 150

// videoDomains identify video-hosting sites.
var videoDomains = []string{
	"youtube.com",
	"youtu.be",
	"vimeo.com",
	"dailymotion.com",
}

// forumDomains identify forum and community sites.
var forumDomains = []string{
	"reddit.com",
	"diynot.com",
	"plumbersforums.net",
	"screwfix.community",
	"forum",
	"community",
	"boards.",
}

// ClassifyResourceURL picks a resource type from its URL: known
// video-hosting domains map to video, known forum/community domains to
// forum, and everything else to article.
func ClassifyResourceURL(url string) core.ResourceType {
	lower := strings.ToLower(url)
	for _, domain := range videoDomains {
		if strings.Contains(lower, domain) {
			return core.ResourceTypeVideo
		}
	}
	for _, domain := range forumDomains {
		if strings.Contains(lower, domain) {
			return core.ResourceTypeForum
		}
	}
	return core.ResourceTypeArticle
}

// NormalizeDescription collapses all whitespace runs to single spaces, trims
// the result, and truncates it to MaxDescriptionLength at a word boundary,
// appending "..." when text was cut.
func NormalizeDescription(s string) string {
	normalized := strings.Join(strings.Fields(s), " ")
	if len(normalized) <= MaxDescriptionLength {
		return normalized
	}

	cut := normalized[:MaxDescriptionLength]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ") + "..."
}
