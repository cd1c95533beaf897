package capture

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/synapsehq/capture/internal/textutil"
)

// Detection heuristics, applied in strict priority order over a haystack of
// selected text, markup and title. TODO runs before PRODUCT so that a
// bullet-formatted price list is still treated as an actionable list, and
// PRODUCT before ARTICLE because commerce signals have a lower
// false-positive rate than generic long-text hints.
var (
	todoLinePattern = regexp.MustCompile(`(?m)^\s*[-*•\[\]]\s+`)
	todoWordPattern = regexp.MustCompile(`(?i)\b(?:todo|task|checklist|action item)s?\b`)

	articleHintPattern = regexp.MustCompile(
		`(?i)\b(?:read time|table of contents|published)\b|\bchapter\b|perplexity|medium\.com|substack\.com|\bblog\b`)

	marketplaceHostPattern = regexp.MustCompile(`(?i)\b(?:amazon|bestbuy|flipkart|ebay|shopify)\b`)
	publisherHostPattern   = regexp.MustCompile(`(?i)\b(?:perplexity\.ai|medium\.com|substack|blog|news)\b`)
)

// longFormWordCount is the selected-text word count above which a capture
// reads as an article.
const longFormWordCount = 120

// DetectKind classifies a payload into exactly one Kind. It is a pure
// function of the payload and never fails: an explicit valid kind wins
// outright, the ordered heuristics run next, and LINK is the default when
// nothing matches.
func DetectKind(p *Payload) Kind {
	if kind, ok := ParseKind(p.Kind); ok {
		return kind
	}

	haystack := strings.Join([]string{p.SelectedText, p.Markup, p.Title}, "\n")

	if todoLinePattern.MatchString(haystack) ||
		todoWordPattern.MatchString(haystack) ||
		strings.Contains(strings.ToLower(p.Metadata.stringField("type")), "todo") {
		return KindTodo
	}

	if textutil.HasPrice(haystack) ||
		p.Metadata.hasKey("price", "currency") ||
		hostMatches(p.URL, marketplaceHostPattern) {
		return KindProduct
	}

	if articleHintPattern.MatchString(haystack) ||
		hostMatches(p.URL, publisherHostPattern) ||
		strings.Contains(strings.ToLower(p.Metadata.stringField("contentType")), "article") ||
		wordCount(p.SelectedText) > longFormWordCount {
		return KindArticle
	}

	return KindLink
}

// hostMatches tests the URL host against a hint pattern, falling back to the
// raw string when the URL does not parse.
func hostMatches(rawURL string, pattern *regexp.Regexp) bool {
	if rawURL == "" {
		return false
	}
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Hostname() != "" {
		return pattern.MatchString(parsed.Hostname())
	}
	return pattern.MatchString(rawURL)
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
