package capture

import (
	"strings"
	"testing"
)

func TestDetectKind_TotalOnEmptyPayload(t *testing.T) {
	if got := DetectKind(&Payload{}); got != KindLink {
		t.Fatalf("empty payload should default to LINK, got %s", got)
	}
}

func TestDetectKind_ExplicitKindWins(t *testing.T) {
	// Heuristic signals all point to TODO; explicit caller intent overrides.
	p := &Payload{
		Kind:         "pRoDuCt",
		SelectedText: "- todo checklist\n- task list",
	}
	if got := DetectKind(p); got != KindProduct {
		t.Fatalf("explicit kind should win, got %s", got)
	}
}

func TestDetectKind_InvalidExplicitKindFallsBack(t *testing.T) {
	p := &Payload{Kind: "bookmark", SelectedText: "- buy milk"}
	if got := DetectKind(p); got != KindTodo {
		t.Fatalf("invalid explicit kind should fall back to heuristics, got %s", got)
	}
}

func TestDetectKind_TodoBeforeProduct(t *testing.T) {
	p := &Payload{SelectedText: "- buy milk\n- $12.99 eggs"}
	if got := DetectKind(p); got != KindTodo {
		t.Fatalf("bullet list with prices should stay TODO, got %s", got)
	}
}

func TestDetectKind_Heuristics(t *testing.T) {
	cases := []struct {
		name string
		p    Payload
		want Kind
	}{
		{"todo word", Payload{Title: "my TODO for the week"}, KindTodo},
		{"todo plural", Payload{SelectedText: "three tasks remain"}, KindTodo},
		{"todo metadata type", Payload{Metadata: &Metadata{Raw: map[string]any{"type": "Todo-List"}}}, KindTodo},
		{"checkbox line", Payload{SelectedText: "[ ] call the dentist"}, KindTodo},
		{"price in text", Payload{SelectedText: "Now only $1,299.00 today"}, KindProduct},
		{"price code after amount", Payload{SelectedText: "yours for 49.99 EUR"}, KindProduct},
		{"currency metadata key", Payload{Metadata: &Metadata{Raw: map[string]any{"currency": "USD"}}}, KindProduct},
		{"marketplace host", Payload{URL: "https://www.amazon.com/dp/B000"}, KindProduct},
		{"read time hint", Payload{SelectedText: "8 min read time"}, KindArticle},
		{"chapter hint", Payload{Title: "Chapter 4: The Return"}, KindArticle},
		{"publisher host", Payload{URL: "https://medium.com/@a/post"}, KindArticle},
		{"news host", Payload{URL: "https://news.example.org/story"}, KindArticle},
		{"contentType metadata", Payload{Metadata: &Metadata{Raw: map[string]any{"contentType": "article/blog"}}}, KindArticle},
		{"long selection", Payload{SelectedText: strings.Repeat("word ", 121)}, KindArticle},
		{"plain title", Payload{Title: "hello there"}, KindLink},
		{"bare url", Payload{URL: "https://example.com/page"}, KindLink},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DetectKind(&c.p); got != c.want {
				t.Fatalf("got %s, want %s", got, c.want)
			}
		})
	}
}

func TestDetectKind_MarketplaceHintChecksHost(t *testing.T) {
	// The hint must come from the host, not the path.
	p := &Payload{URL: "https://example.com/articles/amazon-rainforest"}
	if got := DetectKind(p); got != KindLink {
		t.Fatalf("path-only marketplace mention should not classify PRODUCT, got %s", got)
	}
}

func TestDetectKind_Deterministic(t *testing.T) {
	p := &Payload{SelectedText: "Published yesterday on the blog", URL: "https://blog.example.com/x"}
	first := DetectKind(p)
	for i := 0; i < 5; i++ {
		if got := DetectKind(p); got != first {
			t.Fatalf("detection not stable: %s then %s", first, got)
		}
	}
}
