package capture

import (
	"context"

	"github.com/synapsehq/capture/internal/fetch"
)

// Fetcher resolves the best-available markup for a capture. *fetch.Client
// satisfies it; tests substitute stubs.
type Fetcher interface {
	Resolve(ctx context.Context, markup, rawURL string) fetch.Outcome
}

type normalizeFunc func(ctx context.Context, p *Payload) (Normalized, bool)

// Pipeline dispatches a payload to the normalizer for its kind. It holds no
// mutable state: concurrent Process calls are fully independent.
type Pipeline struct {
	fetcher     Fetcher
	normalizers map[Kind]normalizeFunc
}

// NewPipeline builds a pipeline around the given fetcher. The kind-to-
// normalizer mapping is total and fixed.
func NewPipeline(fetcher Fetcher) *Pipeline {
	p := &Pipeline{fetcher: fetcher}
	p.normalizers = map[Kind]normalizeFunc{
		KindArticle: p.normalizeArticle,
		KindProduct: p.normalizeProduct,
		KindTodo:    p.normalizeTodo,
		KindLink:    p.normalizeLink,
	}
	return p
}

// Process resolves the capture kind and runs the matching normalizer.
// An explicit valid payload kind overrides detection. Process never fails:
// a fetch failure inside a normalizer is absorbed into NeedsRetry, and the
// worst case for an empty payload is a placeholder record.
func (pl *Pipeline) Process(ctx context.Context, p *Payload) Result {
	kind, ok := ParseKind(p.Kind)
	if !ok {
		kind = DetectKind(p)
	}
	capture, needsRetry := pl.normalizers[kind](ctx, p)
	return Result{Kind: kind, Capture: capture, NeedsRetry: needsRetry}
}
