package capture

import (
	"context"

	"github.com/synapsehq/capture/internal/markup"
	"github.com/synapsehq/capture/internal/textutil"
)

// normalizeLink is the catch-all normalizer: a title and a description are
// all that can be promised about an arbitrary page.
func (pl *Pipeline) normalizeLink(ctx context.Context, p *Payload) (Normalized, bool) {
	outcome := pl.fetcher.Resolve(ctx, p.Markup, p.URL)
	lm := p.Metadata.link()

	raw := firstNonEmpty(outcome.Content, lm.HTML)
	doc := markup.Parse(raw)

	title := firstNonEmpty(
		textutil.NormalizeWhitespace(p.Title),
		textutil.NormalizeWhitespace(doc.OGTitle()),
		doc.Title(),
		"Saved link",
	)
	description := firstNonEmpty(
		textutil.NormalizeWhitespace(lm.Description),
		textutil.NormalizeWhitespace(p.SelectedText),
		textutil.NormalizeWhitespace(doc.OGDescription()),
		textutil.NormalizeWhitespace(doc.MetaTag("description")),
	)

	body := map[string]any{
		"description": description,
		"metadata":    p.Metadata.rawMap(),
	}

	needsRetry := outcome.Attempted && !outcome.Succeeded
	if needsRetry {
		body["processing"] = processingMarker(ReasonLinkFetchFailed)
	}

	return Normalized{
		Title:     title,
		Summary:   description,
		Kind:      KindLink,
		SourceURL: p.URL,
		Body:      body,
		Tags:      p.Tags,
	}, needsRetry
}
