package capture

import (
	"context"

	"github.com/synapsehq/capture/internal/markup"
	"github.com/synapsehq/capture/internal/textutil"
)

// normalizeArticle extracts a long-form page into {text, markup, image,
// publishedAt}. Each field falls back from the explicit payload through the
// article metadata sub-record to the fetched markup.
func (pl *Pipeline) normalizeArticle(ctx context.Context, p *Payload) (Normalized, bool) {
	outcome := pl.fetcher.Resolve(ctx, p.Markup, p.URL)
	am := p.Metadata.article()

	raw := firstNonEmpty(outcome.Content, am.HTML)
	doc := markup.Parse(raw)

	title := firstNonEmpty(
		textutil.NormalizeWhitespace(p.Title),
		textutil.NormalizeWhitespace(doc.OGTitle()),
		doc.Title(),
		textutil.NormalizeWhitespace(am.Title),
		"New article",
	)
	description := firstNonEmpty(
		textutil.NormalizeWhitespace(am.Description),
		textutil.NormalizeWhitespace(doc.OGDescription()),
		textutil.NormalizeWhitespace(doc.MetaTag("description")),
		textutil.NormalizeWhitespace(p.SelectedText),
	)
	text := firstNonEmpty(
		textutil.NormalizeWhitespace(am.Text),
		textutil.NormalizeWhitespace(p.SelectedText),
		doc.VisibleText(),
		description,
	)
	image := firstNonEmpty(
		am.Image,
		doc.OGImage(),
		doc.MetaTag("twitter:image"),
		doc.FirstImage(),
	)
	publishedAt := firstNonEmpty(
		am.PublishedAt,
		doc.MetaTag("article:published_time"),
		doc.MetaTag("og:updated_time"),
	)

	body := map[string]any{
		"text":        text,
		"html":        nullable(raw),
		"image":       nullable(image),
		"publishedAt": nullable(publishedAt),
		"metadata":    p.Metadata.rawMap(),
	}

	needsRetry := outcome.Attempted && !outcome.Succeeded
	if needsRetry {
		body["processing"] = processingMarker(ReasonArticleFetchFailed)
	}

	return Normalized{
		Title:     title,
		Summary:   textutil.Truncate(firstNonEmpty(description, text), textutil.DefaultSummaryLength),
		Kind:      KindArticle,
		SourceURL: p.URL,
		Body:      body,
		Tags:      p.Tags,
	}, needsRetry
}
