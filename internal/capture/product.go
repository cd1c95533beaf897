package capture

import (
	"context"
	"strconv"

	"github.com/synapsehq/capture/internal/markup"
	"github.com/synapsehq/capture/internal/textutil"
)

// normalizeProduct extracts a commerce page into {price, image, text,
// availability, rating}. Price resolution order: structured metadata price,
// then a numeric meta-tag price, then a price extracted from the text block,
// then the legacy flat metadata price string.
func (pl *Pipeline) normalizeProduct(ctx context.Context, p *Payload) (Normalized, bool) {
	outcome := pl.fetcher.Resolve(ctx, p.Markup, p.URL)
	pm := p.Metadata.product()
	doc := markup.Parse(outcome.Content)

	title := firstNonEmpty(
		textutil.NormalizeWhitespace(p.Title),
		textutil.NormalizeWhitespace(pm.Title),
		textutil.NormalizeWhitespace(doc.OGTitle()),
		doc.Title(),
		"Saved product",
	)
	textBlock := firstNonEmpty(
		textutil.NormalizeWhitespace(pm.Description),
		textutil.NormalizeWhitespace(p.SelectedText),
		doc.VisibleText(),
	)

	priceFromMeta := firstNonEmpty(
		pm.PriceText,
		doc.MetaTag("product:price:amount"),
		doc.MetaTag("og:price:amount"),
	)
	currencyFromMeta := firstNonEmpty(
		pm.Currency,
		doc.MetaTag("product:price:currency"),
		doc.MetaTag("og:price:currency"),
	)
	price := resolvePrice(p.Metadata, pm, priceFromMeta, currencyFromMeta, textBlock)

	summary := firstNonEmpty(
		textutil.NormalizeWhitespace(doc.OGDescription()),
		textutil.Truncate(textBlock, textutil.DefaultSummaryLength),
	)
	image := firstNonEmpty(
		pm.Image,
		doc.OGImage(),
		doc.FirstImage(),
	)

	body := map[string]any{
		"price":    priceBody(price),
		"image":    nullable(image),
		"text":     textBlock,
		"metadata": p.Metadata.rawMap(),
	}
	if pm.Availability != "" {
		body["availability"] = pm.Availability
	}
	if pm.Rating != nil {
		body["rating"] = pm.Rating
	}

	needsRetry := outcome.Attempted && !outcome.Succeeded
	if needsRetry {
		body["processing"] = processingMarker(ReasonProductFetchFailed)
	}

	return Normalized{
		Title:     title,
		Summary:   summary,
		Kind:      KindProduct,
		SourceURL: p.URL,
		Body:      body,
		Tags:      p.Tags,
	}, needsRetry
}

// resolvePrice tries the price sources strictly in order. A meta-tag price
// is only trusted when it parses as a number; a non-numeric scalar falls
// through to extraction instead of being passed along blindly.
func resolvePrice(m *Metadata, pm *ProductMeta, priceFromMeta, currencyFromMeta, textBlock string) *textutil.Price {
	if pm.Price != nil {
		return &textutil.Price{
			Amount:   pm.Price.Amount,
			Currency: firstNonEmpty(pm.Price.Currency, currencyFromMeta, "USD"),
			Display:  pm.Price.Display,
		}
	}
	if priceFromMeta != "" {
		if _, err := strconv.ParseFloat(priceFromMeta, 64); err == nil {
			return &textutil.Price{
				Amount:   priceFromMeta,
				Currency: firstNonEmpty(currencyFromMeta, "USD"),
			}
		}
	}
	if price := textutil.ExtractPrice(textBlock); price != nil {
		return price
	}
	if legacy := m.stringField("price"); legacy != "" {
		return textutil.ExtractPrice(legacy)
	}
	return nil
}

// priceBody keeps a missing price as explicit JSON null.
func priceBody(price *textutil.Price) any {
	if price == nil {
		return nil
	}
	return price
}
