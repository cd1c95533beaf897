// Package textutil provides small text normalization helpers shared by the
// capture normalizers: whitespace collapsing, bounded truncation, and
// price extraction from free text.
package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/currency"
)

// DefaultSummaryLength bounds summaries produced from page text.
const DefaultSummaryLength = 260

const ellipsis = "…"

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeWhitespace trims the input and collapses internal whitespace runs
// to single spaces. Empty input yields an empty string.
func NormalizeWhitespace(text string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(text), " ")
}

// Truncate returns text unchanged when it fits within maxLength runes.
// Otherwise it returns the first maxLength runes, trimmed, followed by a
// single ellipsis. Truncation may split a word.
func Truncate(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return strings.TrimSpace(string(runes[:maxLength])) + ellipsis
}

// Price is a price occurrence found in free text. Amount keeps the decimal
// separator as written but drops grouping separators; Currency is the
// upper-cased symbol or ISO code; Display is the raw matched substring.
type Price struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Display  string `json:"display,omitempty"`
}

// priceExtract matches a currency symbol or ISO code followed by an amount
// with optional grouping and decimal separators in comma or dot form.
var priceExtract = regexp.MustCompile(
	`(?i)([$€£₹¥]|USD|EUR|GBP|INR|JPY|CAD|AUD)\s?(\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})?|\d+(?:[.,]\d{2})?)`)

// priceHint additionally accepts the amount-before-code order; it is used for
// kind detection where presence matters but capture groups do not.
var priceHint = regexp.MustCompile(
	`(?i)[$€£₹¥]\s?\d{1,3}(?:[.,]\d{3})*(?:[.,]\d{2})?|\d+(?:[.,]\d{2})?\s?(?:USD|EUR|GBP|INR|JPY|CAD|AUD)`)

var groupedDigits = regexp.MustCompile(`^\d{1,3}(?:[.,]\d{3})+$`)

// ExtractPrice scans text for the first currency-and-amount occurrence.
// It returns nil when no price is present. Multiple prices in one blob are
// not aggregated; only the first match is reported.
func ExtractPrice(text string) *Price {
	m := priceExtract.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return &Price{
		Amount:   canonicalAmount(m[2]),
		Currency: canonicalCurrency(m[1]),
		Display:  m[0],
	}
}

// HasPrice reports whether text contains a currency symbol or ISO code
// adjacent to a numeric amount, in either order.
func HasPrice(text string) bool {
	return priceHint.MatchString(text)
}

// canonicalAmount drops grouping separators while keeping the decimal
// separator as written, e.g. "1,299.00" becomes "1299.00".
func canonicalAmount(raw string) string {
	comma := strings.Contains(raw, ",")
	dot := strings.Contains(raw, ".")
	switch {
	case comma && dot:
		if strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
			return strings.ReplaceAll(raw, ".", "")
		}
		return strings.ReplaceAll(raw, ",", "")
	case groupedDigits.MatchString(raw):
		return strings.NewReplacer(",", "", ".", "").Replace(raw)
	default:
		return raw
	}
}

// canonicalCurrency upper-cases ISO codes through the currency table so that
// e.g. "usd" comes back as the canonical unit name. Symbols pass through.
func canonicalCurrency(raw string) string {
	if unit, err := currency.ParseISO(raw); err == nil {
		return unit.String()
	}
	return strings.ToUpper(raw)
}
