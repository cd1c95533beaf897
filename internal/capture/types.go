// Package capture classifies browser-extension submissions into a fixed set
// of content kinds and normalizes each into a stable record the persistence
// layer can rely on. Classification is total: every payload, however bare or
// malformed, resolves to exactly one kind and one normalized capture.
package capture

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Kind is the closed classification of a capture.
type Kind string

const (
	KindArticle Kind = "ARTICLE"
	KindProduct Kind = "PRODUCT"
	KindTodo    Kind = "TODO"
	KindLink    Kind = "LINK"
)

// ParseKind matches s against the Kind enumeration case-insensitively.
// Anything outside the enumeration reports false; callers fall back to
// heuristic detection rather than failing.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToUpper(strings.TrimSpace(s))); k {
	case KindArticle, KindProduct, KindTodo, KindLink:
		return k, true
	}
	return "", false
}

// Payload is a single capture submission. It is partially trusted: every
// field may be absent, and a wrong-typed field decodes as absent rather than
// failing the whole payload. The markup field arrives on the wire as "html",
// the key the extension uses.
type Payload struct {
	URL          string
	Title        string
	Markup       string
	SelectedText string
	Metadata     *Metadata
	Tags         []string
	Kind         string
	Context      map[string]any
}

// UnmarshalJSON decodes leniently: each field is extracted independently and
// a field of the wrong JSON type is simply dropped.
func (p *Payload) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	p.URL = jsonString(fields["url"])
	p.Title = jsonString(fields["title"])
	p.Markup = jsonString(fields["html"])
	p.SelectedText = jsonString(fields["selectedText"])
	p.Kind = jsonString(fields["kind"])
	p.Metadata = decodeMetadata(fields["metadata"])
	p.Tags = jsonStringSlice(fields["tags"])
	if raw, ok := fields["context"]; ok {
		var ctx map[string]any
		if err := json.Unmarshal(raw, &ctx); err == nil {
			p.Context = ctx
		}
	}
	return nil
}

// MarshalJSON writes the wire shape back out, mirroring UnmarshalJSON.
func (p *Payload) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if p.URL != "" {
		out["url"] = p.URL
	}
	if p.Title != "" {
		out["title"] = p.Title
	}
	if p.Markup != "" {
		out["html"] = p.Markup
	}
	if p.SelectedText != "" {
		out["selectedText"] = p.SelectedText
	}
	if p.Kind != "" {
		out["kind"] = p.Kind
	}
	if p.Metadata != nil {
		out["metadata"] = p.Metadata.Raw
	}
	if p.Tags != nil {
		out["tags"] = p.Tags
	}
	if p.Context != nil {
		out["context"] = p.Context
	}
	return json.Marshal(out)
}

// Metadata is the open-ended metadata map sent with a capture, decoded into
// typed per-kind sub-records where the shape allows, with the original map
// kept in Raw for passthrough and for legacy flat fields like "price".
// A malformed sub-record decodes as nil rather than erroring.
type Metadata struct {
	Article *ArticleMeta
	Product *ProductMeta
	Todo    *TodoMeta
	Link    *LinkMeta
	Raw     map[string]any
}

// ArticleMeta is the nested article sub-record. The extension sometimes
// sends it under the legacy "content" key instead of "article".
type ArticleMeta struct {
	Title       string
	Description string
	Text        string
	HTML        string
	Image       string
	PublishedAt string
}

// ProductMeta is the nested product sub-record. Price carries the structured
// form when the extension scraped one; PriceText carries a scalar price.
type ProductMeta struct {
	Title        string
	Description  string
	Image        string
	Availability string
	Currency     string
	Price        *PriceMeta
	PriceText    string
	Rating       map[string]any
}

// PriceMeta is a structured price: a structured amount is only trusted when
// the amount itself is a string.
type PriceMeta struct {
	Amount   string
	Currency string
	Display  string
}

// TodoMeta is the nested to-do sub-record.
type TodoMeta struct {
	Content string
}

// LinkMeta is the nested link sub-record.
type LinkMeta struct {
	Description string
	HTML        string
}

func decodeMetadata(raw json.RawMessage) *Metadata {
	fields, ok := jsonObject(raw)
	if !ok {
		return nil
	}
	m := &Metadata{}
	_ = json.Unmarshal(raw, &m.Raw)

	// The article sub-record may arrive under the legacy "content" key.
	articleRaw := fields["article"]
	if jsonAbsent(articleRaw) {
		articleRaw = fields["content"]
	}
	m.Article = decodeArticleMeta(articleRaw)

	// With no nested product record the flat map itself may carry the
	// product fields.
	productRaw := fields["product"]
	if jsonAbsent(productRaw) {
		productRaw = raw
	}
	m.Product = decodeProductMeta(productRaw)

	m.Todo = decodeTodoMeta(fields["todo"])
	m.Link = decodeLinkMeta(fields["link"])
	return m
}

func decodeArticleMeta(raw json.RawMessage) *ArticleMeta {
	fields, ok := jsonObject(raw)
	if !ok {
		return nil
	}
	return &ArticleMeta{
		Title:       jsonText(fields["title"]),
		Description: jsonText(fields["description"]),
		Text:        jsonText(fields["text"]),
		HTML:        jsonText(fields["html"]),
		Image:       jsonText(fields["image"]),
		PublishedAt: jsonText(fields["publishedAt"]),
	}
}

func decodeProductMeta(raw json.RawMessage) *ProductMeta {
	fields, ok := jsonObject(raw)
	if !ok {
		return nil
	}
	pm := &ProductMeta{
		Title:        jsonText(fields["title"]),
		Description:  jsonText(fields["description"]),
		Image:        jsonString(fields["image"]),
		Availability: jsonString(fields["availability"]),
		Currency:     jsonText(fields["currency"]),
	}
	if priceRaw, exists := fields["price"]; exists {
		if priceFields, isObj := jsonObject(priceRaw); isObj {
			// Only a string amount makes the structured price usable.
			if amount := jsonString(priceFields["amount"]); amount != "" {
				pm.Price = &PriceMeta{
					Amount:   amount,
					Currency: jsonString(priceFields["currency"]),
					Display:  jsonString(priceFields["display"]),
				}
			}
		} else {
			pm.PriceText = jsonText(priceRaw)
		}
	}
	if ratingRaw, exists := fields["rating"]; exists {
		var rating map[string]any
		if err := json.Unmarshal(ratingRaw, &rating); err == nil {
			pm.Rating = rating
		}
	}
	return pm
}

func decodeTodoMeta(raw json.RawMessage) *TodoMeta {
	fields, ok := jsonObject(raw)
	if !ok {
		return nil
	}
	return &TodoMeta{Content: jsonText(fields["content"])}
}

func decodeLinkMeta(raw json.RawMessage) *LinkMeta {
	fields, ok := jsonObject(raw)
	if !ok {
		return nil
	}
	return &LinkMeta{
		Description: jsonText(fields["description"]),
		HTML:        jsonText(fields["html"]),
	}
}

// article returns the nested article sub-record, nil-safe.
func (m *Metadata) article() *ArticleMeta {
	if m == nil || m.Article == nil {
		return &ArticleMeta{}
	}
	return m.Article
}

func (m *Metadata) product() *ProductMeta {
	if m == nil || m.Product == nil {
		return &ProductMeta{}
	}
	return m.Product
}

func (m *Metadata) todo() *TodoMeta {
	if m == nil || m.Todo == nil {
		return &TodoMeta{}
	}
	return m.Todo
}

func (m *Metadata) link() *LinkMeta {
	if m == nil || m.Link == nil {
		return &LinkMeta{}
	}
	return m.Link
}

// stringField reads a legacy flat field ("price", "type", "content", ...)
// from the raw map, accepting strings and numbers.
func (m *Metadata) stringField(key string) string {
	if m == nil {
		return ""
	}
	switch v := m.Raw[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// hasKey reports whether any of the given keys is present in the raw map.
func (m *Metadata) hasKey(keys ...string) bool {
	if m == nil {
		return false
	}
	for _, key := range keys {
		if _, ok := m.Raw[key]; ok {
			return true
		}
	}
	return false
}

// rawMap returns the passthrough form of the metadata for the capture body:
// the original map, or JSON null when none was sent.
func (m *Metadata) rawMap() any {
	if m == nil || m.Raw == nil {
		return nil
	}
	return m.Raw
}

// Normalized is the stable output record of the pipeline. Body is the
// kind-specific structured map; it always includes a "metadata" passthrough
// and, on a degraded fetch, a "processing" marker for the retry job.
type Normalized struct {
	Title     string         `json:"title"`
	Summary   string         `json:"summary,omitempty"`
	Kind      Kind           `json:"kind"`
	SourceURL string         `json:"sourceUrl,omitempty"`
	Body      map[string]any `json:"body"`
	Tags      []string       `json:"tags,omitempty"`
}

// Result is what the pipeline hands to the persistence collaborator.
// NeedsRetry signals that the capture degraded because its content fetch
// failed and a follow-up job should re-run normalization.
type Result struct {
	Kind       Kind       `json:"kind"`
	Capture    Normalized `json:"capture"`
	NeedsRetry bool       `json:"needsRetry"`
}

// Fetch failure reasons stamped into body.processing.reason, one per
// fetching kind.
const (
	ReasonArticleFetchFailed = "html_fetch_failed"
	ReasonProductFetchFailed = "product_fetch_failed"
	ReasonLinkFetchFailed    = "link_fetch_failed"
)

func processingMarker(reason string) map[string]any {
	return map[string]any{"pending": true, "reason": reason}
}

// jsonString decodes raw as a JSON string, treating any other type as absent.
func jsonString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

// jsonText decodes raw as a JSON string or number; metadata producers are
// loose about which of the two they send.
func jsonText(raw json.RawMessage) string {
	if s := jsonString(raw); s != "" {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

func jsonStringSlice(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// jsonAbsent reports a missing or JSON-null value.
func jsonAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

func jsonObject(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if jsonAbsent(raw) {
		return nil, false
	}
	trimmed := bytes.TrimSpace(raw)
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false
	}
	return fields, true
}
