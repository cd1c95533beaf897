package capture

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) *Payload {
	t.Helper()
	p := &Payload{}
	if err := json.Unmarshal([]byte(raw), p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return p
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"ARTICLE", KindArticle, true},
		{"product", KindProduct, true},
		{"ToDo", KindTodo, true},
		{" link ", KindLink, true},
		{"", "", false},
		{"bookmark", "", false},
	}
	for _, c := range cases {
		got, ok := ParseKind(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseKind(%q) = %q, %v", c.in, got, ok)
		}
	}
}

func TestPayloadDecode_WrongTypedFieldsDropped(t *testing.T) {
	p := decode(t, `{"url": 42, "title": ["not a string"], "selectedText": "kept", "tags": "oops"}`)
	if p.URL != "" || p.Title != "" {
		t.Fatalf("wrong-typed fields should decode as absent: %+v", p)
	}
	if p.SelectedText != "kept" {
		t.Fatalf("well-typed field lost: %+v", p)
	}
	if p.Tags != nil {
		t.Fatalf("wrong-typed tags should be absent, got %v", p.Tags)
	}
}

func TestPayloadDecode_TagsKeepStringElements(t *testing.T) {
	p := decode(t, `{"tags": ["a", 1, "b", null, "c"]}`)
	if len(p.Tags) != 3 || p.Tags[0] != "a" || p.Tags[1] != "b" || p.Tags[2] != "c" {
		t.Fatalf("unexpected tags: %v", p.Tags)
	}
}

func TestPayloadDecode_MalformedMetadataIgnored(t *testing.T) {
	for _, raw := range []string{
		`{"metadata": "a string"}`,
		`{"metadata": [1, 2]}`,
		`{"metadata": null}`,
	} {
		p := decode(t, raw)
		if p.Metadata != nil {
			t.Fatalf("metadata should be absent for %s, got %+v", raw, p.Metadata)
		}
	}
}

func TestPayloadDecode_NestedMetadata(t *testing.T) {
	p := decode(t, `{
		"html": "<p>x</p>",
		"metadata": {
			"article": {"title": "Nested", "publishedAt": "2024-01-01"},
			"type": "article",
			"price": "19 USD"
		}
	}`)
	if p.Markup != "<p>x</p>" {
		t.Fatalf("markup should decode from the html key, got %q", p.Markup)
	}
	m := p.Metadata
	if m == nil || m.Article == nil {
		t.Fatalf("expected article sub-record, got %+v", m)
	}
	if m.Article.Title != "Nested" || m.Article.PublishedAt != "2024-01-01" {
		t.Fatalf("unexpected article meta: %+v", m.Article)
	}
	if m.stringField("type") != "article" {
		t.Fatalf("flat type field lost")
	}
	if !m.hasKey("price") || m.stringField("price") != "19 USD" {
		t.Fatalf("flat price field lost")
	}
}

func TestPayloadDecode_ArticleUnderLegacyContentKey(t *testing.T) {
	p := decode(t, `{"metadata": {"content": {"title": "Legacy", "text": "body"}}}`)
	if p.Metadata == nil || p.Metadata.Article == nil {
		t.Fatalf("expected article decoded from content key")
	}
	if p.Metadata.Article.Title != "Legacy" || p.Metadata.Article.Text != "body" {
		t.Fatalf("unexpected article meta: %+v", p.Metadata.Article)
	}
}

func TestPayloadDecode_ProductPriceShapes(t *testing.T) {
	// Structured price with string amount.
	p := decode(t, `{"metadata": {"product": {"price": {"amount": "5.00", "currency": "EUR", "display": "€5.00"}}}}`)
	pm := p.Metadata.Product
	if pm == nil || pm.Price == nil {
		t.Fatalf("expected structured price, got %+v", pm)
	}
	if pm.Price.Amount != "5.00" || pm.Price.Currency != "EUR" || pm.Price.Display != "€5.00" {
		t.Fatalf("unexpected price: %+v", pm.Price)
	}

	// Structured price with a non-string amount is not trusted.
	p = decode(t, `{"metadata": {"product": {"price": {"amount": 5}}}}`)
	if p.Metadata.Product.Price != nil {
		t.Fatalf("numeric amount should not produce a structured price")
	}

	// Scalar price is kept as text.
	p = decode(t, `{"metadata": {"product": {"price": "12.50"}}}`)
	if p.Metadata.Product.PriceText != "12.50" {
		t.Fatalf("unexpected scalar price: %+v", p.Metadata.Product)
	}
}

func TestPayloadDecode_ProductFallsBackToFlatMap(t *testing.T) {
	p := decode(t, `{"metadata": {"title": "Flat Product", "currency": "CAD"}}`)
	pm := p.Metadata.Product
	if pm == nil || pm.Title != "Flat Product" || pm.Currency != "CAD" {
		t.Fatalf("expected flat-map product fields, got %+v", pm)
	}
}

func TestPayloadDecode_MetadataRawPreserved(t *testing.T) {
	p := decode(t, `{"metadata": {"custom": {"deep": true}, "n": 7}}`)
	raw := p.Metadata.Raw
	if raw["n"] != float64(7) {
		t.Fatalf("raw map should keep unknown fields, got %v", raw)
	}
	if _, ok := raw["custom"].(map[string]any); !ok {
		t.Fatalf("raw map should keep nested values, got %T", raw["custom"])
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	p := decode(t, `{"url": "https://e.com", "title": "T", "kind": "link", "tags": ["x"], "context": {"source": "ext"}}`)
	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	p2 := &Payload{}
	if err := json.Unmarshal(out, p2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p2.URL != p.URL || p2.Title != p.Title || p2.Kind != p.Kind || p2.Tags[0] != "x" {
		t.Fatalf("round trip mismatch: %+v", p2)
	}
}
