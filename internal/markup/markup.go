// Package markup parses untrusted HTML once and exposes the lookups the
// capture normalizers need: meta tags, OpenGraph fields, the document title,
// the first image, and readable text.
package markup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	"golang.org/x/net/html"

	"github.com/synapsehq/capture/internal/textutil"
)

// Document wraps a parsed HTML document. All lookups are nil-safe and return
// empty strings when the markup is empty or malformed; parsing never fails.
type Document struct {
	doc  *goquery.Document
	og   *opengraph.OpenGraph
	root *html.Node
}

// Parse builds a Document from raw markup. Hostile or irregular input is
// tolerated: the html5 parser always produces a tree, and an empty input
// yields a Document whose lookups all come back empty.
func Parse(input string) *Document {
	d := &Document{}
	if strings.TrimSpace(input) == "" {
		return d
	}
	if node, err := html.Parse(strings.NewReader(input)); err == nil {
		d.root = node
		d.doc = goquery.NewDocumentFromNode(node)
	}
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(input)); err == nil {
		d.og = og
	}
	return d
}

// MetaTag returns the content attribute of <meta property="key">, falling
// back to <meta name="key">, else the empty string.
func (d *Document) MetaTag(key string) string {
	if d.doc == nil {
		return ""
	}
	sel := fmt.Sprintf(`meta[property=%q]`, key)
	if content, ok := d.doc.Find(sel).First().Attr("content"); ok {
		return content
	}
	sel = fmt.Sprintf(`meta[name=%q]`, key)
	if content, ok := d.doc.Find(sel).First().Attr("content"); ok {
		return content
	}
	return ""
}

// Title returns the normalized text of the <title> element.
func (d *Document) Title() string {
	if d.doc == nil {
		return ""
	}
	return textutil.NormalizeWhitespace(d.doc.Find("title").First().Text())
}

// OGTitle returns the OpenGraph title, if any.
func (d *Document) OGTitle() string {
	if d.og == nil {
		return ""
	}
	return d.og.Title
}

// OGDescription returns the OpenGraph description, if any.
func (d *Document) OGDescription() string {
	if d.og == nil {
		return ""
	}
	return d.og.Description
}

// OGImage returns the URL of the first OpenGraph image, if any.
func (d *Document) OGImage() string {
	if d.og == nil || len(d.og.Images) == 0 {
		return ""
	}
	return d.og.Images[0].URL
}

// FirstImage returns the src of the first <img> element, if any.
func (d *Document) FirstImage() string {
	if d.doc == nil {
		return ""
	}
	src, _ := d.doc.Find("img").First().Attr("src")
	return strings.TrimSpace(src)
}

// VisibleText extracts readable text, preferring the first <article>
// element, else the first <main> element, else <body>, with whitespace
// collapsed. Script and style contents are skipped.
func (d *Document) VisibleText() string {
	if d.root == nil {
		return ""
	}
	content := findFirst(d.root, "article")
	if content == nil {
		content = findFirst(d.root, "main")
	}
	if content == nil {
		content = findFirst(d.root, "body")
	}
	if content == nil {
		return ""
	}
	var b strings.Builder
	collectText(&b, content)
	return textutil.NormalizeWhitespace(b.String())
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "template":
			return
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}
