package capture

import (
	"context"
	"fmt"
	"regexp"

	"github.com/synapsehq/capture/internal/textutil"
)

// TodoItem is one actionable entry of a captured list. Items always start
// out not done; completion state lives with the persistence layer.
type TodoItem struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

var (
	lineSplitPattern  = regexp.MustCompile(`\n+`)
	bulletMarkPattern = regexp.MustCompile(`^\s*[-*•\[\]]\s*`)
)

// normalizeTodo turns a bullet or checkbox list into {items}. It is the one
// normalizer that never fetches, so it can never need a retry.
func (pl *Pipeline) normalizeTodo(_ context.Context, p *Payload) (Normalized, bool) {
	tm := p.Metadata.todo()
	source := firstNonEmpty(
		p.SelectedText,
		tm.Content,
		p.Markup,
		p.Metadata.stringField("content"),
	)
	items := parseTodoItems(source)

	title := firstNonEmpty(
		textutil.NormalizeWhitespace(p.Title),
		textutil.NormalizeWhitespace(p.Metadata.stringField("title")),
	)
	if title == "" {
		if len(items) > 0 {
			title = fmt.Sprintf("To-do (%d items)", len(items))
		} else {
			title = "New to-do list"
		}
	}

	summary := "Captured to-do list."
	if n := len(items); n > 0 {
		noun := "items"
		if n == 1 {
			noun = "item"
		}
		summary = fmt.Sprintf("Captured %d to-do %s.", n, noun)
	}

	return Normalized{
		Title:     title,
		Summary:   summary,
		Kind:      KindTodo,
		SourceURL: p.URL,
		Body: map[string]any{
			"items":    items,
			"metadata": p.Metadata.rawMap(),
		},
		Tags: p.Tags,
	}, false
}

// parseTodoItems splits the source on newlines, strips one leading bullet or
// checkbox marker per line, and drops empty lines.
func parseTodoItems(source string) []TodoItem {
	items := []TodoItem{}
	for _, line := range lineSplitPattern.Split(source, -1) {
		label := textutil.NormalizeWhitespace(bulletMarkPattern.ReplaceAllString(line, ""))
		if label == "" {
			continue
		}
		items = append(items, TodoItem{Label: label})
	}
	return items
}
