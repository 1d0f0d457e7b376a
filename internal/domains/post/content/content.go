// Package content walks the rich-document tree stored in a post's
// content column. The tree is a ProseMirror-style node document:
// {"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"..."}]}]}
package content

import (
	"encoding/json"
	"fmt"
	"strings"

	"blogcms-backend/internal/shared/utils"
)

type Node struct {
	Type    string                 `json:"type"`
	Text    string                 `json:"text,omitempty"`
	Attrs   map[string]interface{} `json:"attrs,omitempty"`
	Content []Node                 `json:"content,omitempty"`
}

// Heading is one entry of the computed table of contents
type Heading struct {
	Level  int
	Text   string
	Anchor string
}

// MediaRef is a media URL referenced from the content tree
type MediaRef struct {
	URL  string
	Kind string // image, video
}

// Parse decodes a stored content document. Empty input yields an empty doc.
func Parse(raw json.RawMessage) (*Node, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return &Node{Type: "doc"}, nil
	}

	var root Node
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("parse content document: %w", err)
	}
	return &root, nil
}

// Marshal re-encodes a content tree for storage or response payloads
func Marshal(root *Node) (json.RawMessage, error) {
	raw, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("marshal content document: %w", err)
	}
	return raw, nil
}

var blockTypes = map[string]bool{
	"paragraph":  true,
	"heading":    true,
	"codeBlock":  true,
	"blockquote": true,
	"listItem":   true,
}

// PlainText flattens the tree into whitespace-separated text.
// Block boundaries become newlines so word counts stay honest.
func PlainText(root *Node) string {
	var sb strings.Builder
	appendPlainText(root, &sb)
	return strings.TrimSpace(sb.String())
}

func appendPlainText(n *Node, sb *strings.Builder) {
	if n.Type == "text" {
		sb.WriteString(n.Text)
		return
	}
	for i := range n.Content {
		appendPlainText(&n.Content[i], sb)
	}
	if blockTypes[n.Type] {
		sb.WriteString("\n")
	}
}

// TableOfContents collects headings in document order. Anchors reuse the
// slug normalizer so they match what the frontend renders as element IDs.
func TableOfContents(root *Node) []Heading {
	headings := []Heading{}
	walk(root, func(n *Node) {
		if n.Type != "heading" {
			return
		}
		text := PlainText(n)
		if text == "" {
			return
		}
		headings = append(headings, Heading{
			Level:  attrInt(n.Attrs, "level", 1),
			Text:   text,
			Anchor: utils.GenerateSlug(text),
		})
	})
	return headings
}

// MediaRefs extracts every image/video source referenced by the tree
func MediaRefs(root *Node) []MediaRef {
	refs := []MediaRef{}
	seen := map[string]bool{}
	walk(root, func(n *Node) {
		if n.Type != "image" && n.Type != "video" {
			return
		}
		src := attrString(n.Attrs, "src")
		if src == "" || seen[src] {
			return
		}
		seen[src] = true
		refs = append(refs, MediaRef{URL: src, Kind: n.Type})
	})
	return refs
}

const wordsPerMinute = 200

// ReadTimeMinutes estimates reading time from plain text, minimum 1
func ReadTimeMinutes(plainText string) int {
	words := len(strings.Fields(plainText))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// HighlightCodeBlocks annotates every codeBlock node with a highlighted
// HTML rendering of its text. Done at read time so writes never pay for it.
func HighlightCodeBlocks(root *Node) {
	walk(root, func(n *Node) {
		if n.Type != "codeBlock" {
			return
		}
		code := PlainText(n)
		language := attrString(n.Attrs, "language")
		if n.Attrs == nil {
			n.Attrs = map[string]interface{}{}
		}
		n.Attrs["highlightedHtml"] = Highlight(code, language)
	})
}

func walk(n *Node, visit func(*Node)) {
	visit(n)
	for i := range n.Content {
		walk(&n.Content[i], visit)
	}
}

func attrInt(attrs map[string]interface{}, key string, fallback int) int {
	if attrs == nil {
		return fallback
	}
	switch v := attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func attrString(attrs map[string]interface{}, key string) string {
	if attrs == nil {
		return ""
	}
	s, _ := attrs[key].(string)
	return s
}
