// Package ingest prepares pasted input for the pipeline. Users sometimes
// copy a chat page as HTML rather than plain text; this package detects
// that and flattens the markup to line-oriented text.
package ingest

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var tagHintRe = regexp.MustCompile(`(?i)<(?:html|body|div|p|article|main|section)[\s>]`)

// LooksLikeHTML reports whether a paste is markup rather than plain text
func LooksLikeHTML(s string) bool {
	head := s
	if len(head) > 4096 {
		head = head[:4096]
	}
	return tagHintRe.MatchString(head)
}

// Flatten extracts visible text from HTML, emitting newlines at block
// boundaries so the segmenter sees the same line structure a plain-text
// copy would have. Parse failures fall back to the raw input; the
// pipeline degrades rather than failing.
func Flatten(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "svg", "head":
				return
			case "br":
				buf.WriteString("\n")
			case "pre":
				// Preserve whitespace inside code blocks verbatim
				buf.WriteString("\n")
				writeRawText(&buf, n)
				buf.WriteString("\n")
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlockElement(n.Data) {
			buf.WriteString("\n")
		}
	}
	walk(doc)

	return buf.String()
}

func writeRawText(buf *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeRawText(buf, c)
	}
}

func isBlockElement(name string) bool {
	switch name {
	case "p", "div", "li", "ul", "ol", "table", "tr",
		"h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "article", "section":
		return true
	}
	return false
}
