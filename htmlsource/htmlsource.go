// Package htmlsource implements the text-extraction collaborator for HTML
// documents. The markup's own structure does most of the work: h1-h6
// elements become native table-of-contents entries, and every element is
// emitted as a text block with synthetic typography so the downstream
// classifier sees HTML and PDF sources through the same model.
package htmlsource

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/lectio/model"
)

// headingSizes are the synthetic font sizes assigned to h1-h6 so size-based
// classification behaves consistently across source formats.
var headingSizes = map[string]float64{
	"h1": 24, "h2": 20, "h3": 18, "h4": 16, "h5": 14, "h6": 13,
}

// bodySize is the synthetic font size for non-heading text.
const bodySize = 12

// Extractor extracts text blocks from HTML files.
type Extractor struct{}

// New creates an HTML extractor
func New() *Extractor {
	return &Extractor{}
}

// Extract parses the HTML file at path into a single-page document whose
// headings double as native table-of-contents entries.
func (e *Extractor) Extract(path string) (*model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return e.extract(f, filepath.Base(path), path)
}

// ExtractReader parses HTML from an io.Reader.
func (e *Extractor) ExtractReader(r io.Reader, id string) (*model.Document, error) {
	return e.extract(r, id, id)
}

func (e *Extractor) extract(r io.Reader, id, path string) (*model.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	doc := model.NewDocument(id, path)
	doc.PageCount = 1

	body := findElement(root, "body")
	if body == nil {
		body = root
	}
	e.walk(body, doc)

	if doc.PageCount == 0 {
		doc.PageCount = 1
	}
	return doc, nil
}

// walk traverses the DOM emitting blocks for headings and paragraphs.
func (e *Extractor) walk(n *html.Node, doc *model.Document) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "head", "nav":
			return

		case "h1", "h2", "h3", "h4", "h5", "h6":
			text := collapse(textContent(n))
			if text != "" {
				level := int(n.Data[1] - '0')
				doc.TOC = append(doc.TOC, model.TOCEntry{
					Level: level,
					Title: text,
					Page:  1,
				})
				doc.AddBlock(model.TextBlock{
					Text:     text,
					Page:     1,
					FontSize: headingSizes[n.Data],
					Bold:     true,
					Case:     model.DetectCase(text),
					GapAbove: 2,
					GapBelow: 2,
				})
			}
			return

		case "p", "li", "td", "th", "blockquote", "pre", "figcaption":
			text := collapse(textContent(n))
			if text != "" {
				doc.AddBlock(model.TextBlock{
					Text:     text,
					Page:     1,
					FontSize: bodySize,
					Case:     model.DetectCase(text),
					GapAbove: 1,
					GapBelow: 1,
				})
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c, doc)
	}
}

// textContent returns the concatenated text of a node's subtree.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// collapse trims and collapses whitespace runs.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
