package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// staticPage implements PageDOM over raw HTML, without a browser. It backs
// the HTTP-fetch fallback path (no live page to evaluate JS against) and the
// extractor tests.
type staticPage struct {
	url string
	doc *goquery.Document
}

// NewStaticPage parses rawHTML into a PageDOM rooted at url.
func NewStaticPage(url, rawHTML string) (PageDOM, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse static page: %w", err)
	}
	return &staticPage{url: url, doc: doc}, nil
}

func (p *staticPage) URL() string { return p.url }

// rewriteHasText translates the config's :has-text('X') pseudo form into
// cascadia's :contains('X').
func rewriteHasText(selector string) string {
	return strings.ReplaceAll(selector, ":has-text(", ":contains(")
}

// compile parses the selector so malformed config entries surface as
// per-strategy errors instead of silent empty matches.
func compile(selector string) (cascadia.Selector, error) {
	return cascadia.Compile(rewriteHasText(selector))
}

func (p *staticPage) QueryFirstText(selector string) (string, error) {
	sel, err := compile(selector)
	if err != nil {
		return "", fmt.Errorf("selector %q: %w", selector, err)
	}
	match := p.doc.FindMatcher(sel).First()
	if match.Length() == 0 {
		return "", nil
	}
	return strings.TrimSpace(match.Text()), nil
}

func (p *staticPage) StructuredData() (map[string]any, error) {
	block := p.doc.Find(`script[type="application/ld+json"]`).First()
	if block.Length() == 0 {
		return nil, nil
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(block.Text()), &data); err != nil {
		// Malformed schema block: treat as absent, like the live page does.
		return nil, nil
	}
	return data, nil
}

func (p *staticPage) MetaContent(property string) (string, error) {
	sel := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, property, property)
	meta := p.doc.Find(sel).First()
	if meta.Length() == 0 {
		return "", nil
	}
	content, _ := meta.Attr("content")
	return content, nil
}

func (p *staticPage) TextNodes() ([]string, error) {
	root := p.doc.Get(0)
	var nodes []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				nodes = append(nodes, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return nodes, nil
}

func (p *staticPage) QueryAttr(selectors []string, attrs []string) (string, error) {
	for _, selector := range selectors {
		sel, err := compile(selector)
		if err != nil {
			continue
		}
		match := p.doc.FindMatcher(sel).First()
		if match.Length() == 0 {
			continue
		}
		for _, attr := range attrs {
			if v, ok := match.Attr(attr); ok {
				return v, nil
			}
		}
		return strings.TrimSpace(match.Text()), nil
	}
	return "", nil
}
