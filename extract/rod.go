package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-rod/rod"
)

// rodPage implements PageDOM against a live rod page. All probes are
// non-waiting: the cascade must never block on an element that is simply
// not there.
type rodPage struct {
	page *rod.Page
}

// NewRodPage wraps a navigated rod page as a PageDOM. The page should
// already be bound to the request context so every evaluation inherits the
// navigation deadline.
func NewRodPage(page *rod.Page) PageDOM {
	return &rodPage{page: page}
}

func (p *rodPage) URL() string {
	res, err := p.page.Eval(`() => window.location.href`)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// hasTextRe captures the base selector and literal text of the
// :has-text('X') pseudo form.
var hasTextRe = regexp.MustCompile(`^(.*):has-text\(['"](.*)['"]\)$`)

func (p *rodPage) QueryFirstText(selector string) (string, error) {
	if m := hasTextRe.FindStringSubmatch(selector); m != nil {
		has, el, err := p.page.HasR(m[1], regexp.QuoteMeta(m[2]))
		if err != nil || !has {
			return "", err
		}
		text, err := el.Text()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	}

	has, el, err := p.page.Has(selector)
	if err != nil || !has {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (p *rodPage) StructuredData() (map[string]any, error) {
	res, err := p.page.Eval(`() => {
		const block = document.querySelector('script[type="application/ld+json"]');
		return block ? block.textContent : "";
	}`)
	if err != nil {
		return nil, err
	}
	raw := res.Value.Str()
	if raw == "" {
		return nil, nil
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		// Malformed schema block: treat as absent.
		return nil, nil
	}
	return data, nil
}

func (p *rodPage) MetaContent(property string) (string, error) {
	res, err := p.page.Eval(fmt.Sprintf(`() => {
		const meta = document.querySelector('meta[property=%q], meta[name=%q]');
		return meta ? (meta.getAttribute("content") || "") : "";
	}`, property, property))
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (p *rodPage) TextNodes() ([]string, error) {
	res, err := p.page.Eval(`() => {
		const texts = [];
		const walker = document.createTreeWalker(document.body, NodeFilter.SHOW_TEXT);
		let node;
		while ((node = walker.nextNode())) {
			const text = node.textContent.trim();
			if (text) texts.push(text);
		}
		return texts;
	}`)
	if err != nil {
		return nil, err
	}
	items := res.Value.Arr()
	nodes := make([]string, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, item.Str())
	}
	return nodes, nil
}

func (p *rodPage) QueryAttr(selectors []string, attrs []string) (string, error) {
	res, err := p.page.Eval(`(selectors, attrs) => {
		for (const selector of selectors) {
			let el;
			try { el = document.querySelector(selector); } catch (e) { continue; }
			if (!el) continue;
			for (const attr of attrs) {
				if (el.hasAttribute(attr)) return el.getAttribute(attr);
			}
			return el.textContent.trim();
		}
		return "";
	}`, selectors, attrs)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}
