package extract

import "strings"

// PageDOM is the capability set the extractor needs from a rendered page.
// The cascade depends only on this interface, never on the scripting
// mechanism behind it: the live implementation evaluates JS against a rod
// page, the static implementation queries parsed HTML.
type PageDOM interface {
	// URL returns the page's current URL.
	URL() string

	// QueryFirstText returns the trimmed text content of the first element
	// matching the selector, or "" when nothing matches. Selectors may use
	// the :has-text('X') pseudo form meaning "element containing literal X".
	QueryFirstText(selector string) (string, error)

	// StructuredData returns the first embedded product-schema JSON object
	// (script[type="application/ld+json"]), or nil when absent or malformed.
	StructuredData() (map[string]any, error)

	// MetaContent returns the content attribute of the meta tag with the
	// given property or name, or "" when absent.
	MetaContent(property string) (string, error)

	// TextNodes returns the page's non-empty visible text nodes in document
	// order.
	TextNodes() ([]string, error)

	// QueryAttr finds the first element matching any of the selectors (in
	// order) and returns the first present attribute from attrs, falling
	// back to the element's text content.
	QueryAttr(selectors []string, attrs []string) (string, error)
}

// categoryPathFragments mark listing pages. Identifiers scraped from a page
// that enumerates many products are unreliable by construction, so
// extraction is skipped entirely when the URL contains one of these.
var categoryPathFragments = []string{"/c/", "/category/", "/collection/", "/products/"}

// IsCategoryPage reports whether the URL looks like a category/listing page.
func IsCategoryPage(url string) bool {
	for _, fragment := range categoryPathFragments {
		if strings.Contains(url, fragment) {
			return true
		}
	}
	return false
}
