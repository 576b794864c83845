package extract

import "regexp"

// Field identifies which product identifier is being extracted. The cascade
// shape is shared; the field selects which constants each strategy uses.
type Field string

const (
	FieldSKU        Field = "sku_id"
	FieldPartNumber Field = "part_number"
)

// Confidence weights assigned per strategy. They are fixed by strategy, not
// derived from the content itself.
const (
	ConfidenceStructuredData = 95
	ConfidenceMetaTag        = 90
	ConfidenceURLPattern     = 85
	ConfidenceSelector       = 80
	ConfidenceAttribute      = 75
	ConfidenceTextPattern    = 60
)

// Candidate is a single strategy's output for a field.
type Candidate struct {
	Field      Field
	Value      string
	Confidence int
}

// fieldSpec holds the per-field constants consumed by the shared cascade.
type fieldSpec struct {
	// jsonKeys are checked in order against the embedded product schema.
	jsonKeys []string

	// metaProp is the meta tag property/name to read.
	metaProp string

	// urlPatterns are matched in order against the page URL; the first
	// capturing group is the candidate.
	urlPatterns []*regexp.Regexp

	// textPatterns are matched in order against visible text nodes.
	textPatterns []*regexp.Regexp

	// attrSelectors and attrNames drive the attribute-based scan.
	attrSelectors []string
	attrNames     []string
}

// urlIDPatterns match product-identifier shapes commonly embedded in URLs:
// numeric IDs after /p/, numeric prefixes before a hyphenated slug, and
// short alphanumeric codes like 960A/10.
var urlIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/p[/-](\d{6,10})\b`),
	regexp.MustCompile(`/(\d{5,10})-`),
	regexp.MustCompile(`(?i)/([A-Z0-9]{2,6}[-/][0-9]{1,4})/`),
}

var fieldSpecs = map[Field]fieldSpec{
	FieldSKU: {
		jsonKeys:    []string{"sku", "productID"},
		metaProp:    "product:sku",
		urlPatterns: urlIDPatterns,
		textPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:SKU|Item|Article|Product Code)[#:\s]+([A-Z0-9\-/]{4,15})\b`),
			regexp.MustCompile(`\b([A-Z]{2,4}[0-9]{3,10})\b`),
			regexp.MustCompile(`\b([0-9]{5,10}[A-Z]{1,3})\b`),
		},
		attrSelectors: []string{
			`[data-sku]`, `[data-product-id]`, `[data-item-number]`,
			`[itemprop="sku"]`, `[itemprop="productID"]`, `[id*="product-id"]`,
		},
		attrNames: []string{"data-sku", "data-product-id", "data-item-number", "content"},
	},
	FieldPartNumber: {
		jsonKeys:    []string{"mpn", "model"},
		metaProp:    "product:mpn",
		urlPatterns: urlIDPatterns,
		textPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:Part|Model|MPN|Cat|Catalog)[#:\s]+([A-Z0-9\-/]{4,15})\b`),
			regexp.MustCompile(`\b([A-Z]{2,4}[0-9]{3,10})\b`),
			regexp.MustCompile(`\b([0-9]{5,10}[A-Z]{1,3})\b`),
		},
		attrSelectors: []string{
			`[data-part-number]`, `[data-model]`, `[data-mpn]`,
			`[itemprop="mpn"]`, `[id*="part-number"]`,
		},
		attrNames: []string{"data-part-number", "data-model", "data-mpn", "content"},
	},
}

// stopWords are generic words a free-text pattern match must not produce:
// they show up next to identifier labels in prose and are never identifiers.
var stopWords = map[string]struct{}{
	"requires": {}, "includes": {}, "contains": {}, "features": {},
	"warranty": {}, "optional": {}, "recommended": {}, "available": {},
	"specifications": {}, "details": {}, "standard": {}, "package": {},
	"content": {}, "product": {}, "online": {},
}
