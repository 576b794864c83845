package extract

import "strings"

// labelPrefixes are stripped from raw extracted values. Ordered longest /
// most specific first so "Part Number:" is never partially stripped by
// "Part".
var labelPrefixes = []string{
	"Part Number:", "Part Number",
	"Article #:", "Article #",
	"Part #:", "Part #",
	"Item #:", "Item #",
	"Model:", "Model",
	"MPN:", "MPN",
	"SKU:", "SKU",
}

// Cleaner normalizes raw extracted identifier strings. The length bounds are
// a heuristic, not a protocol constant: values shorter than MinLen are
// noise, values longer than MaxLen are prose.
type Cleaner struct {
	MinLen int
	MaxLen int
}

// NewCleaner returns a Cleaner with the default [3,30] bounds.
func NewCleaner() *Cleaner {
	return &Cleaner{MinLen: 3, MaxLen: 30}
}

// Clean strips a known label prefix, trims whitespace, and rejects (returns
// "") any value whose length falls outside the plausible identifier range.
func (c *Cleaner) Clean(raw string) string {
	result := strings.TrimSpace(raw)
	if result == "" {
		return ""
	}

	for _, label := range labelPrefixes {
		if strings.HasPrefix(result, label) {
			result = strings.TrimSpace(result[len(label):])
			break
		}
	}

	if len(result) < c.MinLen || len(result) > c.MaxLen {
		return ""
	}
	return result
}
