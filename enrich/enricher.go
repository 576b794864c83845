package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/use-agent/prodlookup/models"
)

// Enricher runs the LLM-assisted pass that re-derives the record's fields
// from raw page HTML, reconciling the model's reading against values the
// heuristic extractor already found.
type Enricher struct {
	client     *Client
	cache      *Cache
	htmlBudget int
}

// NewEnricher creates an Enricher. htmlBudget bounds how many characters of
// HTML go into the prompt (model context limits).
func NewEnricher(client *Client, cache *Cache, htmlBudget int) *Enricher {
	return &Enricher{client: client, cache: cache, htmlBudget: htmlBudget}
}

// Enrich fills the record's gaps from the model's reading of html. Every
// failure mode (retry exhaustion, missing or malformed JSON) degrades to
// returning the record unchanged — enrichment is never allowed to fail the
// pipeline.
func (e *Enricher) Enrich(ctx context.Context, record models.ProductRecord, html string) models.ProductRecord {
	if html == "" {
		return record
	}

	if data, ok := e.cache.Get(record.SourceURL); ok {
		slog.Info("using cached LLM extraction", "url", record.SourceURL)
		return reconcile(record, data)
	}

	prompt := e.buildPrompt(record, html)
	response, err := e.client.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("enrichment unavailable", "url", record.SourceURL, "error", err)
		return record
	}

	data, ok := parseJSONSpan(response)
	if !ok {
		slog.Warn("no parseable JSON in LLM response", "url", record.SourceURL)
		return record
	}

	// Cache before reconciliation so precedence rules never leak into the
	// cached object.
	e.cache.Put(record.SourceURL, data)
	return reconcile(record, data)
}

// parseJSONSpan locates the first balanced {...} span (first '{' to last
// '}') in the model output and parses it.
func parseJSONSpan(response string) (map[string]any, bool) {
	start := strings.IndexByte(response, '{')
	end := strings.LastIndexByte(response, '}')
	if start < 0 || end <= start {
		return nil, false
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(response[start:end+1]), &data); err != nil {
		slog.Warn("failed to parse LLM response as JSON", "error", err)
		return nil, false
	}
	return data, true
}

// reconcile applies the extracted object to the record.
//
// Identifiers are the record's primary key for downstream dedup, so a
// confident heuristic finding is never overwritten: the model's value is
// adopted only when the existing one is empty or the "Not found" sentinel,
// and only when the model's value does not itself claim "not found".
// Non-identifier fields take the model's value whenever it is present.
func reconcile(record models.ProductRecord, data map[string]any) models.ProductRecord {
	if models.Missing(record.SKUID) {
		if v := stringField(data, "sku_id"); v != "" && !strings.Contains(strings.ToLower(v), "not found") {
			record.SKUID = v
		}
	}
	if models.Missing(record.PartNumber) {
		if v := stringField(data, "part_number"); v != "" && !strings.Contains(strings.ToLower(v), "not found") {
			record.PartNumber = v
		}
	}

	if v := stringField(data, "product_name"); v != "" {
		record.Name = v
	}
	if v := stringField(data, "brand"); v != "" {
		record.Brand = v
	}
	if v := stringField(data, "price"); v != "" {
		record.Price = v
	}
	if v := stringField(data, "description"); v != "" {
		record.Description = v
	}
	return record
}

func stringField(data map[string]any, key string) string {
	v, _ := data[key].(string)
	return v
}

// buildPrompt assembles the extraction prompt with the HTML truncated to the
// configured character budget.
func (e *Enricher) buildPrompt(record models.ProductRecord, html string) string {
	truncated := html
	if len(truncated) > e.htmlBudget {
		truncated = truncated[:e.htmlBudget]
	}

	return fmt.Sprintf(`Extract structured product information from the following HTML content.
The product is likely: %s

MOST IMPORTANT: Find BOTH the SKU ID and part number:

- SKU ID: Typically labeled as SKU, Item #, or Product Code
  Look near "Product Information" or checkout sections
  Check for data attributes like data-sku or data-product-id

- Part Number: Typically labeled as Part #, Model #, or Catalog Number
  Often found in specifications or technical details
  For medical/lab supplies, often formatted as XXX-YYYY-ZZ

Note that SKU ID and part number might be the same in some cases, but extract both when available.
If you cannot find a specific field, respond with "Not found" for that field.

Return ONLY a JSON object with these fields:
- sku_id: The SKU or item number
- part_number: The part or model number
- product_name: The full product name
- brand: The brand or manufacturer
- price: The price with currency symbol
- description: A brief description (max 200 chars)

HTML Content:
%s

Respond with valid JSON only. No introduction or explanation.`, record.Name, truncated)
}
