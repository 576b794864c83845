package crawler

import (
	"context"
	"log/slog"

	"github.com/use-agent/prodlookup/extract"
	"github.com/use-agent/prodlookup/models"
)

// Process crawls every candidate and returns the enriched records, in input
// order. Candidates are processed in fixed-size batches, sequentially within
// a batch to bound simultaneous navigation and LLM load, with a fixed
// courtesy delay between batches. A failure on one candidate yields a
// fallback record and never aborts its siblings.
func (c *Crawler) Process(ctx context.Context, candidates []models.ProductRecord) []models.ProductRecord {
	results := make([]models.ProductRecord, 0, len(candidates))

	batchSize := c.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	for start := 0; start < len(candidates); start += batchSize {
		end := min(start+batchSize, len(candidates))

		for _, candidate := range candidates[start:end] {
			slog.Info("scraping product details", "url", candidate.SourceURL)
			results = append(results, c.processOne(ctx, candidate))
		}

		if end < len(candidates) {
			c.sleep(c.cfg.BatchDelay)
		}
	}

	return results
}

// processOne handles a single candidate end to end. The page scope is
// released on every exit path; any error collapses into a fallback record.
func (c *Crawler) processOne(ctx context.Context, candidate models.ProductRecord) models.ProductRecord {
	session, err := c.open(ctx, candidate.SourceURL)
	if err != nil {
		slog.Error("failed to open product page", "url", candidate.SourceURL, "error", err)

		// Some pages refuse automated browsers but serve plain HTTP fine.
		// Retry over HTTP with a Chrome TLS fingerprint and extract from
		// the static HTML before giving up.
		if c.fetcher != nil {
			if body, fetchErr := c.fetcher.fetch(ctx, candidate.SourceURL, ""); fetchErr == nil {
				if dom, parseErr := extract.NewStaticPage(candidate.SourceURL, string(body)); parseErr == nil {
					slog.Info("using HTTP fetch fallback", "url", candidate.SourceURL)
					return c.buildRecord(ctx, candidate, dom, string(body))
				}
			} else {
				slog.Debug("HTTP fetch fallback failed", "url", candidate.SourceURL, "error", fetchErr)
			}
		}

		return fallbackRecord(candidate)
	}
	defer session.close()

	return c.buildRecord(ctx, candidate, session.dom, session.html)
}

// buildRecord runs the two extraction passes and the enrichment call for a
// navigated page.
func (c *Crawler) buildRecord(ctx context.Context, candidate models.ProductRecord,
	dom extract.PageDOM, html string) models.ProductRecord {

	record := candidate
	if record.Brand == "" {
		record.Brand = models.NotFound
	}
	if record.Price == "" {
		record.Price = models.NotFound
	}

	record.SKUID = c.extractIdentifier(dom, extract.FieldSKU)
	record.PartNumber = c.extractIdentifier(dom, extract.FieldPartNumber)

	if html != "" {
		record = c.enricher.Enrich(ctx, record, html)
	}
	return record
}

// extractIdentifier runs one field's cascade through the cleaner, reporting
// the not-found sentinel when no usable value survives.
func (c *Crawler) extractIdentifier(dom extract.PageDOM, field extract.Field) string {
	candidate, ok := c.extractor.Extract(dom, field)
	if !ok {
		return models.NotFound
	}
	cleaned := c.cleaner.Clean(candidate.Value)
	if cleaned == "" {
		slog.Debug("extracted identifier rejected by cleaner",
			"field", field, "raw", candidate.Value)
		return models.NotFound
	}
	slog.Info("identifier extracted",
		"field", field, "value", cleaned, "confidence", candidate.Confidence)
	return cleaned
}

// fallbackRecord is the failure-isolated stand-in for a candidate whose page
// could not be processed.
func fallbackRecord(candidate models.ProductRecord) models.ProductRecord {
	record := candidate
	record.SKUID = models.NotFound
	record.PartNumber = models.NotFound
	if record.Brand == "" {
		record.Brand = models.NotFound
	}
	if record.Price == "" {
		record.Price = models.NotFound
	}
	if record.Description == "" {
		record.Description = "Error occurred during extraction"
	}
	return record
}
