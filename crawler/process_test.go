package crawler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/prodlookup/config"
	"github.com/use-agent/prodlookup/enrich"
	"github.com/use-agent/prodlookup/extract"
	"github.com/use-agent/prodlookup/models"
)

const productHTML = `<html><head></head><body>
<span class="sku">SKU: WID-500</span>
<span class="part-number">Part #: 960A-10</span>
</body></html>`

// newTestCrawler builds a Crawler with no browser behind it. open and the
// batch sleep are replaced so orchestration is observable and instant.
func newTestCrawler(t *testing.T, cfg config.CrawlerConfig, open openFunc, slept *[]time.Duration) *Crawler {
	t.Helper()
	cleaner := extract.NewCleaner()
	client := enrich.NewClient(nil, "http://127.0.0.1:1", "test-model", 1, time.Millisecond)
	return &Crawler{
		extractor: extract.NewExtractor(extract.DefaultConfig(), cleaner, extract.PolicyFirstSuccess),
		cleaner:   cleaner,
		enricher:  enrich.NewEnricher(client, enrich.NewCache(), 4000),
		cfg:       cfg,
		open:      open,
		sleep: func(d time.Duration) {
			*slept = append(*slept, d)
		},
	}
}

func staticOpen(t *testing.T) openFunc {
	t.Helper()
	return func(ctx context.Context, pageURL string) (*pageSession, error) {
		dom, err := extract.NewStaticPage(pageURL, productHTML)
		require.NoError(t, err)
		// Empty html skips the enrichment pass; these tests exercise
		// orchestration and heuristic extraction only.
		return &pageSession{dom: dom, html: "", close: func() {}}, nil
	}
}

func candidates(n int) []models.ProductRecord {
	out := make([]models.ProductRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.ProductRecord{
			Name:      fmt.Sprintf("Widget %d", i),
			SourceURL: fmt.Sprintf("https://shop.example.com/widget-%d/p/3038917%d", i, i),
		})
	}
	return out
}

func TestProcess_BatchDelays(t *testing.T) {
	cfg := config.CrawlerConfig{BatchSize: 3, BatchDelay: 2 * time.Second}
	var slept []time.Duration
	c := newTestCrawler(t, cfg, staticOpen(t), &slept)

	results := c.Process(context.Background(), candidates(7))

	require.Len(t, results, 7)
	// 7 candidates in batches of 3 means two inter-batch pauses; none after
	// the final batch.
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, slept)
}

func TestProcess_NoDelayAfterLastBatch(t *testing.T) {
	cfg := config.CrawlerConfig{BatchSize: 3, BatchDelay: 2 * time.Second}
	var slept []time.Duration
	c := newTestCrawler(t, cfg, staticOpen(t), &slept)

	c.Process(context.Background(), candidates(3))
	assert.Empty(t, slept)
}

func TestProcess_ExtractsIdentifiers(t *testing.T) {
	cfg := config.CrawlerConfig{BatchSize: 3}
	var slept []time.Duration
	c := newTestCrawler(t, cfg, staticOpen(t), &slept)

	results := c.Process(context.Background(), candidates(1))

	require.Len(t, results, 1)
	got := results[0]
	assert.Equal(t, "WID-500", got.SKUID)
	assert.Equal(t, "960A-10", got.PartNumber)
	assert.Equal(t, "Widget 0", got.Name)
	assert.Equal(t, models.NotFound, got.Brand)
	assert.Equal(t, models.NotFound, got.Price)
}

func TestProcess_FailureYieldsFallbackRecord(t *testing.T) {
	cfg := config.CrawlerConfig{BatchSize: 3}
	var slept []time.Duration

	failSecond := func(ctx context.Context, pageURL string) (*pageSession, error) {
		if pageURL == "https://shop.example.com/widget-1/p/30389171" {
			return nil, errors.New("net::ERR_CONNECTION_REFUSED")
		}
		dom, err := extract.NewStaticPage(pageURL, productHTML)
		require.NoError(t, err)
		return &pageSession{dom: dom, html: "", close: func() {}}, nil
	}
	c := newTestCrawler(t, cfg, failSecond, &slept)

	results := c.Process(context.Background(), candidates(3))
	require.Len(t, results, 3)

	// Siblings of the failed candidate are unaffected.
	assert.Equal(t, "WID-500", results[0].SKUID)
	assert.Equal(t, "WID-500", results[2].SKUID)

	failed := results[1]
	assert.Equal(t, models.NotFound, failed.SKUID)
	assert.Equal(t, models.NotFound, failed.PartNumber)
	assert.Equal(t, "Error occurred during extraction", failed.Description)
	assert.Equal(t, "Widget 1", failed.Name)
}

func TestProcess_SessionAlwaysClosed(t *testing.T) {
	cfg := config.CrawlerConfig{BatchSize: 2}
	var slept []time.Duration
	var closed int

	open := func(ctx context.Context, pageURL string) (*pageSession, error) {
		dom, err := extract.NewStaticPage(pageURL, productHTML)
		require.NoError(t, err)
		return &pageSession{dom: dom, close: func() { closed++ }}, nil
	}
	c := newTestCrawler(t, cfg, open, &slept)

	c.Process(context.Background(), candidates(4))
	assert.Equal(t, 4, closed)
}

func TestProcess_ZeroBatchSizeStillProgresses(t *testing.T) {
	cfg := config.CrawlerConfig{BatchSize: 0, BatchDelay: time.Second}
	var slept []time.Duration
	c := newTestCrawler(t, cfg, staticOpen(t), &slept)

	results := c.Process(context.Background(), candidates(2))
	require.Len(t, results, 2)
	assert.Equal(t, []time.Duration{time.Second}, slept)
}

func TestProcess_EmptyInput(t *testing.T) {
	cfg := config.CrawlerConfig{BatchSize: 3}
	var slept []time.Duration
	c := newTestCrawler(t, cfg, staticOpen(t), &slept)

	results := c.Process(context.Background(), nil)
	assert.Empty(t, results)
	assert.Empty(t, slept)
}

func TestFallbackRecord_PreservesExistingDescription(t *testing.T) {
	record := fallbackRecord(models.ProductRecord{
		Name:        "Widget",
		Description: "From search snippet.",
		SourceURL:   "https://shop.example.com/widget",
	})
	assert.Equal(t, "From search snippet.", record.Description)
	assert.Equal(t, models.NotFound, record.SKUID)
}
