package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/use-agent/prodlookup/models"
)

// hardMaxResults is the upper bound on candidates per query regardless of
// configuration.
const hardMaxResults = 10

// Client queries the Google Programmable Search Engine for product
// candidates.
type Client struct {
	httpClient *http.Client
	apiKey     string
	engineID   string
	baseURL    string
	maxResults int
}

// NewClient creates a search client. maxResults is clamped to the hard
// limit of 10.
func NewClient(apiKey, engineID, baseURL string, maxResults int) *Client {
	if maxResults <= 0 || maxResults > hardMaxResults {
		maxResults = hardMaxResults
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		engineID:   engineID,
		baseURL:    baseURL,
		maxResults: maxResults,
	}
}

// searchResponse is the subset of the Custom Search response we consume.
type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"items"`
}

// Search returns up to max product candidates for the query. Results
// without a link are dropped: there is nothing to crawl. Titles seed the
// record name and snippets the description; identifiers start empty for the
// extractor to fill.
func (c *Client) Search(ctx context.Context, query string, max int) ([]models.ProductRecord, error) {
	if max <= 0 || max > c.maxResults {
		max = c.maxResults
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(max))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, models.NewLookupError(models.ErrCodeSearchFailed, "create search request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewLookupError(models.ErrCodeSearchFailed, "search request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewLookupError(models.ErrCodeSearchFailed, "read search response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, models.NewLookupError(models.ErrCodeSearchFailed,
			fmt.Sprintf("search API returned %d", resp.StatusCode), nil)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, models.NewLookupError(models.ErrCodeSearchFailed, "parse search response", err)
	}

	candidates := make([]models.ProductRecord, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Link == "" {
			continue
		}
		candidates = append(candidates, models.ProductRecord{
			Name:        item.Title,
			Description: item.Snippet,
			SourceURL:   item.Link,
		})
	}

	slog.Info("search candidates found", "query", query, "count", len(candidates))
	return candidates, nil
}
