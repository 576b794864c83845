package models

// SearchResponse is the response for POST /api/v1/search.
type SearchResponse struct {
	// Success indicates whether the lookup completed without a fatal error.
	// Per-item extraction failures do not clear it; they surface as records
	// carrying the "Not found" sentinel instead.
	Success bool `json:"success"`

	// Query echoes the request query.
	Query string `json:"query"`

	// Products is the list of enriched product records.
	Products []ProductRecord `json:"products"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// SearchMs is the time spent in the keyword search call.
	SearchMs int64 `json:"search_ms"`

	// CrawlMs is the time spent navigating, extracting, and enriching.
	CrawlMs int64 `json:"crawl_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"` // "healthy" or "degraded"
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
