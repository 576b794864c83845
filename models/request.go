package models

// SearchRequest is the payload for POST /api/v1/search.
type SearchRequest struct {
	// Query is the free-text product query. Required.
	Query string `json:"query" binding:"required"`

	// MaxResults caps the number of search candidates fetched and crawled.
	// Default: 5. Hard limit: 10.
	MaxResults int `json:"max_results,omitempty" binding:"omitempty,min=1,max=10"`
}

// Defaults applies default values to unset fields.
func (r *SearchRequest) Defaults() {
	if r.MaxResults == 0 {
		r.MaxResults = 5
	}
}
