package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/prodlookup/config"
	"github.com/use-agent/prodlookup/crawler"
	"github.com/use-agent/prodlookup/models"
	"github.com/use-agent/prodlookup/search"
	"github.com/use-agent/prodlookup/webhook"
)

// Search returns a handler for POST /api/v1/search.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Search client → candidate records        (records search_ms)
//  3. Crawler.Process → enriched records        (records crawl_ms)
//  4. Optional webhook notification, return 200.
//
// An empty candidate list is a successful response with zero products; only
// a failing search call surfaces as an error.
func Search(sc *search.Client, cr *crawler.Crawler, webhookCfg config.WebhookConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.SearchResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		// ── 2. Candidate search ─────────────────────────────────────
		searchStart := time.Now()
		candidates, err := sc.Search(c.Request.Context(), req.Query, req.MaxResults)
		searchMs := time.Since(searchStart).Milliseconds()

		if err != nil {
			respondError(c, req.Query, err, models.TimingInfo{
				TotalMs:  time.Since(totalStart).Milliseconds(),
				SearchMs: searchMs,
			})
			return
		}

		// ── 3. Crawl + extract + enrich ─────────────────────────────
		crawlStart := time.Now()
		products := cr.Process(c.Request.Context(), candidates)
		crawlMs := time.Since(crawlStart).Milliseconds()

		resp := models.SearchResponse{
			Success:  true,
			Query:    req.Query,
			Products: products,
			Timing: models.TimingInfo{
				TotalMs:  time.Since(totalStart).Milliseconds(),
				SearchMs: searchMs,
				CrawlMs:  crawlMs,
			},
		}

		// ── 4. Notify + respond ─────────────────────────────────────
		if webhookCfg.URL != "" {
			webhook.DeliverAsync(webhookCfg.URL, webhookCfg.Secret, &webhook.Event{
				Type:      "search.completed",
				Query:     req.Query,
				Timestamp: time.Now().Unix(),
				Data:      resp,
			})
		}

		c.JSON(http.StatusOK, resp)
	}
}

// respondError maps a LookupError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, query string, err error, timing models.TimingInfo) {
	lookupErr, ok := err.(*models.LookupError)
	if !ok {
		lookupErr = models.NewLookupError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(lookupErr), models.SearchResponse{
		Success: false,
		Query:   query,
		Error:   lookupErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.LookupError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeSearchFailed, models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
