package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/use-agent/prodlookup/models"
)

// Client is a lightweight Ollama-compatible API client for generative
// extraction. It uses net/http directly — no third-party SDK needed.
type Client struct {
	httpClient *http.Client
	host       string
	model      string
	maxRetries int
	baseDelay  time.Duration
}

// NewClient creates an LLM client for the given endpoint. Pass nil to use a
// default http.Client.
func NewClient(httpClient *http.Client, host, model string, maxRetries int, baseDelay time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		httpClient: httpClient,
		host:       strings.TrimRight(host, "/"),
		model:      model,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// generateRequest is the /api/generate request body.
type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
}

// generateResponse is the minimal /api/generate response we need.
type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends the prompt to the model and returns its raw text output.
// Each attempt is independent; a transport error or non-200 status counts
// as a failed attempt and is retried with exponential backoff
// (baseDelay << attempt). Exhausting the retry budget returns an error the
// caller treats as "enrichment unavailable", never a pipeline failure.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay << (attempt - 1)
			slog.Info("retrying LLM call", "attempt", attempt+1, "max", c.maxRetries, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", models.NewLookupError(models.ErrCodeLLMFailure, "LLM call cancelled", ctx.Err())
			}
		}

		response, err := c.generate(ctx, prompt)
		if err == nil {
			return response, nil
		}
		lastErr = err
		slog.Warn("LLM call failed", "attempt", attempt+1, "max", c.maxRetries, "error", err)
	}
	return "", models.NewLookupError(models.ErrCodeLLMFailure,
		fmt.Sprintf("LLM endpoint failed after %d attempts", c.maxRetries), lastErr)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:       c.model,
		Prompt:      prompt,
		Stream:      false,
		Temperature: 0.2,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.host+"/api/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read LLM response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("parse LLM response: %w", err)
	}
	return genResp.Response, nil
}
