package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// searchRequest mirrors the Prodlookup API request model.
type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

// searchResponse mirrors the Prodlookup API response model.
type searchResponse struct {
	Success  bool `json:"success"`
	Products []struct {
		SKUID       string `json:"sku_id"`
		PartNumber  string `json:"part_number"`
		Name        string `json:"product_name"`
		Brand       string `json:"brand"`
		Price       string `json:"price"`
		Description string `json:"description"`
		SourceURL   string `json:"product_url"`
	} `json:"products"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("PRODLOOKUP_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("PRODLOOKUP_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "PRODLOOKUP_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"prodlookup",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	searchTool := mcp.NewTool("search_products",
		mcp.WithDescription("Search the web for a product and return structured attributes (SKU, part number, name, brand, price, description) extracted from merchant pages."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text product query, e.g. a product name or catalog description"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of product candidates to look up (default: 5, max: 10)"),
		),
	)
	s.AddTool(searchTool, handleSearchProducts(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleSearchProducts(apiURL, apiKey string) server.ToolHandlerFunc {
	// Lookups navigate several pages sequentially with inter-batch delays.
	client := &http.Client{Timeout: 300 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}
		maxResults := request.GetInt("max_results", 0)

		body, err := json.Marshal(searchRequest{Query: query, MaxResults: maxResults})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/v1/search", bytes.NewReader(body))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("X-API-Key", apiKey)

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var searchResp searchResponse
		if err := json.Unmarshal(respBody, &searchResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !searchResp.Success {
			errMsg := "search failed"
			if searchResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", searchResp.Error.Code, searchResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Found %d products for %q:\n", len(searchResp.Products), query)
		for i, p := range searchResp.Products {
			fmt.Fprintf(&sb, "\n%d. %s\n", i+1, p.Name)
			fmt.Fprintf(&sb, "   SKU: %s | Part Number: %s\n", p.SKUID, p.PartNumber)
			fmt.Fprintf(&sb, "   Brand: %s | Price: %s\n", p.Brand, p.Price)
			if p.Description != "" {
				fmt.Fprintf(&sb, "   %s\n", p.Description)
			}
			fmt.Fprintf(&sb, "   %s\n", p.SourceURL)
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
