package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Search    SearchConfig
	Crawler   CrawlerConfig
	Cleaner   CleanerConfig
	LLM       LLMConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Webhook   WebhookConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// DefaultProxy is the default proxy URL for all requests.
	DefaultProxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// SearchConfig controls the keyword search front end.
type SearchConfig struct {
	// APIKey is the Google Programmable Search API key.
	APIKey string

	// EngineID is the Programmable Search Engine ID (cx parameter).
	EngineID string

	// BaseURL is the search endpoint. Overridable for tests.
	BaseURL string // default: "https://customsearch.googleapis.com/customsearch/v1"

	// MaxResults caps candidates per query. Hard limit 10.
	MaxResults int // default: 5
}

// CrawlerConfig controls the crawl orchestrator and identifier extraction.
type CrawlerConfig struct {
	// BatchSize is the number of candidates processed between delays.
	BatchSize int // default: 3

	// BatchDelay is the pause between batches.
	BatchDelay time.Duration // default: 2s

	// NavTimeout bounds a single page navigation (DOMContentLoaded).
	NavTimeout time.Duration // default: 20s

	// ExtractionConfigPath points to the selector config JSON file.
	ExtractionConfigPath string

	// StrictConfig makes a missing or invalid extraction config fatal at
	// startup. When false, the built-in default config is used instead.
	StrictConfig bool // default: false

	// Policy selects the cascade policy: "first-success" or "best-of-all".
	Policy string // default: "first-success"
}

// CleanerConfig bounds the plausible identifier length.
type CleanerConfig struct {
	MinLen int // default: 3
	MaxLen int // default: 30
}

// LLMConfig controls the enrichment model endpoint.
type LLMConfig struct {
	// Host is the Ollama-compatible endpoint base URL.
	Host string // default: "http://localhost:11434"

	// Model is the model name passed in the generate request.
	Model string // default: "mistral:latest"

	// MaxRetries is the number of attempts per enrichment call.
	MaxRetries int // default: 3

	// RetryBaseDelay is the base of the exponential backoff (base << attempt).
	RetryBaseDelay time.Duration // default: 2s

	// HTMLBudget is the character budget for HTML embedded in the prompt.
	HTMLBudget int // default: 4000
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// WebhookConfig controls the optional search.completed notification.
type WebhookConfig struct {
	// URL is the endpoint to notify. Empty disables webhooks.
	URL string

	// Secret signs the payload with HMAC-SHA256 when non-empty.
	Secret string
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("PRODLOOKUP_HOST", "0.0.0.0"),
			Port: envIntOr("PRODLOOKUP_PORT", 8080),
			Mode: envOr("PRODLOOKUP_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("PRODLOOKUP_HEADLESS", true),
			DefaultProxy: os.Getenv("PRODLOOKUP_PROXY"),
			NoSandbox:    envBoolOr("PRODLOOKUP_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("PRODLOOKUP_BROWSER_BIN"),
		},
		Search: SearchConfig{
			APIKey:     os.Getenv("PRODLOOKUP_GOOGLE_API_KEY"),
			EngineID:   os.Getenv("PRODLOOKUP_GOOGLE_CX"),
			BaseURL:    envOr("PRODLOOKUP_SEARCH_BASE_URL", "https://customsearch.googleapis.com/customsearch/v1"),
			MaxResults: envIntOr("PRODLOOKUP_MAX_RESULTS", 5),
		},
		Crawler: CrawlerConfig{
			BatchSize:            envIntOr("PRODLOOKUP_BATCH_SIZE", 3),
			BatchDelay:           envDurationOr("PRODLOOKUP_BATCH_DELAY", 2*time.Second),
			NavTimeout:           envDurationOr("PRODLOOKUP_NAV_TIMEOUT", 20*time.Second),
			ExtractionConfigPath: os.Getenv("PRODLOOKUP_EXTRACTION_CONFIG"),
			StrictConfig:         envBoolOr("PRODLOOKUP_EXTRACTION_STRICT", false),
			Policy:               envOr("PRODLOOKUP_EXTRACTION_POLICY", "first-success"),
		},
		Cleaner: CleanerConfig{
			MinLen: envIntOr("PRODLOOKUP_ID_MIN_LEN", 3),
			MaxLen: envIntOr("PRODLOOKUP_ID_MAX_LEN", 30),
		},
		LLM: LLMConfig{
			Host:           envOr("OLLAMA_HOST", "http://localhost:11434"),
			Model:          envOr("OLLAMA_MODEL", "mistral:latest"),
			MaxRetries:     envIntOr("PRODLOOKUP_LLM_RETRIES", 3),
			RetryBaseDelay: envDurationOr("PRODLOOKUP_LLM_RETRY_DELAY", 2*time.Second),
			HTMLBudget:     envIntOr("PRODLOOKUP_LLM_HTML_BUDGET", 4000),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("PRODLOOKUP_AUTH_ENABLED", true),
			APIKeys: envSliceOr("PRODLOOKUP_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PRODLOOKUP_RATE_RPS", 5.0),
			Burst:             envIntOr("PRODLOOKUP_RATE_BURST", 10),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("PRODLOOKUP_WEBHOOK_URL"),
			Secret: os.Getenv("PRODLOOKUP_WEBHOOK_SECRET"),
		},
		Log: LogConfig{
			Level:  envOr("PRODLOOKUP_LOG_LEVEL", "info"),
			Format: envOr("PRODLOOKUP_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
