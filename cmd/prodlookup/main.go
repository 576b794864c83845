package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/prodlookup/api"
	"github.com/use-agent/prodlookup/config"
	"github.com/use-agent/prodlookup/crawler"
	"github.com/use-agent/prodlookup/enrich"
	"github.com/use-agent/prodlookup/extract"
	"github.com/use-agent/prodlookup/search"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("prodlookup starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"model", cfg.LLM.Model,
	)

	// ── 3. Load extraction selector config ──────────────────────────
	extractCfg, err := extract.LoadConfig(cfg.Crawler.ExtractionConfigPath, cfg.Crawler.StrictConfig)
	if err != nil {
		slog.Error("failed to load extraction config", "error", err)
		os.Exit(1)
	}

	cleaner := &extract.Cleaner{MinLen: cfg.Cleaner.MinLen, MaxLen: cfg.Cleaner.MaxLen}
	extractor := extract.NewExtractor(extractCfg, cleaner, extract.ParsePolicy(cfg.Crawler.Policy))

	// ── 4. Initialise enrichment (LLM client + cache) ───────────────
	llmClient := enrich.NewClient(nil, cfg.LLM.Host, cfg.LLM.Model,
		cfg.LLM.MaxRetries, cfg.LLM.RetryBaseDelay)
	enricher := enrich.NewEnricher(llmClient, enrich.NewCache(), cfg.LLM.HTMLBudget)

	// ── 5. Initialise crawler (launches browser) ────────────────────
	cr, err := crawler.NewCrawler(cfg.Browser, cfg.Crawler, extractor, cleaner, enricher)
	if err != nil {
		slog.Error("failed to initialise crawler", "error", err)
		os.Exit(1)
	}
	defer cr.Close()

	// ── 6. Initialise search client ─────────────────────────────────
	sc := search.NewClient(cfg.Search.APIKey, cfg.Search.EngineID,
		cfg.Search.BaseURL, cfg.Search.MaxResults)

	// ── 7. Setup router and start HTTP server ───────────────────────
	startTime := time.Now()
	router := api.NewRouter(sc, cr, cfg, startTime)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 8. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// cr.Close() runs via defer — kills Chrome.
	slog.Info("prodlookup stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
