package crawler

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/prodlookup/config"
	"github.com/use-agent/prodlookup/enrich"
	"github.com/use-agent/prodlookup/extract"
	"github.com/use-agent/prodlookup/models"
	"github.com/ysmood/gson"
)

// pageSession is one open page scope: a DOM handle, the captured HTML, and a
// release function that must run on every exit path.
type pageSession struct {
	dom   extract.PageDOM
	html  string
	close func()
}

// openFunc opens a page session for a URL. Swappable so the orchestrator can
// be exercised without a browser.
type openFunc func(ctx context.Context, pageURL string) (*pageSession, error)

// Crawler owns the browser and drives the per-candidate pipeline:
// navigation, identifier extraction, cleaning, and LLM enrichment. One page
// scope is open at a time per Crawler; it is not safe to share a Crawler's
// browsing context across concurrent callers.
type Crawler struct {
	browser   *rod.Browser
	extractor *extract.Extractor
	cleaner   *extract.Cleaner
	enricher  *enrich.Enricher
	cfg       config.CrawlerConfig
	fetcher   *httpFetcher

	open  openFunc
	sleep func(time.Duration)
}

// NewCrawler launches a headless browser and wires the extraction pipeline.
func NewCrawler(browserCfg config.BrowserConfig, cfg config.CrawlerConfig,
	extractor *extract.Extractor, cleaner *extract.Cleaner, enricher *enrich.Enricher) (*Crawler, error) {

	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}
	if browserCfg.DefaultProxy != "" {
		l = l.Proxy(browserCfg.DefaultProxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewLookupError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewLookupError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}

	c := &Crawler{
		browser:   browser,
		extractor: extractor,
		cleaner:   cleaner,
		enricher:  enricher,
		cfg:       cfg,
		fetcher:   newHTTPFetcher(browserCfg.DefaultProxy),
		sleep:     time.Sleep,
	}
	c.open = c.openRodPage
	return c, nil
}

// Close kills the browser process. Call on graceful shutdown to prevent
// zombie Chrome processes.
func (c *Crawler) Close() {
	slog.Info("crawler shutting down: closing browser")
	c.browser.MustClose()
	slog.Info("crawler shutdown complete")
}

// openRodPage opens a fresh tab, navigates it, and captures the rendered
// HTML.
//
// Ordering matters: stealth JS and extra headers must be installed before
// navigation, and the DOMContentLoaded waiter must be registered before
// Navigate or an already-fired event would be missed. Waiting only for
// DOMContentLoaded (not full resource load) favors throughput over
// completeness.
func (c *Crawler) openRodPage(ctx context.Context, pageURL string) (*pageSession, error) {
	page, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewLookupError(models.ErrCodeBrowserCrash, "failed to open page", err)
	}

	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
	}

	// A Google referer makes the visit look like organic search traffic.
	if u, parseErr := url.Parse(pageURL); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{
				"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
			},
		}.Call(page)
	}

	navCtx, cancel := context.WithTimeout(ctx, c.cfg.NavTimeout)
	p := page.Context(navCtx)

	wait := p.WaitEvent(&proto.PageDomContentEventFired{})
	if navErr := p.Navigate(pageURL); navErr != nil {
		cancel()
		_ = page.Close()
		return nil, models.NewLookupError(models.ErrCodeNavigation, "navigation to target URL failed", navErr)
	}
	wait()

	html, htmlErr := p.HTML()
	if htmlErr != nil {
		// Extraction can still probe the live DOM; only enrichment needs
		// the raw HTML.
		slog.Warn("failed to capture page HTML", "url", pageURL, "error", htmlErr)
		html = ""
	}

	return &pageSession{
		dom:  extract.NewRodPage(p),
		html: html,
		close: func() {
			cancel()
			_ = page.Close()
		},
	}, nil
}
