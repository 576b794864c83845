package extract

import (
	"log/slog"
	"strings"
)

// Policy controls whether the cascade stops at the first strategy that
// produces a value or runs every strategy and keeps the highest-confidence
// candidate. The original behavior is first-success; best-of-all trades
// extra DOM queries for the chance that a later, higher-confidence strategy
// (structured data is tried after the direct selector) wins.
type Policy string

const (
	PolicyFirstSuccess Policy = "first-success"
	PolicyBestOfAll    Policy = "best-of-all"
)

// ParsePolicy maps a config string to a Policy, defaulting to first-success.
func ParsePolicy(s string) Policy {
	if Policy(s) == PolicyBestOfAll {
		return PolicyBestOfAll
	}
	return PolicyFirstSuccess
}

// Extractor runs the per-field strategy cascade against a page.
type Extractor struct {
	cfg     *Config
	cleaner *Cleaner
	policy  Policy
}

// NewExtractor creates an Extractor. cleaner is used to validate
// direct-selector matches before they are accepted (selector text usually
// carries the label, e.g. "Part #: 960A/10").
func NewExtractor(cfg *Config, cleaner *Cleaner, policy Policy) *Extractor {
	return &Extractor{cfg: cfg, cleaner: cleaner, policy: policy}
}

// strategy is one step of the cascade: a name for logging, a fixed
// confidence, and the probe itself.
type strategy struct {
	name       string
	confidence int
	run        func(page PageDOM, spec fieldSpec, selectors []string) (string, error)
}

// Cascade order. The direct selector is tried first because the configured
// selectors encode site-specific knowledge; the free-text scan runs late
// because it is the noisiest.
var strategies = []strategy{
	{"selector", ConfidenceSelector, runSelector},
	{"structured-data", ConfidenceStructuredData, runStructuredData},
	{"meta-tag", ConfidenceMetaTag, runMetaTag},
	{"url-pattern", ConfidenceURLPattern, runURLPattern},
	{"text-pattern", ConfidenceTextPattern, runTextPattern},
	{"attribute", ConfidenceAttribute, runAttribute},
}

// Extract runs the cascade for one field. The returned Candidate carries the
// raw (uncleaned) value and its strategy confidence; ok is false when no
// strategy produced a usable value, on category pages, and for disabled
// fields. A failure inside a single strategy never aborts the cascade.
func (e *Extractor) Extract(page PageDOM, field Field) (Candidate, bool) {
	url := page.URL()
	if IsCategoryPage(url) {
		slog.Info("skipping identifier extraction for category page", "url", url, "field", field)
		return Candidate{}, false
	}
	if !e.cfg.Enabled(field) {
		return Candidate{}, false
	}

	spec := fieldSpecs[field]
	selectors := e.cfg.SelectorList(field)

	var best Candidate
	for _, st := range strategies {
		value, err := st.run(page, spec, selectors)
		if err != nil {
			slog.Debug("extraction strategy failed",
				"strategy", st.name, "field", field, "url", url, "error", err)
			continue
		}
		if value == "" {
			continue
		}
		// Selector matches carry label text; validate through the cleaner
		// so a junk match does not end a first-success cascade early.
		if st.name == "selector" && e.cleaner.Clean(value) == "" {
			continue
		}

		cand := Candidate{Field: field, Value: value, Confidence: st.confidence}
		slog.Info("identifier candidate found",
			"strategy", st.name, "field", field, "value", value, "confidence", st.confidence)

		if e.policy == PolicyFirstSuccess {
			return cand, true
		}
		// Ties break in strategy order: strictly-greater keeps the earlier one.
		if cand.Confidence > best.Confidence {
			best = cand
		}
	}

	if best.Value == "" {
		return Candidate{}, false
	}
	return best, true
}

func runSelector(page PageDOM, _ fieldSpec, selectors []string) (string, error) {
	var firstErr error
	for _, sel := range selectors {
		text, err := page.QueryFirstText(sel)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if text != "" {
			return text, nil
		}
	}
	return "", firstErr
}

func runStructuredData(page PageDOM, spec fieldSpec, _ []string) (string, error) {
	data, err := page.StructuredData()
	if err != nil || data == nil {
		return "", err
	}
	for _, key := range spec.jsonKeys {
		if v, ok := data[key].(string); ok && v != "" {
			return v, nil
		}
	}
	return "", nil
}

func runMetaTag(page PageDOM, spec fieldSpec, _ []string) (string, error) {
	return page.MetaContent(spec.metaProp)
}

func runURLPattern(page PageDOM, spec fieldSpec, _ []string) (string, error) {
	url := page.URL()
	for _, pattern := range spec.urlPatterns {
		if m := pattern.FindStringSubmatch(url); len(m) > 1 && m[1] != "" {
			return m[1], nil
		}
	}
	return "", nil
}

func runTextPattern(page PageDOM, spec fieldSpec, _ []string) (string, error) {
	nodes, err := page.TextNodes()
	if err != nil {
		return "", err
	}
	for _, text := range nodes {
		for _, pattern := range spec.textPatterns {
			m := pattern.FindStringSubmatch(text)
			if len(m) < 2 || m[1] == "" {
				continue
			}
			if _, generic := stopWords[strings.ToLower(m[1])]; generic {
				slog.Debug("filtered generic word from text pattern match", "value", m[1])
				continue
			}
			return m[1], nil
		}
	}
	return "", nil
}

func runAttribute(page PageDOM, spec fieldSpec, _ []string) (string, error) {
	return page.QueryAttr(spec.attrSelectors, spec.attrNames)
}
