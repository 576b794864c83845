package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/use-agent/prodlookup/models"
)

// FieldConfig is the per-field entry of the extraction config file.
type FieldConfig struct {
	Enabled bool `json:"enabled"`

	// Selectors is a comma-space-joined selector string. Plain CSS selectors
	// and :has-text('X') pseudo-selectors may be mixed.
	Selectors string `json:"selectors"`
}

// Config is the selector configuration driving the direct-selector strategy.
// It is loaded once at startup and immutable for the process lifetime.
type Config struct {
	Fields map[string]FieldConfig `json:"fields"`
}

// requiredFields must be present in any loaded config.
var requiredFields = []string{string(FieldSKU), string(FieldPartNumber)}

// LoadConfig reads the extraction config from path. With strict set, a
// missing or invalid file is a fatal configuration error; otherwise the
// built-in default config is returned and the problem is logged.
func LoadConfig(path string, strict bool) (*Config, error) {
	cfg, err := readConfig(path)
	if err != nil {
		if strict {
			return nil, models.NewLookupError(models.ErrCodeConfig,
				fmt.Sprintf("extraction config %q unusable", path), err)
		}
		slog.Warn("extraction config unusable, using built-in defaults",
			"path", path, "error", err)
		return DefaultConfig(), nil
	}
	slog.Info("extraction config loaded", "path", path, "fields", len(cfg.Fields))
	return cfg, nil
}

func readConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("no extraction config path set")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse extraction config: %w", err)
	}
	for _, name := range requiredFields {
		if _, ok := cfg.Fields[name]; !ok {
			return nil, fmt.Errorf("extraction config missing required field %q", name)
		}
	}
	return &cfg, nil
}

// Enabled reports whether extraction is enabled for the field.
func (c *Config) Enabled(field Field) bool {
	fc, ok := c.Fields[string(field)]
	return ok && fc.Enabled
}

// SelectorList splits the field's comma-space-joined selector string.
func (c *Config) SelectorList(field Field) []string {
	fc, ok := c.Fields[string(field)]
	if !ok || fc.Selectors == "" {
		return nil
	}
	parts := strings.Split(fc.Selectors, ", ")
	selectors := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// DefaultConfig returns the built-in selector configuration used when no
// config file is available (permissive variant).
func DefaultConfig() *Config {
	return &Config{
		Fields: map[string]FieldConfig{
			"title": {
				Enabled:   true,
				Selectors: "h1, .product-title, .title",
			},
			"brand": {
				Enabled:   true,
				Selectors: ".brand, .manufacturer, .vendor",
			},
			"price": {
				Enabled:   true,
				Selectors: ".price, .product-price, .offer-price",
			},
			"description": {
				Enabled:   true,
				Selectors: ".description, .product-description, [id*=description]",
			},
			"sku_id": {
				Enabled:   true,
				Selectors: "[id*='sku'], [id*='item-number'], .sku, .item-number, [data-test*='sku'], li:has-text('SKU'), li:has-text('Item #')",
			},
			"part_number": {
				Enabled:   true,
				Selectors: "[id*='part-number'], [id*='model-number'], .part-number, .model-number, .mpn, [data-test*='part'], li:has-text('Part #'), li:has-text('Model'), tr:has-text('Part Number')",
			},
		},
	}
}
