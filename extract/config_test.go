package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extraction.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"fields": {
			"sku_id": {"enabled": true, "selectors": ".sku, [data-test*='sku']"},
			"part_number": {"enabled": false, "selectors": ".part-number"}
		}
	}`)

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)

	assert.True(t, cfg.Enabled(FieldSKU))
	assert.False(t, cfg.Enabled(FieldPartNumber))
	assert.Equal(t, []string{".sku", "[data-test*='sku']"}, cfg.SelectorList(FieldSKU))
}

func TestLoadConfig_StrictMissingFileIsFatal(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"), true)
	assert.Error(t, err)
}

func TestLoadConfig_StrictMissingRequiredField(t *testing.T) {
	path := writeConfigFile(t, `{
		"fields": {
			"sku_id": {"enabled": true, "selectors": ".sku"}
		}
	}`)
	_, err := LoadConfig(path, true)
	assert.Error(t, err)
}

func TestLoadConfig_StrictInvalidJSON(t *testing.T) {
	path := writeConfigFile(t, `{not json`)
	_, err := LoadConfig(path, true)
	assert.Error(t, err)
}

func TestLoadConfig_PermissiveFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig("", false)
	require.NoError(t, err)

	// The built-in defaults must cover both identifier fields.
	assert.True(t, cfg.Enabled(FieldSKU))
	assert.True(t, cfg.Enabled(FieldPartNumber))
	assert.NotEmpty(t, cfg.SelectorList(FieldPartNumber))
}

func TestSelectorList_UnknownField(t *testing.T) {
	cfg := &Config{Fields: map[string]FieldConfig{}}
	assert.Nil(t, cfg.SelectorList(FieldSKU))
	assert.False(t, cfg.Enabled(FieldSKU))
}
