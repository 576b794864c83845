package extract

import (
	"strings"
	"testing"
)

func TestClean_LabelPrefixes(t *testing.T) {
	c := NewCleaner()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"part hash colon", "Part #: 960A-10", "960A-10"},
		{"part hash bare", "Part # 960A-10", "960A-10"},
		{"part number colon", "Part Number: AB-1234", "AB-1234"},
		{"part number bare", "Part Number AB-1234", "AB-1234"},
		{"sku colon", "SKU: 30389175", "30389175"},
		{"sku bare", "SKU 30389175", "30389175"},
		{"model", "Model: XJ-100", "XJ-100"},
		{"mpn", "MPN: XJ-100", "XJ-100"},
		{"item hash", "Item #: 554433", "554433"},
		{"article hash", "Article #: 554433", "554433"},
		{"no label", "XJ-100", "XJ-100"},
		{"whitespace", "  XJ-100  ", "XJ-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// "Part Number:" must win over "Part #"-style prefixes: a partial strip
// would leave "Number: ..." behind.
func TestClean_LongestPrefixFirst(t *testing.T) {
	c := NewCleaner()
	if got := c.Clean("Part Number: 960A-10"); got != "960A-10" {
		t.Errorf("Clean = %q, want %q", got, "960A-10")
	}
}

func TestClean_LengthBounds(t *testing.T) {
	c := NewCleaner()

	tests := []struct {
		name   string
		in     string
		accept bool
	}{
		{"too short (2)", "AB", false},
		{"min length (3)", "ABC", true},
		{"max length (30)", strings.Repeat("A", 30), true},
		{"too long (31)", strings.Repeat("A", 31), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Clean(tt.in)
			if tt.accept && got == "" {
				t.Errorf("Clean(%q) rejected, want accepted", tt.in)
			}
			if !tt.accept && got != "" {
				t.Errorf("Clean(%q) = %q, want rejected", tt.in, got)
			}
		})
	}
}

// The bounds apply after the prefix strip, not before it.
func TestClean_BoundsAfterStrip(t *testing.T) {
	c := NewCleaner()
	if got := c.Clean("SKU: AB"); got != "" {
		t.Errorf("Clean = %q, want rejection of 2-char value", got)
	}
}

func TestClean_TunableBounds(t *testing.T) {
	c := &Cleaner{MinLen: 5, MaxLen: 8}

	if got := c.Clean("ABCD"); got != "" {
		t.Errorf("Clean = %q, want rejection below custom MinLen", got)
	}
	if got := c.Clean("ABCDE"); got != "ABCDE" {
		t.Errorf("Clean = %q, want %q", got, "ABCDE")
	}
	if got := c.Clean("ABCDEFGHI"); got != "" {
		t.Errorf("Clean = %q, want rejection above custom MaxLen", got)
	}
}

func TestClean_Empty(t *testing.T) {
	c := NewCleaner()
	if got := c.Clean(""); got != "" {
		t.Errorf("Clean(\"\") = %q, want \"\"", got)
	}
	if got := c.Clean("   "); got != "" {
		t.Errorf("Clean(whitespace) = %q, want \"\"", got)
	}
}
