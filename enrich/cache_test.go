package enrich

import (
	"sync"
	"testing"
)

func TestCache(t *testing.T) {
	c := NewCache()

	if _, ok := c.Get("https://shop.example.com/a"); ok {
		t.Fatal("empty cache returned a hit")
	}

	c.Put("https://shop.example.com/a", map[string]any{"sku_id": "A-1"})
	data, ok := c.Get("https://shop.example.com/a")
	if !ok {
		t.Fatal("expected a hit after Put")
	}
	if data["sku_id"] != "A-1" {
		t.Fatalf("got %v, want A-1", data["sku_id"])
	}

	c.Put("https://shop.example.com/a", map[string]any{"sku_id": "A-2"})
	data, _ = c.Get("https://shop.example.com/a")
	if data["sku_id"] != "A-2" {
		t.Fatalf("Put did not overwrite: got %v", data["sku_id"])
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Put("https://shop.example.com/x", map[string]any{"sku_id": "X"})
				c.Get("https://shop.example.com/x")
			}
		}()
	}
	wg.Wait()

	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
}
