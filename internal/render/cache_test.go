package render

import (
	"sync"
	"testing"
)

func TestCacheKey(t *testing.T) {
	base := cacheKey(DefaultOptions())

	if base == cacheKey(DefaultOptions().WithWidth(100)) {
		t.Error("different widths should produce different keys")
	}
	if base == cacheKey(DefaultOptions().WithStyle("light")) {
		t.Error("different styles should produce different keys")
	}
	if base != cacheKey(DefaultOptions()) {
		t.Error("same options should produce same key")
	}
}

func TestPoolReuse(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()
	r1, err := globalPool.get(opts)
	if err != nil || r1 == nil {
		t.Fatalf("get failed: %v", err)
	}
	globalPool.put(opts, r1)

	r2, err := globalPool.get(opts.WithWidth(40))
	if err != nil || r2 == nil {
		t.Fatalf("get failed: %v", err)
	}
	globalPool.put(opts.WithWidth(40), r2)

	if CacheSize() != 2 {
		t.Errorf("expected 2 pools, got %d", CacheSize())
	}

	ClearCache()
	if CacheSize() != 0 {
		t.Errorf("expected 0 pools after clear, got %d", CacheSize())
	}
}

func TestPoolConcurrency(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()
	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("# Test", opts); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render error: %v", err)
	}
	if CacheSize() != 1 {
		t.Errorf("expected 1 pool after concurrent access, got %d", CacheSize())
	}
}

func TestNewRendererInvalidStyle(t *testing.T) {
	if _, err := newRenderer(DefaultOptions().WithStyle("invalid_style_path")); err == nil {
		t.Error("expected error for invalid style")
	}
}
