package fonts

import (
	"fmt"
	"image"
	"os"
	"testing"
)

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func TestGlyphCacheBoundedEviction(t *testing.T) {
	c := newGlyphCache(10)
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))

	for i := 0; i < 25; i++ {
		c.put(fmt.Sprintf("glyph-%d", i), img)
	}
	size, capacity := c.stats()
	if capacity != 10 {
		t.Errorf("capacity = %d, want 10", capacity)
	}
	if size > capacity {
		t.Errorf("size %d exceeds capacity %d", size, capacity)
	}
	// The most recent entry must have survived.
	if _, ok := c.get("glyph-24"); !ok {
		t.Error("most recent entry evicted")
	}
}

func TestGlyphCacheEvictsOldestFirst(t *testing.T) {
	c := newGlyphCache(10)
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))

	for i := 0; i < 10; i++ {
		c.put(fmt.Sprintf("glyph-%d", i), img)
	}
	// Touch the oldest entry so it becomes the newest.
	if _, ok := c.get("glyph-0"); !ok {
		t.Fatal("glyph-0 missing before eviction")
	}
	c.put("overflow", img)

	if _, ok := c.get("glyph-0"); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := c.get("glyph-1"); ok {
		t.Error("oldest entry survived eviction")
	}
}

func TestGlyphCacheClear(t *testing.T) {
	c := newGlyphCache(10)
	c.put("a", image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	c.clear()
	if size, _ := c.stats(); size != 0 {
		t.Errorf("size after clear = %d", size)
	}
}

func TestResolveMissingFont(t *testing.T) {
	m := NewManager(t.TempDir())
	if _, err := m.Resolve("definitely-not-a-real-font-name-xyz"); err == nil {
		t.Error("expected error for unknown font")
	}
}

func TestResolveExplicitPath(t *testing.T) {
	m := NewManager()
	// An existing non-font file resolves by path; parsing fails later.
	path := t.TempDir() + "/fake.ttf"
	if err := writeFile(path, []byte("not a font")); err != nil {
		t.Fatal(err)
	}
	got, err := m.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != path {
		t.Errorf("Resolve = %q, want %q", got, path)
	}
	if _, err := m.Face(path, 45); err == nil {
		t.Error("expected parse error for fake font data")
	}
}
