// Package fonts resolves and loads the typefaces used to paint plate
// characters, and caches rendered glyph masks.
//
// Resolution order: explicit file path, then the configured font
// directories, then a system-wide lookup. Parsed faces and rendered
// glyphs are cached; the glyph cache is bounded and evicts its oldest
// entries in batches when full.
package fonts

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"sync"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/plateforge/plateforge/pkg/errors"
)

// DefaultGlyphCacheSize bounds the rendered-glyph cache.
const DefaultGlyphCacheSize = 1000

// Manager resolves font files and serves parsed faces and glyph masks.
// Safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	dirs   []string
	fonts  map[string]*opentype.Font // parsed fonts by resolved path
	faces  map[faceKey]font.Face
	glyphs *glyphCache
}

type faceKey struct {
	path string
	size float64
}

// NewManager builds a manager searching the given directories before
// falling back to system fonts.
func NewManager(dirs ...string) *Manager {
	return &Manager{
		dirs:   dirs,
		fonts:  make(map[string]*opentype.Font),
		faces:  make(map[faceKey]font.Face),
		glyphs: newGlyphCache(DefaultGlyphCacheSize),
	}
}

// Resolve maps a font name or path to a font file on disk.
func (m *Manager) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) || filepath.Ext(name) != "" {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	for _, dir := range m.dirs {
		for _, ext := range []string{".ttf", ".otf", ".ttc"} {
			candidate := filepath.Join(dir, name+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	path, err := findfont.Find(name)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFontNotFound, err, "font %q", name)
	}
	return path, nil
}

// Face returns a parsed face for a font name at the given point size.
func (m *Manager) Face(name string, size float64) (font.Face, error) {
	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := faceKey{path: path, size: size}
	if face, ok := m.faces[key]; ok {
		return face, nil
	}

	ft, ok := m.fonts[path]
	if !ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "read font %q", path)
		}
		ft, err = opentype.Parse(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "parse font %q", path)
		}
		m.fonts[path] = ft
	}

	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("face for %q at %.1fpt: %w", path, size, err)
	}
	m.faces[key] = face
	return face, nil
}

// Glyph renders one character in the named font and color onto a
// transparent buffer sized to the glyph's bounds. Results are cached.
func (m *Manager) Glyph(name string, size float64, ch rune, col color.Color) (*image.NRGBA, error) {
	key := fmt.Sprintf("%s_%.1f_%c", name, size, ch)
	if img, ok := m.glyphs.get(key); ok {
		return cloneNRGBA(img), nil
	}

	face, err := m.Face(name, size)
	if err != nil {
		return nil, err
	}

	bounds, advance, ok := face.GlyphBounds(ch)
	if !ok {
		return nil, errors.New(errors.ErrCodeFontNotFound, "font %q has no glyph for %q", name, string(ch))
	}
	w := (bounds.Max.X - bounds.Min.X).Ceil()
	h := (bounds.Max.Y - bounds.Min.Y).Ceil()
	if w <= 0 {
		w = advance.Ceil()
	}
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeFontNotFound, "font %q renders %q with empty bounds", name, string(ch))
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	drawer := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y},
	}
	drawer.DrawString(string(ch))

	m.glyphs.put(key, cloneNRGBA(img))
	return img, nil
}

// CacheStats reports glyph cache occupancy.
func (m *Manager) CacheStats() (size, capacity int) {
	return m.glyphs.stats()
}

// ClearCache drops all cached glyphs.
func (m *Manager) ClearCache() {
	m.glyphs.clear()
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// glyphCache is a bounded cache keyed by glyph identity. When full it
// evicts the least recently used tenth of its entries in one pass.
type glyphCache struct {
	mu      sync.Mutex
	cap     int
	tick    uint64
	entries map[string]*glyphEntry
}

type glyphEntry struct {
	img  *image.NRGBA
	used uint64
}

func newGlyphCache(capacity int) *glyphCache {
	if capacity <= 0 {
		capacity = DefaultGlyphCacheSize
	}
	return &glyphCache{
		cap:     capacity,
		entries: make(map[string]*glyphEntry),
	}
}

func (c *glyphCache) get(key string) (*image.NRGBA, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.tick++
	e.used = c.tick
	return e.img, true
}

func (c *glyphCache) put(key string, img *image.NRGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.cap {
		c.evictBatch()
	}
	c.tick++
	c.entries[key] = &glyphEntry{img: img, used: c.tick}
}

// evictBatch removes the oldest tenth of the cache, at least one entry.
func (c *glyphCache) evictBatch() {
	n := c.cap / 10
	if n < 1 {
		n = 1
	}
	for i := 0; i < n && len(c.entries) > 0; i++ {
		var oldestKey string
		var oldest uint64 = ^uint64(0)
		for key, e := range c.entries {
			if e.used < oldest {
				oldest = e.used
				oldestKey = key
			}
		}
		delete(c.entries, oldestKey)
	}
}

func (c *glyphCache) stats() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries), c.cap
}

func (c *glyphCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*glyphEntry)
}
