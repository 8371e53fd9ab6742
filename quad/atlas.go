package quad

import (
	"sync"

	"github.com/gogpu/karaoke/timing"
)

// AtlasEntry locates one glyph in a distance-field atlas.
type AtlasEntry struct {
	// UV is the normalized texture rectangle of the glyph.
	UV Rect

	// Size is the font size the entry was generated for. Width, Height,
	// BearingX, BearingY and Range are in pixels at that size.
	Size float64

	Width, Height float64

	// BearingX and BearingY offset the glyph rectangle from the top-left
	// of its em box.
	BearingX, BearingY float64

	// Range is the distance-field range.
	Range float64
}

// Atlas is the font collaborator that owns glyph rasterization. Lookup must
// not block; a glyph that is not ready yet is a miss.
type Atlas interface {
	Lookup(r rune) (AtlasEntry, bool)

	// ReportMiss tells the atlas a glyph was requested but not found, so
	// it can schedule rasterization.
	ReportMiss(r rune)
}

// MapAtlas is an in-memory Atlas. It is safe for concurrent use.
type MapAtlas struct {
	mu      sync.RWMutex
	entries map[rune]AtlasEntry
	misses  map[rune]int
}

// NewMapAtlas returns an empty MapAtlas.
func NewMapAtlas() *MapAtlas {
	return &MapAtlas{
		entries: make(map[rune]AtlasEntry),
		misses:  make(map[rune]int),
	}
}

// Set stores the entry for r.
func (a *MapAtlas) Set(r rune, e AtlasEntry) {
	a.mu.Lock()
	a.entries[r] = e
	a.mu.Unlock()
}

// Lookup implements Atlas.
func (a *MapAtlas) Lookup(r rune) (AtlasEntry, bool) {
	a.mu.RLock()
	e, ok := a.entries[r]
	a.mu.RUnlock()
	return e, ok
}

// ReportMiss implements Atlas.
func (a *MapAtlas) ReportMiss(r rune) {
	a.mu.Lock()
	a.misses[r]++
	a.mu.Unlock()
}

// Misses returns how often each missing rune was requested.
func (a *MapAtlas) Misses() map[rune]int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[rune]int, len(a.misses))
	for r, n := range a.misses {
		out[r] = n
	}
	return out
}

// Len returns the number of entries.
func (a *MapAtlas) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// GridAtlas fills a MapAtlas with one cell per rune of doc, laid out
// row-major in a square texture of cols columns. Glyph boxes take advance
// width from advance and the full cell height; it stands in for a real
// font atlas in tools and tests.
func GridAtlas(doc *timing.Document, size, sdfRange float64, cols int, advance func(rune, float64) float64) *MapAtlas {
	a := NewMapAtlas()
	if cols <= 0 {
		cols = 16
	}
	var runes []rune
	seen := make(map[rune]bool)
	for _, line := range doc.All() {
		for _, w := range line.Words {
			for _, c := range w.Chars {
				if !seen[c.Rune] {
					seen[c.Rune] = true
					runes = append(runes, c.Rune)
				}
			}
		}
	}
	cell := 1 / float64(cols)
	for i, r := range runes {
		if i >= cols*cols {
			break
		}
		u, v := float64(i%cols)*cell, float64(i/cols)*cell
		w := size
		if advance != nil {
			w = advance(r, size)
		}
		a.Set(r, AtlasEntry{
			UV:     Rect{X0: u, Y0: v, X1: u + cell*w/size, Y1: v + cell},
			Size:   size,
			Width:  w,
			Height: size,
			Range:  sdfRange,
		})
	}
	return a
}
