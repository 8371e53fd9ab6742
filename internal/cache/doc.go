// Package cache provides a small generic LRU cache.
//
// It backs the glyph advance lookups of the layout resolver, where the same
// (rune, size) pair is measured on every relayout:
//
//	advances := cache.New[AdvanceKey, float64](4096)
//	w := advances.GetOrCreate(AdvanceKey{Rune: 'a', Size: 48}, measure)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
