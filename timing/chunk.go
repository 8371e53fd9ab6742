package timing

import (
	"math"
	"strings"
)

// Chunk is a run of words [Start, End) that are written without white space
// between them ("su" + "gar") and therefore share one emphasis decision.
type Chunk struct {
	Start, End int
}

// Len returns the number of words in the chunk.
func (c Chunk) Len() int { return c.End - c.Start }

// Text returns the merged text of the chunk.
func (c Chunk) Text(words []Word) string {
	var sb strings.Builder
	for _, w := range words[c.Start:c.End] {
		sb.WriteString(w.Text)
	}
	return sb.String()
}

// Span returns the merged time range of the chunk.
func (c Chunk) Span(words []Word) (startMs, endMs float64) {
	startMs, endMs = math.Inf(1), math.Inf(-1)
	for _, w := range words[c.Start:c.End] {
		startMs = math.Min(startMs, w.StartMs)
		endMs = math.Max(endMs, w.EndMs)
	}
	if c.Len() == 0 {
		return 0, 0
	}
	return startMs, endMs
}

// ShouldEmphasize reports whether any word of the chunk, or the chunk as a
// merged word, qualifies for emphasis.
func (c Chunk) ShouldEmphasize(words []Word) bool {
	for _, w := range words[c.Start:c.End] {
		if !w.IsBlank() && ShouldEmphasize(w.Text, w.DurationMs()) {
			return true
		}
	}
	if c.Len() < 2 {
		return false
	}
	start, end := c.Span(words)
	return ShouldEmphasize(c.Text(words), end-start)
}

// Chunks groups words into emphasis chunks. Blank words and words containing
// inner white space stand alone, CJK words always stand alone, and a word
// with leading (trailing) white space starts (ends) a chunk.
func Chunks(words []Word) []Chunk {
	var out []Chunk
	start := -1
	flush := func(end int) {
		if start >= 0 && end > start {
			out = append(out, Chunk{Start: start, End: end})
		}
		start = -1
	}
	for i, w := range words {
		trimmed := strings.TrimSpace(w.Text)
		leading, trailing := hasEdgeSpace(w.Text)
		switch {
		case trimmed == "" || strings.ContainsAny(trimmed, " \t　") || IsCJK(trimmed):
			flush(i)
			out = append(out, Chunk{Start: i, End: i + 1})
			continue
		case leading:
			flush(i)
		}
		if start < 0 {
			start = i
		}
		if trailing {
			flush(i + 1)
		}
	}
	flush(len(words))
	return out
}
