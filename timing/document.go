package timing

import (
	"iter"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// charDelaySpread controls how much of a word's duration the per-character
// emphasis stagger covers: character i starts du/charDelaySpread/n*i after
// the word.
const charDelaySpread = 2.5

// Char is one glyph of a word.
type Char struct {
	// Rune is the glyph reference handed to the atlas.
	Rune rune

	// Index is the position of the character within its word.
	Index int

	// DelayMs is the emphasis stagger offset from the word start.
	DelayMs float64
}

// Word is a timed run of characters.
type Word struct {
	StartMs float64
	EndMs   float64

	// Text is the display text. Chars is derived from it when empty.
	Text  string
	Chars []Char

	// Flags carries FlagEmphasis and FlagLastWord.
	Flags Flags

	// Roman is an optional per-word romanization.
	Roman string
}

// DurationMs returns the non-negative duration of the word.
func (w Word) DurationMs() float64 {
	return duration(w.StartMs, w.EndMs)
}

// CharStartMs returns the absolute time at which character i begins its
// emphasis animation.
func (w Word) CharStartMs(i int) float64 {
	if i < 0 || i >= len(w.Chars) {
		return w.StartMs
	}
	return w.StartMs + w.Chars[i].DelayMs
}

// IsBlank reports whether the word is white space only.
func (w Word) IsBlank() bool { return isBlank(w.Text) }

// Line is one logical lyric line.
type Line struct {
	StartMs float64
	EndMs   float64
	Words   []Word
	Flags   Flags

	// Parent is the index of the main line a translation or romanization
	// sub-line belongs to, or -1 for main lines.
	Parent int
}

// DurationMs returns the non-negative duration of the line.
func (l Line) DurationMs() float64 {
	return duration(l.StartMs, l.EndMs)
}

// Text returns the concatenated word text.
func (l Line) Text() string {
	var sb strings.Builder
	for _, w := range l.Words {
		sb.WriteString(w.Text)
	}
	return sb.String()
}

// CharCount returns the total number of characters in the line.
func (l Line) CharCount() int {
	n := 0
	for _, w := range l.Words {
		n += len(w.Chars)
	}
	return n
}

// IsMain reports whether l is a main line rather than a sub-line.
func (l Line) IsMain() bool { return !l.Flags.IsSubLine() }

// Contains reports whether now lies in [StartMs, EndMs).
func (l Line) Contains(now float64) bool {
	return now >= l.StartMs && now < l.EndMs
}

// Document is the immutable timing model of one track. Create it with
// NewDocument; the lines it hands out must not be modified.
type Document struct {
	lines   []Line
	mains   []int
	repairs int
}

// NewDocument normalizes lines and returns a Document. Malformed timing is
// repaired rather than rejected: NaN, infinite or negative timestamps become
// zero, inverted ranges collapse to zero duration, words are clamped into
// their line and made non-overlapping. Repairs reports how many values were
// changed. The input slice is not retained.
func NewDocument(lines []Line) *Document {
	d := &Document{lines: make([]Line, 0, len(lines))}
	lastMain := -1
	for _, src := range lines {
		l := d.normalizeLine(src)
		if l.IsMain() {
			l.Parent = -1
			lastMain = len(d.lines)
			d.mains = append(d.mains, lastMain)
		} else {
			l.Parent = lastMain
			if lastMain >= 0 && l.DurationMs() == 0 {
				p := d.lines[lastMain]
				l.StartMs, l.EndMs = p.StartMs, p.EndMs
			}
		}
		d.lines = append(d.lines, l)
	}
	return d
}

// Len returns the number of lines, sub-lines included.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.lines)
}

// Line returns line i.
func (d *Document) Line(i int) Line { return d.lines[i] }

// All iterates over the lines in order.
func (d *Document) All() iter.Seq2[int, Line] {
	return func(yield func(int, Line) bool) {
		if d == nil {
			return
		}
		for i, l := range d.lines {
			if !yield(i, l) {
				return
			}
		}
	}
}

// MainLines returns the indices of main lines in order.
func (d *Document) MainLines() []int {
	if d == nil {
		return nil
	}
	out := make([]int, len(d.mains))
	copy(out, d.mains)
	return out
}

// MainCount returns the number of main lines.
func (d *Document) MainCount() int {
	if d == nil {
		return 0
	}
	return len(d.mains)
}

// Main returns the line index of the k-th main line.
func (d *Document) Main(k int) int { return d.mains[k] }

// Repairs returns the number of timing values changed during normalization.
func (d *Document) Repairs() int {
	if d == nil {
		return 0
	}
	return d.repairs
}

func (d *Document) normalizeLine(src Line) Line {
	l := Line{
		StartMs: d.sanitize(src.StartMs),
		EndMs:   d.sanitize(src.EndMs),
		Flags:   src.Flags.Without(FlagLastWord | FlagPlaceholder | FlagDot),
		Words:   make([]Word, 0, len(src.Words)),
	}
	explicit := make([]bool, len(src.Words))
	if l.EndMs < l.StartMs {
		d.repairs++
		l.EndMs = l.StartMs
	}

	for i, sw := range src.Words {
		w := Word{
			StartMs: d.sanitize(sw.StartMs),
			EndMs:   d.sanitize(sw.EndMs),
			Text:    sw.Text,
			Flags:   sw.Flags & (FlagEmphasis | FlagLastWord),
			Roman:   sw.Roman,
		}
		if w.EndMs < w.StartMs {
			d.repairs++
			w.EndMs = w.StartMs
		}
		w.Chars = buildChars(sw)
		explicit[i] = len(sw.Chars) > 0
		l.Words = append(l.Words, w)
	}

	// A line without its own range takes the hull of its words; a line
	// timed as a whole lends its range to a single untimed word.
	timed := 0
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, w := range l.Words {
		if w.IsBlank() {
			continue
		}
		timed++
		lo = math.Min(lo, w.StartMs)
		hi = math.Max(hi, w.EndMs)
	}
	switch {
	case timed > 0 && l.DurationMs() == 0:
		l.StartMs, l.EndMs = lo, hi
	case timed == 1 && hi == lo:
		for i := range l.Words {
			if !l.Words[i].IsBlank() {
				l.Words[i].StartMs, l.Words[i].EndMs = l.StartMs, l.EndMs
			}
		}
	}

	l.Words = splitWords(l.Words, explicit)

	prevEnd := l.StartMs
	for i := range l.Words {
		w := &l.Words[i]
		start := clamp(w.StartMs, prevEnd, l.EndMs)
		end := clamp(w.EndMs, start, l.EndMs)
		if (start != w.StartMs || end != w.EndMs) && !w.IsBlank() {
			d.repairs++
		}
		w.StartMs, w.EndMs = start, end
		if !w.IsBlank() {
			prevEnd = end
		}
		fillCharDelays(w)
	}

	markLastWord(l.Words)
	if l.Flags.IsEmphasis() && !anyEmphasis(l.Words) {
		markEmphasis(l.Words)
	}
	return l
}

// sanitize maps NaN, infinities and negative timestamps to zero.
func (d *Document) sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		d.repairs++
		return 0
	}
	return v
}

func buildChars(w Word) []Char {
	if len(w.Chars) > 0 {
		out := make([]Char, len(w.Chars))
		for i, c := range w.Chars {
			c.Index = i
			if math.IsNaN(c.DelayMs) || c.DelayMs < 0 {
				c.DelayMs = 0
			}
			out[i] = c
		}
		return out
	}
	runes := []rune(w.Text)
	out := make([]Char, len(runes))
	for i, r := range runes {
		out[i] = Char{Rune: r, Index: i}
	}
	return out
}

// fillCharDelays assigns the default stagger when no character carries one.
func fillCharDelays(w *Word) {
	n := len(w.Chars)
	if n == 0 {
		return
	}
	for _, c := range w.Chars {
		if c.DelayMs != 0 {
			return
		}
	}
	step := w.DurationMs() / charDelaySpread / float64(n)
	for i := range w.Chars {
		w.Chars[i].DelayMs = step * float64(i)
	}
}

// markLastWord sets FlagLastWord on the final non-blank word when the input
// did not mark one.
func markLastWord(words []Word) {
	for _, w := range words {
		if w.Flags.IsLastWord() {
			return
		}
	}
	for i := len(words) - 1; i >= 0; i-- {
		if !words[i].IsBlank() {
			words[i].Flags = words[i].Flags.With(FlagLastWord)
			return
		}
	}
}

func anyEmphasis(words []Word) bool {
	for _, w := range words {
		if w.Flags.IsEmphasis() {
			return true
		}
	}
	return false
}

// markEmphasis applies chunk-level emphasis eligibility to words.
func markEmphasis(words []Word) {
	for _, c := range Chunks(words) {
		if !c.ShouldEmphasize(words) {
			continue
		}
		for i := c.Start; i < c.End; i++ {
			if !words[i].IsBlank() {
				words[i].Flags = words[i].Flags.With(FlagEmphasis)
			}
		}
	}
}

func duration(start, end float64) float64 {
	d := end - start
	if !(d > 0) {
		return 0
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// hasEdgeSpace reports leading and trailing white space in s.
func hasEdgeSpace(s string) (leading, trailing bool) {
	if s == "" {
		return false, false
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(first), unicode.IsSpace(last)
}
