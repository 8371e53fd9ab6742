package timing

// MinInterludeMs is the shortest gap between main lines that counts as an
// instrumental interlude.
const MinInterludeMs = 4000

// Interlude is an instrumental gap before main line Next.
type Interlude struct {
	StartMs float64
	EndMs   float64

	// Next is the line index of the main line that follows the gap.
	Next int
}

// DurationMs returns the length of the interlude.
func (iv Interlude) DurationMs() float64 { return duration(iv.StartMs, iv.EndMs) }

// Contains reports whether now lies in [StartMs, EndMs).
func (iv Interlude) Contains(now float64) bool {
	return now >= iv.StartMs && now < iv.EndMs
}

// Interludes returns the gaps of at least minGapMs between consecutive main
// lines, including the lead-in before the first line. Background lines do
// not close a gap.
func (d *Document) Interludes(minGapMs float64) []Interlude {
	if d == nil {
		return nil
	}
	var out []Interlude
	prevEnd := 0.0
	for _, idx := range d.mains {
		l := d.lines[idx]
		if l.Flags.IsBackground() {
			continue
		}
		if l.StartMs-prevEnd >= minGapMs {
			out = append(out, Interlude{StartMs: prevEnd, EndMs: l.StartMs, Next: idx})
		}
		if l.EndMs > prevEnd {
			prevEnd = l.EndMs
		}
	}
	return out
}

// InterludeAt returns the interlude containing now, if any.
func (d *Document) InterludeAt(now, minGapMs float64) (Interlude, bool) {
	for _, iv := range d.Interludes(minGapMs) {
		if iv.Contains(now) {
			return iv, true
		}
	}
	return Interlude{}, false
}
