package timing

import "unicode"

// splitWords breaks words holding inner white space into one word per
// space-separated run so wrapping can break between them. Each part keeps
// its trailing spaces and gets the slice of the source duration covered by
// its non-space characters. Only the last part keeps FlagLastWord and the
// romanization is dropped, since it cannot be divided. Words whose
// characters were supplied explicitly are left alone.
func splitWords(words []Word, explicit []bool) []Word {
	var out []Word
	for i, w := range words {
		parts := wordParts(w.Chars)
		if len(parts) < 2 || explicit[i] {
			if out != nil {
				out = append(out, w)
			}
			continue
		}
		if out == nil {
			out = make([]Word, 0, len(words)+len(parts)-1)
			out = append(out, words[:i]...)
		}

		solid := 0
		for _, c := range w.Chars {
			if !unicode.IsSpace(c.Rune) {
				solid++
			}
		}
		step := w.DurationMs() / float64(solid)
		pos := 0
		for k, p := range parts {
			chars := w.Chars[p.start:p.end]
			runes := make([]rune, len(chars))
			part := Word{
				StartMs: w.StartMs + float64(pos)*step,
				Chars:   make([]Char, len(chars)),
				Flags:   w.Flags.Without(FlagLastWord),
			}
			for ci, c := range chars {
				runes[ci] = c.Rune
				part.Chars[ci] = Char{Rune: c.Rune, Index: ci}
			}
			pos += p.solid
			part.EndMs = w.StartMs + float64(pos)*step
			part.Text = string(runes)
			if k == len(parts)-1 {
				part.EndMs = w.EndMs
				part.Flags = w.Flags
			}
			out = append(out, part)
		}
	}
	if out == nil {
		return words
	}
	return out
}

type wordPart struct {
	start, end int
	solid      int
}

// wordParts returns runs of non-space characters with their trailing
// spaces. Leading spaces belong to the first run.
func wordParts(chars []Char) []wordPart {
	var parts []wordPart
	start, inSpace := 0, false
	for i, c := range chars {
		space := unicode.IsSpace(c.Rune)
		if !space && inSpace && len(parts) > 0 {
			parts[len(parts)-1].end = i
			start = i
		}
		if !space {
			if len(parts) == 0 || parts[len(parts)-1].start != start {
				parts = append(parts, wordPart{start: start})
			}
			parts[len(parts)-1].solid++
		}
		inSpace = space
	}
	if len(parts) > 0 {
		parts[len(parts)-1].end = len(chars)
	}
	return parts
}
