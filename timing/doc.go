// Package timing holds the immutable timing model of one lyric track.
//
// A [Document] is an ordered list of [Line] values, each made of timed
// [Word] values made of [Char] glyph references. Translation and
// romanization sub-lines are ordinary lines flagged with [FlagTranslation]
// or [FlagRomanized] that attach to the preceding main line.
//
// Documents are produced by a format-specific parser outside this module and
// handed to [NewDocument], which repairs malformed timing instead of failing:
//
//	doc := timing.NewDocument([]timing.Line{{
//	    StartMs: 0, EndMs: 5000,
//	    Flags:   timing.FlagActive | timing.FlagEmphasis,
//	    Words: []timing.Word{
//	        {StartMs: 0, EndMs: 1000, Text: "Hello "},
//	        {StartMs: 1000, EndMs: 5000, Text: "world"},
//	    },
//	}})
//
// The same [Flags] bitset travels to the GPU in every glyph vertex.
package timing
