// Package frame computes the per-frame animation state of a lyric document.
//
// Everything here is a pure function of the document, its layout, the
// current spring values and the playback time. The only history-dependent
// input is [Motion], which the caller samples from its springs; handing the
// same inputs to [Builder.Build] always yields the same [State], so backward
// seeks need no special handling.
//
// The package also derives the targets those springs chase ([Targets]) from
// the scroll position ([ScrollAt]).
package frame
