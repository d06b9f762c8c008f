// Package sink implements the encoder contract the typesetter drives
// (spec.md §4.4's "sink contract"): four synchronous calls — chunk,
// link, page_ref, search_word — made in strict token order for one page.
//
// Two concrete sinks satisfy it: Document builds an in-memory
// document.Document for persistence, and Markup renders a stack-based
// markup string. Both are grounded on the original implementation's
// for_flutter_encoder.rs and typst.rs respectively.
package sink

import "github.com/simmsb/digibib-extract/document"

// Sink is the abstract consumer the typesetter calls into. Implementors
// are responsible for the adjacency-merge and segmentation invariants of
// spec.md §3; the typesetter itself only ever calls these four methods.
type Sink interface {
	Chunk(text string, chunkStyle document.ChunkStyle, segStyle document.SegmentStyle)
	Link(url, content string)
	PageRef(page uint32)
	SearchWord(word string)
}
