package sink

import (
	"strings"

	"github.com/simmsb/digibib-extract/document"
)

// Document is a Sink that builds an in-memory document.Document, applying
// the adjacency-merge within the active segment and starting a new
// segment whenever the incoming SegmentStyle differs from the last one.
// Grounded on original_source/src/for_flutter_encoder.rs's ForFlutter
// encoder (push_piece/push_piece_samestyle).
type Document struct {
	plain    strings.Builder
	segments []document.Segment
}

// NewDocument returns a Document sink seeded with one empty segment, so
// the result always satisfies spec.md §3's "at least one segment"
// invariant even for a page with no content.
func NewDocument() *Document {
	return &Document{segments: []document.Segment{{}}}
}

func (d *Document) last() *document.Segment {
	return &d.segments[len(d.segments)-1]
}

// pushSameStyle appends a piece to the current segment without
// considering SegmentStyle — used by Link, PageRef, and SearchWord,
// which per spec.md §3 never open a new segment.
func (d *Document) pushSameStyle(p document.Piece) {
	seg := d.last()
	seg.Pieces = append(seg.Pieces, p)
}

func (d *Document) Chunk(text string, chunkStyle document.ChunkStyle, segStyle document.SegmentStyle) {
	d.plain.WriteString(text)

	if d.last().Style != segStyle {
		d.segments = append(d.segments, document.Segment{Style: segStyle})
	}
	seg := d.last()

	if n := len(seg.Pieces); n > 0 {
		last := &seg.Pieces[n-1]
		if last.Kind == document.PieceChunk && last.ChunkStyle == chunkStyle {
			last.Text += text
			return
		}
	}
	seg.Pieces = append(seg.Pieces, document.Piece{
		Kind:       document.PieceChunk,
		ChunkStyle: chunkStyle,
		Text:       text,
	})
}

func (d *Document) Link(url, content string) {
	d.pushSameStyle(document.Piece{Kind: document.PieceLink, URL: url, Content: content})
}

func (d *Document) PageRef(page uint32) {
	d.pushSameStyle(document.Piece{Kind: document.PiecePageRef, Page: page})
}

func (d *Document) SearchWord(word string) {
	d.pushSameStyle(document.Piece{Kind: document.PieceSearchWord, Text: word})
}

// Result returns the built document.Document.
func (d *Document) Result() document.Document {
	return document.Document{
		PlainText: d.plain.String(),
		Segments:  d.segments,
	}
}
