// Package locator resolves page byte offsets in text.dki and reads page
// payloads. Grounded on original_source/src/text.rs's PageTable/Pages,
// with the fixed-header-parsing style of the tinySQL pager example
// (binary.LittleEndian over an io.ReaderAt rather than a forward-only
// reader, so pages can be read in any order or concurrently).
package locator

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/simmsb/digibib-extract/internal/errs"
)

const pageTableMagic = 0x001924CC

// Page is one decoded page record: its payload plus the header fields
// present only when the archive carries the magic/version header.
type Page struct {
	Number    int
	AtomCount uint16
	WordCount uint16
	Payload   []byte
}

// Locator resolves page offsets against an open text.dki source and
// reads page payloads on demand. It holds no per-page state, so a
// single Locator may be shared by concurrent readers (spec.md §5).
type Locator struct {
	r        io.ReaderAt
	table    []int32
	hasMagic bool
}

// Open reads the header and page offset table from r, which must be
// text.dki opened for random access.
func Open(r io.ReaderAt) (*Locator, error) {
	var hdr [4]byte
	if _, err := r.ReadAt(hdr[:], 0); err != nil {
		return nil, errs.Wrap(errs.InputCorrupt, "locator: read magic", err)
	}
	magic := binary.LittleEndian.Uint32(hdr[:])

	var tableOffset int64
	hasMagic := magic == pageTableMagic
	if hasMagic {
		tableOffset = 8 // magic(u32) + version(i32)
	}

	table, err := readDkaBlock(r, tableOffset)
	if err != nil {
		return nil, err
	}

	return &Locator{r: r, table: table, hasMagic: hasMagic}, nil
}

// PageCount reports how many pages the offset table describes.
func (l *Locator) PageCount() int { return len(l.table) }

// Page reads and returns the 1-based page number n.
func (l *Locator) Page(n int) (Page, error) {
	if n < 1 || n > len(l.table) {
		return Page{}, errs.Wrap(errs.InputCorrupt, "locator: page out of range",
			fmt.Errorf("page %d, have %d", n, len(l.table)))
	}
	offset := int64(l.table[n-1])
	if offset < 0 {
		return Page{}, errs.Wrap(errs.InputCorrupt, "locator: negative page offset", fmt.Errorf("page %d", n))
	}

	var sizeBuf [2]byte
	if _, err := l.r.ReadAt(sizeBuf[:], offset); err != nil {
		return Page{}, errs.Wrap(errs.InputCorrupt, "locator: read page_size", err)
	}
	pageSize := binary.LittleEndian.Uint16(sizeBuf[:])
	cursor := offset + 2

	var atomCount, wordCount uint16
	var payloadLen int
	if l.hasMagic {
		var meta [4]byte
		if _, err := l.r.ReadAt(meta[:], cursor); err != nil {
			return Page{}, errs.Wrap(errs.InputCorrupt, "locator: read atom/word count", err)
		}
		atomCount = binary.LittleEndian.Uint16(meta[0:2])
		wordCount = binary.LittleEndian.Uint16(meta[2:4])
		cursor += 4
		payloadLen = int(pageSize)
	} else {
		if pageSize < 2 {
			return Page{}, errs.Wrap(errs.InputCorrupt, "locator: page_size underflow", fmt.Errorf("page %d", n))
		}
		payloadLen = int(pageSize) - 2
	}

	payload := make([]byte, payloadLen)
	if payloadLen > 0 {
		if _, err := l.r.ReadAt(payload, cursor); err != nil {
			return Page{}, errs.Wrap(errs.InputCorrupt, "locator: read payload", err)
		}
	}

	return Page{
		Number:    n,
		AtomCount: atomCount,
		WordCount: wordCount,
		Payload:   payload,
	}, nil
}

// readDkaBlock reads a DkaBlock (u32 len_minus_one followed by that many
// + 1 little-endian i32 entries) starting at offset.
func readDkaBlock(r io.ReaderAt, offset int64) ([]int32, error) {
	var lenBuf [4]byte
	if _, err := r.ReadAt(lenBuf[:], offset); err != nil {
		return nil, errs.Wrap(errs.InputCorrupt, "locator: read DkaBlock length", err)
	}
	count := binary.LittleEndian.Uint32(lenBuf[:]) + 1

	buf := make([]byte, int(count)*4)
	if _, err := r.ReadAt(buf, offset+4); err != nil {
		return nil, errs.Wrap(errs.InputCorrupt, "locator: read DkaBlock entries", err)
	}

	entries := make([]int32, count)
	for i := range entries {
		entries[i] = int32(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
	}
	return entries, nil
}

// ReadDkaBlock reads a DkaBlock at offset from r. Exported for the toc
// package, which also reads raw DkaBlocks out of tree.dka.
func ReadDkaBlock(r io.ReaderAt, offset int64) ([]int32, error) {
	return readDkaBlock(r, offset)
}
