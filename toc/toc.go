// Package toc loads the hierarchical table of contents from tree.dki
// (one title per line, indentation encoding depth) and tree.dka (page
// number boundaries), and reconstructs the nesting by recursive
// descent over depth. Grounded on original_source/src/toc.rs.
package toc

import (
	"bufio"
	"io"

	"github.com/simmsb/digibib-extract/codepage"
	"github.com/simmsb/digibib-extract/internal/errs"
	"github.com/simmsb/digibib-extract/internal/locator"
)

// Entry is one table-of-contents node, with its first page and the
// number of pages before the next entry in reading order begins (that
// next entry may be its own first child, so PageCount excludes the
// pages of its children).
type Entry struct {
	ID         int
	Title      string
	Level      uint8
	PageNumber int
	PageCount  int
	Children   []Entry
}

// Load reads tree.dki (as treeDki) and tree.dka (as an io.ReaderAt, so
// the three leading DkaBlocks can be skipped by direct offset rather
// than forward consumption) and returns the reconstructed tree.
//
// The first three DkaBlocks in tree.dka carry no usable structure: the
// reference implementation reads and discards them (dbg!-only), using
// only the fourth block's page-number boundaries and rebuilding nesting
// purely from each title line's leading-space depth. This implementation
// matches that exactly rather than attempting to recover anything from
// blocks one through three.
func Load(treeDki io.Reader, treeDka io.ReaderAt) ([]Entry, error) {
	lines, err := readLines(treeDki)
	if err != nil {
		return nil, errs.Wrap(errs.InputCorrupt, "toc: read tree.dki", err)
	}

	pageNumbers, err := loadPageNumbers(treeDka)
	if err != nil {
		return nil, err
	}
	if len(lines) != len(pageNumbers) {
		return nil, errs.Wrap(errs.InputCorrupt, "toc: line/page-number count mismatch", nil)
	}

	flat := ingest(lines, pageNumbers)
	tree, _ := buildLevel(0, flat, 0)
	return tree, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		raw := sc.Bytes()
		cp := make([]byte, len(raw))
		copy(cp, raw)
		lines = append(lines, codepage.Decode(cp, 0))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// loadPageNumbers skips three DkaBlocks and decodes the fourth.
func loadPageNumbers(r io.ReaderAt) ([]int32, error) {
	offset := int64(0)
	for i := 0; i < 3; i++ {
		entries, err := locator.ReadDkaBlock(r, offset)
		if err != nil {
			return nil, err
		}
		offset += 4 + int64(len(entries))*4
	}
	entries, err := locator.ReadDkaBlock(r, offset)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// flatEntry is one line before nesting is reconstructed.
type flatEntry struct {
	title      string
	level      uint8
	pageNumber int
	pageCount  int
}

func ingest(lines []string, pageNumbers []int32) []flatEntry {
	out := make([]flatEntry, len(lines))
	for i, line := range lines {
		trimmed := leftTrimSpace(line)
		level := uint8(len(line)-len(trimmed)) + 1

		var pageNumber int
		if i == 0 {
			pageNumber = 1
		} else {
			pageNumber = int(pageNumbers[i-1])
		}

		out[i] = flatEntry{
			title:      trimmed,
			level:      level,
			pageNumber: pageNumber,
			pageCount:  int(pageNumbers[i]) - pageNumber,
		}
	}
	return out
}

func leftTrimSpace(s string) string {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return s[i:]
}

// buildLevel mirrors build_toc_item's recursive descent: it consumes
// flat[pos:] while the next entry's level is greater than level,
// recursing to collect each entry's own children, and returns once the
// next entry's level is not deeper than the caller's.
func buildLevel(level uint8, flat []flatEntry, pos int) ([]Entry, int) {
	var children []Entry
	for pos < len(flat) && flat[pos].level > level {
		f := flat[pos]
		id := pos
		pos++
		var sub []Entry
		sub, pos = buildLevel(f.level, flat, pos)
		children = append(children, Entry{
			ID:         id,
			Title:      f.title,
			Level:      f.level,
			PageNumber: f.pageNumber,
			PageCount:  f.pageCount,
			Children:   sub,
		})
	}
	return children, pos
}

// Walk visits every entry in pre-order (the order the reference driver
// processes pages in; spec.md §5's "typically TOC pre-order").
func Walk(entries []Entry, visit func(Entry)) {
	for _, e := range entries {
		visit(e)
		Walk(e.Children, visit)
	}
}
