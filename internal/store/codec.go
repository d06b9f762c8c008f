package store

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/simmsb/digibib-extract/document"
)

// Encode serialises a document.Document into the length-prefixed binary
// schema spec.md §6.3 describes as "tagged-union pieces, repeated
// segments": every variable-length field is a u32 byte length followed
// by its UTF-8 bytes, every fixed field is little-endian.
func Encode(doc document.Document) []byte {
	var buf bytes.Buffer

	writeString(&buf, doc.PlainText)
	writeU32(&buf, uint32(len(doc.Segments)))
	for _, seg := range doc.Segments {
		writeU16(&buf, seg.Style.LeftPadding)
		buf.WriteByte(byte(seg.Style.Alignment))

		writeU32(&buf, uint32(len(seg.Pieces)))
		for _, p := range seg.Pieces {
			encodePiece(&buf, p)
		}
	}
	return buf.Bytes()
}

func encodePiece(buf *bytes.Buffer, p document.Piece) {
	buf.WriteByte(byte(p.Kind))
	switch p.Kind {
	case document.PieceChunk:
		cs := p.ChunkStyle
		buf.WriteByte(packChunkFlags(cs))
		buf.WriteByte(cs.Size)
		writeString(buf, p.Text)
	case document.PieceLink:
		writeString(buf, p.URL)
		writeString(buf, p.Content)
	case document.PiecePageRef:
		writeU32(buf, p.Page)
	case document.PieceSearchWord:
		writeString(buf, p.Text)
	}
}

func packChunkFlags(cs document.ChunkStyle) byte {
	var b byte
	set := func(bit uint, v bool) {
		if v {
			b |= 1 << bit
		}
	}
	set(0, cs.Emphasis)
	set(1, cs.Strong)
	set(2, cs.Superscript)
	set(3, cs.Subscript)
	set(4, cs.Strikethrough)
	set(5, cs.Underline)
	set(6, cs.WideSpacing)
	set(7, cs.GrayColor)
	return b
}

func unpackChunkFlags(b byte) document.ChunkStyle {
	return document.ChunkStyle{
		Emphasis:      b&(1<<0) != 0,
		Strong:        b&(1<<1) != 0,
		Superscript:   b&(1<<2) != 0,
		Subscript:     b&(1<<3) != 0,
		Strikethrough: b&(1<<4) != 0,
		Underline:     b&(1<<5) != 0,
		WideSpacing:   b&(1<<6) != 0,
		GrayColor:     b&(1<<7) != 0,
	}
}

// Decode is the inverse of Encode, used by tests and any future reader
// tooling; the extraction driver itself only ever encodes.
func Decode(data []byte) (document.Document, error) {
	r := bytes.NewReader(data)

	plain, err := readString(r)
	if err != nil {
		return document.Document{}, err
	}
	segCount, err := readU32(r)
	if err != nil {
		return document.Document{}, err
	}

	var segments []document.Segment
	for i := uint32(0); i < segCount; i++ {
		var seg document.Segment
		padding, err := readU16(r)
		if err != nil {
			return document.Document{}, err
		}
		alignByte, err := r.ReadByte()
		if err != nil {
			return document.Document{}, err
		}
		seg.Style = document.SegmentStyle{
			LeftPadding: padding,
			Alignment:   document.Alignment(alignByte),
		}

		pieceCount, err := readU32(r)
		if err != nil {
			return document.Document{}, err
		}
		for j := uint32(0); j < pieceCount; j++ {
			p, err := decodePiece(r)
			if err != nil {
				return document.Document{}, err
			}
			seg.Pieces = append(seg.Pieces, p)
		}
		segments = append(segments, seg)
	}

	return document.Document{PlainText: plain, Segments: segments}, nil
}

func decodePiece(r *bytes.Reader) (document.Piece, error) {
	kindByte, err := r.ReadByte()
	if err != nil {
		return document.Piece{}, err
	}
	kind := document.PieceKind(kindByte)

	switch kind {
	case document.PieceChunk:
		flags, err := r.ReadByte()
		if err != nil {
			return document.Piece{}, err
		}
		size, err := r.ReadByte()
		if err != nil {
			return document.Piece{}, err
		}
		text, err := readString(r)
		if err != nil {
			return document.Piece{}, err
		}
		cs := unpackChunkFlags(flags)
		cs.Size = size
		return document.Piece{Kind: kind, ChunkStyle: cs, Text: text}, nil
	case document.PieceLink:
		url, err := readString(r)
		if err != nil {
			return document.Piece{}, err
		}
		content, err := readString(r)
		if err != nil {
			return document.Piece{}, err
		}
		return document.Piece{Kind: kind, URL: url, Content: content}, nil
	case document.PiecePageRef:
		page, err := readU32(r)
		if err != nil {
			return document.Piece{}, err
		}
		return document.Piece{Kind: kind, Page: page}, nil
	case document.PieceSearchWord:
		text, err := readString(r)
		if err != nil {
			return document.Piece{}, err
		}
		return document.Piece{Kind: kind, Text: text}, nil
	default:
		return document.Piece{}, fmt.Errorf("store: unknown piece kind %d", kindByte)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	writeU32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := r.Read(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readU16(r *bytes.Reader) (uint16, error) {
	var b [2]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}
