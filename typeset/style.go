package typeset

import "github.com/simmsb/digibib-extract/document"

// style is the flat, mutated-in-place style record the state machine
// maintains for one page (spec.md §9: "a flat record mutated in-place,
// as the reference does"). It aggregates both the inline attributes
// that become a ChunkStyle and the block attributes that become a
// SegmentStyle; split happens only at emission time, in toChunkStyle
// and toSegmentStyle.
type style struct {
	leftPadding     uint16
	emphasis        bool
	strong          bool
	superscript     bool
	subscript       bool
	strikethrough   bool
	underline       bool
	wideSpacing     bool
	size            uint8 // 0 means unset (100%)
	grayColor       bool
	noJustification bool
	centered        bool
	rightAligned    bool
}

func (s style) toChunkStyle() document.ChunkStyle {
	return document.ChunkStyle{
		Emphasis:      s.emphasis,
		Strong:        s.strong,
		Superscript:   s.superscript,
		Subscript:     s.subscript,
		Strikethrough: s.strikethrough,
		Underline:     s.underline,
		WideSpacing:   s.wideSpacing,
		GrayColor:     s.grayColor,
		Size:          s.size,
	}
}

// toSegmentStyle resolves alignment per spec.md §8 property 7: centered
// beats right-align beats no-justify beats justified.
func (s style) toSegmentStyle() document.SegmentStyle {
	align := document.AlignJustified
	switch {
	case s.centered:
		align = document.AlignCentered
	case s.rightAligned:
		align = document.AlignRight
	case s.noJustification:
		align = document.AlignUnjustified
	}
	return document.SegmentStyle{
		LeftPadding: s.leftPadding,
		Alignment:   align,
	}
}
