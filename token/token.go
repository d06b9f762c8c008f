// Package token decodes the opcode-tagged byte stream of a single archive
// page into a sequence of typed tokens.
//
// The wire format is undocumented outside this package: every opcode byte
// selects a fixed operand layout (see opcodes.go), and bytes that don't
// match any known opcode are folded into Unknown tokens rather than
// treated as a parse error.
package token

// Name is a length-prefixed, legacy-code-page-encoded string: a single
// byte giving the length, followed by that many bytes of payload. The
// raw bytes are kept alongside the already-decoded text so callers that
// need the original code page (word opcodes defer to codepage.Decode
// with an explicit font index) can re-decode if required.
type Name struct {
	Raw  []byte
	Text string
}

// Kind identifies which Token field is meaningful.
type Kind int

const (
	KindBlanks Kind = iota
	KindOneBlank
	KindWord
	KindWordRest
	KindWordIncomplete
	KindHardCarriageReturn
	KindSoftCarriageReturn
	KindHalfLineSpacing
	KindEndOfPage

	KindItalicsOn
	KindItalicsOff
	KindBoldOn
	KindBoldOff
	KindUnderlineOn
	KindUnderlineOff
	KindStrikeThroughOn
	KindStrikeThroughOff
	KindSuperScriptOn
	KindSuperScriptOff
	KindSubscriptOn
	KindSubscriptOff
	KindLetterSpacingOn
	KindLetterSpacingOff
	KindNoJustifyOn
	KindNoJustifyOff
	KindCenteredOn
	KindCenteredOff
	KindAlignRightOn
	KindAlignRightOff
	KindGreekOn
	KindGreekOff
	KindHebrewOn
	KindHebrewOff
	KindVerticalLineOn
	KindVerticalLineOff
	KindEOn
	KindEOff

	KindFontPreset
	KindFontSize
	KindFont
	KindColor
	KindSetX
	KindSetY
	KindListItemStart
	KindListItemEnd
	KindUnorderedListStart
	KindUnorderedListEnd
	KindHeader
	KindDashedLine

	KindHyphenAtEol
	KindHyphenCK
	KindInvisibleHyphen

	KindPageLink
	KindAutoLink
	KindUrlBegin
	KindUrlEnd
	KindImageLink
	KindImage
	KindInlineImage
	KindSearchWord
	KindSigil
	KindFileName
	KindConcordance
	KindNodeNumber
	KindNodeNumber2
	KindBibIndex
	KindCopyright
	KindIDStart
	KindIDEnd
	KindCor
	KindEndCor
	KindSV
	KindSVLemmaBegin
	KindSVLemmaStop
	KindEndNew
	KindThumb
	KindThumbWWW
	KindWordAnchor
	KindNextBlankFixed
	KindS
	KindLy
	KindTD
	KindNull
	KindEndLink
	KindNotFirstLine

	KindUnknown
)

// Token is a single decoded opcode record. Only the fields relevant to
// Kind are populated; all others are left at their zero value.
type Token struct {
	Kind Kind

	// Blanks, FontPreset, FontSize, Font, Color, IDStart, IDEnd, Copyright.
	N8 uint8
	// SetX, SetY, Concordance, NodeNumber.
	N16 uint16
	// PageLink (page), Image (width), AutoLink, NodeNumber2, BibIndex, Cor.
	N32 uint32
	// SV.
	N64 uint64

	// Word, WordRest.
	SpaceAtEnd bool
	// Word.
	WordBytes []byte
	// WordRest (already decoded at lex time with the default code page).
	WordText string

	// WordIncomplete, ImageLink, Sigil, FileName, SVLemmaBegin, SearchWord,
	// UrlBegin, Image, InlineImage, PageLink (name is ignored but kept for
	// diagnostics).
	Name Name

	// InlineImage.
	Width  uint16
	Height uint16

	// EndNew.
	Bytes3 [3]byte

	// Unknown.
	RawBytes   []byte
	BestEffort string
}
