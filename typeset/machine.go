// Package typeset implements the typesetting state machine: the heart
// of the pipeline, folding a page's token stream into calls against a
// sink.Sink. Grounded on original_source/src/encoder.rs's State/
// encode_page, carrying over its flat mutable Style record, its
// word_incomplete suppression, its three hyphen flags, and its
// queued-link capture — reshaped here as a sink proxy (typeset/link.go)
// rather than a branch in the dispatch loop, per spec.md §9.
package typeset

import (
	"strings"
	"unicode"

	"github.com/simmsb/digibib-extract/codepage"
	"github.com/simmsb/digibib-extract/document"
	"github.com/simmsb/digibib-extract/sink"
	"github.com/simmsb/digibib-extract/token"
)

// hyphenFlags are the three transient booleans that suppress
// trailing-dash stripping and soft-break space insertion for the next
// word, reset together after each content-emitting word (spec.md §8
// property 6).
type hyphenFlags struct {
	hardEOL   bool
	ckEOL     bool
	invisible bool
}

func (h hyphenFlags) active() bool {
	return h.hardEOL || h.ckEOL || h.invisible
}

// Machine is the per-page state the typesetter carries while consuming
// one page's token stream. It is not safe for concurrent use and is not
// reused across pages: spec.md §5 requires no page-local state escape
// the per-page pipeline, so callers construct a fresh Machine per page.
type Machine struct {
	out  sink.Sink
	warn func(format string, args ...any)

	cur            style
	fontIdx        uint8
	wordIncomplete bool
	hyphen         hyphenFlags

	link *linkCapture

	fileName    string
	concordance uint16
	nodeNumber  uint16
	sigil       string
}

// New returns a Machine that drives out as tokens are run through it.
func New(out sink.Sink) *Machine {
	return &Machine{out: out, warn: func(string, ...any) {}}
}

// SetWarnFunc installs a callback for non-fatal diagnostics (currently
// just the ListItemStart no-op below); the default is silent.
func (m *Machine) SetWarnFunc(warn func(format string, args ...any)) {
	m.warn = warn
}

// write routes text either into an in-progress link capture or to the
// real sink as a chunk under the current style, mirroring the
// reference's State::write_str redirect.
func (m *Machine) write(text string) {
	if text == "" {
		return
	}
	if m.link != nil {
		m.link.Chunk(text, document.ChunkStyle{}, document.SegmentStyle{})
		return
	}
	m.out.Chunk(text, m.cur.toChunkStyle(), m.cur.toSegmentStyle())
}

// Run processes every token in order, driving the sink, and stops early
// on EndOfPage per spec.md §4.4.
func (m *Machine) Run(tokens []token.Token) {
	for _, t := range tokens {
		if m.dispatch(t) {
			return
		}
	}
}

// dispatch handles one token and reports whether the page is done.
func (m *Machine) dispatch(t token.Token) (done bool) {
	switch t.Kind {
	case token.KindBlanks:
		m.write(strings.Repeat(" ", int(t.N8)))

	case token.KindOneBlank:
		m.write(" ")

	case token.KindWord:
		m.emitWord(t)

	case token.KindWordRest:
		m.write(t.WordText)
		if t.SpaceAtEnd {
			m.write(" ")
		}

	case token.KindWordIncomplete:
		m.write(t.Name.Text)
		m.wordIncomplete = true

	case token.KindHardCarriageReturn:
		m.write("\n\n")

	case token.KindSoftCarriageReturn:
		if !m.hyphen.active() {
			m.write(" ")
		}

	case token.KindHalfLineSpacing:
		m.write("\n")

	case token.KindEndOfPage:
		return true

	case token.KindItalicsOn:
		m.cur.emphasis = true
	case token.KindItalicsOff:
		m.cur.emphasis = false
	case token.KindBoldOn:
		m.cur.strong = true
	case token.KindBoldOff:
		m.cur.strong = false
	case token.KindUnderlineOn:
		m.cur.underline = true
	case token.KindUnderlineOff:
		m.cur.underline = false
	case token.KindStrikeThroughOn:
		m.cur.strikethrough = true
	case token.KindStrikeThroughOff:
		m.cur.strikethrough = false
	case token.KindSuperScriptOn:
		m.cur.superscript = true
	case token.KindSuperScriptOff:
		m.cur.superscript = false
	case token.KindSubscriptOn:
		m.cur.subscript = true
	case token.KindSubscriptOff:
		m.cur.subscript = false
	case token.KindLetterSpacingOn:
		m.cur.wideSpacing = true
	case token.KindLetterSpacingOff:
		m.cur.wideSpacing = false
	case token.KindNoJustifyOn:
		m.cur.noJustification = true
	case token.KindNoJustifyOff:
		m.cur.noJustification = false
	case token.KindCenteredOn:
		m.cur.centered = true
	case token.KindCenteredOff:
		m.cur.centered = false
	case token.KindAlignRightOn:
		m.cur.rightAligned = true
	case token.KindAlignRightOff:
		m.cur.rightAligned = false

	case token.KindFontPreset:
		m.applyFontPreset(t.N8)

	case token.KindFontSize:
		m.cur.size = t.N8

	case token.KindFont:
		m.fontIdx = t.N8

	case token.KindColor:
		m.cur.grayColor = t.N8 == 1

	case token.KindSetX:
		m.cur.leftPadding = t.N16

	case token.KindHyphenAtEol, token.KindInvisibleHyphen:
		m.hyphen.invisible = true

	case token.KindHyphenCK:
		m.hyphen.ckEOL = true

	case token.KindPageLink:
		if t.N32 != 0 {
			m.out.PageRef(t.N32)
		}

	case token.KindAutoLink:
		m.out.PageRef(t.N32)

	case token.KindUrlBegin:
		m.link = newLinkCapture(m.out, t.Name.Text)

	case token.KindUrlEnd:
		if m.link != nil {
			url, content := m.link.finish()
			m.out.Link(url, content)
			m.link = nil
		}

	case token.KindFileName:
		m.fileName = t.Name.Text
	case token.KindConcordance:
		m.concordance = t.N16
	case token.KindNodeNumber:
		m.nodeNumber = t.N16
	case token.KindSigil:
		m.sigil = t.Name.Text

	case token.KindSearchWord:
		m.out.SearchWord(t.Name.Text)

	case token.KindListItemStart:
		// Never observed in real archives; treated as a no-op rather
		// than the reference's panic.
		m.warn("typeset: encountered ListItemStart, treating as no-op")
	}

	_ = m.fileName
	_ = m.concordance
	_ = m.nodeNumber
	_ = m.sigil
	return false
}

func (m *Machine) applyFontPreset(n uint8) {
	switch n {
	case 0:
		m.cur.grayColor = false
		m.cur.emphasis = false
		m.cur.strong = false
	case 1:
		m.cur.size = 133
	case 2:
		m.cur.size = 122
	case 3:
		m.cur.size = 111
	case 4:
		m.cur.size = 0
		m.cur.strong = true
	case 5:
		m.cur.size = 0
	case 6:
		m.cur.size = 0
		m.cur.emphasis = true
	}
}

// emitWord implements spec.md §4.4's Word dispatch row: decode, apply
// trailing-hyphen trimming and word_incomplete suppression, reset the
// hyphen flags, then apply the trailing-space rule.
func (m *Machine) emitWord(t token.Token) {
	s := codepage.Decode(t.WordBytes, m.fontIdx)

	var trimmed string
	if !m.hyphen.active() {
		trimmed = strings.TrimRight(s, " \t")
		trimmed = strings.TrimSuffix(trimmed, "-")
	} else {
		trimmed = strings.TrimRight(s, " \t")
	}

	if m.wordIncomplete {
		m.wordIncomplete = false
	} else if trimmed != "" {
		m.write(trimmed)
	}

	m.hyphen = hyphenFlags{}

	needsSpace := t.SpaceAtEnd
	if !needsSpace {
		if r := lastRune(trimmed); r != 0 && !isAlphanumeric(r) {
			needsSpace = true
		}
	}
	if needsSpace {
		m.write(" ")
	}
}

func lastRune(s string) rune {
	if s == "" {
		return 0
	}
	r := []rune(s)
	return r[len(r)-1]
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
