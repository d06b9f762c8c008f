package sink

import (
	"fmt"
	"strings"

	"github.com/simmsb/digibib-extract/document"
)

// wrapper is one entry in the markup stack: a stable key identifying the
// style attribute it represents, and the opening tag text to emit.
type wrapper struct {
	key  string
	open string
}

// Markup is a Sink that renders a stack-based markup string: each style
// change pushes or pops a named wrapper. Grounded on
// original_source/src/typst.rs's State.push_state/pop_state, which pops
// by key rather than strict LIFO order — closing a non-top wrapper
// requires temporarily closing everything above it, removing the target,
// then reopening the remainder (spec.md §9's design note).
type Markup struct {
	out      strings.Builder
	stack    []wrapper
	cur      document.ChunkStyle
	curAlign document.Alignment
	havePad  bool
	curPad   uint16
}

// NewMarkup returns an empty Markup sink.
func NewMarkup() *Markup {
	return &Markup{curAlign: document.AlignJustified}
}

// push opens a new wrapper. Callers only invoke this on an on-transition
// (checked against m.cur in Chunk), so it never pushes a key already on
// the stack.
func (m *Markup) push(key, open string) {
	m.stack = append(m.stack, wrapper{key: key, open: open})
	m.out.WriteString("#")
	m.out.WriteString(open)
	m.out.WriteString("[")
}

// close removes the wrapper named key from the stack, closing and
// reopening anything above it to keep the markup well-nested. Returns
// true if key was found (and thus closed).
func (m *Markup) close(key string) bool {
	idx := -1
	for i, w := range m.stack {
		if w.key == key {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	above := m.stack[idx+1:]
	// Close everything from the top down to and including the target.
	for range m.stack[idx:] {
		m.out.WriteString("]")
	}
	m.stack = m.stack[:idx]

	// Reopen everything that was above the target, in original order.
	for _, w := range above {
		m.stack = append(m.stack, w)
		m.out.WriteString("#")
		m.out.WriteString(w.open)
		m.out.WriteString("[")
	}
	return true
}

func (m *Markup) applySegmentStyle(segStyle document.SegmentStyle) {
	if segStyle.Alignment != m.curAlign {
		m.curAlign = segStyle.Alignment
		// alignment is recorded but not itself stack-wrapped in the
		// reference markup (typst's alignment is a document-level
		// directive, not an inline wrapper); left here for callers that
		// want to inspect resolved alignment via Alignment().
	}
	if segStyle.LeftPadding != 0 {
		m.havePad = true
		m.curPad = segStyle.LeftPadding
	}
}

// Alignment returns the alignment most recently seen via Chunk, for
// callers that render block-level markup around this sink's output.
func (m *Markup) Alignment() document.Alignment { return m.curAlign }

// toggle opens or closes the wrapper named key depending on whether want
// differs from the attribute's previous state, so repeated chunks under
// an unchanged style never re-push an already-open wrapper.
func (m *Markup) toggle(key, open string, was, want bool) {
	if was == want {
		return
	}
	if want {
		m.push(key, open)
	} else {
		m.close(key)
	}
}

func (m *Markup) Chunk(text string, chunkStyle document.ChunkStyle, segStyle document.SegmentStyle) {
	m.applySegmentStyle(segStyle)

	prev := m.cur
	m.toggle("strong", "strong", prev.Strong, chunkStyle.Strong)
	m.toggle("emph", "emph", prev.Emphasis, chunkStyle.Emphasis)
	m.toggle("underline", "underline", prev.Underline, chunkStyle.Underline)
	m.toggle("strike", "strike", prev.Strikethrough, chunkStyle.Strikethrough)
	m.toggle("super", "super", prev.Superscript, chunkStyle.Superscript)
	m.toggle("sub", "sub", prev.Subscript, chunkStyle.Subscript)

	prevSize := prev.Size
	if prevSize == 0 {
		prevSize = 100
	}
	size := chunkStyle.Size
	if size == 0 {
		size = 100
	}
	if size != prevSize {
		m.close("font")
		m.push("font", fmt.Sprintf("text(size: %.2fem)", float64(size)/100))
	}

	m.cur = chunkStyle
	m.out.WriteString(escapeMarkup(text))
}

func (m *Markup) Link(url, content string) {
	m.out.WriteString("#link(\"")
	m.out.WriteString(url)
	m.out.WriteString("\")[")
	m.out.WriteString(escapeMarkup(content))
	m.out.WriteString("]")
}

func (m *Markup) PageRef(page uint32) {
	fmt.Fprintf(&m.out, "#pageref(%d)", page)
}

func (m *Markup) SearchWord(word string) {
	m.out.WriteString("#searchword[")
	m.out.WriteString(escapeMarkup(word))
	m.out.WriteString("]")
}

// Flush closes every open wrapper and appends an explicit page-break
// marker, per spec.md §4.5's "end-of-page triggers a flush."
func (m *Markup) Flush() {
	for range m.stack {
		m.out.WriteString("]")
	}
	m.stack = nil
	m.out.WriteString("\n#pagebreak()\n")
}

// Result returns the accumulated markup string.
func (m *Markup) Result() string { return m.out.String() }

func escapeMarkup(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '#', '(', ')', '[', ']':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
