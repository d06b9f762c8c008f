package typeset

import (
	"strings"

	"github.com/simmsb/digibib-extract/document"
	"github.com/simmsb/digibib-extract/sink"
)

// linkCapture is a sink proxy, not a global flag: between UrlBegin and
// UrlEnd the machine writes chunks into it instead of the real sink
// (spec.md §9, "Queued link capture"). PageRef and SearchWord are
// forwarded straight through since the reference only ever redirects
// chunk/write_str calls.
type linkCapture struct {
	real    sink.Sink
	url     string
	content strings.Builder
}

func newLinkCapture(real sink.Sink, url string) *linkCapture {
	return &linkCapture{real: real, url: url}
}

func (l *linkCapture) Chunk(text string, _ document.ChunkStyle, _ document.SegmentStyle) {
	l.content.WriteString(text)
}

func (l *linkCapture) Link(url, content string) { l.real.Link(url, content) }
func (l *linkCapture) PageRef(page uint32)      { l.real.PageRef(page) }
func (l *linkCapture) SearchWord(word string)   { l.real.SearchWord(word) }

// finish returns the captured url and accumulated content; the caller
// passes them on to the real sink.
func (l *linkCapture) finish() (url, content string) {
	return l.url, l.content.String()
}
