package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexSimpleWord(t *testing.T) {
	payload := []byte{0x01, 0x03, 0x66, 0x6F, 0x6F, 0x03}
	toks := Lex(payload)
	require.Len(t, toks, 2)

	assert.Equal(t, KindWord, toks[0].Kind)
	assert.Equal(t, []byte("foo"), toks[0].WordBytes)
	assert.False(t, toks[0].SpaceAtEnd)

	assert.Equal(t, KindEndOfPage, toks[1].Kind)
}

func TestLexWordSpaceAtEndFlag(t *testing.T) {
	// length byte 0x83 = high bit set (space_at_end) | length 3.
	payload := []byte{0x01, 0x83, 0x66, 0x6F, 0x6F}
	toks := Lex(payload)
	require.Len(t, toks, 1)
	assert.True(t, toks[0].SpaceAtEnd)
	assert.Equal(t, []byte("foo"), toks[0].WordBytes)
}

func TestLexBoldToggle(t *testing.T) {
	payload := []byte{0x06, 0x01, 0x03, 0x66, 0x6F, 0x6F, 0x07, 0x03}
	toks := Lex(payload)
	kinds := make([]Kind, len(toks))
	for i, tk := range toks {
		kinds[i] = tk.Kind
	}
	assert.Equal(t, []Kind{KindBoldOn, KindWord, KindBoldOff, KindEndOfPage}, kinds)
}

func TestLexUnknownOpcodeBuffered(t *testing.T) {
	// 0x20 is not a defined opcode; it should fold into a single Unknown
	// token immediately before the next successfully-parsed token.
	payload := []byte{0x20, 0x20, 0x03}
	toks := Lex(payload)
	require.Len(t, toks, 2)
	assert.Equal(t, KindUnknown, toks[0].Kind)
	assert.Equal(t, []byte{0x20, 0x20}, toks[0].RawBytes)
	assert.Equal(t, KindEndOfPage, toks[1].Kind)
}

func TestLexUnknownFlushedAtEndOfInput(t *testing.T) {
	payload := []byte{0x20}
	toks := Lex(payload)
	require.Len(t, toks, 1)
	assert.Equal(t, KindUnknown, toks[0].Kind)
	assert.Equal(t, []byte{0x20}, toks[0].RawBytes)
}

func TestLexUnknownRoundTrip(t *testing.T) {
	payload := []byte{0x20, 0x21}
	first := Lex(payload)
	require.Len(t, first, 1)

	second := Lex(first[0].RawBytes)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].RawBytes, second[0].RawBytes)
}

func TestLexHyphenation(t *testing.T) {
	// HyphenAtEol, then Word "foo-", then Word "bar", then EndOfPage.
	payload := []byte{
		0x15,
		0x01, 0x04, 'f', 'o', 'o', '-',
		0x01, 0x03, 'b', 'a', 'r',
		0x03,
	}
	toks := Lex(payload)
	require.Len(t, toks, 4)
	assert.Equal(t, KindHyphenAtEol, toks[0].Kind)
	assert.Equal(t, KindWord, toks[1].Kind)
	assert.Equal(t, []byte("foo-"), toks[1].WordBytes)
	assert.Equal(t, KindWord, toks[2].Kind)
	assert.Equal(t, []byte("bar"), toks[2].WordBytes)
}

func TestLexWordIncompleteThenWord(t *testing.T) {
	payload := []byte{
		0xAB, 0x03, 'f', 'o', 'o',
		0x01, 0x86, 'f', 'o', 'o', 'b', 'a', 'r',
		0x03,
	}
	toks := Lex(payload)
	require.Len(t, toks, 3)
	assert.Equal(t, KindWordIncomplete, toks[0].Kind)
	assert.Equal(t, "foo", toks[0].Name.Text)
	assert.Equal(t, KindWord, toks[1].Kind)
	assert.True(t, toks[1].SpaceAtEnd)
}

func TestLexLinkCapture(t *testing.T) {
	payload := []byte{
		0xA2, 0x07, 'h', 't', 't', 'p', ':', '/', '/',
		0x01, 0x05, 'c', 'l', 'i', 'c', 'k',
		0xA3,
		0x03,
	}
	toks := Lex(payload)
	require.Len(t, toks, 4)
	assert.Equal(t, KindUrlBegin, toks[0].Kind)
	assert.Equal(t, "http://", toks[0].Name.Text)
	assert.Equal(t, KindWord, toks[1].Kind)
	assert.Equal(t, KindUrlEnd, toks[2].Kind)
}

func TestLexEndNewThreeBytes(t *testing.T) {
	payload := []byte{0xA1, 0x01, 0x02, 0x03}
	toks := Lex(payload)
	require.Len(t, toks, 1)
	assert.Equal(t, KindEndNew, toks[0].Kind)
	assert.Equal(t, [3]byte{1, 2, 3}, toks[0].Bytes3)
}

func TestLexPageLink(t *testing.T) {
	payload := []byte{0x80, 42, 0, 0, 0, 0x00}
	toks := Lex(payload)
	require.Len(t, toks, 1)
	assert.Equal(t, KindPageLink, toks[0].Kind)
	assert.Equal(t, uint32(42), toks[0].N32)
}
