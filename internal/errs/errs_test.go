package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageErrorMessageWithPage(t *testing.T) {
	err := ForPage(5, "decode", InputCorrupt)
	assert.Equal(t, "decode (page 5): input corrupt", err.Error())
}

func TestPageErrorMessageWithoutPage(t *testing.T) {
	pe := &PageError{Op: "locate", Err: InputCorrupt}
	assert.Equal(t, "locate: input corrupt", pe.Error())
}

func TestPageErrorUnwrapsToSentinel(t *testing.T) {
	err := ForPage(3, "decode", DecodeFailure)
	assert.ErrorIs(t, err, DecodeFailure)
	assert.NotErrorIs(t, err, InputCorrupt)
}

func TestWrapChainsKindAndCause(t *testing.T) {
	cause := errors.New("eof")
	err := Wrap(InputCorrupt, "read dka block", cause)

	assert.Equal(t, "read dka block: eof", err.Error())
	assert.ErrorIs(t, err, InputCorrupt)
	assert.ErrorIs(t, err, cause)
}

func TestWrapWithNilCause(t *testing.T) {
	err := Wrap(SinkFailure, "flush failed", nil)
	assert.Equal(t, "flush failed", err.Error())
	assert.ErrorIs(t, err, SinkFailure)
}

func TestForPageWrapsWrappedErrorChain(t *testing.T) {
	inner := Wrap(InputCorrupt, "bad offset table", nil)
	outer := ForPage(7, "locate", inner)

	assert.ErrorIs(t, outer, InputCorrupt)
	assert.Equal(t, "locate (page 7): bad offset table", outer.Error())
}
