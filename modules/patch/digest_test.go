package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigestLinesDeterministic(t *testing.T) {
	preamble := Lines{"diff --git a/f b/f\n"}
	body := Lines{"--- a/f\n", "+++ b/f\n"}
	d1 := DigestLines(preamble, body)
	d2 := DigestLines(preamble, body)
	assert.Equal(t, d1, d2)
	assert.Len(t, d1.String(), 64)
}

func TestDigestLinesDiffer(t *testing.T) {
	a := DigestLines(nil, Lines{"one\n"})
	b := DigestLines(nil, Lines{"two\n"})
	assert.NotEqual(t, a, b)
}

func TestDigestLinesConcatenationBoundary(t *testing.T) {
	// Digest hashes the concatenation of lines, not a length-prefixed
	// encoding, so a split across the preamble/body boundary that
	// reassembles to the same bytes must collide.
	a := DigestLines(Lines{"ab\n"}, Lines{"cd\n"})
	b := DigestLines(Lines{"ab\ncd\n"}, nil)
	assert.Equal(t, a, b)
}
