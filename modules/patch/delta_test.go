package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildCopyDelta builds a minimal delta stream with one copy opcode copying
// source[0:size] and no inserts, per the git binary-delta format (§4.3).
func buildCopyDelta(sourceSize, targetSize int) []byte {
	var out []byte
	out = append(out, deltaVarint(sourceSize)...)
	out = append(out, deltaVarint(targetSize)...)
	// copy opcode: offset=0 (no offset bytes present), size=targetSize in one byte.
	out = append(out, 0x80|0x10, byte(targetSize))
	return out
}

func deltaVarint(n int) []byte {
	var out []byte
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if n != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

func TestReplayDeltaCopy(t *testing.T) {
	source := []byte("0123456789")
	delta := buildCopyDelta(len(source), 5)
	out, err := ReplayDelta(source, delta)
	require.NoError(t, err)
	assert.Equal(t, []byte("01234"), out)
}

func TestReplayDeltaInsert(t *testing.T) {
	source := []byte("0123456789")
	insert := []byte("hi")
	delta := append(deltaVarint(len(source)), deltaVarint(len(insert))...)
	delta = append(delta, byte(len(insert)))
	delta = append(delta, insert...)
	out, err := ReplayDelta(source, delta)
	require.NoError(t, err)
	assert.Equal(t, insert, out)
}

func TestReplayDeltaSourceSizeMismatch(t *testing.T) {
	source := []byte("0123456789")
	delta := buildCopyDelta(len(source)+1, 5)
	_, err := ReplayDelta(source, delta)
	assert.Error(t, err)
}

func TestReplayDeltaCopyOutOfRange(t *testing.T) {
	source := []byte("0123456789")
	delta := append(deltaVarint(len(source)), deltaVarint(20)...)
	delta = append(delta, 0x80|0x10, byte(20))
	_, err := ReplayDelta(source, delta)
	assert.Error(t, err)
}
