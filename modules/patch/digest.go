package patch

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is a patch record's content hash: a stable byte-for-byte digest
// of its preamble and body lines, used to detect equality across parses
// without comparing the parsed structures field by field (§4.9).
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DigestLines feeds preamble lines followed by body lines, in order, to a
// BLAKE3 hash and returns the resulting digest.
func DigestLines(preamble, body Lines) Digest {
	h := blake3.New()
	for _, line := range preamble {
		_, _ = h.Write([]byte(line))
	}
	for _, line := range body {
		_, _ = h.Write([]byte(line))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
