package patch

import "fmt"

// DeltaError is the error type produced by the binary-delta replay engine
// (§4.3).
type DeltaError struct {
	kind string
	msg  string
}

func (e *DeltaError) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("delta: %s: %s", e.kind, e.msg)
	}
	return fmt.Sprintf("delta: %s", e.kind)
}

func newDeltaError(kind, msg string) error {
	return &DeltaError{kind: kind, msg: msg}
}

// deltaSizeHeader decodes one little-endian 7-bit-group size header from
// the front of delta, returning the decoded size and the number of bytes
// consumed.
func deltaSizeHeader(delta []byte) (size, consumed int, err error) {
	shift := 0
	index := 0
	for {
		if index >= len(delta) {
			return 0, 0, newDeltaError("InvalidDelta", "truncated size header")
		}
		cmd := delta[index]
		index++
		size |= int(cmd&0x7f) << shift
		shift += 7
		if cmd&0x80 == 0 {
			break
		}
	}
	return size, index, nil
}

// ReplayDelta reconstructs a target buffer from a source buffer and a
// copy/insert delta opcode stream, per §4.3.
func ReplayDelta(source, delta []byte) ([]byte, error) {
	const minDeltaSize = 4
	if len(delta) < minDeltaSize {
		return nil, newDeltaError("InvalidDelta", "delta too short")
	}
	index := 0
	sourceSize, used, err := deltaSizeHeader(delta[index:])
	if err != nil {
		return nil, err
	}
	index += used
	if sourceSize != len(source) {
		return nil, newDeltaError("InvalidSourceSize", fmt.Sprintf("expected %d, got %d", sourceSize, len(source)))
	}
	expectedSize, used, err := deltaSizeHeader(delta[index:])
	if err != nil {
		return nil, err
	}
	index += used

	output := make([]byte, 0, expectedSize)
	for index < len(delta) {
		cmd := delta[index]
		index++
		switch {
		case cmd&0x80 != 0:
			var cpOffset, cpSize int
			for i := 0; i < 4; i++ {
				if cmd&(1<<uint(i)) != 0 {
					if index >= len(delta) {
						return nil, newDeltaError("InvalidDelta", "truncated copy offset")
					}
					cpOffset |= int(delta[index]) << uint(8*i)
					index++
				}
			}
			for i := 0; i < 3; i++ {
				if cmd&(1<<uint(4+i)) != 0 {
					if index >= len(delta) {
						return nil, newDeltaError("InvalidDelta", "truncated copy size")
					}
					cpSize |= int(delta[index]) << uint(8*i)
					index++
				}
			}
			if cpSize == 0 {
				cpSize = 0x10000
			}
			if cpOffset < 0 || cpSize < 0 || cpOffset+cpSize > len(source) {
				return nil, newDeltaError("PatchError", "copy command out of range")
			}
			output = append(output, source[cpOffset:cpOffset+cpSize]...)
		case cmd != 0:
			n := int(cmd)
			if n > expectedSize-len(output) {
				index = len(delta) + 1 // force the trailing consistency check to fail
				goto done
			}
			if index+n > len(delta) {
				return nil, newDeltaError("InvalidDelta", "truncated insert")
			}
			output = append(output, delta[index:index+n]...)
			index += n
		default:
			return nil, newDeltaError("PatchError", "unexpected delta opcode 0")
		}
	}
done:
	if index != len(delta) || len(output) != expectedSize {
		return nil, newDeltaError("PatchError", fmt.Sprintf("delta replay inconsistent: index=%d deltaLen=%d outputLen=%d expected=%d", index, len(delta), len(output), expectedSize))
	}
	return output, nil
}
