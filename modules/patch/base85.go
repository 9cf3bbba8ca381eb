package patch

// alphabet85 is the 85-symbol alphabet used by the git binary-patch wire
// format, in the fixed encode order required by §4.2.
const alphabet85 = "0123456789" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"!#$%&()*+-;<=>?@^_`{|}~"

const maxAccumulator85 = 0xFFFFFFFF

var decode85 [256]int16

func init() {
	for i := range decode85 {
		decode85[i] = -1
	}
	for i := 0; i < len(alphabet85); i++ {
		decode85[alphabet85[i]] = int16(i)
	}
}

// Encoding85 pairs base-85 encoded bytes with the original (pre-encoding)
// byte count, since the last 4-byte group may have been zero-padded.
type Encoding85 struct {
	Data []byte
	Size int
}

// Encode85 encodes data using the base-85 alphabet, consuming 4 source
// bytes per group (zero-padding the final partial group) and emitting 5
// alphabet symbols per group.
func Encode85(data []byte) Encoding85 {
	out := make([]byte, 0, ((len(data)+3)/4)*5)
	for index := 0; index < len(data); index += 4 {
		var acc uint32
		for shift := 0; shift < 4; shift++ {
			acc <<= 8
			if index+shift < len(data) {
				acc |= uint32(data[index+shift])
			}
		}
		var group [5]byte
		for i := 4; i >= 0; i-- {
			group[i] = alphabet85[acc%85]
			acc /= 85
		}
		out = append(out, group[:]...)
	}
	return Encoding85{Data: out, Size: len(data)}
}

// Decode85 reconstructs the original bytes from an Encoding85, failing with
// a Base85Error on an out-of-alphabet symbol or accumulator overflow.
func Decode85(enc Encoding85) ([]byte, error) {
	out := make([]byte, 0, enc.Size)
	sIndex := 0
	for len(out) < enc.Size {
		var acc uint64
		group := 0
		for group < 5 {
			if sIndex >= len(enc.Data) {
				return nil, errBase85("base85 source access out of range")
			}
			ch := enc.Data[sIndex]
			d := decode85[ch]
			if d < 0 {
				return nil, errBase85("illegal base85 character")
			}
			acc = acc*85 + uint64(d)
			sIndex++
			group++
		}
		if acc > maxAccumulator85 {
			return nil, errBase85("base85 accumulator overflow")
		}
		for shift := 24; shift >= 0 && len(out) < enc.Size; shift -= 8 {
			out = append(out, byte(acc>>uint(shift)))
		}
	}
	return out, nil
}

// DecodeSizePrefix maps the first byte of a base-85 payload line to the
// declared decoded size of that line: 'A'-'Z' -> 0..25, 'a'-'z' -> 26..51.
func DecodeSizePrefix(ch byte) (int, error) {
	switch {
	case ch >= 'A' && ch <= 'Z':
		return int(ch - 'A'), nil
	case ch >= 'a' && ch <= 'z':
		return int(ch-'a') + 26, nil
	default:
		return 0, errUnexpectedInput(FormatGitBinary, "expected char in range [a-zA-Z]")
	}
}

// DecodeLine85 trims line's trailing whitespace, reads its size prefix
// byte, and decodes the remainder to exactly that many bytes.
func DecodeLine85(line Line) ([]byte, error) {
	trimmed := trimTrailingWhitespace(line)
	if len(trimmed) == 0 {
		return nil, errUnexpectedEndOfInput()
	}
	size, err := DecodeSizePrefix(trimmed[0])
	if err != nil {
		return nil, err
	}
	return Decode85(Encoding85{Data: []byte(trimmed[1:]), Size: size})
}

// DecodeLines85 decodes a sequence of base-85 payload lines and
// concatenates the results.
func DecodeLines85(lines Lines) ([]byte, error) {
	var out []byte
	for _, line := range lines {
		decoded, err := DecodeLine85(line)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded...)
	}
	return out, nil
}

func trimTrailingWhitespace(s string) string {
	end := len(s)
	for end > 0 {
		switch s[end-1] {
		case ' ', '\t', '\f', '\v', '\n', '\r':
			end--
			continue
		}
		break
	}
	return s[:end]
}
