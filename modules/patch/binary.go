package patch

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/klauspost/compress/zlib"
)

var gitBinaryHeaderRE = regexp.MustCompile(`^GIT binary patch(\n)?$`)
var binaryPayloadHeaderRE = regexp.MustCompile(`^(literal|delta) (\d+)(\n)?$`)

func isBlankLine(l Line) bool { return l == "\n" || l == "" }

// BinaryDiffPayload is one `literal N` or `delta N` sub-hunk of a git
// binary patch: the declared decompressed size and the base-85 lines
// carrying the zlib-compressed payload, retained verbatim (§4.6).
type BinaryDiffPayload struct {
	Kind  string // "literal" or "delta"
	Size  int
	Lines Lines
}

func zlibInflate(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, errZlibInflate(err.Error())
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errZlibInflate(err.Error())
	}
	return out, nil
}

// Decode inflates the payload's base-85 lines and, for a delta payload,
// replays it against source to reconstruct the target bytes.
func (p BinaryDiffPayload) Decode(source []byte) ([]byte, error) {
	raw, err := DecodeLines85(p.Lines)
	if err != nil {
		return nil, err
	}
	inflated, err := zlibInflate(raw)
	if err != nil {
		return nil, err
	}
	switch p.Kind {
	case "literal":
		if len(inflated) != p.Size {
			return nil, errZlibInflate(fmt.Sprintf("literal size mismatch: expected %d, got %d", p.Size, len(inflated)))
		}
		return inflated, nil
	case "delta":
		out, err := ReplayDelta(source, inflated)
		if err != nil {
			return nil, errGitDelta(err)
		}
		if len(out) != p.Size {
			return nil, errGitDelta(newDeltaError("PatchError", fmt.Sprintf("delta target size mismatch: expected %d, got %d", p.Size, len(out))))
		}
		return out, nil
	default:
		return nil, errUnexpectedInput(FormatGitBinary, "unknown binary payload kind")
	}
}

// GitBinaryDiff is a parsed `GIT binary patch` body: a forward payload
// producing the post content from the ante content, and a reverse payload
// producing the ante content back from the post content (§4.6).
type GitBinaryDiff struct {
	lines   Lines
	Forward BinaryDiffPayload
	Reverse BinaryDiffPayload
}

func (d *GitBinaryDiff) Len() int        { return len(d.lines) }
func (d *GitBinaryDiff) RawLines() Lines { return d.lines }

// Apply decodes the forward payload against ante (or the reverse payload
// against post, when reverse is set).
func (d *GitBinaryDiff) Apply(content []byte, reverse bool) ([]byte, error) {
	if reverse {
		return d.Reverse.Decode(content)
	}
	return d.Forward.Decode(content)
}

func parseBinaryPayloadAt(lines Lines, index int) (BinaryDiffPayload, int, error) {
	if index >= len(lines) {
		return BinaryDiffPayload{}, index, errUnexpectedEndOfInput()
	}
	m := binaryPayloadHeaderRE.FindStringSubmatch(lines[index])
	if m == nil {
		return BinaryDiffPayload{}, index, errSyntax(FormatGitBinary, index+1)
	}
	size, err := strconv.Atoi(m[2])
	if err != nil {
		return BinaryDiffPayload{}, index, errParseNumber(index+1, err)
	}
	index++
	start := index
	for index < len(lines) && !isBlankLine(lines[index]) {
		index++
	}
	payload := BinaryDiffPayload{
		Kind:  m[1],
		Size:  size,
		Lines: append(Lines(nil), lines[start:index]...),
	}
	if index < len(lines) {
		index++
	}
	return payload, index, nil
}

// GetBinaryDiffAt recognizes a git binary-patch body starting at
// lines[startIndex]. It returns nil, nil when the "GIT binary patch"
// marker does not match there.
func GetBinaryDiffAt(lines Lines, startIndex int) (*GitBinaryDiff, error) {
	if startIndex >= len(lines) || !gitBinaryHeaderRE.MatchString(lines[startIndex]) {
		return nil, nil
	}
	index := startIndex + 1
	forward, index, err := parseBinaryPayloadAt(lines, index)
	if err != nil {
		return nil, err
	}
	reverse, index, err := parseBinaryPayloadAt(lines, index)
	if err != nil {
		return nil, err
	}
	return &GitBinaryDiff{
		lines:   append(Lines(nil), lines[startIndex:index]...),
		Forward: forward,
		Reverse: reverse,
	}, nil
}
