package patch

import (
	"regexp"

	"github.com/antgroup/patchkit/modules/patch/internal/strip"
)

const timestampRE = `\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d{9})? [-+]{1}\d{4}`
const altTimestampRE = `[A-Z][a-z]{2} [A-Z][a-z]{2} \d{2} \d{2}:\d{2}:\d{2} \d{4} [-+]{1}\d{4}`

// PathAndTimestamp is a file path together with an optional timestamp
// string captured verbatim from a unified/context diff header line (§3).
type PathAndTimestamp struct {
	FilePath  string
	Timestamp string // empty when no timestamp was present
}

// TextDiffHeader is the pair of ante/post marker lines at the top of a
// unified or context diff body.
type TextDiffHeader struct {
	Lines   Lines
	AntePat PathAndTimestamp
	PostPat PathAndTimestamp
}

// TextDiffHunk is the shape shared by unified and context hunks (§4.5).
type TextDiffHunk interface {
	Len() int
	RawLines() Lines
	AnteLines() Lines
	PostLines() Lines
	AddsTrailingWhitespace() bool
	AbstractHunk() AbstractHunk
}

// TextDiff is a parsed unified or context diff body: a header plus the
// hunks found after it.
type TextDiff[H TextDiffHunk] struct {
	linesConsumed int
	header        TextDiffHeader
	hunks         []H
}

func (d *TextDiff[H]) Len() int              { return d.linesConsumed }
func (d *TextDiff[H]) IsEmpty() bool         { return d.linesConsumed == 0 }
func (d *TextDiff[H]) Header() TextDiffHeader { return d.header }
func (d *TextDiff[H]) Hunks() []H            { return d.hunks }

// AllLines returns the header lines followed by every hunk's lines, in
// order — the concatenation a renderer needs without re-parsing (§6).
func (d *TextDiff[H]) AllLines() Lines {
	out := append(Lines(nil), d.header.Lines...)
	for _, h := range d.hunks {
		out = append(out, h.RawLines()...)
	}
	return out
}

func (d *TextDiff[H]) AntePath() string { return d.header.AntePat.FilePath }
func (d *TextDiff[H]) PostPath() string { return d.header.PostPat.FilePath }

// FilePath returns the post path, or the ante path if the post path is the
// reserved "/dev/null".
func (d *TextDiff[H]) FilePath() string {
	if d.header.PostPat.FilePath == "/dev/null" {
		return d.header.AntePat.FilePath
	}
	return d.header.PostPat.FilePath
}

// AntePathStripped returns the ante path with its leading stripLevel
// components dropped, the way `patch -pN` locates a hunk's target.
func (d *TextDiff[H]) AntePathStripped(stripLevel int) string {
	return strip.NLevels(d.header.AntePat.FilePath, stripLevel)
}

// PostPathStripped is PostPath with its leading stripLevel components
// dropped.
func (d *TextDiff[H]) PostPathStripped(stripLevel int) string {
	return strip.NLevels(d.header.PostPat.FilePath, stripLevel)
}

// FilePathStripped is FilePath with its leading stripLevel components
// dropped.
func (d *TextDiff[H]) FilePathStripped(stripLevel int) string {
	return strip.NLevels(d.FilePath(), stripLevel)
}

func (d *TextDiff[H]) AddsTrailingWhitespace() bool {
	for _, h := range d.hunks {
		if h.AddsTrailingWhitespace() {
			return true
		}
	}
	return false
}

// AbstractHunks derives the application engine's IR from every typed hunk.
func (d *TextDiff[H]) AbstractHunks() []AbstractHunk {
	out := make([]AbstractHunk, len(d.hunks))
	for i, h := range d.hunks {
		out[i] = h.AbstractHunk()
	}
	return out
}

// TextDiffParser recognizes header lines and hunks of one text-diff
// dialect (unified or context).
type TextDiffParser[H TextDiffHunk] interface {
	MatchAnteFile(line Line) (PathAndTimestamp, bool)
	MatchPostFile(line Line) (PathAndTimestamp, bool)
	GetHunkAt(lines Lines, index int) (H, bool, error)
}

func getTextDiffHeaderAt[H TextDiffHunk](p TextDiffParser[H], lines Lines, startIndex int) (*TextDiffHeader, error) {
	if startIndex >= len(lines) {
		return nil, nil
	}
	antePat, ok := p.MatchAnteFile(lines[startIndex])
	if !ok {
		return nil, nil
	}
	if startIndex+1 >= len(lines) {
		return nil, errMissingAfterFileData(startIndex + 1)
	}
	postPat, ok := p.MatchPostFile(lines[startIndex+1])
	if !ok {
		return nil, errMissingAfterFileData(startIndex + 1)
	}
	return &TextDiffHeader{
		Lines:   append(Lines(nil), lines[startIndex:startIndex+2]...),
		AntePat: antePat,
		PostPat: postPat,
	}, nil
}

// getTextDiffAt recognizes a text diff (header + hunks) of dialect H
// starting at lines[startIndex]. It returns nil, nil when no header
// matches there.
func getTextDiffAt[H TextDiffHunk](p TextDiffParser[H], lines Lines, startIndex int) (*TextDiff[H], error) {
	if len(lines)-startIndex < 2 {
		return nil, nil
	}
	header, err := getTextDiffHeaderAt(p, lines, startIndex)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, nil
	}
	index := startIndex + len(header.Lines)
	var hunks []H
	for index < len(lines) {
		hunk, ok, err := p.GetHunkAt(lines, index)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		index += hunk.Len()
		hunks = append(hunks, hunk)
	}
	return &TextDiff[H]{
		linesConsumed: index - startIndex,
		header:        *header,
		hunks:         hunks,
	}, nil
}

// extractSourceLines implements §4.5.3: trim trimLeftN chars off each
// line's left edge, drop lines matched by skip and any "\ No newline..."
// annotation line, and when the *next* line is such an annotation, strip
// the trailing newline from the current line before emitting it.
func extractSourceLines(lines Lines, trimLeftN int, skip func(Line) bool) Lines {
	var out Lines
	for index, line := range lines {
		if skip(line) || hasPrefixBackslash(line) {
			continue
		}
		trimmed := line[trimLeftN:]
		if index+1 == len(lines) || !hasPrefixBackslash(lines[index+1]) {
			out = append(out, trimmed)
		} else {
			out = append(out, trimNewline(trimmed))
		}
	}
	return out
}

func hasPrefixBackslash(line Line) bool {
	return len(line) > 0 && line[0] == '\\'
}

func trimNewline(line Line) Line {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return line[:len(line)-1]
	}
	return line
}

func buildFileLineRE(marker string) *regexp.Regexp {
	ts := "(" + timestampRE + "|" + altTimestampRE + ")"
	return regexp.MustCompile(`^` + regexp.QuoteMeta(marker) + ` (?:"([^"]+)"|(\S+))(?:\s+` + ts + `)?.*(\n)?$`)
}

func matchFileLine(re *regexp.Regexp, line Line) (PathAndTimestamp, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return PathAndTimestamp{}, false
	}
	return PathAndTimestamp{
		FilePath:  pathFromGroups(m[1], m[2]),
		Timestamp: m[3],
	}, true
}
