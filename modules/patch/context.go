package patch

import (
	"regexp"
	"strconv"
	"strings"
)

// ContextDiffChunk locates one side (ante or post) of a context-diff hunk
// within the hunk's raw lines.
type ContextDiffChunk struct {
	offset       int
	startLineNum int
	numLines     int
}

// ContextDiffHunk is one hunk of a context diff: a `***************`
// delimiter, an ante block, and a post block (§4.5.2).
type ContextDiffHunk struct {
	lines     Lines
	AnteChunk ContextDiffChunk
	PostChunk ContextDiffChunk
}

// ContextDiff is a parsed context-diff body.
type ContextDiff = TextDiff[*ContextDiffHunk]

func (h *ContextDiffHunk) Len() int       { return len(h.lines) }
func (h *ContextDiffHunk) RawLines() Lines { return h.lines }

func chunkLines(lines Lines, c ContextDiffChunk) Lines {
	return lines[c.offset : c.offset+c.numLines]
}

// AnteLines returns the hunk's ante-side body, marker column stripped. When
// the ante block has no body lines (as in a pure insertion), the ante-side
// content is read from the post block instead, skipping its "+ "-prefixed
// (added) lines, mirroring how context diffs encode insertions.
func (h *ContextDiffHunk) AnteLines() Lines {
	if h.AnteChunk.numLines == 0 {
		return extractSourceLines(chunkLines(h.lines, h.PostChunk), 2, func(l Line) bool {
			return strings.HasPrefix(l, "+ ")
		})
	}
	return extractSourceLines(chunkLines(h.lines, h.AnteChunk), 2, func(Line) bool { return false })
}

func (h *ContextDiffHunk) PostLines() Lines {
	return extractSourceLines(chunkLines(h.lines, h.PostChunk), 2, func(Line) bool { return false })
}

func (h *ContextDiffHunk) AddsTrailingWhitespace() bool {
	for _, line := range chunkLines(h.lines, h.PostChunk) {
		if (strings.HasPrefix(line, "+ ") || strings.HasPrefix(line, "! ")) && HasTrailingWhitespace(line) {
			return true
		}
	}
	return false
}

// AbstractHunk converts the typed hunk to the application engine's IR,
// converting 1-based hunk-header line numbers to 0-based indices. A side
// with a zero line count reports line number 0, meaning "before line 1"
// rather than a real 1-based position; that maps to index 0, not -1.
func (h *ContextDiffHunk) AbstractHunk() AbstractHunk {
	ante := AbstractChunk{StartIndex: max(h.AnteChunk.startLineNum-1, 0), Lines: h.AnteLines()}
	post := AbstractChunk{StartIndex: max(h.PostChunk.startLineNum-1, 0), Lines: h.PostLines()}
	return NewAbstractHunk(ante, post)
}

// ContextDiffParser recognizes context-diff headers and hunks.
type ContextDiffParser struct {
	anteFileRE  *regexp.Regexp
	postFileRE  *regexp.Regexp
	hunkStartRE *regexp.Regexp
	hunkAnteRE  *regexp.Regexp
	hunkPostRE  *regexp.Regexp
}

// NewContextDiffParser builds a ready-to-use ContextDiffParser.
func NewContextDiffParser() *ContextDiffParser {
	ts := "(" + timestampRE + "|" + altTimestampRE + ")"
	return &ContextDiffParser{
		anteFileRE:  regexp.MustCompile(`^\*\*\* (?:"([^"]+)"|(\S+))(?:\s+` + ts + `)?.*(\n)?$`),
		postFileRE:  regexp.MustCompile(`^--- (?:"([^"]+)"|(\S+))(?:\s+` + ts + `)?.*(\n)?$`),
		hunkStartRE: regexp.MustCompile(`^\*{15}\s*(.*)(\n)?$`),
		hunkAnteRE:  regexp.MustCompile(`^\*\*\*\s+(\d+)(,(\d+))?\s+\*\*\*\*\s*(.*)(\n)?$`),
		hunkPostRE:  regexp.MustCompile(`^---\s+(\d+)(,(\d+))?\s+----(.*)(\n)?$`),
	}
}

func (p *ContextDiffParser) MatchAnteFile(line Line) (PathAndTimestamp, bool) {
	return matchFileLine(p.anteFileRE, line)
}

func (p *ContextDiffParser) MatchPostFile(line Line) (PathAndTimestamp, bool) {
	return matchFileLine(p.postFileRE, line)
}

// startAndLength computes a context-hunk side's (start, length) from its
// `*** A,B ****`/`--- C,D ----` capture groups; a matching A==B==0 denotes
// an empty side (§3).
func startAndLength(m []string, lineNum int) (start, length int, err error) {
	if m[1] == "" {
		return 0, 0, errSyntax(FormatContext, lineNum)
	}
	start, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, errParseNumber(lineNum, err)
	}
	finish := start
	if m[3] != "" {
		finish, err = strconv.Atoi(m[3])
		if err != nil {
			return 0, 0, errParseNumber(lineNum, err)
		}
	}
	if start == 0 && finish == 0 {
		return 0, 0, nil
	}
	return start, finish - start + 1, nil
}

// GetHunkAt recognizes a context hunk starting at lines[startIndex].
func (p *ContextDiffParser) GetHunkAt(lines Lines, startIndex int) (*ContextDiffHunk, bool, error) {
	if !p.hunkStartRE.MatchString(lines[startIndex]) {
		return nil, false, nil
	}
	anteStartIndex := startIndex + 1
	if anteStartIndex >= len(lines) {
		return nil, false, errUnexpectedEndHunk(FormatContext, anteStartIndex+1)
	}
	am := p.hunkAnteRE.FindStringSubmatch(lines[anteStartIndex])
	if am == nil {
		return nil, false, errSyntax(FormatContext, anteStartIndex+1)
	}
	anteStart, anteLen, err := startAndLength(am, anteStartIndex+1)
	if err != nil {
		return nil, false, err
	}

	anteBodyStart := anteStartIndex + 1
	index := anteBodyStart
	anteCount := 0
	var postM []string
	postHeaderIndex := index
	for anteCount < anteLen {
		postHeaderIndex = index
		if index >= len(lines) {
			return nil, false, errUnexpectedEndHunk(FormatContext, index+1)
		}
		postM = p.hunkPostRE.FindStringSubmatch(lines[index])
		if postM != nil {
			break
		}
		anteCount++
		index++
	}
	if postM == nil {
		if index < len(lines) && hasPrefixBackslash(lines[index]) {
			index++
		}
		postHeaderIndex = index
		if index >= len(lines) {
			return nil, false, errUnexpectedEndHunk(FormatContext, index+1)
		}
		postM = p.hunkPostRE.FindStringSubmatch(lines[index])
		if postM == nil {
			return nil, false, errSyntax(FormatContext, index+1)
		}
	}
	postStart, postLen, err := startAndLength(postM, postHeaderIndex+1)
	if err != nil {
		return nil, false, err
	}
	postBodyStart := postHeaderIndex + 1
	index = postBodyStart

	postCount := 0
	for postCount < postLen {
		if index >= len(lines) {
			return nil, false, errUnexpectedEndHunk(FormatContext, index+1)
		}
		line := lines[index]
		if !(strings.HasPrefix(line, "! ") || strings.HasPrefix(line, "+ ") || strings.HasPrefix(line, "  ")) {
			if postCount == 0 {
				break
			}
			return nil, false, errSyntax(FormatContext, index+1)
		}
		postCount++
		index++
	}
	if index < len(lines) && hasPrefixBackslash(lines[index]) {
		index++
	}

	hunk := &ContextDiffHunk{
		lines: append(Lines(nil), lines[startIndex:index]...),
		AnteChunk: ContextDiffChunk{
			offset:       anteBodyStart - startIndex,
			startLineNum: anteStart,
			numLines:     postHeaderIndex - anteBodyStart,
		},
		PostChunk: ContextDiffChunk{
			offset:       postBodyStart - startIndex,
			startLineNum: postStart,
			numLines:     index - postBodyStart,
		},
	}
	return hunk, true, nil
}
