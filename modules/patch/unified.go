package patch

import (
	"regexp"
	"strconv"
	"strings"
)

// UnifiedDiffHunk is one `@@ -A,B +C,D @@` hunk of a unified diff (§4.5.1).
type UnifiedDiffHunk struct {
	lines            Lines
	anteStartLineNum int
	postStartLineNum int
}

// UnifiedDiff is a parsed unified-diff body.
type UnifiedDiff = TextDiff[*UnifiedDiffHunk]

func (h *UnifiedDiffHunk) Len() int       { return len(h.lines) }
func (h *UnifiedDiffHunk) RawLines() Lines { return h.lines }

// AnteLines returns the hunk's ante-side body: context (' ') and removed
// ('-') lines, in order, with their marker column stripped.
func (h *UnifiedDiffHunk) AnteLines() Lines {
	return extractSourceLines(h.lines[1:], 1, func(l Line) bool { return strings.HasPrefix(l, "+") })
}

// PostLines returns the hunk's post-side body: context (' ') and added
// ('+') lines, in order, with their marker column stripped.
func (h *UnifiedDiffHunk) PostLines() Lines {
	return extractSourceLines(h.lines[1:], 1, func(l Line) bool { return strings.HasPrefix(l, "-") })
}

func (h *UnifiedDiffHunk) AddsTrailingWhitespace() bool {
	for _, line := range h.lines[1:] {
		if strings.HasPrefix(line, "+") && HasTrailingWhitespace(line) {
			return true
		}
	}
	return false
}

// AbstractHunk converts the typed hunk to the application engine's IR,
// converting 1-based hunk-header line numbers to 0-based indices. A side
// with a zero line count reports line number 0, meaning "before line 1"
// rather than a real 1-based position; that maps to index 0, not -1.
func (h *UnifiedDiffHunk) AbstractHunk() AbstractHunk {
	ante := AbstractChunk{StartIndex: max(h.anteStartLineNum-1, 0), Lines: h.AnteLines()}
	post := AbstractChunk{StartIndex: max(h.postStartLineNum-1, 0), Lines: h.PostLines()}
	return NewAbstractHunk(ante, post)
}

// UnifiedDiffParser recognizes unified-diff headers and hunks.
type UnifiedDiffParser struct {
	anteFileRE  *regexp.Regexp
	postFileRE  *regexp.Regexp
	hunkStartRE *regexp.Regexp
}

// NewUnifiedDiffParser builds a ready-to-use UnifiedDiffParser.
func NewUnifiedDiffParser() *UnifiedDiffParser {
	return &UnifiedDiffParser{
		anteFileRE:  buildFileLineRE("---"),
		postFileRE:  buildFileLineRE("+++"),
		hunkStartRE: regexp.MustCompile(`^@@ -(\d+)(,(\d+))? \+(\d+)(,(\d+))? @@.*(\n)?$`),
	}
}

func (p *UnifiedDiffParser) MatchAnteFile(line Line) (PathAndTimestamp, bool) {
	return matchFileLine(p.anteFileRE, line)
}

func (p *UnifiedDiffParser) MatchPostFile(line Line) (PathAndTimestamp, bool) {
	return matchFileLine(p.postFileRE, line)
}

func parseHunkCount(raw string, lineNum int, defaultVal int) (int, error) {
	if raw == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errParseNumber(lineNum, err)
	}
	return n, nil
}

// GetHunkAt recognizes a unified hunk starting at lines[startIndex].
func (p *UnifiedDiffParser) GetHunkAt(lines Lines, startIndex int) (*UnifiedDiffHunk, bool, error) {
	m := p.hunkStartRE.FindStringSubmatch(lines[startIndex])
	if m == nil {
		return nil, false, nil
	}
	lineNum := startIndex + 1
	anteStart, err := parseHunkCount(m[1], lineNum, 0)
	if err != nil {
		return nil, false, err
	}
	anteLen, err := parseHunkCount(m[3], lineNum, 1)
	if err != nil {
		return nil, false, err
	}
	postStart, err := parseHunkCount(m[4], lineNum, 0)
	if err != nil {
		return nil, false, err
	}
	postLen, err := parseHunkCount(m[6], lineNum, 1)
	if err != nil {
		return nil, false, err
	}

	index := startIndex + 1
	anteCount, postCount := 0, 0
	for anteCount < anteLen || postCount < postLen {
		if index >= len(lines) {
			return nil, false, errUnexpectedEndHunk(FormatUnified, index+1)
		}
		line := lines[index]
		switch {
		case hasPrefixBackslash(line):
		case strings.HasPrefix(line, " "):
			anteCount++
			postCount++
		case strings.HasPrefix(line, "-"):
			anteCount++
		case strings.HasPrefix(line, "+"):
			postCount++
		default:
			return nil, false, errSyntax(FormatUnified, index+1)
		}
		index++
	}

	hunk := &UnifiedDiffHunk{
		lines:            append(Lines(nil), lines[startIndex:index]...),
		anteStartLineNum: anteStart,
		postStartLineNum: postStart,
	}
	return hunk, true, nil
}
