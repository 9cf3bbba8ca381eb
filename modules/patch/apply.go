package patch

import (
	"fmt"
	"io"
	"strings"
)

// AbstractChunk is one half of an AbstractHunk: the lines expected (ante)
// or supplied (post) at a 0-based start index into the target text (§3).
type AbstractChunk struct {
	StartIndex int
	Lines      Lines
}

func (c AbstractChunk) matchesAt(lines Lines, offset int) bool {
	return ContainsSubLinesAt(lines, c.Lines, c.StartIndex+offset)
}

// matchFuzzy searches for a context-trimmed version of c's lines at or
// after startIndex, trying every (headRedn, tailRedn) pair in
// [0,fuzz.HeadLen) x [0,fuzz.TailLen) with head-reduction as the outer
// loop and tail-reduction as the inner loop; the first hit wins (§4.8).
func (c AbstractChunk) matchFuzzy(lines Lines, startIndex int, fuzz Fuzz) (found AbstractChunk, headRedn, tailRedn int, ok bool) {
	for headRedn = 0; headRedn < fuzz.HeadLen; headRedn++ {
		for tailRedn = 0; tailRedn < fuzz.TailLen; tailRedn++ {
			toIndex := len(c.Lines) - tailRedn
			if toIndex < headRedn {
				continue
			}
			reduced := c.Lines[headRedn:toIndex]
			if index, hit := FindFirstSubLines(lines, reduced, startIndex); hit {
				return AbstractChunk{StartIndex: index, Lines: reduced}, headRedn, tailRedn, true
			}
		}
	}
	return AbstractChunk{}, 0, 0, false
}

// Fuzz records how many leading/trailing lines an ante and post chunk have
// in common; those lines may be dropped during fuzzy matching (§3).
type Fuzz struct {
	HeadLen int
	TailLen int
}

func computeFuzz(ante, post Lines) Fuzz {
	head, ok := FirstInequalityFromHead(ante, post)
	if !ok {
		head = len(ante)
	}
	tail, ok := FirstInequalityFromTail(ante, post)
	if !ok {
		tail = len(ante)
	}
	return Fuzz{HeadLen: head, TailLen: tail}
}

func (f Fuzz) empty() bool { return f.HeadLen == 0 && f.TailLen == 0 }

// AbstractHunk is the application engine's IR derived from a typed hunk
// (§3): a pair of chunks plus the context fuzz between them.
type AbstractHunk struct {
	Ante AbstractChunk
	Post AbstractChunk
	fuzz Fuzz
}

// NewAbstractHunk builds an AbstractHunk, computing its context fuzz from
// the given chunks.
func NewAbstractHunk(ante, post AbstractChunk) AbstractHunk {
	return AbstractHunk{Ante: ante, Post: post, fuzz: computeFuzz(ante.Lines, post.Lines)}
}

// Reversed swaps the ante and post sides and recomputes the context fuzz
// from the swapped chunks, per §4.8's handling of the reverse flag.
func (h AbstractHunk) Reversed() AbstractHunk {
	return NewAbstractHunk(h.Post, h.Ante)
}

// AppliedResult is the outcome of applying a patch to a target text (§3).
type AppliedResult struct {
	Text           string
	Successes      int
	Merges         int
	AlreadyApplied int
	AlreadyMerged  int
	Failures       int
}

// ApplyOptions configures the hunk application engine. The zero value
// applies the hunks forward with unlabelled merge reports.
type ApplyOptions struct {
	Reverse bool
	// ReportedFilePath, when non-empty, prefixes the merge reports written
	// to errSink; purely informational, never consulted for matching.
	ReportedFilePath string
}

func formatPosition(startIndex, length int) string {
	return fmt.Sprintf("line %d (%d lines)", startIndex+1, length)
}

// Apply rewrites text by matching each hunk's ante block exactly or
// fuzzily, detecting already-applied and already-merged states, and
// emitting conflict markers on failure (§4.8). Human-readable merge
// reports are written to errSink, which may be nil.
func Apply(hunks []AbstractHunk, text string, opts ApplyOptions, errSink io.Writer) AppliedResult {
	lines := CompleteLines(text)
	var out strings.Builder
	var result AppliedResult
	currentOffset := 0
	linesIndex := 0

	for hunkIndex, hunk := range hunks {
		if opts.Reverse {
			hunk = hunk.Reversed()
		}
		ante, post := hunk.Ante, hunk.Post

		switch {
		case ante.matchesAt(lines, currentOffset):
			index := ante.StartIndex + currentOffset
			writeLines(&out, lines[linesIndex:index])
			writeLines(&out, post.Lines)
			linesIndex = index + len(ante.Lines)
			result.Successes++

		default:
			if reduced, headRedn, tailRedn, ok := ante.matchFuzzy(lines, linesIndex, hunk.fuzz); ok {
				writeLines(&out, lines[linesIndex:reduced.StartIndex])
				end := len(post.Lines) - tailRedn
				writeLines(&out, post.Lines[headRedn:end])
				linesIndex = reduced.StartIndex + len(reduced.Lines)
				currentOffset = reduced.StartIndex - headRedn - ante.StartIndex
				result.Merges++
				if errSink != nil {
					label := ""
					if opts.ReportedFilePath != "" {
						label = opts.ReportedFilePath + ": "
					}
					fmt.Fprintf(errSink, "%s%s\n", label, tracef("Hunk #%d merged at %s", hunkIndex+1, formatPosition(reduced.StartIndex, len(reduced.Lines))))
				}
			} else if post.matchesAt(lines, currentOffset) {
				index := post.StartIndex + currentOffset
				writeLines(&out, lines[linesIndex:index])
				writeLines(&out, lines[index:index+len(post.Lines)])
				linesIndex = index + len(post.Lines)
				currentOffset += len(post.Lines) - len(ante.Lines)
				result.AlreadyApplied++
			} else if reduced, headRedn, _, ok := post.matchFuzzy(lines, linesIndex, hunk.fuzz); ok {
				writeLines(&out, lines[linesIndex:reduced.StartIndex])
				writeLines(&out, reduced.Lines)
				linesIndex = reduced.StartIndex + len(reduced.Lines)
				currentOffset = reduced.StartIndex - headRedn - post.StartIndex
				result.AlreadyMerged++
			} else if linesIndex < len(lines) {
				out.WriteString("<<<<<<<\n")
				writeLines(&out, ante.Lines)
				out.WriteString("=======\n")
				writeLines(&out, post.Lines)
				out.WriteString(">>>>>>>\n")
				result.Failures++
			} else {
				result.Failures += len(hunks) - hunkIndex
				result.Text = out.String() + strings.Join(lines[linesIndex:], "")
				return result
			}
		}
	}
	writeLines(&out, lines[linesIndex:])
	result.Text = out.String()
	return result
}

// ApplyReader reads the target text from r and applies hunks to it.
func ApplyReader(hunks []AbstractHunk, r io.Reader, opts ApplyOptions, errSink io.Writer) (AppliedResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return AppliedResult{}, errIO(err)
	}
	return Apply(hunks, string(data), opts, errSink), nil
}

func writeLines(out *strings.Builder, lines Lines) {
	for _, line := range lines {
		out.WriteString(line)
	}
}
