package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unifiedSample = `--- a/greeting.txt
+++ b/greeting.txt
@@ -1,3 +1,4 @@
 hello
-world
+there
+friend
 goodbye
`

func TestUnifiedDiffParseAndApply(t *testing.T) {
	lines := CompleteLines(unifiedSample)
	diff, err := getTextDiffAt[*UnifiedDiffHunk](NewUnifiedDiffParser(), lines, 0)
	require.NoError(t, err)
	require.NotNil(t, diff)
	assert.Equal(t, len(lines), diff.Len())
	assert.Equal(t, "a/greeting.txt", diff.AntePath())
	assert.Equal(t, "b/greeting.txt", diff.PostPath())
	require.Len(t, diff.Hunks(), 1)

	hunk := diff.Hunks()[0]
	assert.Equal(t, Lines{"hello\n", "world\n", "goodbye\n"}, hunk.AnteLines())
	assert.Equal(t, Lines{"hello\n", "there\n", "friend\n", "goodbye\n"}, hunk.PostLines())

	target := "hello\nworld\ngoodbye\n"
	result := Apply(diff.AbstractHunks(), target, ApplyOptions{}, nil)
	assert.Equal(t, 1, result.Successes)
	assert.Equal(t, 0, result.Failures)
	assert.Equal(t, "hello\nthere\nfriend\ngoodbye\n", result.Text)
}

func TestUnifiedDiffApplyReverse(t *testing.T) {
	lines := CompleteLines(unifiedSample)
	diff, err := getTextDiffAt[*UnifiedDiffHunk](NewUnifiedDiffParser(), lines, 0)
	require.NoError(t, err)

	target := "hello\nthere\nfriend\ngoodbye\n"
	result := Apply(diff.AbstractHunks(), target, ApplyOptions{Reverse: true}, nil)
	assert.Equal(t, 1, result.Successes)
	assert.Equal(t, "hello\nworld\ngoodbye\n", result.Text)
}

func TestUnifiedDiffPureInsertionAtStartOfFile(t *testing.T) {
	// "@@ -0,0 +1,2 @@" records line number 0 on the empty ante side,
	// meaning "before line 1" rather than a real 1-based position; the
	// converted AbstractChunk must start at index 0, not -1.
	text := "--- a/new.txt\n+++ b/new.txt\n@@ -0,0 +1,2 @@\n+first\n+second\n"
	lines := CompleteLines(text)
	diff, err := getTextDiffAt[*UnifiedDiffHunk](NewUnifiedDiffParser(), lines, 0)
	require.NoError(t, err)
	require.NotNil(t, diff)

	hunks := diff.AbstractHunks()
	require.Len(t, hunks, 1)
	assert.Equal(t, 0, hunks[0].Ante.StartIndex)

	result := Apply(hunks, "", ApplyOptions{}, nil)
	assert.Equal(t, 1, result.Successes)
	assert.Equal(t, 0, result.Failures)
	assert.Equal(t, "first\nsecond\n", result.Text)
}

func TestUnifiedDiffNoMatchWithoutHeader(t *testing.T) {
	lines := CompleteLines("just some text\nmore text\n")
	diff, err := getTextDiffAt[*UnifiedDiffHunk](NewUnifiedDiffParser(), lines, 0)
	require.NoError(t, err)
	assert.Nil(t, diff)
}

func TestUnifiedDiffTruncatedHunk(t *testing.T) {
	lines := CompleteLines("--- a\n+++ b\n@@ -1,3 +1,3 @@\n context\n")
	_, err := getTextDiffAt[*UnifiedDiffHunk](NewUnifiedDiffParser(), lines, 0)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "UnexpectedEndHunk", pe.kind)
}
