package patch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multiHunkDiff carries four hunks over the same pre-image: a single-line
// replacement, a tail-context insertion, a two-line replacement, and a
// replacement of the file's final (unterminated) line that also appends a
// trailing line.
const multiHunkDiff = "--- a/nums.txt\n" +
	"+++ b/nums.txt\n" +
	"@@ -3,3 +3,3 @@\n" +
	" two\n" +
	"-three\n" +
	"+three mod\n" +
	" four\n" +
	"@@ -6,2 +6,3 @@\n" +
	" five\n" +
	"+extra\n" +
	" six\n" +
	"@@ -8,4 +9,4 @@\n" +
	" seven\n" +
	"-eight\n" +
	"-nine\n" +
	"+eight mod\n" +
	"+nine mod\n" +
	" ten\n" +
	"@@ -12,2 +13,3 @@\n" +
	" eleven\n" +
	"-twelve\n" +
	"\\ No newline at end of file\n" +
	"+twelve\n" +
	"+extra\n"

func parseMultiHunkDiff(t *testing.T) []AbstractHunk {
	t.Helper()
	lines := CompleteLines(multiHunkDiff)
	diff, err := getTextDiffAt[*UnifiedDiffHunk](NewUnifiedDiffParser(), lines, 0)
	require.NoError(t, err)
	require.NotNil(t, diff)
	require.Len(t, diff.Hunks(), 4)
	return diff.AbstractHunks()
}

func TestScenarioExactMultiHunkApplication(t *testing.T) {
	hunks := parseMultiHunkDiff(t)
	ante := "zero\none\ntwo\nthree\nfour\nfive\nsix\nseven\neight\nnine\nten\neleven\ntwelve"
	result := Apply(hunks, ante, ApplyOptions{}, nil)
	assert.Equal(t, 4, result.Successes)
	assert.Equal(t, 0, result.Failures)
	assert.Equal(t,
		"zero\none\ntwo\nthree mod\nfour\nfive\nextra\nsix\nseven\neight mod\nnine mod\nten\neleven\ntwelve\nextra\n",
		result.Text)
}

func TestScenarioMergeViaHeadReduction(t *testing.T) {
	hunks := parseMultiHunkDiff(t)
	// An extra "move" line shifts everything from "five" onward by one,
	// so the second hunk's recorded position misses and must be merged.
	ante := "zero\none\ntwo\nthree\nfour\nmove\nfive\nsix\nseven\neight\nnine\nten\neleven\ntwelve"
	var errs strings.Builder
	result := Apply(hunks, ante, ApplyOptions{}, &errs)
	assert.GreaterOrEqual(t, result.Merges, 1)
	assert.Contains(t, errs.String(), "merged")
	assert.Equal(t, 0, result.Failures)
	assert.Equal(t,
		"zero\none\ntwo\nthree mod\nfour\nmove\nfive\nextra\nsix\nseven\neight mod\nnine mod\nten\neleven\ntwelve\nextra\n",
		result.Text)
}

const twoHunkContextDiff = "*** a/text.txt\n" +
	"--- b/text.txt\n" +
	"***************\n" +
	"*** 1,3 ****\n" +
	"  one\n" +
	"! two\n" +
	"  three\n" +
	"--- 1,3 ----\n" +
	"  one\n" +
	"! TWO\n" +
	"  three\n" +
	"***************\n" +
	"*** 5,7 ****\n" +
	"  five\n" +
	"  six\n" +
	"  seven\n" +
	"--- 5,9 ----\n" +
	"  five\n" +
	"  six\n" +
	"  seven\n" +
	"+ eight\n" +
	"+ nine\n"

func TestScenarioContextDiffParseAndApply(t *testing.T) {
	lines := CompleteLines(twoHunkContextDiff)
	diff, err := getTextDiffAt[*ContextDiffHunk](NewContextDiffParser(), lines, 0)
	require.NoError(t, err)
	require.NotNil(t, diff)
	require.Len(t, diff.Hunks(), 2)
	assert.Equal(t, len(lines), diff.Len())

	result := Apply(diff.AbstractHunks(), "one\ntwo\nthree\nfour\nfive\nsix\nseven\n", ApplyOptions{}, nil)
	assert.Equal(t, 2, result.Successes)
	assert.Equal(t, "one\nTWO\nthree\nfour\nfive\nsix\nseven\neight\nnine\n", result.Text)

	reparsed, err := getTextDiffAt[*ContextDiffHunk](NewContextDiffParser(), lines, 1)
	require.NoError(t, err)
	assert.Nil(t, reparsed)
}

func TestScenarioBase85RoundTripOverSuffixes(t *testing.T) {
	full := "uioyf2oyqo;3nhi8uydjauyo98ua 54\x00jhkh\x1chh;kjjh"
	for start := 0; start <= len(full); start++ {
		suffix := []byte(full[start:])
		enc := Encode85(suffix)
		decoded, err := Decode85(enc)
		require.NoError(t, err)
		assert.Equal(t, suffix, decoded)
	}
}

func TestScenarioAlreadyAppliedIdempotence(t *testing.T) {
	lines := CompleteLines("--- a/f.txt\n+++ b/f.txt\n@@ -1,1 +1,1 @@\n-A\n+B\n")
	diff, err := getTextDiffAt[*UnifiedDiffHunk](NewUnifiedDiffParser(), lines, 0)
	require.NoError(t, err)
	hunks := diff.AbstractHunks()

	first := Apply(hunks, "A\n", ApplyOptions{}, nil)
	assert.Equal(t, 1, first.Successes)
	assert.Equal(t, 0, first.AlreadyApplied)
	assert.Equal(t, "B\n", first.Text)

	second := Apply(hunks, first.Text, ApplyOptions{}, nil)
	assert.Equal(t, 0, second.Successes)
	assert.Equal(t, 1, second.AlreadyApplied)
	assert.Equal(t, "B\n", second.Text)
}

func TestScenarioBinaryPatchRoundTrip(t *testing.T) {
	source := []byte("the original file content, byte for byte")
	target := []byte("the REPLACED file content, byte for byte!!")

	lines := Lines{"GIT binary patch\n"}
	lines = append(lines, "literal "+itoa(len(target))+"\n")
	lines = append(lines, encodeBinaryPayloadLines(t, target)...)
	lines = append(lines, "\n")
	lines = append(lines, "literal "+itoa(len(source))+"\n")
	lines = append(lines, encodeBinaryPayloadLines(t, source)...)
	lines = append(lines, "\n")

	diff, err := GetBinaryDiffAt(lines, 0)
	require.NoError(t, err)
	require.NotNil(t, diff)

	decodedTarget, err := diff.Apply(source, false)
	require.NoError(t, err)
	assert.Equal(t, target, decodedTarget)

	decodedSource, err := diff.Apply(target, true)
	require.NoError(t, err)
	assert.Equal(t, source, decodedSource)
}

