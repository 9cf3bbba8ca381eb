package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompleteLines(t *testing.T) {
	assert.Nil(t, CompleteLines(""))
	assert.Equal(t, Lines{"a\n", "b\n"}, CompleteLines("a\nb\n"))
	assert.Equal(t, Lines{"a\n", "b"}, CompleteLines("a\nb"))
}

func TestHasTrailingWhitespace(t *testing.T) {
	assert.True(t, HasTrailingWhitespace("foo \n"))
	assert.True(t, HasTrailingWhitespace("foo\t"))
	assert.False(t, HasTrailingWhitespace("foo\n"))
	assert.False(t, HasTrailingWhitespace("foo"))
}

func TestContainsSubLinesAt(t *testing.T) {
	haystack := Lines{"a\n", "b\n", "c\n", "d\n"}
	assert.True(t, ContainsSubLinesAt(haystack, Lines{"b\n", "c\n"}, 1))
	assert.False(t, ContainsSubLinesAt(haystack, Lines{"b\n", "x\n"}, 1))
	assert.False(t, ContainsSubLinesAt(haystack, Lines{"c\n", "d\n"}, 3))
}

func TestFindFirstSubLines(t *testing.T) {
	haystack := Lines{"a\n", "b\n", "c\n", "b\n", "c\n"}
	index, ok := FindFirstSubLines(haystack, Lines{"b\n", "c\n"}, 0)
	assert.True(t, ok)
	assert.Equal(t, 1, index)

	index, ok = FindFirstSubLines(haystack, Lines{"b\n", "c\n"}, 2)
	assert.True(t, ok)
	assert.Equal(t, 3, index)

	_, ok = FindFirstSubLines(haystack, Lines{"z\n"}, 0)
	assert.False(t, ok)

	index, ok = FindFirstSubLines(haystack, nil, 2)
	assert.True(t, ok)
	assert.Equal(t, 2, index)
}

func TestFirstInequalityFromHead(t *testing.T) {
	a := Lines{"a\n", "b\n", "c\n"}
	b := Lines{"a\n", "b\n", "x\n"}
	n, ok := FirstInequalityFromHead(a, b)
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = FirstInequalityFromHead(a, a)
	assert.False(t, ok)
	assert.Equal(t, 0, n)

	shorter := Lines{"a\n", "b\n"}
	n, ok = FirstInequalityFromHead(a, shorter)
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestFirstInequalityFromTail(t *testing.T) {
	a := Lines{"x\n", "b\n", "c\n"}
	b := Lines{"a\n", "b\n", "c\n"}
	n, ok := FirstInequalityFromTail(a, b)
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = FirstInequalityFromTail(a, a)
	assert.False(t, ok)
	assert.Equal(t, 0, n)

	// Shorter array is a full common suffix of the longer one: the common
	// length is min(len(a), len(b)), not the difference in their lengths.
	longer := Lines{"x\n", "b\n", "c\n"}
	shorter := Lines{"b\n", "c\n"}
	n, ok = FirstInequalityFromTail(longer, shorter)
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}
