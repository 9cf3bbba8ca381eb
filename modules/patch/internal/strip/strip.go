// Package strip implements the path-stripping collaborator consumed by
// the patch-record and text-diff path accessors (§6): dropping a fixed number of leading
// path components, the way `patch -pN`/`git apply -pN` locate a hunk's
// target file relative to a different working-tree root.
package strip

import "strings"

// NLevels drops the first n '/'-separated components of path. Stripping
// more levels than the path has yields the final component (the
// basename), mirroring patch(1)'s behavior rather than erroring.
func NLevels(path string, n int) string {
	if n <= 0 {
		return path
	}
	parts := strings.Split(path, "/")
	if n >= len(parts) {
		return parts[len(parts)-1]
	}
	return strings.Join(parts[n:], "/")
}
