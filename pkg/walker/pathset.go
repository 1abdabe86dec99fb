// File: pkg/walker/pathset.go
package walker

import (
	"os"
	"path/filepath"
	"strings"
)

// PathSet is a set of absolute, cleaned paths.
type PathSet map[string]struct{}

// NewPathSet builds a set from paths, resolving each to an absolute path.
func NewPathSet(paths ...string) PathSet {
	s := make(PathSet, len(paths))
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts path. Paths that cannot be made absolute are kept as cleaned.
func (s PathSet) Add(path string) {
	s[absClean(path)] = struct{}{}
}

// Has reports whether path itself is in the set.
func (s PathSet) Has(path string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[absClean(path)]
	return ok
}

// HasAncestor reports whether path or any of its ancestors is in the set.
func (s PathSet) HasAncestor(path string) bool {
	if len(s) == 0 {
		return false
	}
	p := absClean(path)
	for dir := range s {
		if p == dir || strings.HasPrefix(p, strings.TrimSuffix(dir, string(os.PathSeparator))+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

// Slice returns the members in no particular order.
func (s PathSet) Slice() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}

func absClean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
