// File: pkg/difftext/classify.go
package difftext

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// LineType is the highlighting category of one diff line.
type LineType int

const (
	Other LineType = iota
	HeaderDiffBlock
	HeaderHunk
	HeaderHunkEmpty
	Plus
	Minus
)

var lineTypeNames = [...]string{
	Other:           "Other",
	HeaderDiffBlock: "HeaderDiffBlock",
	HeaderHunk:      "HeaderHunk",
	HeaderHunkEmpty: "HeaderHunkEmpty",
	Plus:            "Plus",
	Minus:           "Minus",
}

func (t LineType) String() string {
	if t >= 0 && int(t) < len(lineTypeNames) {
		return lineTypeNames[t]
	}
	return fmt.Sprintf("LineType(%d)", int(t))
}

// diffBlockTail is how many lines after a `diff` line join its block.
const diffBlockTail = 3

const hunkMarker = "@@"

// IndexSet is a set of line indices.
type IndexSet map[int]struct{}

// Has reports whether i is in the set.
func (s IndexSet) Has(i int) bool {
	_, ok := s[i]
	return ok
}

// DetectDiffBlockIndices marks every line that starts with the word `diff`
// after leading whitespace, together with the three lines that follow it,
// whatever they contain.
func DetectDiffBlockIndices(lines []string) IndexSet {
	set := IndexSet{}
	for i, line := range lines {
		if !isDiffHeader(line) {
			continue
		}
		for j := i; j <= i+diffBlockTail && j < len(lines); j++ {
			set[j] = struct{}{}
		}
	}
	return set
}

func isDiffHeader(line string) bool {
	s := strings.TrimLeftFunc(line, unicode.IsSpace)
	if !strings.HasPrefix(s, "diff") {
		return false
	}
	next, _ := utf8.DecodeRuneInString(s[len("diff"):])
	return next == utf8.RuneError || !isWordRune(next)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// FindHunkHeaderPrefix locates a `@@ … @@` span preceded only by whitespace
// at the start of line. It returns the byte offset just past the closing
// `@@`; the span always starts at 0. The leading sign of the line is not
// consulted.
func FindHunkHeaderPrefix(line string) (end int, ok bool) {
	lead := len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
	if !strings.HasPrefix(line[lead:], hunkMarker) {
		return 0, false
	}
	open := lead + len(hunkMarker)
	closeAt := strings.Index(line[open:], hunkMarker)
	if closeAt < 0 {
		return 0, false
	}
	if strings.Contains(line[open:open+closeAt], "\n") {
		return 0, false
	}
	return open + closeAt + len(hunkMarker), true
}

// IsEmptyHunkHeader reports whether line, after leading whitespace, starts
// with `@@` and has either no second `@@` or only whitespace between the two.
func IsEmptyHunkHeader(line string) bool {
	s := strings.TrimLeftFunc(line, unicode.IsSpace)
	if !strings.HasPrefix(s, hunkMarker) {
		return false
	}
	rest := s[len(hunkMarker):]
	closeAt := strings.Index(rest, hunkMarker)
	if closeAt < 0 {
		return true
	}
	return strings.TrimSpace(rest[:closeAt]) == ""
}

// ClassifyLine returns the type of lines[index]. Block membership wins over
// every other rule; an out-of-range index is Other.
func ClassifyLine(lines []string, index int, blocks IndexSet) LineType {
	if index < 0 || index >= len(lines) {
		return Other
	}
	if blocks.Has(index) {
		return HeaderDiffBlock
	}

	line := lines[index]
	if IsEmptyHunkHeader(line) {
		return HeaderHunkEmpty
	}
	if _, ok := FindHunkHeaderPrefix(line); ok {
		return HeaderHunk
	}
	switch {
	case strings.HasPrefix(line, "+"):
		return Plus
	case strings.HasPrefix(line, "-"):
		return Minus
	}
	return Other
}
