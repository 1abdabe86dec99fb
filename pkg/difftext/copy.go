// File: pkg/difftext/copy.go
package difftext

import (
	"strings"
	"unicode/utf8"
)

// StripForCopy prepares one line for the clipboard. Empty hunk headers copy
// as nothing. A leading hunk header is removed unless the line starts with
// a sign, then the first remaining character (sign or context indent) is
// dropped.
func StripForCopy(line string) string {
	if IsEmptyHunkHeader(line) {
		return ""
	}

	s := line
	if s != "" && s[0] != '+' && s[0] != '-' {
		if end, ok := FindHunkHeaderPrefix(s); ok {
			s = s[end:]
		}
	}

	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[size:]
}

// GroupIndices returns the copy group around index: a run of lines sharing
// the same sign, or a run of non-empty lines starting with space or tab.
// Any other line is a group of one; an out-of-range index has no group.
func GroupIndices(lines []string, index int) []int {
	if index < 0 || index >= len(lines) {
		return []int{}
	}
	line := lines[index]
	if line == "" {
		return []int{index}
	}

	var same func(string) bool
	switch first := line[0]; first {
	case '+', '-':
		sign := string(first)
		same = func(l string) bool { return strings.HasPrefix(l, sign) }
	case ' ', '\t':
		same = func(l string) bool { return l != "" && (l[0] == ' ' || l[0] == '\t') }
	default:
		return []int{index}
	}

	start, end := index, index
	for start > 0 && same(lines[start-1]) {
		start--
	}
	for end+1 < len(lines) && same(lines[end+1]) {
		end++
	}

	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}

// CopyText returns the stripped text of lines[index], or of its whole copy
// group joined by newlines when group is set.
func CopyText(lines []string, index int, group bool) string {
	if index < 0 || index >= len(lines) {
		return ""
	}
	if !group {
		return StripForCopy(lines[index])
	}
	idx := GroupIndices(lines, index)
	parts := make([]string, len(idx))
	for i, j := range idx {
		parts[i] = StripForCopy(lines[j])
	}
	return strings.Join(parts, "\n")
}
