// File: pkg/walker/patterns.go
package walker

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Precompiled regular expressions used in name glob parsing.
var (
	globMetaPattern = regexp.MustCompile(`[*?\[]`)
)

// NamePatterns matches a single path component against an ordered list of
// shell-style globs (`*`, `?`, `[seq]`, `[!seq]`). A pattern without glob
// metacharacters is an exact name.
type NamePatterns struct {
	literals map[string]struct{}
	globs    []*regexp.Regexp
	source   []string
}

// CompileNamePatterns compiles patterns in order. Patterns that cannot be
// compiled are logged and dropped.
func CompileNamePatterns(patterns []string, logger *zap.Logger) *NamePatterns {
	if logger == nil {
		logger = zap.NewNop()
	}
	np := &NamePatterns{literals: make(map[string]struct{})}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		np.source = append(np.source, p)
		if !globMetaPattern.MatchString(p) {
			np.literals[p] = struct{}{}
			continue
		}
		rx, err := regexp.Compile(anchorPattern(wildcardToRegex(p)))
		if err != nil {
			logger.Warn("Invalid name pattern", zap.String("pattern", p), zap.Error(err))
			continue
		}
		np.globs = append(np.globs, rx)
	}
	return np
}

// Patterns returns the patterns in their original order.
func (np *NamePatterns) Patterns() []string {
	return append([]string(nil), np.source...)
}

// Match reports whether name equals or glob-matches any pattern.
func (np *NamePatterns) Match(name string) bool {
	if np == nil {
		return false
	}
	if _, ok := np.literals[name]; ok {
		return true
	}
	for _, rx := range np.globs {
		if rx.MatchString(name) {
			return true
		}
	}
	return false
}

// escapeSpecialChars escapes one literal byte of a glob for use in a regex.
func escapeSpecialChars(c byte) string {
	const specialChars = `\.+()|^${}]`
	if strings.IndexByte(specialChars, c) >= 0 {
		return `\` + string(c)
	}
	return string(c)
}

// wildcardToRegex converts '*', '?' and bracket classes to regex equivalents.
// An unterminated '[' is taken literally.
func wildcardToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			end := classEnd(pattern, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(translateClass(pattern[i+1 : end]))
			i = end
		default:
			b.WriteString(escapeSpecialChars(c))
		}
	}
	return b.String()
}

// classEnd returns the index of the ']' closing the class opened at start,
// or -1. A ']' right after '[' or '[!' belongs to the class.
func classEnd(pattern string, start int) int {
	j := start + 1
	if j < len(pattern) && pattern[j] == '!' {
		j++
	}
	if j < len(pattern) && pattern[j] == ']' {
		j++
	}
	for ; j < len(pattern); j++ {
		if pattern[j] == ']' {
			return j
		}
	}
	return -1
}

func translateClass(body string) string {
	negate := strings.HasPrefix(body, "!")
	if negate {
		body = body[1:]
	}
	var b strings.Builder
	b.WriteString("[")
	if negate {
		b.WriteString("^")
	}
	for i := 0; i < len(body); i++ {
		switch c := body[i]; c {
		case '\\', '[', ']':
			b.WriteString(`\` + string(c))
		case '^':
			if i == 0 && !negate {
				b.WriteString(`\^`)
				continue
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteString("]")
	return b.String()
}

// anchorPattern anchors the regex pattern to match the entire name.
func anchorPattern(pattern string) string {
	return `(?s)^` + pattern + `$`
}
