package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamePatternsMatch(t *testing.T) {
	np := CompileNamePatterns([]string{
		".git", "*.pyc", "*.sqlite*", "file?.txt", "[abc].md", "[!x]y.go", "lit+(1).txt", "[unclosed",
	}, nil)

	tests := []struct {
		name string
		want bool
	}{
		{".git", true},
		{".github", false},
		{"mod.pyc", true},
		{"mod.pyc.bak", false},
		{"db.sqlite", true},
		{"db.sqlite-journal", true},
		{"file1.txt", true},
		{"file12.txt", false},
		{"a.md", true},
		{"d.md", false},
		{"zy.go", true},
		{"xy.go", false},
		{"lit+(1).txt", true},
		{"[unclosed", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, np.Match(tt.name), tt.name)
	}
}

func TestWildcardToRegex(t *testing.T) {
	assert.Equal(t, `.*\.go`, wildcardToRegex("*.go"))
	assert.Equal(t, `a.c`, wildcardToRegex("a?c"))
	assert.Equal(t, `[^ab]z`, wildcardToRegex("[!ab]z"))
	assert.Equal(t, `[\]a]`, wildcardToRegex("[]a]"))
	assert.Equal(t, `\[x`, wildcardToRegex("[x"))
}

func TestNilNamePatternsNeverMatch(t *testing.T) {
	var np *NamePatterns
	assert.False(t, np.Match("anything"))
	assert.Empty(t, CompileNamePatterns(nil, nil).Patterns())
}
