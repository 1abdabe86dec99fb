package ignore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIgnoredMatchesGitignorePatterns(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	writeFile(t, filepath.Join(root, ".gitignore"), "ignored_dir/\n*.tmp\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ignored_dir"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "normal"), 0o755))
	writeFile(t, filepath.Join(root, "foo.tmp"), "x")
	writeFile(t, filepath.Join(root, "foo.txt"), "x")

	spec := New(zaptest.NewLogger(t))
	changed, err := spec.Build(root)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, spec.Active())

	assert.True(t, spec.Ignored(filepath.Join(root, "ignored_dir")))
	assert.False(t, spec.Ignored(filepath.Join(root, "normal")))
	assert.True(t, spec.Ignored(filepath.Join(root, "foo.tmp")))
	assert.False(t, spec.Ignored(filepath.Join(root, "foo.txt")))
}

func TestSnapshotCoherence(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	gi := filepath.Join(root, ".gitignore")
	writeFile(t, gi, "a/\n")
	writeFile(t, filepath.Join(root, "x.tmp"), "x")

	spec := New(zaptest.NewLogger(t))
	_, err := spec.Build(root)
	require.NoError(t, err)
	before := spec.Snapshot()
	assert.False(t, spec.Ignored(filepath.Join(root, "x.tmp")))

	changed, err := spec.Build(root)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, before.Equal(spec.Snapshot()))

	writeFile(t, gi, "a/\n*.tmp\n")
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(gi, later, later))

	changed, err = spec.Build(root)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, before.Equal(spec.Snapshot()))
	assert.True(t, spec.Ignored(filepath.Join(root, "x.tmp")))
}

func TestBuildRecompilesOnRootChange(t *testing.T) {
	base := t.TempDir()
	first := filepath.Join(base, "one")
	second := filepath.Join(base, "two")
	writeFile(t, filepath.Join(first, "keep.txt"), "x")
	writeFile(t, filepath.Join(second, "keep.txt"), "x")

	spec := New(nil)
	changed, err := spec.Build(first)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = spec.Build(second)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, second, spec.Root())
}

func TestNoPatternsMeansNoMatcher(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "# only a comment\n\n   \n")
	writeFile(t, filepath.Join(root, "a.txt"), "x")

	spec := New(nil)
	_, err := spec.Build(root)
	require.NoError(t, err)
	assert.False(t, spec.Active())
	assert.False(t, spec.Ignored(filepath.Join(root, "a.txt")))
}

func TestMissingBackendNeverIgnores(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.txt\n")
	writeFile(t, filepath.Join(root, "a.txt"), "x")

	spec := NewWithCompiler(nil, nil)
	_, err := spec.Build(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"*.txt"}, spec.Patterns())
	assert.False(t, spec.Ignored(filepath.Join(root, "a.txt")))
}

func TestNestedGitignoreIsAnchoredToItsDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", ".gitignore"), "*.log\n/local.cfg\n!keep.log\n")
	writeFile(t, filepath.Join(root, "sub", "a.log"), "x")
	writeFile(t, filepath.Join(root, "sub", "keep.log"), "x")
	writeFile(t, filepath.Join(root, "sub", "local.cfg"), "x")
	writeFile(t, filepath.Join(root, "top.log"), "x")
	writeFile(t, filepath.Join(root, "local.cfg"), "x")

	spec := New(nil)
	_, err := spec.Build(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"sub/*.log", "/sub/local.cfg", "!sub/keep.log"}, spec.Patterns())

	assert.True(t, spec.Ignored(filepath.Join(root, "sub", "a.log")))
	assert.False(t, spec.Ignored(filepath.Join(root, "sub", "keep.log")), "negation later in the list wins")
	assert.True(t, spec.Ignored(filepath.Join(root, "sub", "local.cfg")))
	assert.False(t, spec.Ignored(filepath.Join(root, "top.log")))
	assert.False(t, spec.Ignored(filepath.Join(root, "local.cfg")))
}

func TestIgnoredOutsideRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "proj")
	writeFile(t, filepath.Join(root, ".gitignore"), "*\n")
	writeFile(t, filepath.Join(base, "other.txt"), "x")

	spec := New(nil)
	_, err := spec.Build(root)
	require.NoError(t, err)
	assert.False(t, spec.Ignored(filepath.Join(base, "other.txt")))
	assert.False(t, spec.Ignored(root))
}

func TestParsePatternLine(t *testing.T) {
	tests := []struct {
		raw, base, want string
		ok              bool
	}{
		{raw: "", ok: false},
		{raw: "# comment", ok: false},
		{raw: "*.pyc", want: "*.pyc", ok: true},
		{raw: "/build", want: "/build", ok: true},
		{raw: "/build", base: "pkg", want: "/pkg/build", ok: true},
		{raw: "./cache/", base: "a/b", want: "a/b/cache/", ok: true},
		{raw: "!important.txt", base: "docs", want: "!docs/important.txt", ok: true},
		{raw: "  spaced  ", want: "spaced", ok: true},
	}
	for _, tt := range tests {
		got, ok := parsePatternLine(tt.raw, tt.base)
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestIgnoredTreatsPatternCharactersAsWildmatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), ""+
		"file?.txt\n"+
		"*.py[co]\n"+
		"notes+draft.txt\n"+
		"report(1).txt\n"+
		"cost$.csv\n"+
		"a|b.txt\n"+
		"data[0-9].bin\n"+
		"tmp[!x].dat\n"+
		"*.log\n"+
		"!keep.log\n")

	spec := New(zaptest.NewLogger(t))
	_, err := spec.Build(root)
	require.NoError(t, err)

	tests := []struct {
		name    string
		ignored bool
	}{
		{"file1.txt", true},
		{"file?.txt", true},
		{"file12.txt", false},
		{"x.pyc", true},
		{"x.pyo", true},
		{"x.py", false},
		{"notes+draft.txt", true},
		{"notesdraft.txt", false},
		{"notessdraft.txt", false},
		{"report(1).txt", true},
		{"report1.txt", false},
		{"cost$.csv", true},
		{"cost.csv", false},
		{"a|b.txt", true},
		{"a.txt", false},
		{"b.txt", false},
		{"data7.bin", true},
		{"dataX.bin", false},
		{"tmpa.dat", true},
		{"tmpx.dat", false},
		{"debug.log", true},
		{"keep.log", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ignored, spec.Ignored(filepath.Join(root, tt.name)), tt.name)
	}
}

func TestIgnoredDirectoryPatternCoversDescendants(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "/build/\nsub/gen\n")
	writeFile(t, filepath.Join(root, "build", "out.o"), "x")
	writeFile(t, filepath.Join(root, "nested", "build", "keep.txt"), "x")
	writeFile(t, filepath.Join(root, "sub", "gen", "a.go"), "x")

	spec := New(nil)
	_, err := spec.Build(root)
	require.NoError(t, err)

	assert.True(t, spec.Ignored(filepath.Join(root, "build")))
	assert.True(t, spec.Ignored(filepath.Join(root, "build", "out.o")))
	assert.False(t, spec.Ignored(filepath.Join(root, "nested", "build")), "rooted pattern stays at the root")
	assert.True(t, spec.Ignored(filepath.Join(root, "sub", "gen", "a.go")))
}

func TestBangClassToCaret(t *testing.T) {
	assert.Equal(t, "tmp[^x].dat", bangClassToCaret("tmp[!x].dat"))
	assert.Equal(t, "![^a]*", bangClassToCaret("![!a]*"))
	assert.Equal(t, `\[!x]`, bangClassToCaret(`\[!x]`))
	assert.Equal(t, "plain", bangClassToCaret("plain"))
}
