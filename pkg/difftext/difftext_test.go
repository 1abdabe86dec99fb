package difftext

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDiffBlockIndices(t *testing.T) {
	lines := []string{"diff --git a/x b/x", "", "   ", "", "+line", "diff something", "not-empty", ""}
	set := DetectDiffBlockIndices(lines)
	for _, i := range []int{0, 1, 2, 3, 5, 6, 7} {
		assert.True(t, set.Has(i), "index %d", i)
	}
	assert.False(t, set.Has(4))
}

func TestDetectDiffBlockNeedsWordBoundary(t *testing.T) {
	set := DetectDiffBlockIndices([]string{"diffstat", "x", "  diff", "y", "\tdiff:z"})
	assert.False(t, set.Has(0))
	assert.False(t, set.Has(1))
	assert.True(t, set.Has(2))
	assert.True(t, set.Has(3))
	assert.True(t, set.Has(4))
}

func TestClassifyLinePriority(t *testing.T) {
	lines := []string{
		"diff --git a/f b/f",
		"+looks added",
		"-looks removed",
		"@@ -1 +1 @@ looks like hunk",
		"@@ -1,3 +1,4 @@ foo",
		"@@",
		"   @@   @@   ",
		"+@@ -1 +1 @@",
		"-minus",
		" context",
		"\tctx",
		"",
	}
	blocks := DetectDiffBlockIndices(lines)
	want := []LineType{
		HeaderDiffBlock, HeaderDiffBlock, HeaderDiffBlock, HeaderDiffBlock,
		HeaderHunk, HeaderHunkEmpty, HeaderHunkEmpty, Plus, Minus, Other, Other, Other,
	}
	for i, w := range want {
		assert.Equal(t, w, ClassifyLine(lines, i, blocks), "line %d %q", i, lines[i])
	}
	assert.Equal(t, Other, ClassifyLine(lines, -1, blocks))
	assert.Equal(t, Other, ClassifyLine(lines, len(lines), blocks))
}

func TestFindHunkHeaderPrefix(t *testing.T) {
	tests := []struct {
		line string
		end  int
		ok   bool
	}{
		{"@@ -1 +1 @@ tail", len("@@ -1 +1 @@"), true},
		{"  \t@@ x @@", len("  \t@@ x @@"), true},
		{"@@ a @@ b @@", len("@@ a @@"), true},
		{"@@ unclosed", 0, false},
		{"x @@ y @@", 0, false},
		{"+@@ -1 +1 @@", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		end, ok := FindHunkHeaderPrefix(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.end, end, tt.line)
	}
}

func TestIsEmptyHunkHeader(t *testing.T) {
	for _, l := range []string{"@@", "@@    @@", "   @@   @@   ", "@@@@", "@@ \t @@ trailing"} {
		assert.True(t, IsEmptyHunkHeader(l), l)
	}
	for _, l := range []string{"@@ -1,3 +1,4 @@", "", "x@@", "+@@", "@ @"} {
		assert.False(t, IsEmptyHunkHeader(l), l)
	}
}

func TestStripForCopy(t *testing.T) {
	tests := map[string]string{
		"+abc":                      "abc",
		"-xyz":                      "xyz",
		"@@ -1,3 +1,4 @@ foo":       "foo",
		"   @@ -1,3 +1,4 @@ bar":    "bar",
		"+@@ -1,3 +1,4 @@ foo":      "@@ -1,3 +1,4 @@ foo",
		"@@":                        "",
		"@@    @@":                  "",
		"":                          "",
		"+++abc":                    "++abc",
		" context":                  "context",
		"\tindented":                "indented",
		"ëxtra":                     "xtra",
		"@@ -1 +1 @@":               "",
		"@@ -1 +1 @@ü":              "",
		"@@ -1 +1 @@  two spaces":   " two spaces",
		"-@@ not a header @@ there": "@@ not a header @@ there",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripForCopy(in), "input %q", in)
	}
}

func TestGroupIndices(t *testing.T) {
	lines := []string{"-a", "-b", " c", "+d", "+e", "-f"}
	assert.Equal(t, []int{0, 1}, GroupIndices(lines, 1))
	assert.Equal(t, []int{3, 4}, GroupIndices(lines, 3))
	assert.Equal(t, []int{2}, GroupIndices(lines, 2))
	assert.Equal(t, []int{5}, GroupIndices(lines, 5))

	ctx := []string{" header", "  more", "\tindented", "+change"}
	assert.Equal(t, []int{0, 1, 2}, GroupIndices(ctx, 0))
	assert.Equal(t, []int{0, 1, 2}, GroupIndices(ctx, 1))
	assert.Equal(t, []int{3}, GroupIndices(ctx, 3))
}

func TestGroupIndicesEdges(t *testing.T) {
	lines := []string{" a", "", " b", "x", "@@ -1 @@"}
	assert.Equal(t, []int{1}, GroupIndices(lines, 1), "empty line is its own group")
	assert.Equal(t, []int{0}, GroupIndices(lines, 0), "empty line breaks a context run")
	assert.Equal(t, []int{3}, GroupIndices(lines, 3))
	assert.Equal(t, []int{4}, GroupIndices(lines, 4))
	assert.Empty(t, GroupIndices(lines, -1))
	assert.Empty(t, GroupIndices(lines, 5))
	assert.Empty(t, GroupIndices(nil, 0))
}

func TestCopyText(t *testing.T) {
	lines := []string{"-a", "-b", " c"}
	assert.Equal(t, "b", CopyText(lines, 1, false))
	assert.Equal(t, "a\nb", CopyText(lines, 1, true))
	assert.Equal(t, "", CopyText(lines, 9, true))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c", "d"}, SplitLines("a\nb\r\nc\rd"))
	assert.Equal(t, []string{"a", ""}, SplitLines("a\n\n"))
	assert.Equal(t, []string{"a"}, SplitLines("a\n"))
	assert.Equal(t, []string{}, SplitLines(""))
	assert.Equal(t, []string{""}, SplitLines("\n"))
}

func generatedDiff(t *testing.T) string {
	t.Helper()
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines("one\ntwo\nthree\nfour\n"),
		B:        difflib.SplitLines("one\nTWO\nthree\nfour\nfive\n"),
		FromFile: "a/x.txt",
		ToFile:   "b/x.txt",
		Context:  1,
	}
	body, err := difflib.GetUnifiedDiffString(ud)
	require.NoError(t, err)
	return "diff --git a/x.txt b/x.txt\nindex 1111111..2222222 100644\n" + body
}

func TestDocumentOnGeneratedDiff(t *testing.T) {
	doc := NewDocument(generatedDiff(t))
	lines := doc.Lines()
	require.GreaterOrEqual(t, len(lines), 8)

	types := doc.Types()
	assert.Equal(t, []LineType{HeaderDiffBlock, HeaderDiffBlock, HeaderDiffBlock, HeaderDiffBlock}, types[:4],
		"the --- and +++ lines belong to the header block")

	var hunks, plus, minus int
	for i, ty := range types[4:] {
		line := lines[i+4]
		switch ty {
		case HeaderHunk:
			hunks++
			assert.True(t, strings.HasPrefix(line, "@@"))
		case Plus:
			plus++
		case Minus:
			minus++
		}
	}
	assert.GreaterOrEqual(t, hunks, 1)
	assert.Equal(t, 2, plus)
	assert.Equal(t, 1, minus)

	for i, l := range lines {
		if l == "+TWO" {
			assert.Equal(t, "TWO", doc.Copy(i, false))
		}
	}
}

func TestDocumentRevisionInvalidatesBlocks(t *testing.T) {
	doc := NewDocument("diff a\nx\ny\nz\n+w")
	rev := doc.Revision()
	assert.Equal(t, HeaderDiffBlock, doc.Classify(3))
	assert.Equal(t, Plus, doc.Classify(4))

	doc.SetText("x\ny\nz\n+w\ndiff b")
	assert.Greater(t, doc.Revision(), rev)
	assert.Equal(t, Other, doc.Classify(0))
	assert.Equal(t, Plus, doc.Classify(3))
	assert.Equal(t, HeaderDiffBlock, doc.Classify(4))
	assert.Equal(t, 5, doc.Len())
}

func TestModifier(t *testing.T) {
	for in, want := range map[string]Modifier{
		"Ctrl": ModCtrl, "shift": ModShift, "ALT": ModAlt, "Ctrl+Shift": ModCtrlShift, "shift+ctrl": ModCtrlShift,
	} {
		got, err := ParseModifier(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", "Meta", "Ctrl+Alt"} {
		_, err := ParseModifier(bad)
		assert.ErrorIs(t, err, ErrUnknownModifier, bad)
	}

	assert.True(t, ModCtrl.Satisfied(true, false, false))
	assert.False(t, ModCtrl.Satisfied(true, true, false))
	assert.True(t, ModCtrlShift.Satisfied(true, true, false))
	assert.False(t, ModCtrlShift.Satisfied(true, false, false))
	assert.True(t, ModAlt.Satisfied(false, false, true))
	assert.False(t, ModShift.Satisfied(false, false, false))
	assert.Equal(t, "Ctrl+Shift", ModCtrlShift.String())
}

func TestFlashDecaysLinearly(t *testing.T) {
	f := NewFlash(400 * time.Millisecond)
	t0 := time.Unix(1000, 0)
	f.Trigger([]int{2, 1}, t0)

	assert.InDelta(t, 1.0, f.Intensity(1, t0), 1e-9)
	assert.InDelta(t, 0.75, f.Intensity(1, t0.Add(100*time.Millisecond)), 1e-9)
	assert.InDelta(t, 0.5, f.Intensity(2, t0.Add(200*time.Millisecond)), 1e-9)
	assert.Equal(t, 0.0, f.Intensity(1, t0.Add(400*time.Millisecond)))
	assert.Equal(t, 0.0, f.Intensity(7, t0))

	assert.Equal(t, []int{1, 2}, f.Active(t0.Add(time.Millisecond)))
	assert.Empty(t, f.Active(t0.Add(time.Second)))

	f.Trigger([]int{3}, t0)
	f.Reset()
	assert.Empty(t, f.Active(t0))

	assert.Equal(t, 0.0, NewFlash(0).Intensity(0, t0))
}

func TestRendererPlainAndColored(t *testing.T) {
	doc := NewDocument("@@ -1 +1 @@\n-old\n+new\n same")

	var plain bytes.Buffer
	require.NoError(t, NewRenderer("light", false).Render(&plain, doc, nil, time.Now()))
	assert.Equal(t, "@@ -1 +1 @@\n-old\n+new\n same\n", plain.String())

	var colored bytes.Buffer
	now := time.Now()
	flash := NewFlash(time.Second)
	flash.Trigger([]int{2}, now)
	require.NoError(t, NewRenderer("dark", true).Render(&colored, doc, flash, now))
	out := colored.String()
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "+new")
	assert.Contains(t, out, "\n same\n", "context lines are not colored")
}

func TestLineTypeString(t *testing.T) {
	assert.Equal(t, "HeaderHunkEmpty", HeaderHunkEmpty.String())
	assert.Equal(t, "LineType(99)", LineType(99).String())
}
