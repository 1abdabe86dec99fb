package format

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"projectdump/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap/zaptest"
)

func buildTwoFiles(t *testing.T, f config.Format) string {
	t.Helper()
	b, err := New(f)
	require.NoError(t, err)
	b.SetTree("proj/\n└── a.txt")
	b.StartFile("a.txt")
	b.AddChunk("alpha ")
	b.AddChunk("<one>")
	b.EndFile(false)
	b.StartFile("dir/b.txt")
	b.AddChunk("beta")
	b.EndFile(true)
	out, err := b.Build()
	require.NoError(t, err)
	return out
}

func TestSeparatorAppearsExactlyOnce(t *testing.T) {
	for _, f := range []config.Format{config.FormatText, config.FormatMarkdown} {
		out := buildTwoFiles(t, f)
		assert.Equal(t, 1, strings.Count(out, Separator), string(f))
		assert.False(t, strings.HasSuffix(strings.TrimSpace(out), Separator), string(f))
	}
}

func TestTextLayout(t *testing.T) {
	want := "Project structure\n\n" +
		"proj/\n└── a.txt\n\n" +
		"a.txt\n\nalpha <one>\n\n" +
		"=====\n\n" +
		"dir/b.txt\n\nbeta\n\n"
	assert.Equal(t, want, buildTwoFiles(t, config.FormatText))
}

func TestSingleSectionHasNoSeparator(t *testing.T) {
	b := &TextBuilder{}
	b.SetTree("t")
	b.StartFile("only.txt")
	b.AddChunk("x")
	b.EndFile(true)
	out, err := b.Build()
	require.NoError(t, err)
	assert.NotContains(t, out, Separator)
}

func TestMarkdownStructure(t *testing.T) {
	src := []byte(buildTwoFiles(t, config.FormatMarkdown))
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	type heading struct {
		level int
		text  string
	}
	var headings []heading
	var fenced []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			headings = append(headings, heading{node.Level, string(node.Text(src))})
		case *ast.FencedCodeBlock:
			var sb strings.Builder
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(src))
			}
			fenced = append(fenced, sb.String())
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)

	assert.Equal(t, []heading{
		{1, TreeTitle},
		{2, "a.txt"},
		{2, "dir/b.txt"},
	}, headings)
	require.Len(t, fenced, 1)
	assert.Equal(t, "proj/\n└── a.txt\n", fenced[0])
}

func TestJSONRoundTrip(t *testing.T) {
	out := buildTwoFiles(t, config.FormatJSON)
	assert.NotContains(t, out, Separator)
	assert.Contains(t, out, "<one>", "no HTML escaping")

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "proj/\n└── a.txt", doc.Tree)
	assert.Equal(t, []File{
		{Path: "a.txt", Content: "alpha <one>"},
		{Path: "dir/b.txt", Content: "beta"},
	}, doc.Files)
}

func TestJSONEmptyFilesIsArray(t *testing.T) {
	b := NewJSONBuilder()
	b.SetTree("proj/")
	out, err := b.Build()
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	assert.Equal(t, "[]", string(raw["files"]))
}

func TestJSONBuildWithoutEndFile(t *testing.T) {
	b := NewJSONBuilder()
	b.StartFile("a")
	b.AddChunk("partial")
	out, err := b.Build()
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Files, 1)
	assert.Equal(t, "partial", doc.Files[0].Content)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New("html")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".txt", Extension(config.FormatText))
	assert.Equal(t, ".md", Extension(config.FormatMarkdown))
	assert.Equal(t, ".json", Extension(config.FormatJSON))
}

func TestWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "dump.txt")
	require.NoError(t, WriteFile(path, "content", zaptest.NewLogger(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}
