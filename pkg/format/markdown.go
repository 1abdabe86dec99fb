// File: pkg/format/markdown.go
package format

import (
	"strings"
)

// MarkdownBuilder renders the tree as a fenced block under a level-1
// heading and each file under a level-2 heading.
type MarkdownBuilder struct {
	buf strings.Builder
}

func (b *MarkdownBuilder) SetTree(tree string) {
	b.buf.WriteString("# " + TreeTitle + "\n\n```\n")
	b.buf.WriteString(tree)
	b.buf.WriteString("\n```\n\n")
}

func (b *MarkdownBuilder) StartFile(relPath string) {
	b.buf.WriteString("## " + relPath + "\n\n")
}

func (b *MarkdownBuilder) AddChunk(text string) {
	b.buf.WriteString(text)
}

func (b *MarkdownBuilder) EndFile(isLast bool) {
	writeSectionEnd(&b.buf, isLast)
}

func (b *MarkdownBuilder) Build() (string, error) {
	return b.buf.String(), nil
}
