// File: pkg/format/text.go
package format

import (
	"strings"
)

// TextBuilder renders the plain-text dump.
type TextBuilder struct {
	buf strings.Builder
}

func (b *TextBuilder) SetTree(tree string) {
	b.buf.WriteString(TreeTitle + "\n\n")
	b.buf.WriteString(tree)
	b.buf.WriteString("\n\n")
}

func (b *TextBuilder) StartFile(relPath string) {
	b.buf.WriteString(relPath + "\n\n")
}

func (b *TextBuilder) AddChunk(text string) {
	b.buf.WriteString(text)
}

func (b *TextBuilder) EndFile(isLast bool) {
	writeSectionEnd(&b.buf, isLast)
}

func (b *TextBuilder) Build() (string, error) {
	return b.buf.String(), nil
}

// writeSectionEnd closes a txt or md section.
func writeSectionEnd(buf *strings.Builder, isLast bool) {
	buf.WriteString("\n\n")
	if !isLast {
		buf.WriteString(Separator + "\n\n")
	}
}
