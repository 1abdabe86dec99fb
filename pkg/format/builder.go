// File: pkg/format/builder.go
package format

import (
	"fmt"

	"projectdump/pkg/config"
)

const (
	// Separator is written between consecutive file sections in txt and md.
	Separator = "====="
	// TreeTitle heads the tree section.
	TreeTitle = "Project structure"
)

// Builder accumulates one dump document. A builder is used for a single
// scan and is not safe for concurrent use.
type Builder interface {
	// SetTree records the rendered tree.
	SetTree(tree string)
	// StartFile opens a section for relPath.
	StartFile(relPath string)
	// AddChunk appends text to the open section.
	AddChunk(text string)
	// EndFile closes the open section. isLast suppresses the separator.
	EndFile(isLast bool)
	// Build returns the finished document.
	Build() (string, error)
}

// New returns the builder for f.
func New(f config.Format) (Builder, error) {
	switch f {
	case config.FormatText:
		return &TextBuilder{}, nil
	case config.FormatMarkdown:
		return &MarkdownBuilder{}, nil
	case config.FormatJSON:
		return NewJSONBuilder(), nil
	}
	return nil, fmt.Errorf("%w: unsupported output format %q", config.ErrInvalid, f)
}

// Extension returns the file extension conventionally used for f.
func Extension(f config.Format) string {
	switch f {
	case config.FormatMarkdown:
		return ".md"
	case config.FormatJSON:
		return ".json"
	}
	return ".txt"
}
