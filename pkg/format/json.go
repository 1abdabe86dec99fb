// File: pkg/format/json.go
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Document is the structured dump.
type Document struct {
	Tree  string `json:"tree"`
	Files []File `json:"files"`
}

// File is one section of a Document.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// JSONBuilder collects a Document and serializes it on Build.
type JSONBuilder struct {
	doc     Document
	current *strings.Builder
}

// NewJSONBuilder returns an empty builder whose files list serializes as [].
func NewJSONBuilder() *JSONBuilder {
	return &JSONBuilder{doc: Document{Files: []File{}}}
}

func (b *JSONBuilder) SetTree(tree string) {
	b.doc.Tree = tree
}

func (b *JSONBuilder) StartFile(relPath string) {
	b.flush()
	b.doc.Files = append(b.doc.Files, File{Path: relPath})
	b.current = &strings.Builder{}
}

func (b *JSONBuilder) AddChunk(text string) {
	if b.current == nil {
		return
	}
	b.current.WriteString(text)
}

func (b *JSONBuilder) EndFile(bool) {
	b.flush()
}

// Build returns the document as indented JSON without HTML escaping.
func (b *JSONBuilder) Build() (string, error) {
	b.flush()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b.doc); err != nil {
		return "", fmt.Errorf("failed to encode dump: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// flush moves the open section's content into the document.
func (b *JSONBuilder) flush() {
	if b.current == nil || len(b.doc.Files) == 0 {
		return
	}
	b.doc.Files[len(b.doc.Files)-1].Content = b.current.String()
	b.current = nil
}
