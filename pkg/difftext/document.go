// File: pkg/difftext/document.go
package difftext

// Document holds pasted diff text and the state derived from it. Every
// SetText bumps the revision; the block set is cached per revision and is
// never served for an older one. A Document is meant for a single goroutine.
type Document struct {
	text     string
	lines    []string
	revision uint64

	blocks    IndexSet
	blocksRev uint64
	hasBlocks bool
}

// NewDocument returns a document at revision 1.
func NewDocument(text string) *Document {
	d := &Document{}
	d.SetText(text)
	return d
}

// SetText replaces the text and invalidates derived state.
func (d *Document) SetText(text string) {
	d.text = text
	d.lines = SplitLines(text)
	d.revision++
	d.hasBlocks = false
	d.blocks = nil
}

// Text returns the current text.
func (d *Document) Text() string { return d.text }

// Revision increases on every SetText.
func (d *Document) Revision() uint64 { return d.revision }

// Lines returns the current lines. Callers must not modify the slice.
func (d *Document) Lines() []string { return d.lines }

// Len returns the number of lines.
func (d *Document) Len() int { return len(d.lines) }

// Blocks returns the diff header block indices for the current revision.
func (d *Document) Blocks() IndexSet {
	if !d.hasBlocks || d.blocksRev != d.revision {
		d.blocks = DetectDiffBlockIndices(d.lines)
		d.blocksRev = d.revision
		d.hasBlocks = true
	}
	return d.blocks
}

// Classify returns the type of line index.
func (d *Document) Classify(index int) LineType {
	return ClassifyLine(d.lines, index, d.Blocks())
}

// Types classifies every line.
func (d *Document) Types() []LineType {
	blocks := d.Blocks()
	out := make([]LineType, len(d.lines))
	for i := range d.lines {
		out[i] = ClassifyLine(d.lines, i, blocks)
	}
	return out
}

// Group returns the copy group around index.
func (d *Document) Group(index int) []int {
	return GroupIndices(d.lines, index)
}

// Copy returns the clipboard text for a click on index.
func (d *Document) Copy(index int, group bool) string {
	return CopyText(d.lines, index, group)
}
