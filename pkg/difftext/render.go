// File: pkg/difftext/render.go
package difftext

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// Renderer colors diff lines for a terminal.
type Renderer struct {
	palette map[LineType]*color.Color
	flashed *color.Color
	enabled bool
}

// NewRenderer returns a renderer for the "light" or "dark" theme. With
// enabled false it writes plain text.
func NewRenderer(theme string, enabled bool) *Renderer {
	r := &Renderer{enabled: enabled}
	if theme == "dark" {
		r.palette = map[LineType]*color.Color{
			HeaderDiffBlock: color.New(color.FgHiBlack),
			HeaderHunk:      color.New(color.FgHiCyan),
			HeaderHunkEmpty: color.New(color.FgHiBlack, color.Faint),
			Plus:            color.New(color.FgHiGreen),
			Minus:           color.New(color.FgHiRed),
		}
	} else {
		r.palette = map[LineType]*color.Color{
			HeaderDiffBlock: color.New(color.FgBlack, color.Faint),
			HeaderHunk:      color.New(color.FgBlue),
			HeaderHunkEmpty: color.New(color.FgBlack, color.Faint),
			Plus:            color.New(color.FgGreen),
			Minus:           color.New(color.FgRed),
		}
	}
	r.flashed = color.New(color.ReverseVideo)

	for _, c := range r.palette {
		r.toggle(c)
	}
	r.toggle(r.flashed)
	return r
}

func (r *Renderer) toggle(c *color.Color) {
	if r.enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

// Line renders one line of type t.
func (r *Renderer) Line(line string, t LineType) string {
	if c, ok := r.palette[t]; ok {
		return c.Sprint(line)
	}
	return line
}

// Render writes every line of doc. Lines lit in flash at now are shown in
// reverse video; flash may be nil.
func (r *Renderer) Render(w io.Writer, doc *Document, flash *Flash, now time.Time) error {
	bw := bufio.NewWriter(w)
	for i, t := range doc.Types() {
		line := r.Line(doc.Lines()[i], t)
		if flash != nil && flash.Intensity(i, now) > 0 {
			line = r.flashed.Sprint(line)
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return fmt.Errorf("failed to write diff line %d: %w", i, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush diff output: %w", err)
	}
	return nil
}
