// File: pkg/scan/collect.go
package scan

import (
	"errors"
	"fmt"

	"projectdump/pkg/format"
)

var (
	// ErrScanFailed wraps the message of an EventError.
	ErrScanFailed = errors.New("scan failed")
	// ErrIncomplete is returned when the stream ends without a terminal event.
	ErrIncomplete = errors.New("scan ended without completion")
)

// Collect drains events into b and returns the built document. Closing a
// section is deferred until the next header or the end of the stream, so a
// separator is written only between two sections that both made it into the
// dump. observe, if set, sees every event before it is applied.
func Collect(events <-chan Event, b format.Builder, observe func(Event)) (string, error) {
	pendingEnd := false
	for ev := range events {
		if observe != nil {
			observe(ev)
		}
		switch ev.Kind {
		case EventTree:
			b.SetTree(ev.Text)
		case EventFileHeader:
			if pendingEnd {
				b.EndFile(false)
				pendingEnd = false
			}
			b.StartFile(ev.Text)
		case EventFileChunk, EventFileSkipped:
			b.AddChunk(ev.Text)
		case EventFileSep:
			pendingEnd = true
		case EventTotal, EventProgress:
		case EventDone:
			if pendingEnd {
				b.EndFile(true)
			}
			return b.Build()
		case EventError:
			return "", fmt.Errorf("%w: %s", ErrScanFailed, ev.Text)
		}
	}
	return "", ErrIncomplete
}
