// File: pkg/scan/events.go
package scan

import (
	"fmt"

	"projectdump/pkg/walker"
)

// EventKind tags an Event.
type EventKind int

const (
	EventTree EventKind = iota
	EventTotal
	EventFileHeader
	EventFileChunk
	EventFileSkipped
	EventFileSep
	EventProgress
	EventDone
	EventError
)

var eventKindNames = [...]string{
	EventTree:        "tree",
	EventTotal:       "total",
	EventFileHeader:  "file_header",
	EventFileChunk:   "file_chunk",
	EventFileSkipped: "file_skipped",
	EventFileSep:     "file_sep",
	EventProgress:    "progress",
	EventDone:        "done",
	EventError:       "error",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Terminal reports whether no event follows k.
func (k EventKind) Terminal() bool {
	return k == EventDone || k == EventError
}

// Event is one step of a scan. Text carries the tree, a relative path, a
// content fragment, a placeholder or an error message depending on Kind;
// Count carries the total for EventTotal and the 1-based file index for
// EventProgress.
type Event struct {
	ScanID string
	Kind   EventKind
	Text   string
	Count  int
}

func (e Event) String() string {
	switch e.Kind {
	case EventTotal, EventProgress:
		return fmt.Sprintf("%s(%d)", e.Kind, e.Count)
	case EventFileSep, EventDone:
		return e.Kind.String() + "()"
	}
	return fmt.Sprintf("%s(%q)", e.Kind, e.Text)
}

// Request describes one scan. It is not modified once the scan starts.
type Request struct {
	ID        string
	Root      string
	Collapsed walker.PathSet
	Excluded  walker.PathSet
	TreeOnly  bool
}
