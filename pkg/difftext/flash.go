// File: pkg/difftext/flash.go
package difftext

import (
	"sort"
	"time"
)

// Flash tracks copy feedback: each flashed line fades linearly from full
// intensity to zero over the configured duration.
type Flash struct {
	duration time.Duration
	starts   map[int]time.Time
}

// NewFlash returns a tracker fading over d. A non-positive d never lights.
func NewFlash(d time.Duration) *Flash {
	return &Flash{duration: d, starts: map[int]time.Time{}}
}

// Trigger (re)starts the flash of indices at now.
func (f *Flash) Trigger(indices []int, now time.Time) {
	for _, i := range indices {
		f.starts[i] = now
	}
}

// Intensity returns a value in [0,1] for line index at now.
func (f *Flash) Intensity(index int, now time.Time) float64 {
	if f.duration <= 0 {
		return 0
	}
	start, ok := f.starts[index]
	if !ok {
		return 0
	}
	elapsed := now.Sub(start)
	if elapsed < 0 {
		return 1
	}
	if elapsed >= f.duration {
		return 0
	}
	return 1 - float64(elapsed)/float64(f.duration)
}

// Active returns the still-lit indices in ascending order and forgets the
// ones that have faded.
func (f *Flash) Active(now time.Time) []int {
	var out []int
	for i := range f.starts {
		if f.Intensity(i, now) > 0 {
			out = append(out, i)
		} else {
			delete(f.starts, i)
		}
	}
	sort.Ints(out)
	return out
}

// Reset clears every flash, as after an edit of the text.
func (f *Flash) Reset() {
	f.starts = map[int]time.Time{}
}
