// File: pkg/reader/binary.go
package reader

import (
	"bytes"
)

// IsBinarySample reports whether sample looks like binary content: it holds
// a NUL byte, or the share of non-text bytes exceeds threshold. An empty
// sample is text.
func IsBinarySample(sample []byte, threshold float64) bool {
	// Check for null bytes (common in binary files)
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	if len(sample) == 0 {
		return false
	}

	nonText := 0
	for _, b := range sample {
		if !isTextByte(b) {
			nonText++
		}
	}
	return float64(nonText)/float64(len(sample)) > threshold
}

// isTextByte accepts BEL, BS, TAB, LF, FF, CR, ESC and every byte from 0x20 up.
func isTextByte(b byte) bool {
	switch b {
	case 7, 8, 9, 10, 12, 13, 27:
		return true
	}
	return b >= 0x20
}
