// File: pkg/reader/detect.go
package reader

import (
	"github.com/saintfish/chardet"
)

// Detector guesses the charset of a byte sample. ok is false when it has no
// confident answer.
type Detector func(sample []byte) (charset string, ok bool)

// DetectCharset runs statistical detection and accepts only results that
// name an encoding LookupEncoding can resolve.
func DetectCharset(sample []byte) (string, bool) {
	if len(sample) == 0 {
		return "", false
	}
	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || res == nil || res.Charset == "" {
		return "", false
	}
	if _, err := LookupEncoding(res.Charset); err != nil {
		return "", false
	}
	return res.Charset, true
}
