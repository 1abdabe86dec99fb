// File: pkg/reader/decode.go
package reader

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"projectdump/pkg/config"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrUnknownEncoding is returned for an encoding name no index knows.
	ErrUnknownEncoding = errors.New("unknown encoding")
	// ErrDecode is returned by a strict decode of invalid input.
	ErrDecode = errors.New("invalid byte sequence")
)

const replacementChar = "\uFFFD"

// LookupEncoding resolves a charset name through the WHATWG and IANA
// indexes. Case, underscores and hyphens are forgiven.
func LookupEncoding(name string) (encoding.Encoding, error) {
	for _, candidate := range encodingNameVariants(name) {
		if enc, err := htmlindex.Get(candidate); err == nil && enc != nil {
			return enc, nil
		}
		if enc, err := ianaindex.IANA.Encoding(candidate); err == nil && enc != nil {
			return enc, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

func encodingNameVariants(name string) []string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return nil
	}
	out := []string{n}
	if dashed := strings.ReplaceAll(n, "_", "-"); dashed != n {
		out = append(out, dashed)
	}
	if squeezed := strings.NewReplacer("-", "", "_", "").Replace(n); squeezed != n {
		out = append(out, squeezed)
	}
	return out
}

// decoder turns raw chunks into text under one encoding and policy.
type decoder struct {
	name   string
	enc    encoding.Encoding
	policy config.ErrorsPolicy
	utf8   bool
}

func newDecoder(name string, policy config.ErrorsPolicy) (decoder, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return decoder{}, err
	}
	return decoder{
		name:   name,
		enc:    enc,
		policy: policy,
		utf8:   enc == unicode.UTF8,
	}, nil
}

// forced returns the same decoder with strict relaxed to replace, so that
// decoding cannot fail.
func (d decoder) forced() decoder {
	if d.policy == config.ErrorsStrict {
		d.policy = config.ErrorsReplace
	}
	return d
}

// decode converts buf and reports how many bytes were consumed. Unless
// atEOF is set, an incomplete trailing sequence is left unconsumed for the
// caller to prepend to the next chunk.
func (d decoder) decode(buf []byte, atEOF bool) (string, int, error) {
	out, n, err := transformChunk(d.enc.NewDecoder(), buf, atEOF)
	if err != nil {
		if d.policy == config.ErrorsStrict {
			return "", 0, fmt.Errorf("%w: %s: %v", ErrDecode, d.name, err)
		}
		// A decoder that cannot make progress gives up on the rest of buf.
		if d.policy == config.ErrorsIgnore {
			return string(out), len(buf), nil
		}
		return string(out) + replacementChar, len(buf), nil
	}
	src := buf[:n]

	if d.utf8 {
		switch d.policy {
		case config.ErrorsStrict:
			if !utf8.Valid(src) {
				return "", 0, fmt.Errorf("%w: %s", ErrDecode, d.name)
			}
			return string(src), n, nil
		case config.ErrorsIgnore:
			return dropInvalidUTF8(src), n, nil
		}
		return string(out), n, nil
	}

	text := string(out)
	switch d.policy {
	case config.ErrorsStrict:
		if strings.Contains(text, replacementChar) {
			return "", 0, fmt.Errorf("%w: %s", ErrDecode, d.name)
		}
	case config.ErrorsIgnore:
		text = strings.ReplaceAll(text, replacementChar, "")
	}
	return text, n, nil
}

// transformChunk runs t over src, growing the destination as needed. A
// short source is not an error when more input may follow.
func transformChunk(t transform.Transformer, src []byte, atEOF bool) ([]byte, int, error) {
	dst := make([]byte, len(src)*2+utf8.UTFMax)
	var out []byte
	consumed := 0
	for {
		nDst, nSrc, err := t.Transform(dst, src[consumed:], atEOF)
		out = append(out, dst[:nDst]...)
		consumed += nSrc
		switch {
		case err == nil:
			return out, consumed, nil
		case errors.Is(err, transform.ErrShortDst):
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, len(dst)*2)
			}
		case errors.Is(err, transform.ErrShortSrc) && !atEOF:
			return out, consumed, nil
		default:
			return out, consumed, err
		}
	}
}

func dropInvalidUTF8(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r != utf8.RuneError || size > 1 {
			sb.Write(b[:size])
		}
		b = b[size:]
	}
	return sb.String()
}
