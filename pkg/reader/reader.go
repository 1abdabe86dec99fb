// File: pkg/reader/reader.go
package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"projectdump/pkg/config"

	"go.uber.org/zap"
)

const (
	// DefaultChunkSize is the read size used when a caller passes zero.
	DefaultChunkSize = 64 * 1024
	// LookaheadSize is the head sample checked for binary content.
	LookaheadSize = 2048

	// BinarySentinel replaces the content of a file that looks binary.
	BinarySentinel = "[SKIPPED: binary content detected]"
)

// SizeSentinel describes a file skipped for exceeding the size limit.
func SizeSentinel(size, limit int64) string {
	return fmt.Sprintf("[SKIPPED: size %d bytes > limit %d]", size, limit)
}

type streamState int

const (
	stateStart streamState = iota
	stateStreaming
	stateDone
)

// Stream yields the decoded text of one file in chunks. It is finite and
// cannot be restarted. Next returns io.EOF once exhausted.
type Stream struct {
	path       string
	cfg        config.Config
	chunkSize  int
	configured decoder
	active     decoder
	detect     Detector
	logger     *zap.Logger

	file     *os.File
	br       *bufio.Reader
	carry    []byte
	sentinel string
	state    streamState
}

// Option adjusts a Stream.
type Option func(*Stream)

// WithDetector replaces the statistical charset detector.
func WithDetector(d Detector) Option {
	return func(s *Stream) { s.detect = d }
}

// WithLogger sets the logger used for decode fallbacks.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Stream) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open prepares a stream over path. A file larger than a nonzero
// MaxFileSize is not opened; the stream yields only the size sentinel.
// An unknown configured encoding is reported here.
func Open(path string, cfg config.Config, chunkSize int, opts ...Option) (*Stream, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	dec, err := newDecoder(cfg.Encoding, cfg.ErrorsPolicy)
	if err != nil {
		return nil, err
	}

	s := &Stream{
		path:       path,
		cfg:        cfg,
		chunkSize:  chunkSize,
		configured: dec,
		active:     dec,
		detect:     DetectCharset,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if cfg.MaxFileSize > 0 && info.Size() > cfg.MaxFileSize {
		s.logger.Debug("Skipping file due to size limit",
			zap.String("filePath", path),
			zap.Int64("sizeBytes", info.Size()),
			zap.Int64("limitBytes", cfg.MaxFileSize))
		s.sentinel = SizeSentinel(info.Size(), cfg.MaxFileSize)
		return s, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	s.file = f
	s.br = bufio.NewReaderSize(f, chunkSize)
	return s, nil
}

// Next returns the next decoded fragment.
func (s *Stream) Next() (string, error) {
	switch s.state {
	case stateDone:
		return "", io.EOF
	case stateStart:
		s.state = stateStreaming
		if s.sentinel != "" {
			s.finish()
			return s.sentinel, nil
		}
		return s.first()
	}
	return s.next()
}

// first handles the lookahead, the binary check and encoding settlement.
func (s *Stream) first() (string, error) {
	head, err := s.read(LookaheadSize)
	if err != nil {
		s.finish()
		return "", err
	}
	if IsBinarySample(head, s.cfg.BinaryThreshold) {
		s.logger.Debug("Detected binary file", zap.String("filePath", s.path))
		s.finish()
		return BinarySentinel, nil
	}

	rest, err := s.read(max(0, s.chunkSize-len(head)))
	if err != nil {
		s.finish()
		return "", err
	}
	data := append(head, rest...)
	atEOF := s.exhausted()

	text, n, err := s.configured.decode(data, atEOF)
	if err == nil {
		return s.emit(text, data[n:], atEOF), nil
	}

	if s.cfg.DetectEncoding && s.detect != nil {
		if charset, ok := s.detect(data); ok {
			if dec, derr := newDecoder(charset, s.cfg.ErrorsPolicy); derr == nil {
				s.logger.Debug("Switching to detected encoding",
					zap.String("filePath", s.path),
					zap.String("configured", s.configured.name),
					zap.String("detected", charset))
				s.active = dec
				text, n, _ = dec.forced().decode(data, atEOF)
				return s.emit(text, data[n:], atEOF), nil
			}
		}
	}

	s.logger.Warn("Decoding with fallback",
		zap.String("filePath", s.path),
		zap.String("encoding", s.configured.name),
		zap.Error(err))
	text, n, _ = s.configured.forced().decode(data, atEOF)
	return s.emit(text, data[n:], atEOF), nil
}

// next decodes one more chunk with the settled encoding, falling back to
// the configured one.
func (s *Stream) next() (string, error) {
	chunk, err := s.read(s.chunkSize)
	if err != nil {
		s.finish()
		return "", err
	}
	atEOF := s.exhausted()
	if len(chunk) == 0 && len(s.carry) == 0 {
		s.finish()
		return "", io.EOF
	}

	data := append(s.carry, chunk...)
	s.carry = nil

	text, n, err := s.active.decode(data, atEOF)
	if err != nil {
		s.logger.Warn("Chunk failed under active encoding, using configured encoding",
			zap.String("filePath", s.path),
			zap.String("encoding", s.active.name),
			zap.Error(err))
		text, n, _ = s.configured.forced().decode(data, atEOF)
	}
	return s.emit(text, data[n:], atEOF), nil
}

// emit stores undecoded trailing bytes for the next chunk and ends the
// stream when the file is exhausted.
func (s *Stream) emit(text string, leftover []byte, atEOF bool) string {
	if len(leftover) > 0 && !atEOF {
		s.carry = append([]byte(nil), leftover...)
	}
	if atEOF {
		s.finish()
	}
	return text
}

func (s *Stream) read(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	got, err := io.ReadFull(s.br, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return buf[:got], nil
}

func (s *Stream) exhausted() bool {
	_, err := s.br.Peek(1)
	return err != nil
}

func (s *Stream) finish() {
	s.state = stateDone
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			s.logger.Warn("Failed to close file", zap.String("filePath", s.path), zap.Error(err))
		}
		s.file = nil
	}
}

// Close releases the file if the stream was not read to the end.
func (s *Stream) Close() error {
	s.finish()
	return nil
}

// ReadAll drains a stream over path into its fragments.
func ReadAll(path string, cfg config.Config, chunkSize int, opts ...Option) ([]string, error) {
	s, err := Open(path, cfg, chunkSize, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var out []string
	for {
		frag, err := s.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, frag)
	}
}
