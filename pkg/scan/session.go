// File: pkg/scan/session.go
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"projectdump/pkg/config"
	"projectdump/pkg/ignore"
	"projectdump/pkg/reader"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrRootMissing is returned when the scan root does not exist.
	ErrRootMissing = errors.New("root does not exist")
	// ErrRootNotDir is returned when the scan root is not a directory.
	ErrRootNotDir = errors.New("root is not a directory")
)

// DefaultBufferSize is the capacity of a session's event channel.
const DefaultBufferSize = 256

// Session runs at most one scan at a time. It owns the ignore cache, which
// is reused across scans and recompiled only when the .gitignore snapshot
// changes. Starting a scan cancels and waits for the previous one.
type Session struct {
	mu         sync.Mutex
	cfg        config.Config
	spec       *ignore.Spec
	chunkSize  int
	bufferSize int
	logger     *zap.Logger

	scanID string
	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewSession returns an idle session using cfg.
func NewSession(cfg config.Config, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		cfg:        cfg.Clone(),
		spec:       ignore.New(logger),
		chunkSize:  reader.DefaultChunkSize,
		bufferSize: DefaultBufferSize,
		logger:     logger,
	}
}

// SetChunkSize sets the read size used by later scans.
func (s *Session) SetChunkSize(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunkSize = n
}

// Config returns a copy of the session settings.
func (s *Session) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// Apply replaces the settings after stopping any running scan.
func (s *Session) Apply(cfg config.Config) error {
	if err := validate(cfg); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.cfg = cfg.Clone()
	return nil
}

// Current returns the ID of the most recently started scan.
func (s *Session) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanID
}

// Start validates req and launches its scan in the background. Invalid
// input is reported here and no scan is started. The returned channel is
// closed after the terminal event, or without one if the scan is cancelled.
func (s *Session) Start(ctx context.Context, req Request) (string, <-chan Event, error) {
	root, err := checkRoot(req.Root)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validate(s.cfg); err != nil {
		return "", nil, err
	}
	s.stopLocked()

	req.ID = uuid.NewString()
	req.Root = root
	logger := s.logger.With(zap.String("scanID", req.ID))
	p := NewPipeline(s.cfg, s.spec, logger).WithChunkSize(s.chunkSize)

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)
	out := make(chan Event, s.bufferSize)
	g.Go(func() error {
		return worker(gctx, p, req, out, logger)
	})

	s.scanID = req.ID
	s.cancel = cancel
	s.group = g
	return req.ID, out, nil
}

// Wait blocks until the current scan finishes and returns its error.
func (s *Session) Wait() error {
	s.mu.Lock()
	g := s.group
	s.mu.Unlock()
	if g == nil {
		return nil
	}
	return g.Wait()
}

// Cancel stops the current scan, if any, and waits for it.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Session) stopLocked() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	if err := s.group.Wait(); err != nil {
		s.logger.Debug("Previous scan ended with error", zap.String("scanID", s.scanID), zap.Error(err))
	}
	s.cancel = nil
}

func checkRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	info, err := os.Stat(abs)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrRootMissing, abs)
	}
	if err != nil {
		return "", fmt.Errorf("cannot access %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrRootNotDir, abs)
	}
	return abs, nil
}

func validate(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := reader.LookupEncoding(cfg.Encoding); err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	return nil
}
