// File: pkg/scan/pipeline.go
package scan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"projectdump/pkg/config"
	"projectdump/pkg/ignore"
	"projectdump/pkg/reader"
	"projectdump/pkg/walker"

	"go.uber.org/zap"
)

// HiddenPlaceholder stands in for the content of a file under a collapsed
// directory when collapsed content is kept in the dump.
const HiddenPlaceholder = "Content hidden"

// Pipeline turns one Request into an ordered event stream.
type Pipeline struct {
	cfg        config.Config
	spec       *ignore.Spec
	chunkSize  int
	readerOpts []reader.Option
	logger     *zap.Logger
}

// NewPipeline returns a pipeline over cfg. spec is rebuilt for each run;
// nil gets a fresh one.
func NewPipeline(cfg config.Config, spec *ignore.Spec, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if spec == nil {
		spec = ignore.New(logger)
	}
	return &Pipeline{
		cfg:       cfg.Clone(),
		spec:      spec,
		chunkSize: reader.DefaultChunkSize,
		logger:    logger,
	}
}

// WithChunkSize sets the read size for file contents.
func (p *Pipeline) WithChunkSize(n int) *Pipeline {
	p.chunkSize = n
	return p
}

// WithReaderOptions passes options to every content stream.
func (p *Pipeline) WithReaderOptions(opts ...reader.Option) *Pipeline {
	p.readerOpts = append(p.readerOpts, opts...)
	return p
}

// Run executes req, sending every event to out in order. A failure after
// the start, including a panic, ends the stream with one EventError; output
// already sent stays as is. Cancellation of ctx stops the run without a
// terminal event. Run does not close out.
func (p *Pipeline) Run(ctx context.Context, req Request, out chan<- Event) (err error) {
	send := func(ev Event) error {
		ev.ScanID = req.ID
		select {
		case out <- ev:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
		if err != nil && ctx.Err() == nil {
			p.logger.Error("Scan failed", zap.String("root", req.Root), zap.Error(err))
			_ = send(Event{Kind: EventError, Text: err.Error()})
		}
	}()

	return p.run(ctx, req, send)
}

func (p *Pipeline) run(ctx context.Context, req Request, send func(Event) error) error {
	startTime := time.Now()
	root, err := filepath.Abs(req.Root)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	p.logger.Info("Starting scan", zap.String("root", root), zap.Bool("treeOnly", req.TreeOnly))

	if _, err := p.spec.Build(root); err != nil {
		return fmt.Errorf("failed to load ignore rules: %w", err)
	}
	w := walker.New(p.cfg, p.spec, p.logger)

	tree, err := w.BuildTree(root, req.Collapsed)
	if err != nil {
		return fmt.Errorf("failed to generate tree structure: %w", err)
	}
	if err := send(Event{Kind: EventTree, Text: tree}); err != nil {
		return err
	}

	if req.TreeOnly {
		p.logger.Info("Tree-only scan completed", zap.Duration("elapsed", time.Since(startTime)))
		return send(Event{Kind: EventDone})
	}

	files, err := w.IterFiles(root)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}
	if err := send(Event{Kind: EventTotal, Count: len(files)}); err != nil {
		return err
	}

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.processFile(root, path, i+1, req, send); err != nil {
			return err
		}
	}

	p.logger.Info("Scan completed",
		zap.String("root", root),
		zap.Int("totalFiles", len(files)),
		zap.Duration("elapsed", time.Since(startTime)))
	return send(Event{Kind: EventDone})
}

// processFile emits the events for one file, ending with its progress tick.
func (p *Pipeline) processFile(root, path string, index int, req Request, send func(Event) error) error {
	rel := walker.RelPath(root, path)
	hidden := req.Collapsed.HasAncestor(path)

	if req.Excluded.Has(path) || (hidden && !p.cfg.IncludeCollapsedInDump) {
		p.logger.Debug("Leaving file out of dump", zap.String("filePath", rel))
		return send(Event{Kind: EventProgress, Count: index})
	}

	if err := send(Event{Kind: EventFileHeader, Text: rel}); err != nil {
		return err
	}
	if hidden {
		if err := send(Event{Kind: EventFileSkipped, Text: HiddenPlaceholder}); err != nil {
			return err
		}
	} else if err := p.streamFile(path, rel, send); err != nil {
		return err
	}
	if err := send(Event{Kind: EventFileSep}); err != nil {
		return err
	}
	return send(Event{Kind: EventProgress, Count: index})
}

func (p *Pipeline) streamFile(path, rel string, send func(Event) error) error {
	opts := append([]reader.Option{reader.WithLogger(p.logger)}, p.readerOpts...)
	s, err := reader.Open(path, p.cfg, p.chunkSize, opts...)
	if err != nil {
		return fmt.Errorf("error reading file %s: %w", rel, err)
	}
	defer s.Close()

	for {
		frag, err := s.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading file %s: %w", rel, err)
		}
		if err := send(Event{Kind: EventFileChunk, Text: frag}); err != nil {
			return err
		}
	}
}
