// File: cmd/dump.go
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"projectdump/pkg/config"
	"projectdump/pkg/format"
	"projectdump/pkg/scan"
	"projectdump/pkg/walker"

	"github.com/atotto/clipboard"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type dumpOptions struct {
	format         string
	output         string
	treeOnly       bool
	collapse       []string
	exclude        []string
	maxFileSize    int64
	encoding       string
	errorsPolicy   string
	noDetect       bool
	followSymlinks bool
	showHidden     bool
	clipboard      bool
}

func newDumpCmd(a *app) *cobra.Command {
	opts := &dumpOptions{}
	cmd := &cobra.Command{
		Use:   "dump [root]",
		Short: "Dump the tree and text files under root (default: current directory)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return a.runDump(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.format, "format", "", "Output format: txt, md or json")
	f.StringVarP(&opts.output, "output", "o", "", "Write the dump to this file instead of stdout")
	f.BoolVar(&opts.treeOnly, "tree-only", false, "Emit only the tree")
	f.StringArrayVar(&opts.collapse, "collapse", nil, "Collapse this directory in the tree (repeatable)")
	f.StringArrayVar(&opts.exclude, "exclude", nil, "Leave this file out of the dump (repeatable)")
	f.Int64Var(&opts.maxFileSize, "max-file-size", 0, "Skip files larger than this many bytes (0 = unlimited)")
	f.StringVar(&opts.encoding, "encoding", "", "Fallback text encoding")
	f.StringVar(&opts.errorsPolicy, "errors", "", "Decode error policy: strict, replace or ignore")
	f.BoolVar(&opts.noDetect, "no-detect-encoding", false, "Disable charset detection")
	f.BoolVar(&opts.followSymlinks, "follow-symlinks", false, "Descend into symlinked directories")
	f.BoolVar(&opts.showHidden, "show-hidden", false, "Include dot files and dot directories")
	f.BoolVar(&opts.clipboard, "clipboard", false, "Copy the dump to the clipboard")
	return cmd
}

// applyDumpFlags overrides cfg with the flags the user actually set.
func applyDumpFlags(cmd *cobra.Command, cfg config.Config, opts *dumpOptions) (config.Config, error) {
	f := cmd.Flags()
	if f.Changed("format") {
		parsed, err := config.ParseFormat(opts.format)
		if err != nil {
			return cfg, err
		}
		cfg.OutputFormat = parsed
	}
	if f.Changed("max-file-size") {
		cfg.MaxFileSize = opts.maxFileSize
	}
	if f.Changed("encoding") {
		cfg.Encoding = opts.encoding
	}
	if f.Changed("errors") {
		cfg.ErrorsPolicy = config.ErrorsPolicy(opts.errorsPolicy)
	}
	if f.Changed("no-detect-encoding") {
		cfg.DetectEncoding = !opts.noDetect
	}
	if f.Changed("follow-symlinks") {
		cfg.FollowSymlinks = opts.followSymlinks
	}
	if f.Changed("show-hidden") {
		cfg.IgnoreHidden = !opts.showHidden
	}
	return cfg, cfg.Validate()
}

// rootedSet resolves paths relative to root unless they are absolute.
func rootedSet(root string, paths []string) walker.PathSet {
	set := walker.NewPathSet()
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		set.Add(p)
	}
	return set
}

func (a *app) runDump(cmd *cobra.Command, root string, opts *dumpOptions) error {
	loaded, _, err := a.loadConfig()
	if err != nil {
		return err
	}
	cfg, err := applyDumpFlags(cmd, loaded, opts)
	if err != nil {
		return err
	}

	builder, err := format.New(cfg.OutputFormat)
	if err != nil {
		return err
	}

	req := scan.Request{
		Root:      root,
		Collapsed: rootedSet(root, opts.collapse),
		Excluded:  rootedSet(root, opts.exclude),
		TreeOnly:  opts.treeOnly,
	}

	progress := newProgress(cmd.ErrOrStderr(), a.logger)
	defer progress.stop()

	session := scan.NewSession(cfg, a.logger)
	doc, err := scan.Dispatch(cmd.Context(), session, req, builder, progress.observe)
	if err != nil {
		return fmt.Errorf("dump failed: %w", err)
	}
	progress.stop()

	if opts.output != "" {
		if err := format.WriteFile(opts.output, doc, a.logger); err != nil {
			return err
		}
		a.logger.Info("Dump written", zap.String("outputFile", opts.output))
	}
	if opts.clipboard {
		if err := clipboard.WriteAll(doc); err != nil {
			return fmt.Errorf("failed to copy dump to clipboard: %w", err)
		}
		a.logger.Info("Dump copied to clipboard", zap.Int("bytes", len(doc)))
	}
	if opts.output == "" && !opts.clipboard {
		if _, err := io.WriteString(cmd.OutOrStdout(), doc); err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}
	}
	return nil
}

// progress drives a pterm bar from scan events when stderr is a terminal.
type progress struct {
	w       io.Writer
	enabled bool
	bar     *pterm.ProgressbarPrinter
	logger  *zap.Logger
}

func newProgress(w io.Writer, logger *zap.Logger) *progress {
	enabled := false
	if f, ok := w.(*os.File); ok {
		enabled = term.IsTerminal(int(f.Fd()))
	}
	return &progress{w: w, enabled: enabled, logger: logger}
}

func (p *progress) observe(ev scan.Event) {
	switch ev.Kind {
	case scan.EventTotal:
		if !p.enabled || ev.Count == 0 {
			return
		}
		bar, err := pterm.DefaultProgressbar.
			WithTotal(ev.Count).
			WithTitle("Dumping files").
			WithWriter(p.w).
			WithRemoveWhenDone(true).
			Start()
		if err != nil {
			p.logger.Debug("Progress bar unavailable", zap.Error(err))
			return
		}
		p.bar = bar
	case scan.EventProgress:
		if p.bar != nil {
			p.bar.Increment()
		}
	case scan.EventDone, scan.EventError:
		p.stop()
	}
}

func (p *progress) stop() {
	if p.bar == nil {
		return
	}
	if _, err := p.bar.Stop(); err != nil {
		p.logger.Debug("Failed to stop progress bar", zap.Error(err))
	}
	p.bar = nil
}
