// File: cmd/diff.go
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"projectdump/pkg/difftext"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrLineOutOfRange is returned when --copy names a line the diff does not have.
var ErrLineOutOfRange = errors.New("line out of range")

type diffOptions struct {
	copyLine  int
	group     bool
	keys      string
	clipboard bool
	color     string
}

func newDiffCmd(a *app) *cobra.Command {
	opts := &diffOptions{}
	cmd := &cobra.Command{
		Use:   "diff [file|-]",
		Short: "Classify and color a unified diff, or copy lines from it",
		Long: `Reads a unified diff from a file or stdin and prints it with each line
colored by type. --copy N prints line N (1-based) stripped of its diff
marker; --group, or holding the configured group modifier (see --keys),
widens the copy to the surrounding run of similar lines.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			return a.runDiff(cmd, src, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.copyLine, "copy", 0, "Copy line N (1-based) instead of printing the diff")
	f.BoolVar(&opts.group, "group", false, "Copy the whole group around the line")
	f.StringVar(&opts.keys, "keys", "", `Keys held while clicking, e.g. "ctrl" or "ctrl+shift"`)
	f.BoolVar(&opts.clipboard, "clipboard", false, "Put the copied text on the clipboard")
	f.StringVar(&opts.color, "color", "auto", "Colorize output: auto, always or never")
	return cmd
}

func readDiffSource(cmd *cobra.Command, src string) (string, error) {
	if src == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read diff from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read diff %s: %w", src, err)
	}
	return string(data), nil
}

// colorEnabled resolves --color against the output stream.
func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		if f, ok := w.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
		}
		return false, nil
	}
	return false, fmt.Errorf("invalid --color value %q", mode)
}

func (a *app) runDiff(cmd *cobra.Command, src string, opts *diffOptions) error {
	cfg, _, err := a.loadConfig()
	if err != nil {
		return err
	}
	text, err := readDiffSource(cmd, src)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	colored, err := colorEnabled(opts.color, out)
	if err != nil {
		return err
	}

	doc := difftext.NewDocument(text)
	renderer := difftext.NewRenderer(cfg.Theme, colored)
	if !cmd.Flags().Changed("copy") {
		return renderer.Render(out, doc, nil, time.Now())
	}

	index := opts.copyLine - 1
	if index < 0 || index >= doc.Len() {
		return fmt.Errorf("%w: %d (diff has %d lines)", ErrLineOutOfRange, opts.copyLine, doc.Len())
	}

	group := opts.group
	if opts.keys != "" {
		ctrl, shift, alt, err := difftext.ParseKeys(opts.keys)
		if err != nil {
			return err
		}
		mod, err := difftext.ParseModifier(cfg.DiffGroupModifier)
		if err != nil {
			a.logger.Warn("Unknown group modifier, using Ctrl",
				zap.String("modifier", cfg.DiffGroupModifier), zap.Error(err))
			mod = difftext.ModCtrl
		}
		group = group || mod.Satisfied(ctrl, shift, alt)
	}

	copied := doc.Copy(index, group)
	if !opts.clipboard {
		_, err := fmt.Fprintln(out, copied)
		return err
	}

	if err := clipboard.WriteAll(copied); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	indices := []int{index}
	if group {
		indices = doc.Group(index)
	}
	a.logger.Debug("Copied diff lines", zap.Ints("indices", indices), zap.Bool("group", group))

	now := time.Now()
	flash := difftext.NewFlash(time.Duration(cfg.DiffCopyFlashMS) * time.Millisecond)
	flash.Trigger(indices, now)
	return renderer.Render(out, doc, flash, now)
}
