// File: cmd/root.go
package cmd

import (
	"context"
	"os"
	"os/signal"

	"projectdump/pkg/config"
	"projectdump/pkg/logging"
	"projectdump/pkg/version"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by every subcommand.
type app struct {
	logger     *zap.Logger
	debug      bool
	configPath string
}

// NewRootCmd builds the base command with all subcommands attached.
func NewRootCmd(logger *zap.Logger) *cobra.Command {
	a := &app{logger: logging.OrNop(logger)}

	root := &cobra.Command{
		Use:   version.AppName,
		Short: "Dump a project tree and its text files into one document",
		Long: `projectdump renders a directory tree and the contents of its text files into a
single txt, md or json document, honoring .gitignore rules, size limits and
binary detection. It also classifies pasted unified diffs for copying.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !a.debug {
				return nil
			}
			if err := logging.Setup(true, version.AppName, version.Get().Version); err != nil {
				return err
			}
			a.logger = logging.Logger
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Settings file (default ~/"+config.FileName+")")

	root.AddCommand(
		newDumpCmd(a),
		newDiffCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree until it finishes or the process is
// interrupted.
func Execute(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd(logger).ExecuteContext(ctx)
}

// settingsPath returns the --config value or the per-user default.
func (a *app) settingsPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the settings file; a missing or broken file yields the
// defaults.
func (a *app) loadConfig() (config.Config, string, error) {
	path, err := a.settingsPath()
	if err != nil {
		return config.Config{}, "", err
	}
	return config.Load(path, a.logger), path, nil
}
