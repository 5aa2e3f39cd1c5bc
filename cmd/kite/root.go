package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/orizon-lang/kite/internal/config"
)

// errDiagnostics is returned when at least one input had diagnostics. They
// have already been printed, so main only sets the exit status.
var errDiagnostics = errors.New("diagnostics reported")

// options holds the flags shared by all subcommands.
type options struct {
	verbose    bool
	configPath string
	color      string
	format     string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	rootCmd := &cobra.Command{
		Use:   "kite",
		Short: "Kite - syntax checker for Kite source files",
		Long: `Kite lexes and parses Kite source files and reports every syntax error it
can recover from, with the offending source lines underlined.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	flags.StringVar(&opts.configPath, "config", "", "Path to kite.toml or kite.yaml (default: discovered from the input directory)")
	flags.StringVar(&opts.color, "color", config.ColorAuto, "Colored diagnostics: auto, always, never")
	flags.StringVar(&opts.format, "format", config.FormatText, "Output format for emitted trees and tokens: text, json, yaml")

	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// settings loads the project configuration for the first input and applies
// the flags the user set explicitly.
func (o *options) settings(cmd *cobra.Command, input string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadFor(filepath.Dir(input))
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.Path != "" {
		o.logger.Debug("using config", "path", cfg.Path)
	}

	flags := cmd.Flags()
	if flags.Changed("color") {
		cfg.Color = o.color
	}
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.CheckVersion(version); err != nil {
		return nil, err
	}
	return cfg, nil
}

// useColor resolves the color setting for output written to w.
func useColor(setting string, w io.Writer) bool {
	switch setting {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
