package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/orizon-lang/kite/internal/ast"
	"github.com/orizon-lang/kite/internal/config"
	"github.com/orizon-lang/kite/internal/diagnostics"
	"github.com/orizon-lang/kite/internal/lexer"
	"github.com/orizon-lang/kite/internal/parser"
	"github.com/orizon-lang/kite/internal/position"
	"github.com/orizon-lang/kite/internal/token"
	"github.com/orizon-lang/kite/internal/watch"
)

// watchDebounce batches the burst of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

type checkOptions struct {
	*options
	emit      string
	maxErrors int
	watch     bool
}

func newCheckCmd(opts *options) *cobra.Command {
	co := &checkOptions{options: opts}

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Check Kite source files for syntax errors",
		Long: `Lex and parse each file and print every diagnostic found. A file that
parses cleanly can optionally have its syntax tree or tokens emitted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: co.run,
	}

	cmd.Flags().StringVar(&co.emit, "emit", config.EmitNone, "What to print for files without errors: none, ast, tokens")
	cmd.Flags().IntVar(&co.maxErrors, "max-errors", 0, "Maximum diagnostics printed per file (0 for no limit)")
	cmd.Flags().BoolVarP(&co.watch, "watch", "w", false, "Re-check files whenever they change")
	return cmd
}

func (co *checkOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := co.settings(cmd, args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("emit") {
		cfg.Emit = co.emit
	}
	if cmd.Flags().Changed("max-errors") {
		cfg.MaxErrors = co.maxErrors
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	printer := diagnostics.NewPrinter(errOut, useColor(cfg.Color, errOut), cfg.MaxErrors)

	failed, err := co.checkFiles(cmd.Context(), args, cfg, printer, out)
	if err != nil {
		return err
	}

	if co.watch {
		return co.watchFiles(cmd.Context(), args, cfg, printer, out)
	}
	if failed > 0 {
		return errDiagnostics
	}
	return nil
}

// checkFiles checks paths concurrently and prints the results in argument
// order. It returns the number of files that had diagnostics.
func (co *checkOptions) checkFiles(ctx context.Context, paths []string, cfg *config.Config, printer *diagnostics.Printer, out io.Writer) (int, error) {
	results, err := analyzeAll(ctx, paths)
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, res := range results {
		co.logger.Debug("checked file",
			"path", res.source.Filename,
			"tokens", len(res.tokens),
			"diagnostics", len(res.reports))

		if len(res.reports) > 0 {
			failed++
			if _, err := printer.PrintAll(res.source, res.reports); err != nil {
				return failed, err
			}
			if err := printer.Summary(res.source.Filename, len(res.reports)); err != nil {
				return failed, err
			}
			continue
		}

		switch cfg.Emit {
		case config.EmitAST:
			err = writeProgram(out, res.program, cfg.Format)
		case config.EmitTokens:
			err = writeTokens(out, res.source, res.tokens, cfg.Format)
		}
		if err != nil {
			return failed, err
		}
	}
	return failed, nil
}

func (co *checkOptions) watchFiles(ctx context.Context, paths []string, cfg *config.Config, printer *diagnostics.Printer, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	w, err := watch.New(paths...)
	if err != nil {
		return err
	}
	defer w.Close()

	co.logger.Info("watching for changes", "files", len(paths))
	err = w.Run(ctx, watchDebounce, func(changed []string) {
		co.logger.Info("change detected", "files", changed)
		if _, err := co.checkFiles(ctx, changed, cfg, printer, out); err != nil {
			co.logger.Error("check failed", "error", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// fileResult is the outcome of checking one file. program is nil whenever
// reports is not empty.
type fileResult struct {
	source  *position.SourceFile
	tokens  []token.Located
	program *ast.Program
	reports []diagnostics.Report
}

func analyzeAll(ctx context.Context, paths []string) ([]*fileResult, error) {
	results := make([]*fileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := analyze(path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// analyze lexes and parses one file. Lexical errors are reported on their
// own: the parser is not run on a token stream with holes in it.
func analyze(path string) (*fileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	source := string(data)

	res := &fileResult{source: position.NewSourceFile(path, source)}
	tokens, lexErrs := lexer.Lex(source)
	res.tokens = tokens
	if len(lexErrs) > 0 {
		for _, e := range lexErrs {
			res.reports = append(res.reports, e.Report())
		}
		return res, nil
	}

	program, err := parser.Parse(tokens)
	if err != nil {
		reports, ok := parser.AsReports(err)
		if !ok {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		res.reports = reports
		return res, nil
	}
	res.program = program
	return res, nil
}
