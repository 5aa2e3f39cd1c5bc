package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orizon-lang/kite/internal/diagnostics"
	"github.com/orizon-lang/kite/internal/lexer"
	"github.com/orizon-lang/kite/internal/position"
)

func newTokensCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a Kite source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, opts, args[0])
		},
	}
}

func runTokens(cmd *cobra.Command, opts *options, path string) error {
	cfg, err := opts.settings(cmd, path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	file := position.NewSourceFile(path, string(data))

	tokens, lexErrs := lexer.Lex(file.Content)
	if err := writeTokens(cmd.OutOrStdout(), file, tokens, cfg.Format); err != nil {
		return err
	}
	if len(lexErrs) == 0 {
		return nil
	}

	errOut := cmd.ErrOrStderr()
	printer := diagnostics.NewPrinter(errOut, useColor(cfg.Color, errOut), cfg.MaxErrors)
	reports := make([]diagnostics.Report, len(lexErrs))
	for i, e := range lexErrs {
		reports[i] = e.Report()
	}
	if _, err := printer.PrintAll(file, reports); err != nil {
		return err
	}
	if err := printer.Summary(path, len(reports)); err != nil {
		return err
	}
	return errDiagnostics
}
