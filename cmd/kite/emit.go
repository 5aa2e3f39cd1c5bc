package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/kite/internal/ast"
	"github.com/orizon-lang/kite/internal/config"
	"github.com/orizon-lang/kite/internal/position"
	"github.com/orizon-lang/kite/internal/token"
)

// writeProgram prints a parsed program. The text format is the debug form
// of each top-level statement, one per line.
func writeProgram(w io.Writer, program *ast.Program, format string) error {
	switch format {
	case config.FormatJSON, config.FormatYAML:
		return encode(w, ast.Encode(program), format)
	default:
		for _, stmt := range program.Statements {
			if _, err := fmt.Fprintln(w, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}

// writeTokens prints a token stream, one token per row.
func writeTokens(w io.Writer, file *position.SourceFile, tokens []token.Located, format string) error {
	switch format {
	case config.FormatJSON, config.FormatYAML:
		rows := make([]map[string]any, len(tokens))
		for i, t := range tokens {
			rows[i] = map[string]any{
				"kind":  t.Value.Kind.String(),
				"value": t.Value.String(),
				"range": []int{t.Range.Start, t.Range.End},
			}
		}
		return encode(w, rows, format)
	default:
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Location", "Kind", "Token", "Text"})
		table.SetAutoWrapText(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetBorder(false)
		table.SetHeaderLine(false)
		table.SetNoWhiteSpace(true)
		table.SetTablePadding("  ")
		for _, t := range tokens {
			table.Append([]string{
				file.Location(t.Range.Start),
				t.Value.Kind.String(),
				t.Value.String(),
				fmt.Sprintf("%q", file.Text(t.Range)),
			})
		}
		table.Render()
		return nil
	}
}

func encode(w io.Writer, v any, format string) error {
	if format == config.FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
