package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/orizon-lang/kite/internal/position"
)

// Printer writes reports to a terminal or file.
type Printer struct {
	w         io.Writer
	maxErrors int

	label *color.Color
	msg   *color.Color
	caret *color.Color
}

// NewPrinter creates a printer writing to w. When colored is false the
// output is byte-for-byte what Report.Display produces. maxErrors limits
// how many reports are printed per file; 0 means no limit.
func NewPrinter(w io.Writer, colored bool, maxErrors int) *Printer {
	p := &Printer{
		w:         w,
		maxErrors: maxErrors,
		label:     color.New(color.Bold, color.FgRed),
		msg:       color.New(color.Bold),
		caret:     color.New(color.FgRed),
	}
	if colored {
		p.label.EnableColor()
		p.msg.EnableColor()
		p.caret.EnableColor()
	} else {
		p.label.DisableColor()
		p.msg.DisableColor()
		p.caret.DisableColor()
	}
	return p
}

// Print writes one report rendered against file.
func (p *Printer) Print(file *position.SourceFile, r Report) error {
	rows, underline := annotate(file, r.Range)

	var b strings.Builder
	b.WriteString(p.label.Sprint("error"))
	b.WriteString(p.msg.Sprint(": " + r.Message))
	b.WriteByte('\n')
	for i, row := range rows {
		if i == underline && strings.HasSuffix(row, "^") {
			// carets follow the last " | " separator
			cut := strings.LastIndex(row, " | ") + len(" | ")
			body := row[cut:]
			carets := strings.TrimLeft(body, " ")
			row = row[:cut] + body[:len(body)-len(carets)] + p.caret.Sprint(carets)
		}
		b.WriteString(row)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

// PrintAll writes the reports for one file, honoring the error limit, and
// returns the number of reports written.
func (p *Printer) PrintAll(file *position.SourceFile, reports []Report) (int, error) {
	shown := reports
	if p.maxErrors > 0 && len(shown) > p.maxErrors {
		shown = shown[:p.maxErrors]
	}

	for _, r := range shown {
		if err := p.Print(file, r); err != nil {
			return 0, err
		}
	}

	if hidden := len(reports) - len(shown); hidden > 0 {
		if _, err := fmt.Fprintf(p.w, "... and %d more %s\n", hidden, plural(hidden, "error")); err != nil {
			return len(shown), err
		}
	}
	return len(shown), nil
}

// Summary writes the closing line for a file with count diagnostics.
func (p *Printer) Summary(filename string, count int) error {
	_, err := fmt.Fprintf(p.w, "%s: %d %s\n", filename, count, plural(count, "error"))
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
