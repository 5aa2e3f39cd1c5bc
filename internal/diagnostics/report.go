// Package diagnostics turns collected compiler errors into human readable,
// source annotated reports.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/orizon-lang/kite/internal/position"
)

// Report is a user facing diagnostic. Hint is empty when there is none.
type Report struct {
	Message string
	Range   position.Range
	Hint    string
}

// HasHint returns true if the report carries a hint
func (r Report) HasHint() bool {
	return r.Hint != ""
}

// Display renders the report against source, one line per row, each
// terminated by a newline. The first row is always "error: <message>".
//
// The hint is not rendered.
func (r Report) Display(source string) string {
	var b strings.Builder
	for _, line := range r.Lines(source) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Lines is Display without the line terminators.
func (r Report) Lines(source string) []string {
	rows, _ := annotate(position.NewSourceFile("", source), r.Range)
	return append([]string{header(r.Message)}, rows...)
}

func header(message string) string {
	return "error: " + message
}

// annotate renders the source lines covered by rng.
//
// A range within one line gets a blank gutter row, the numbered line and a
// caret underline. A range spanning several lines lists each of them with a
// ">|" gutter and no underline. The index of the underline row is returned,
// or -1 when there is none.
func annotate(sf *position.SourceFile, rng position.Range) ([]string, int) {
	start := sf.Clamp(rng.Start)
	end := sf.Clamp(rng.End)
	if end < start {
		end = start
	}

	firstLine := sf.LineIndex(start)
	lastLine := firstLine
	if end > start {
		lastLine = sf.LineIndex(end - 1)
	}
	width := len(fmt.Sprint(lastLine + 1))

	if firstLine == lastLine {
		column := start - sf.LineStart(firstLine)
		return []string{
			fmt.Sprintf("%*s |", width, ""),
			fmt.Sprintf("%*d | %s", width, firstLine+1, sf.Line(firstLine)),
			fmt.Sprintf("%s | %s%s", strings.Repeat(" ", width), strings.Repeat(" ", column), strings.Repeat("^", end-start)),
		}, 2
	}

	out := make([]string, 0, lastLine-firstLine+1)
	for line := firstLine; line <= lastLine; line++ {
		out = append(out, fmt.Sprintf("%*d >| %s", width, line+1, sf.Line(line)))
	}
	return out, -1
}
