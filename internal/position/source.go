package position

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// SourceFile represents a source file with content and a line table
// for mapping byte offsets back to lines.
type SourceFile struct {
	Filename string // File path
	Content  string // Source code content

	lineStarts []Pos // offset of the first byte of each line
}

// NewSourceFile creates a new source file from content
func NewSourceFile(filename, content string) *SourceFile {
	starts := []Pos{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceFile{
		Filename:   filename,
		Content:    content,
		lineStarts: starts,
	}
}

// LineCount returns the number of lines in the file. A trailing newline
// starts a final empty line.
func (sf *SourceFile) LineCount() int {
	return len(sf.lineStarts)
}

// Clamp limits offset to the bounds of the content.
func (sf *SourceFile) Clamp(offset Pos) Pos {
	return min(max(offset, 0), len(sf.Content))
}

// LineIndex returns the zero-based line holding offset, i.e. the number
// of newlines strictly before it.
func (sf *SourceFile) LineIndex(offset Pos) int {
	offset = sf.Clamp(offset)
	return sort.Search(len(sf.lineStarts), func(i int) bool {
		return sf.lineStarts[i] > offset
	}) - 1
}

// LineStart returns the offset of the first byte of the zero-based line.
func (sf *SourceFile) LineStart(line int) Pos {
	if line < 0 || line >= len(sf.lineStarts) {
		return len(sf.Content)
	}
	return sf.lineStarts[line]
}

// Line returns the text of the zero-based line without its line terminator,
// or an empty string if the line does not exist.
func (sf *SourceFile) Line(line int) string {
	if line < 0 || line >= len(sf.lineStarts) {
		return ""
	}
	start := sf.lineStarts[line]
	end := len(sf.Content)
	if line+1 < len(sf.lineStarts) {
		end = sf.lineStarts[line+1] - 1
	}
	return strings.TrimSuffix(sf.Content[start:end], "\r")
}

// Text returns the text covered by r, clamped to the content.
func (sf *SourceFile) Text(r Range) string {
	return sf.Content[sf.Clamp(r.Start):sf.Clamp(r.End)]
}

// Location converts offset into a 1-based "file:line:column" string.
func (sf *SourceFile) Location(offset Pos) string {
	line := sf.LineIndex(offset)
	col := sf.Clamp(offset) - sf.lineStarts[line]
	if sf.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(sf.Filename), line+1, col+1)
	}
	return fmt.Sprintf("%d:%d", line+1, col+1)
}
