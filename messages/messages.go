// Package messages provides source positions and position-tagged
// diagnostics for biblib. A File resolves byte offsets in one source
// text to line/column positions; InputError carries a position with a
// hard error, and ErrorList bundles every hard error raised during one
// parse or finalize call into a single failure.
package messages

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Pos is a resolved position in a named source.
type Pos struct {
	File   string
	Line   int // 1-based
	Col    int // 1-based, in bytes
	Offset int // byte offset in the source
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}

// LogValue lets warnings carry positions as structured log attributes.
func (p Pos) LogValue() slog.Value {
	return slog.StringValue(p.String())
}

// File resolves byte offsets within one source text to positions.
type File struct {
	name  string
	lines []int // byte offset of each line start
}

// NewFile indexes data's line starts under the given name.
func NewFile(name, data string) *File {
	lines := []int{0}
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &File{name: name, lines: lines}
}

func (f *File) Name() string { return f.name }

// Pos resolves a byte offset to a position. Offsets past the last line
// start resolve onto the final line.
func (f *File) Pos(offset int) Pos {
	i := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset }) - 1
	return Pos{File: f.name, Line: i + 1, Col: offset - f.lines[i] + 1, Offset: offset}
}

// InputError is a hard, position-tagged parse error.
type InputError struct {
	Pos Pos
	Msg string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Errorf builds an InputError at pos.
func Errorf(pos Pos, format string, args ...any) *InputError {
	return &InputError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// ErrorList bundles the hard errors collected across one parse or
// finalize call, so one malformed construct never hides the rest.
type ErrorList []*InputError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(l))
	for _, e := range l {
		b.WriteString("\n\t")
		b.WriteString(e.Error())
	}
	return b.String()
}

// Err returns the list as an error, or nil when no errors were
// collected.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
