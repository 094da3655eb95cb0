package biblib

import (
	"fmt"
	"io"
	"strings"
)

// MonthMacros are the standard style-file month macro names, indexed
// by month-1.
var MonthMacros = [12]string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

// BibOptions controls .bib rendering.
type BibOptions struct {
	// MonthToMacro re-encodes a parseable month field as its standard
	// macro instead of a braced literal.
	MonthToMacro bool
	// WrapWidth word-wraps values at this many columns; 0 disables
	// wrapping. Long words and hyphens are never split.
	WrapWidth int
}

// DefaultBibOptions match the reference renderer.
func DefaultBibOptions() BibOptions {
	return BibOptions{MonthToMacro: true, WrapWidth: 70}
}

// Bib returns the entry formatted as a BibTeX .bib entry.
func (e *Entry) Bib(opts BibOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", e.Type, e.Key)
	for _, f := range e.Fields {
		if opts.MonthToMacro && f.Name == "month" {
			if num, err := e.MonthNum("month"); err == nil {
				fmt.Fprintf(&b, "  %-12s = %s,\n", f.Name, MonthMacros[num-1])
				continue
			}
		}
		start := fmt.Sprintf("  %-12s = {", f.Name)
		if opts.WrapWidth > 0 {
			b.WriteString(wrap(f.Value, opts.WrapWidth, start, "    "))
		} else {
			b.WriteString(start)
			b.WriteString(f.Value)
		}
		b.WriteString("},\n")
	}
	b.WriteString("}")
	return b.String()
}

// wrap greedily fills text to width columns. initial is already-placed
// first-line text; continuation lines get indent. Words wider than the
// remaining space go on their own line rather than being split.
func wrap(text string, width int, initial, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return initial
	}
	var b strings.Builder
	b.WriteString(initial)
	col := len(initial)
	for i, w := range words {
		switch {
		case i == 0:
			b.WriteString(w)
			col += len(w)
		case col+1+len(w) > width:
			b.WriteString("\n")
			b.WriteString(indent)
			b.WriteString(w)
			col = len(indent) + len(w)
		default:
			b.WriteString(" ")
			b.WriteString(w)
			col += 1 + len(w)
		}
	}
	return b.String()
}

// Fprint writes every entry of db to w in .bib form, separated by
// blank lines.
func Fprint(w io.Writer, db *Database, opts BibOptions) error {
	for i, ent := range db.Entries() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, ent.Bib(opts)); err != nil {
			return err
		}
	}
	return nil
}
