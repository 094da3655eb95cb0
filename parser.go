package biblib

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/aclements/biblib/messages"
)

// MonthStyle selects the month macros a Parser is seeded with. Style
// files normally provide these, so the choice mirrors the style the
// database will be used with.
type MonthStyle int

const (
	// MonthsFull seeds jan..dec with full month names.
	MonthsFull MonthStyle = iota
	// MonthsAbbrv seeds jan..dec with abbrv.bst-style abbreviations.
	MonthsAbbrv
	// MonthsNone seeds no month macros.
	MonthsNone
)

// Month macros as provided by the standard full-name styles.
var fullMonths = map[string]string{
	"jan": "January", "feb": "February", "mar": "March",
	"apr": "April", "may": "May", "jun": "June",
	"jul": "July", "aug": "August", "sep": "September",
	"oct": "October", "nov": "November", "dec": "December",
}

// Month macros as provided by abbrv.bst.
var abbrvMonths = map[string]string{
	"jan": "Jan.", "feb": "Feb.", "mar": "Mar.",
	"apr": "Apr.", "may": "May", "jun": "June",
	"jul": "July", "aug": "Aug.", "sep": "Sept.",
	"oct": "Oct.", "nov": "Nov.", "dec": "Dec.",
}

// Options configures a Parser for its lifetime.
type Options struct {
	// Months selects the month macro seeding. The zero value is
	// MonthsFull.
	Months MonthStyle
	// Log receives position-tagged warnings (macro redefinitions,
	// unknown macro references). Warnings never fail a parse. Defaults
	// to slog.Default().
	Log *slog.Logger
}

// trailingSpace matches the per-line trailing white space BibTeX's
// input_ln discards before scanning.
var trailingSpace = regexp.MustCompile(`(?m)[ \t]+$`)

// spaceRun matches the runs of white space that collapse to a single
// space inside field values.
var spaceRun = regexp.MustCompile(`[ \t\n]+`)

// Parser accumulates a database over one or more Parse calls. It holds
// the live macro table, the growing ordered entry collection, and the
// cursor state of the source currently being scanned. A Parser is not
// safe for concurrent use.
type Parser struct {
	macros map[string]string
	db     *Database
	log    *slog.Logger

	// state of the current Parse call
	data string
	pos  int
	file *messages.File
}

// NewParser returns an empty database session. Populate it by calling
// Parse one or more times, then retrieve the database with Finalize.
func NewParser(opts Options) *Parser {
	p := &Parser{
		macros: make(map[string]string),
		db:     newDatabase(),
		log:    opts.Log,
	}
	if p.log == nil {
		p.log = slog.Default()
	}
	switch opts.Months {
	case MonthsFull:
		for name, val := range fullMonths {
			p.macros[name] = val
		}
	case MonthsAbbrv:
		for name, val := range abbrvMonths {
			p.macros[name] = val
		}
	}
	return p
}

// Parse parses one .bib source provided as an io.Reader or a file name
// and returns the finalized database. For multi-file sessions use
// NewParser, Parse, and Finalize directly.
func Parse(r io.Reader, fileName string, opts Options) (*Database, error) {
	p := NewParser(opts)
	if err := p.Parse(r, fileName); err != nil {
		return nil, err
	}
	return p.Finalize()
}

// Define declares a macro, just like an @string command.
func (p *Parser) Define(name, value string) {
	p.macros[strings.ToLower(name)] = value
}

// Parse reads all of r and parses it, recording name as the source for
// diagnostics. If r is nil, the file called name is opened instead.
//
// Hard errors abort only the construct they occur in; scanning resumes
// at the next @, and every hard error of this call is returned at the
// end as one messages.ErrorList. Constructs that parsed cleanly are in
// the database regardless.
func (p *Parser) Parse(r io.Reader, name string) error {
	if r == nil {
		if name == "" {
			return fmt.Errorf("nothing to parse")
		}
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("can't process file %s: %w", name, err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("can't read %s: %w", name, err)
	}
	return p.ParseString(string(data), name)
}

// ParseString is Parse for an already-loaded source.
func (p *Parser) ParseString(src, name string) error {
	if name == "" {
		name = "<string>"
	}
	p.data = trailingSpace.ReplaceAllString(src, "")
	p.pos = 0
	p.file = messages.NewFile(name, p.data)

	var errs messages.ErrorList
	for p.pos < len(p.data) {
		if err := p.scanCommandOrEntry(); err != nil {
			var ie *messages.InputError
			if !errors.As(err, &ie) {
				return err
			}
			// Recover at the next @ on the following iteration.
			errs = append(errs, ie)
		}
	}
	return errs.Err()
}

// Finalize checks cross-reference validity and returns the database.
// Unknown crossref targets are reported bundled, one per referring
// entry. The database is returned either way.
func (p *Parser) Finalize() (*Database, error) {
	var errs messages.ErrorList
	for _, ent := range p.db.Entries() {
		ref, ok := ent.Get("crossref")
		if !ok {
			continue
		}
		if _, found := p.db.Get(ref); !found {
			errs = append(errs, messages.Errorf(ent.Pos, "unknown crossref `%s'", ref))
		}
	}
	return p.db, errs.Err()
}

// fail raises a hard error at byte offset off.
func (p *Parser) fail(off int, format string, args ...any) error {
	return messages.Errorf(p.file.Pos(off), format, args...)
}

func (p *Parser) warn(off int, msg string) {
	p.log.Warn(msg, "pos", p.file.Pos(off))
}

// skipSpace advances past space, tab, and newline. BibTeX considers
// only these three characters white space.
func (p *Parser) skipSpace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n':
			p.pos++
		default:
			return
		}
	}
}

// tryByte consumes c at the cursor plus the white space after it and
// reports whether it matched.
func (p *Parser) tryByte(c byte) bool {
	if p.pos < len(p.data) && p.data[p.pos] == c {
		p.pos++
		p.skipSpace()
		return true
	}
	return false
}

// tryByteRaw is tryByte without the white space skip, for delimiters
// whose following text is significant.
func (p *Parser) tryByteRaw(c byte) bool {
	if p.pos < len(p.data) && p.data[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

// requireByte is tryByte that raises a hard error on failure.
func (p *Parser) requireByte(c byte, msg string) error {
	if p.tryByte(c) {
		return nil
	}
	return p.fail(p.pos, msg)
}

// scanWhile consumes the run of bytes satisfying ok plus the white
// space after it and returns the run, which may be empty.
func (p *Parser) scanWhile(ok func(byte) bool) string {
	start := p.pos
	for p.pos < len(p.data) && ok(p.data[p.pos]) {
		p.pos++
	}
	tok := p.data[start:p.pos]
	p.skipSpace()
	return tok
}

// tryIdentifier scans an identifier at the cursor, or reports false
// without moving.
func (p *Parser) tryIdentifier() (string, bool) {
	if p.pos >= len(p.data) || !isIDByte(p.data[p.pos]) || isDigit(p.data[p.pos]) {
		return "", false
	}
	return p.scanWhile(isIDByte), true
}

func (p *Parser) scanIdentifier() (string, error) {
	id, ok := p.tryIdentifier()
	if !ok {
		return "", p.fail(p.pos, "expected identifier")
	}
	return id, nil
}

// scanBalancedText scans brace-balanced text terminated by term, whose
// opening delimiter the cursor is already past. Only braces affect
// nesting; term ends the span at nesting level zero.
func (p *Parser) scanBalancedText(term byte) (string, error) {
	start, level := p.pos, 0
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case level == 0 && c == term:
			text := p.data[start:p.pos]
			p.pos++
			p.skipSpace()
			return text, nil
		case c == '{':
			level++
		case c == '}':
			level--
			if level < 0 {
				return "", p.fail(p.pos, "unexpected }")
			}
		}
		p.pos++
	}
	return "", p.fail(p.pos, "unterminated string")
}

// scanCommandOrEntry parses one @command or database entry. Text up to
// the next @ is inter-entry noise and skipped; that same skip is what
// swallows @comment bodies on the following iteration.
func (p *Parser) scanCommandOrEntry() error {
	p.scanWhile(func(c byte) bool { return c != '@' })
	pos := p.file.Pos(p.pos)
	if !p.tryByte('@') {
		return nil
	}

	typ, err := p.scanIdentifier()
	if err != nil {
		return err
	}
	typ = strings.ToLower(typ)

	if typ == "comment" {
		// BibTeX does nothing with what comes after an @comment,
		// treating it like any other inter-entry noise.
		return nil
	}

	var right byte
	switch {
	case p.tryByte('{'):
		right = '}'
	case p.tryByte('('):
		right = ')'
	default:
		return p.fail(p.pos, "expected { or ( after entry type")
	}

	switch typ {
	case "preamble":
		// Parse the preamble for its side effects, but ignore it.
		if _, err := p.scanFieldValue(); err != nil {
			return err
		}
		return p.requireByte(right, "expected "+string(right))
	case "string":
		return p.scanStringCommand(right)
	}
	return p.scanEntry(typ, right, pos)
}

func (p *Parser) scanStringCommand(right byte) error {
	name, err := p.scanIdentifier()
	if err != nil {
		return err
	}
	name = strings.ToLower(name)
	if _, ok := p.macros[name]; ok {
		p.warn(p.pos, fmt.Sprintf("macro `%s' redefined", name))
	}
	if err := p.requireByte('=', "expected = after string name"); err != nil {
		return err
	}
	value, err := p.scanFieldValue()
	if err != nil {
		return err
	}
	if err := p.requireByte(right, "expected "+string(right)); err != nil {
		return err
	}
	p.macros[name] = value
	return nil
}

func (p *Parser) scanEntry(typ string, right byte, pos messages.Pos) error {
	// The database key is anything up to a comma, white space, or
	// end-of-line -- plus the closing brace when the entry opened with
	// a brace. It may be empty, and with a ( opener it may contain a
	// close paren.
	key := p.scanWhile(func(c byte) bool {
		if c == ',' || c == ' ' || c == '\t' || c == '\n' {
			return false
		}
		return !(right == '}' && c == '}')
	})

	ent := &Entry{Type: typ, Key: key, Pos: pos, FieldPos: make(map[string]messages.Pos)}
	for {
		if p.tryByte(right) {
			break
		}
		if err := p.requireByte(',', fmt.Sprintf("expected %c or ,", right)); err != nil {
			return err
		}
		// A trailing comma before the closing delimiter is legal.
		if p.tryByte(right) {
			break
		}

		fieldOff := p.pos
		field, err := p.scanIdentifier()
		if err != nil {
			return err
		}
		field = strings.ToLower(field)
		if err := p.requireByte('=', "expected = after field name"); err != nil {
			return err
		}
		value, err := p.scanFieldValue()
		if err != nil {
			return err
		}
		ent.Set(field, value)
		ent.FieldPos[field] = p.file.Pos(fieldOff)
	}

	lower := strings.ToLower(key)
	if _, ok := p.db.Get(lower); ok {
		return p.fail(p.pos, "repeated entry")
	}
	p.db.add(lower, ent)
	return nil
}

// scanFieldValue scans one or more #-concatenated field pieces and
// normalizes the result: runs of white space collapse to a single
// space, and literal spaces (only) are trimmed from the ends.
func (p *Parser) scanFieldValue() (string, error) {
	value, err := p.scanFieldPiece()
	if err != nil {
		return "", err
	}
	for p.tryByte('#') {
		piece, err := p.scanFieldPiece()
		if err != nil {
			return "", err
		}
		value += piece
	}
	value = spaceRun.ReplaceAllString(value, " ")
	return strings.Trim(value, " "), nil
}

// scanFieldPiece scans a single field piece: a digit run taken
// verbatim, brace- or quote-delimited balanced text, or a macro
// reference. An unknown macro warns and substitutes the empty string.
func (p *Parser) scanFieldPiece() (string, error) {
	if p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		return p.scanWhile(isDigit), nil
	}
	if p.tryByteRaw('{') {
		return p.scanBalancedText('}')
	}
	if p.tryByteRaw('"') {
		return p.scanBalancedText('"')
	}
	opos := p.pos
	if id, ok := p.tryIdentifier(); ok {
		value, defined := p.macros[strings.ToLower(id)]
		if !defined {
			p.warn(opos, fmt.Sprintf("unknown macro `%s'", id))
			return "", nil
		}
		return value, nil
	}
	return "", p.fail(p.pos, "expected string, number, or macro name")
}
