package biblib

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aclements/biblib/messages"
)

// Field is one name/value pair of an entry. Names are lower-cased by
// the parser; values are whitespace-normalized.
type Field struct {
	Name  string
	Value string
}

// Entry is one database entry: an ordered field map plus metadata.
// Field values are as a .bst file would see them -- white space
// cleaned up, macros substituted, but BibTeX markup retained.
type Entry struct {
	// Fields in insertion order. A field name repeated in the source
	// keeps its first slot but its last value.
	Fields []Field
	// Type is the lower-cased entry type, e.g. "article".
	Type string
	// Key is the citation key with its original case preserved.
	// Lower-case it for comparisons.
	Key string
	// Pos is the position of the @ that opened the entry.
	Pos messages.Pos
	// FieldPos maps field names to the position of the field's name
	// token, for field-specific diagnostics.
	FieldPos map[string]messages.Pos
}

func (e *Entry) String() string {
	return fmt.Sprintf("`%s' at %s", e.Key, e.Pos)
}

// Get returns the value of the named field.
func (e *Entry) Get(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Has reports whether the entry defines the named field.
func (e *Entry) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Field returns the named field's value, or a *FieldError naming this
// entry when the field is absent.
func (e *Entry) Field(name string) (string, error) {
	if v, ok := e.Get(name); ok {
		return v, nil
	}
	return "", &FieldError{Field: name, Entry: e}
}

// Set stores a field value. A repeated name keeps its first insertion
// slot but takes the new value.
func (e *Entry) Set(name, value string) {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			e.Fields[i].Value = value
			return
		}
	}
	e.Fields = append(e.Fields, Field{name, value})
}

// Equal reports whether two entries have the same fields (in the same
// order), type, and key. Positions are not compared.
func (e *Entry) Equal(o *Entry) bool {
	if e.Type != o.Type || e.Key != o.Key || len(e.Fields) != len(o.Fields) {
		return false
	}
	for i, f := range e.Fields {
		if o.Fields[i] != f {
			return false
		}
	}
	return true
}

// copy returns a duplicate with its own field list and position map.
func (e *Entry) copy() *Entry {
	n := &Entry{
		Fields:   append([]Field(nil), e.Fields...),
		Type:     e.Type,
		Key:      e.Key,
		Pos:      e.Pos,
		FieldPos: make(map[string]messages.Pos, len(e.FieldPos)),
	}
	for k, v := range e.FieldPos {
		n.FieldPos[k] = v
	}
	return n
}

// ResolveCrossref returns a new entry with fields inherited from the
// entry named by its crossref field. Fields the entry defines itself
// are never overwritten, and the crossref field is dropped from the
// result; neither input is mutated. An entry without a crossref is
// returned as-is.
//
// Finalize validates crossref targets, so a target missing from db is
// a caller bug and panics.
func (e *Entry) ResolveCrossref(db *Database) *Entry {
	ref, ok := e.Get("crossref")
	if !ok {
		return e
	}
	source, ok := db.Get(ref)
	if !ok {
		panic(fmt.Sprintf("biblib: unresolved crossref `%s' in %s", ref, e))
	}
	n := e.copy()
	for _, f := range source.Fields {
		if !n.Has(f.Name) {
			n.Set(f.Name, f.Value)
			n.FieldPos[f.Name] = source.FieldPos[f.Name]
		}
	}
	for i := range n.Fields {
		if n.Fields[i].Name == "crossref" {
			n.Fields = append(n.Fields[:i], n.Fields[i+1:]...)
			break
		}
	}
	return n
}

// DateKey returns a chronological sort key: empty when the entry has
// neither year nor month, (year) with a year only, and (year, month)
// with both. A non-numeric year, a month without a year, or an
// unparseable month is a hard error at the field's position.
func (e *Entry) DateKey() ([]int, error) {
	var key []int
	year, hasYear := e.Get("year")
	_, hasMonth := e.Get("month")
	if hasYear {
		if !isDigits(year) {
			return nil, messages.Errorf(e.FieldPos["year"], "invalid year `%s'", year)
		}
		y, err := strconv.Atoi(year)
		if err != nil {
			return nil, messages.Errorf(e.FieldPos["year"], "invalid year `%s'", year)
		}
		key = append(key, y)
	}
	if hasMonth {
		if !hasYear {
			return nil, messages.Errorf(e.FieldPos["month"], "month without year")
		}
		m, err := e.MonthNum("month")
		if err != nil {
			return nil, err
		}
		key = append(key, m)
	}
	return key, nil
}

var monthNames = [12]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// MonthNum converts the named month field into a number in [1,12].
// The parse is fuzzy enough for all standard month macro styles: the
// value is trimmed of surrounding white space, one trailing period is
// stripped, and the result (at least three characters long) must be a
// prefix of a full month name. Returns a *FieldError when the field is
// absent and a position-tagged error when it cannot be parsed.
func (e *Entry) MonthNum(field string) (int, error) {
	val, err := e.Field(field)
	if err != nil {
		return 0, err
	}
	norm := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(val), "."))
	if len(norm) >= 3 {
		for i, name := range monthNames {
			if strings.HasPrefix(name, norm) {
				return i + 1, nil
			}
		}
	}
	return 0, messages.Errorf(e.FieldPos[field], "invalid month `%s'", val)
}

// FieldError reports a field absent from an entry.
type FieldError struct {
	Field string
	Entry *Entry
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: missing field `%s'", e.Entry, e.Field)
}
