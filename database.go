package biblib

import "strings"

// Database is an insertion-ordered collection of entries keyed by
// lower-cased citation key. Keys are unique; the parser rejects a
// second entry whose key matches an existing one case-insensitively.
type Database struct {
	keys    []string
	entries map[string]*Entry
}

func newDatabase() *Database {
	return &Database{entries: make(map[string]*Entry)}
}

// Get returns the entry stored under key. The key is lower-cased
// before lookup.
func (db *Database) Get(key string) (*Entry, bool) {
	e, ok := db.entries[strings.ToLower(key)]
	return e, ok
}

// Len returns the number of entries.
func (db *Database) Len() int {
	return len(db.keys)
}

// Keys returns the lower-cased entry keys in insertion order.
func (db *Database) Keys() []string {
	return append([]string(nil), db.keys...)
}

// Entries returns the entries in insertion order.
func (db *Database) Entries() []*Entry {
	ents := make([]*Entry, len(db.keys))
	for i, k := range db.keys {
		ents[i] = db.entries[k]
	}
	return ents
}

// add inserts an entry under an already lower-cased key the caller has
// checked for uniqueness.
func (db *Database) add(key string, e *Entry) {
	db.keys = append(db.keys, key)
	db.entries[key] = e
}
