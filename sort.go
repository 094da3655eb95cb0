package biblib

import "sort"

// missingDate sorts entries without a usable date after everything
// else.
const missingDate = 1<<32 - 1

// ByDate returns db's entries in chronological order using each
// entry's DateKey. Entries whose date is absent or malformed sort
// last; ties keep insertion order.
func ByDate(db *Database) []*Entry {
	ents := db.Entries()
	sort.SliceStable(ents, func(i, j int) bool {
		return dateLess(dateOrMissing(ents[i]), dateOrMissing(ents[j]))
	})
	return ents
}

func dateOrMissing(e *Entry) []int {
	key, err := e.DateKey()
	if err != nil || len(key) == 0 {
		return []int{missingDate}
	}
	return key
}

func dateLess(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
