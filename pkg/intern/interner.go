package intern

import "fmt"

// ID is a dense, per-version, per-Table integer handle for an interned name.
// IDs are never meaningful across two different Tables.
type ID int

// Table interns type-name strings to dense IDs and back. It is built once
// during ingestion of a single library version and is read-only afterward;
// a Table is not safe for concurrent writes.
type Table struct {
	byName map[string]ID
	byID   []string
}

// New returns an empty interning table.
func New() *Table {
	return &Table{
		byName: make(map[string]ID),
	}
}

// Intern returns the ID for name, assigning a new one if name hasn't been
// seen before. Interning the same name twice always returns the same ID.
func (t *Table) Intern(name string) ID {
	if id, ok := t.byName[name]; ok {
		return id
	}
	id := ID(len(t.byID))
	t.byID = append(t.byID, name)
	t.byName[name] = id
	return id
}

// Lookup returns the ID already assigned to name, if any.
func (t *Table) Lookup(name string) (ID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Name returns the canonical string for id. It panics on an out-of-range id
// since every id handed out by this Table is produced by Intern and must
// resolve; a bad id indicates a bug in the caller, not a data condition to
// recover from.
func (t *Table) Name(id ID) string {
	if id < 0 || int(id) >= len(t.byID) {
		panic(fmt.Sprintf("intern: id %d out of range (table has %d entries)", id, len(t.byID)))
	}
	return t.byID[id]
}

// Len returns the number of distinct names interned so far.
func (t *Table) Len() int {
	return len(t.byID)
}

// Names returns every interned name in the order first interned.
func (t *Table) Names() []string {
	out := make([]string, len(t.byID))
	copy(out, t.byID)
	return out
}
