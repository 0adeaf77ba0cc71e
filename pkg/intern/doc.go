// Package intern provides per-version interning of type-name strings into
// dense integer identifiers.
//
// Every symbol in pkg/model refers to other types by interned ID rather than
// by pointer or by name, so that a version's type table can be built once
// during ingestion and treated as a read-only array for the rest of a run.
// Cross-version identity is never established through IDs — two versions
// each have their own Table, and the differ re-establishes correspondence by
// canonical string name.
package intern
