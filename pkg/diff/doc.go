// Package diff detects binary- and source-level API differences between two
// ingested model.Bundle versions and classifies each as a Problem tagged
// with one of a closed set of Kind values. Detection runs in three passes —
// added methods, removed methods, and a merge pass over methods present in
// both versions — plus a recursive, memoized type-merge step that attributes
// type-level changes to every method that mentions the type.
package diff
