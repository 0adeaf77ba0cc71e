// Package classify assigns a Severity to each pkg/diff Problem, using two
// declarative severity tables (binary and source level), a handful of
// context-sensitive override rules, and a final reduction pass that keeps
// only the maximum severity observed per (type, kind, target) triple.
package classify
