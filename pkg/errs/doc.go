// Package errs defines the tool's fatal error taxonomy and the mapping from
// each error kind to its process exit code. Every error in this taxonomy is
// fatal: the engine aborts ingestion or comparison rather than produce a
// report built from a partially-analyzed API, since a silently-skipped
// class could hide a real incompatibility.
package errs
