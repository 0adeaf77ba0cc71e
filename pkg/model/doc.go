// Package model holds the per-version symbol tables produced by ingestion:
// Type, Field, and Method records plus the usage tables that the comparator
// and affected-method propagator read during a check. A Bundle is built once
// by pkg/disasm and treated as read-only for the rest of a run.
package model
