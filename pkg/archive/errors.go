package archive

import "errors"

// Sentinel errors surfaced by ingestion. Callers map these to the process
// exit codes documented for the tool.
var (
	// ErrExtractionFailed means a nested archive or class file could not be
	// extracted to a scratch directory.
	ErrExtractionFailed = errors.New("archive: extraction failed")
	// ErrDisassemblyFailed means the disassembler tool exited non-zero or
	// produced no usable output for a chunk of class files.
	ErrDisassemblyFailed = errors.New("archive: disassembly failed")
	// ErrToolNotFound means the configured disassembler/extractor binary
	// could not be located on PATH.
	ErrToolNotFound = errors.New("archive: required tool not found")
	// ErrNoClassesFound means the filter pipeline dropped every candidate
	// class file, leaving nothing to analyze.
	ErrNoClassesFound = errors.New("archive: no class files remained after filtering")
)
