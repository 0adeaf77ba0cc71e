package errs

import "fmt"

// ExitCode is the process exit status this tool reports for a given
// outcome.
type ExitCode int

const (
	ExitCompatible      ExitCode = 0
	ExitIncompatible    ExitCode = 1
	ExitGeneric         ExitCode = 2
	ExitMissingTool     ExitCode = 3
	ExitAccessError     ExitCode = 4
	ExitMalformedDump   ExitCode = 7
	ExitDumpVersion     ExitCode = 8
	ExitMissingModule   ExitCode = 9
)

// AccessError wraps a failure to read an input (archive, directory, XML
// descriptor, or dump) that the caller supplied.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("errs: cannot access %s: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

func (e *AccessError) ExitCode() ExitCode { return ExitAccessError }

// NotFound wraps a failure to locate a required external tool (the
// disassembler or extractor binary).
type NotFound struct {
	Tool string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("errs: required tool not found: %s", e.Tool)
}

func (e *NotFound) ExitCode() ExitCode { return ExitMissingTool }

// InvalidDump wraps a malformed serialized API dump (bad container, missing
// required fields, unparsable payload).
type InvalidDump struct {
	Reason string
}

func (e *InvalidDump) Error() string {
	return fmt.Sprintf("errs: malformed dump: %s", e.Reason)
}

func (e *InvalidDump) ExitCode() ExitCode { return ExitMalformedDump }

// DumpVersion wraps an API dump whose major format version doesn't match
// what this build of the tool can read.
type DumpVersion struct {
	Found, Supported int
}

func (e *DumpVersion) Error() string {
	return fmt.Sprintf("errs: dump format version %d incompatible with supported major version %d", e.Found, e.Supported)
}

func (e *DumpVersion) ExitCode() ExitCode { return ExitDumpVersion }

// InternalError wraps a disassembly-contract violation — e.g. a method
// signature not followed by its descriptor line — that indicates either a
// bug in the parser or an unsupported disassembler output format.
type InternalError struct {
	Reason string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("errs: internal error: %s", e.Reason)
}

func (e *InternalError) ExitCode() ExitCode { return ExitGeneric }

// MissingModule wraps the absence of an internal module the tool expects to
// be present at startup (e.g. a required storage backend failed to
// initialize).
type MissingModule struct {
	Module string
}

func (e *MissingModule) Error() string {
	return fmt.Sprintf("errs: missing internal module: %s", e.Module)
}

func (e *MissingModule) ExitCode() ExitCode { return ExitMissingModule }

// Incompatible signals that a check completed successfully but found the
// two versions incompatible at the requested severity threshold — not a
// failure of the tool itself, just the non-zero-exit-code outcome spec.md's
// exit-code table reserves for that case.
type Incompatible struct {
	Library               string
	High, Medium, Low, Safe int
}

func (e *Incompatible) Error() string {
	return fmt.Sprintf("errs: %s is incompatible (high=%d medium=%d low=%d)", e.Library, e.High, e.Medium, e.Low)
}

func (e *Incompatible) ExitCode() ExitCode { return ExitIncompatible }

// coder is implemented by every error in this taxonomy.
type coder interface {
	error
	ExitCode() ExitCode
}

// CodeOf returns the exit code for err if it (or something it wraps)
// implements coder, and ExitGeneric otherwise.
func CodeOf(err error) ExitCode {
	if err == nil {
		return ExitCompatible
	}
	var c coder
	if asCoder(err, &c) {
		return c.ExitCode()
	}
	return ExitGeneric
}

func asCoder(err error, target *coder) bool {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if c, ok := err.(coder); ok {
			*target = c
			return true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
