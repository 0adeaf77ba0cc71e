// Package disasm parses the textual disassembly of one or more class files
// (the output of a tool such as javap -c -p -v) into a pkg/model.Bundle. The
// parser is a line-oriented finite-state machine: it never builds an
// intermediate AST, it populates the Bundle directly as it scans.
package disasm
