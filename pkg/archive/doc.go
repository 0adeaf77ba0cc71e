// Package archive ingests one or more class archives for a single library
// version: it filters out classes that are never part of the public API,
// batches the remainder into disassembler-sized chunks, and hands the
// textual output to pkg/disasm. The actual disassembly/extraction tools are
// abstracted behind the Disassembler and Extractor interfaces so tests can
// stub the JDK-dependent parts and production can choose between an
// exec.Command-based runner and a containerized one.
package archive
