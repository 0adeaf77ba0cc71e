package archive

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/platinummonkey/japicc/pkg/disasm"
	"github.com/platinummonkey/japicc/pkg/model"
)

// maxCommandLineBytes is a conservative batching limit well under common
// platform argument-length ceilings (e.g. Linux's ARG_MAX, Windows' 8191
// character CreateProcess limit), leaving headroom for the tool's own flags.
const maxCommandLineBytes = 6000

// Ingestor drives extraction, filtering, chunked disassembly, and parsing
// for a single library version, producing a populated model.Bundle.
type Ingestor struct {
	Extractor    Extractor
	Disassembler Disassembler
	Options      FilterOptions
}

// NewIngestor returns an Ingestor wired to the given Extractor and
// Disassembler implementations.
func NewIngestor(ext Extractor, dis Disassembler, opts FilterOptions) *Ingestor {
	return &Ingestor{Extractor: ext, Disassembler: dis, Options: opts}
}

// Ingest extracts and disassembles every archive path, parsing the result
// into bundle. archiveName is recorded against every Type/Method registered
// from these archives. On extraction or disassembly failure, Ingest returns
// a wrapped sentinel error and aborts — the caller's version ingestion is
// considered failed.
func (in *Ingestor) Ingest(ctx context.Context, archivePaths []string, archiveName string, scratchDir string, bundle *model.Bundle) error {
	var allClassFiles []string
	for _, archivePath := range archivePaths {
		files, err := in.Extractor.Extract(ctx, archivePath, scratchDir)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrExtractionFailed, archivePath, err)
		}
		allClassFiles = append(allClassFiles, files...)
	}

	// Filter works on archive-relative paths; map its result back to the
	// extracted files for disassembly.
	byRel := make(map[string]string, len(allClassFiles))
	relPaths := make([]string, 0, len(allClassFiles))
	for _, f := range allClassFiles {
		rel := filepath.ToSlash(strings.TrimPrefix(f, filepath.Clean(scratchDir)+string(filepath.Separator)))
		byRel[rel] = f
		relPaths = append(relPaths, rel)
	}
	var kept []string
	for _, rel := range Filter(relPaths, in.Options) {
		kept = append(kept, byRel[rel])
	}
	if len(kept) == 0 {
		return ErrNoClassesFound
	}

	for _, chunk := range chunkByLength(kept, maxCommandLineBytes) {
		output, err := in.Disassembler.Disassemble(ctx, chunk)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDisassemblyFailed, err)
		}
		p := disasm.New(bundle, archiveName)
		if err := p.Parse(strings.NewReader(output)); err != nil {
			return fmt.Errorf("%w: %v", ErrDisassemblyFailed, err)
		}
	}
	return nil
}

// chunkByLength groups paths into batches whose total byte length (plus one
// separating space per element) stays under limit, never splitting a single
// path across two chunks.
func chunkByLength(paths []string, limit int) [][]string {
	var chunks [][]string
	var current []string
	currentLen := 0

	for _, p := range paths {
		addedLen := len(p) + 1
		if len(current) > 0 && currentLen+addedLen > limit {
			chunks = append(chunks, current)
			current = nil
			currentLen = 0
		}
		current = append(current, p)
		currentLen += addedLen
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
