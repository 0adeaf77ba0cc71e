package archive

import (
	"context"
	"strings"
	"testing"

	"github.com/platinummonkey/japicc/pkg/model"
)

type fakeExtractor struct {
	files []string
	err   error
}

func (f *fakeExtractor) Extract(ctx context.Context, archivePath, destDir string) ([]string, error) {
	return f.files, f.err
}

type fakeDisassembler struct {
	calls   int
	outputs []string
	err     error
}

func (f *fakeDisassembler) Disassemble(ctx context.Context, classFiles []string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls
	f.calls++
	if idx < len(f.outputs) {
		return f.outputs[idx], nil
	}
	return "", nil
}

const minimalDisasm = `
public class com.example.Widget {
  public Widget();
    descriptor: ()V
    Code:
       0: return
}
`

func TestIngestPopulatesBundle(t *testing.T) {
	ext := &fakeExtractor{files: []string{"com/example/Widget.class"}}
	dis := &fakeDisassembler{outputs: []string{minimalDisasm}}
	ing := NewIngestor(ext, dis, FilterOptions{})

	b := model.NewBundle()
	err := ing.Ingest(context.Background(), []string{"widget.jar"}, "widget.jar", t.TempDir(), b)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if _, ok := b.TypeByName("com.example.Widget"); !ok {
		t.Fatal("expected com.example.Widget to be registered")
	}
}

func TestIngestReturnsErrNoClassesFoundWhenFilteredEmpty(t *testing.T) {
	ext := &fakeExtractor{files: []string{"com/example/Widget$1.class"}}
	dis := &fakeDisassembler{}
	ing := NewIngestor(ext, dis, FilterOptions{})

	b := model.NewBundle()
	err := ing.Ingest(context.Background(), []string{"widget.jar"}, "widget.jar", t.TempDir(), b)
	if err != ErrNoClassesFound {
		t.Fatalf("expected ErrNoClassesFound, got %v", err)
	}
}

func TestIngestWrapsExtractionFailure(t *testing.T) {
	ext := &fakeExtractor{err: context.DeadlineExceeded}
	dis := &fakeDisassembler{}
	ing := NewIngestor(ext, dis, FilterOptions{})

	b := model.NewBundle()
	err := ing.Ingest(context.Background(), []string{"widget.jar"}, "widget.jar", t.TempDir(), b)
	if err == nil || !strings.Contains(err.Error(), "extraction failed") {
		t.Fatalf("expected wrapped extraction error, got %v", err)
	}
}

func TestChunkByLengthRespectsLimit(t *testing.T) {
	paths := []string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc"}
	chunks := chunkByLength(paths, 15)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %v", len(chunks), chunks)
	}
	for _, c := range chunks {
		if len(c) != 1 {
			t.Errorf("expected 1 path per chunk at this limit, got %v", c)
		}
	}
}

func TestChunkByLengthGroupsWithinLimit(t *testing.T) {
	paths := []string{"a", "b", "c", "d"}
	chunks := chunkByLength(paths, 4)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(chunks), chunks)
	}
}
