package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiscover_FiltersAndOrders(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.html", "notes.txt", "c.HTM", "z.PDF"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	docs, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(docs) != 4 {
		t.Fatalf("expected 4 documents, got %d: %v", len(docs), docs)
	}
	wantIDs := []string{"a.html", "b.pdf", "c.HTM", "z.PDF"}
	wantKinds := []Kind{KindMarkup, KindScanned, KindMarkup, KindScanned}
	for i, d := range docs {
		if d.ID != wantIDs[i] {
			t.Fatalf("doc %d: expected ID %q, got %q", i, wantIDs[i], d.ID)
		}
		if d.Kind != wantKinds[i] {
			t.Fatalf("doc %d: expected kind %v, got %v", i, wantKinds[i], d.Kind)
		}
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestDocumentError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &DocumentError{Doc: "a.pdf", Op: "render", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatalf("expected errors.Is to find wrapped cause")
	}
	if err.Error() == "" {
		t.Fatalf("expected non-empty message")
	}
}
