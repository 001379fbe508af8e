package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind distinguishes the two normalizer paths a document can take.
type Kind int

const (
	// KindScanned marks a PDF whose pages must be rendered and recognized.
	KindScanned Kind = iota
	// KindMarkup marks an HTML document whose visible text is extracted.
	KindMarkup
)

func (k Kind) String() string {
	if k == KindScanned {
		return "scanned"
	}
	return "markup"
}

// Document is a single source file picked up from the input directory.
// It is immutable once discovered; the ID names every downstream artifact
// and result row for this document.
type Document struct {
	ID   string
	Kind Kind
	Path string
}

// DocumentError is a per-document ingestion failure. It is fatal for the
// one document it names and never aborts the batch; the orchestrator logs
// it and moves on.
type DocumentError struct {
	Doc string
	Op  string
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Doc, e.Op, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Discover lists the processable documents in dir: PDFs take the OCR path,
// .html/.htm files take the markup path. Other entries are ignored. The
// returned slice is ordered by filename so runs are reproducible.
func Discover(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	docs := make([]Document, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		var kind Kind
		switch strings.ToLower(filepath.Ext(name)) {
		case ".pdf":
			kind = KindScanned
		case ".html", ".htm":
			kind = KindMarkup
		default:
			continue
		}
		docs = append(docs, Document{
			ID:   name,
			Kind: kind,
			Path: filepath.Join(dir, name),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}
