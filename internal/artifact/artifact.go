// Package artifact persists pipeline outputs. Every write is atomic
// (temp file + rename) so a cancelled or crashed run never leaves a
// partially written per-document artifact behind.
package artifact

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hyperifyio/docsift/internal/classify"
	"github.com/hyperifyio/docsift/internal/ocr"
)

// WriteAtomic writes data to path through a temp file in the same
// directory followed by a rename.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// TextPath returns the per-document plain text artifact path for doc.
func TextPath(dir, doc string) string {
	return filepath.Join(dir, doc+".txt")
}

// WriteText persists the normalized text for one document.
func WriteText(dir, doc, text string) error {
	return WriteAtomic(TextPath(dir, doc), []byte(text))
}

// PositionsPath returns the per-document position table path for doc.
func PositionsPath(dir, doc string) string {
	return filepath.Join(dir, doc+".positions.csv")
}

// WritePositions persists the OCR position table for one document as CSV
// with a header row.
func WritePositions(dir, doc string, positions []ocr.Position) error {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"page", "word", "confidence", "left", "top", "width", "height"}); err != nil {
		return err
	}
	for _, p := range positions {
		rec := []string{
			strconv.Itoa(p.Page),
			p.Word,
			strconv.FormatFloat(p.Confidence, 'f', -1, 64),
			strconv.Itoa(p.Left),
			strconv.Itoa(p.Top),
			strconv.Itoa(p.Width),
			strconv.Itoa(p.Height),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return WriteAtomic(PositionsPath(dir, doc), []byte(sb.String()))
}

// ReadTexts reads back every .txt artifact in dir, sorted by filename.
// It returns the document identifiers (filename minus the .txt suffix)
// and their texts in matching order. A missing directory yields empty
// slices, not an error.
func ReadTexts(dir string) (ids []string, texts []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("read text dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", name, err)
		}
		ids = append(ids, strings.TrimSuffix(name, ".txt"))
		texts = append(texts, string(b))
	}
	return ids, texts, nil
}

// sentenceRecord is one line of the intermediate sentences artifact.
type sentenceRecord struct {
	Doc    string    `json:"doc"`
	Index  int       `json:"index"`
	Text   string    `json:"text"`
	Vector []float32 `json:"vector"`
}

// WriteSentences persists the intermediate table of embedded sentences as
// JSON lines, one row per sentence, in input order. The artifact exists
// for reproducibility and debugging; nothing reads it back.
func WriteSentences(path string, rows []classify.Row) error {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	for _, r := range rows {
		rec := sentenceRecord{Doc: r.Doc, Index: r.Index, Text: r.Text, Vector: r.Vector}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode sentence row: %w", err)
		}
	}
	return WriteAtomic(path, []byte(sb.String()))
}

// WriteResults persists the final per-document decision table as CSV.
// Masked rows keep the document identifier and leave the other cells
// empty.
func WriteResults(path string, results []classify.Result) error {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write([]string{"doc", "sentence_index", "sentence_text", "probability"}); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{r.Doc, "", "", ""}
		if !r.Masked() {
			rec[1] = strconv.Itoa(*r.Index)
			rec[2] = *r.Text
			rec[3] = strconv.FormatFloat(*r.Probability, 'f', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return WriteAtomic(path, []byte(sb.String()))
}
