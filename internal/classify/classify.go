// Package classify scores sentence embeddings with a pre-trained binary
// classifier and selects, per document, the sentence most likely to matter.
package classify

import (
	"fmt"
)

// Classifier is the narrow capability port onto the opaque model artifact:
// given a vector, return the positive-class probability in [0,1].
// Implementations are read-only after construction and safe for concurrent
// use.
type Classifier interface {
	Predict(vector []float32) (float64, error)
}

// Row is one scored candidate. Seq is the explicit global input-order
// sequence number; it carries the stable tie-break guarantee even when
// rows were produced by parallel workers.
type Row struct {
	Seq    int
	Doc    string
	Index  int
	Text   string
	Vector []float32
}

// Result is the decision for one document. The pointer fields are nil when
// the winning sentence's probability fell strictly below the threshold:
// a candidate existed but confidence was insufficient.
type Result struct {
	Doc         string
	Index       *int
	Text        *string
	Vector      []float32
	Probability *float64
}

// Masked reports whether the result's content fields were nulled out.
func (r Result) Masked() bool { return r.Probability == nil }

// SelectTop scores every row, groups rows by document, and keeps the
// highest-probability row per document. Ties break toward the lowest Seq.
// Winners strictly below threshold are masked down to the document
// identifier. The output carries exactly one result per distinct document,
// ordered by each document's first appearance in the input; an empty input
// yields an empty output.
func SelectTop(clf Classifier, rows []Row, threshold float64) ([]Result, error) {
	type winner struct {
		row  Row
		prob float64
	}
	best := make(map[string]winner, len(rows))
	order := make([]string, 0, len(rows))

	for _, row := range rows {
		p, err := clf.Predict(row.Vector)
		if err != nil {
			return nil, fmt.Errorf("predict doc %s sentence %d: %w", row.Doc, row.Index, err)
		}
		cur, seen := best[row.Doc]
		if !seen {
			order = append(order, row.Doc)
			best[row.Doc] = winner{row: row, prob: p}
			continue
		}
		if p > cur.prob || (p == cur.prob && row.Seq < cur.row.Seq) {
			best[row.Doc] = winner{row: row, prob: p}
		}
	}

	results := make([]Result, 0, len(order))
	for _, doc := range order {
		w := best[doc]
		if w.prob < threshold {
			results = append(results, Result{Doc: doc})
			continue
		}
		idx, text, prob := w.row.Index, w.row.Text, w.prob
		results = append(results, Result{
			Doc:         doc,
			Index:       &idx,
			Text:        &text,
			Vector:      w.row.Vector,
			Probability: &prob,
		})
	}
	return results, nil
}
