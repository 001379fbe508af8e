// Package app wires the ingestion-to-decision pipeline together and owns
// the only continue-versus-abort decisions in the system: model load
// failures abort the run before any document is touched, while
// per-document failures are logged and skipped.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/docsift/internal/artifact"
	"github.com/hyperifyio/docsift/internal/classify"
	"github.com/hyperifyio/docsift/internal/embed"
	"github.com/hyperifyio/docsift/internal/ingest"
	"github.com/hyperifyio/docsift/internal/markup"
	"github.com/hyperifyio/docsift/internal/ocr"
	"github.com/hyperifyio/docsift/internal/quality"
	"github.com/hyperifyio/docsift/internal/segment"
)

// VocabularyFileName is the optional reference word list in the model
// directory used by the quality scorer.
const VocabularyFileName = "vocabulary.txt"

// ErrModelLoad marks a startup model failure: the embedding model or the
// classifier artifact could not be loaded. Fatal for the whole run.
var ErrModelLoad = errors.New("model load failed")

// App runs the pipeline over one batch of documents.
type App struct {
	cfg      Config
	embedder embed.Embedder
	clf      classify.Classifier
	vocab    *quality.Vocabulary
	rec      ocr.Recognizer
}

// New constructs an App for production use. Both models are loaded here,
// exactly once; any failure is wrapped in ErrModelLoad and no document is
// processed.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	embedder, err := embed.NewService(ctx, embed.Config{
		BaseURL:     cfg.EmbedBaseURL,
		APIKey:      cfg.EmbedAPIKey,
		Model:       cfg.EmbedModel,
		CacheDir:    cfg.EmbedCacheDir,
		CallTimeout: cfg.UnitTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	log.Info().Str("model", embedder.ModelName()).Int("dims", embedder.Dimensions()).Msg("embedding model loaded")

	clf, err := classify.LoadModel(filepath.Join(cfg.ModelDir, classify.DefaultArtifactName))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	log.Info().Int("dims", clf.Dimensions()).Msg("classifier artifact loaded")

	vocab, err := quality.LoadVocabulary(filepath.Join(cfg.ModelDir, VocabularyFileName))
	if err != nil {
		// The vocabulary only feeds the diagnostic histogram, so a missing
		// file falls back to the built-in list instead of failing the run.
		log.Warn().Err(err).Msg("vocabulary file unavailable; using built-in word list")
		vocab = quality.NewVocabulary(quality.DefaultWords)
	}

	return &App{
		cfg:      cfg,
		embedder: embedder,
		clf:      clf,
		vocab:    vocab,
		rec:      &ocr.HTTPRecognizer{BaseURL: cfg.RecognizerURL},
	}, nil
}

// NewWithComponents constructs an App from pre-built collaborators.
// Used by tests and by callers embedding the pipeline as a library.
func NewWithComponents(cfg Config, embedder embed.Embedder, clf classify.Classifier, vocab *quality.Vocabulary, rec ocr.Recognizer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if vocab == nil {
		vocab = quality.NewVocabulary(quality.DefaultWords)
	}
	return &App{cfg: cfg, embedder: embedder, clf: clf, vocab: vocab, rec: rec}, nil
}

// Summary reports what a run did.
type Summary struct {
	Documents  int
	Normalized int
	Failed     int
	NoContent  int
	Sentences  int
	Results    int
	Masked     int
}

// Run executes the pipeline: normalize, persist per-document artifacts,
// score quality, segment, embed, classify, persist batch artifacts.
// Per-document failures are logged and skipped; only cancellation and
// batch-level persistence failures abort.
func (a *App) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	textDir := filepath.Join(a.cfg.OutputDir, "text_files")
	if err := os.MkdirAll(textDir, 0o755); err != nil {
		return sum, fmt.Errorf("create text dir: %w", err)
	}

	docs, err := ingest.Discover(a.cfg.InputDir)
	if err != nil {
		return sum, err
	}
	sum.Documents = len(docs)
	log.Info().Int("documents", len(docs)).Str("input", a.cfg.InputDir).Msg("starting batch")

	var scanned, marked []ingest.Document
	for _, d := range docs {
		if d.Kind == ingest.KindScanned {
			scanned = append(scanned, d)
		} else {
			marked = append(marked, d)
		}
	}

	failed := a.normalizeScanned(ctx, scanned, textDir)
	if err := ctx.Err(); err != nil {
		return sum, err
	}
	noContent := a.normalizeMarkup(marked, textDir)
	if err := ctx.Err(); err != nil {
		return sum, err
	}
	sum.Failed = failed
	sum.NoContent = noContent

	// Barrier: every document is normalized before scoring or segmentation.
	ids, texts, err := artifact.ReadTexts(textDir)
	if err != nil {
		return sum, err
	}
	sum.Normalized = len(ids)

	scores := a.vocab.Scores(texts)
	histPath := filepath.Join(a.cfg.OutputDir, "ocr_quality_distribution.pdf")
	if err := quality.WriteHistogramPDF(scores, histPath); err != nil {
		return sum, fmt.Errorf("write quality histogram: %w", err)
	}

	seg := segment.New(a.cfg.Markers...)
	type docSentences struct {
		id    string
		sents []segment.Sentence
	}
	perDoc := make([]docSentences, 0, len(ids))
	for i, id := range ids {
		if sents := seg.Split(id, texts[i]); len(sents) > 0 {
			perDoc = append(perDoc, docSentences{id: id, sents: sents})
		}
	}

	// Barrier: every sentence embedded before grouped selection.
	vectors := make([][][]float32, len(perDoc))
	embedErrs := make([]error, len(perDoc))
	sem := make(chan struct{}, a.cfg.workerCount())
	var wg sync.WaitGroup
	for i := range perDoc {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			unitCtx := ctx
			if a.cfg.UnitTimeout > 0 {
				var cancel context.CancelFunc
				unitCtx, cancel = context.WithTimeout(ctx, a.cfg.UnitTimeout)
				defer cancel()
			}
			texts := make([]string, len(perDoc[i].sents))
			for j, s := range perDoc[i].sents {
				texts[j] = s.Text
			}
			vectors[i], embedErrs[i] = a.embedder.EmbedBatch(unitCtx, texts)
		}(i)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	var rows []classify.Row
	seq := 0
	for i, d := range perDoc {
		if embedErrs[i] != nil {
			derr := &ingest.DocumentError{Doc: d.id, Op: "embed", Err: embedErrs[i]}
			log.Error().Err(derr).Str("doc", d.id).Msg("embedding failed; skipping document")
			sum.Failed++
			continue
		}
		for j, s := range d.sents {
			rows = append(rows, classify.Row{
				Seq:    seq,
				Doc:    s.Doc,
				Index:  s.Index,
				Text:   s.Text,
				Vector: vectors[i][j],
			})
			seq++
		}
	}
	sum.Sentences = len(rows)

	if err := artifact.WriteSentences(filepath.Join(a.cfg.OutputDir, "sentences.jsonl"), rows); err != nil {
		return sum, fmt.Errorf("write sentences artifact: %w", err)
	}

	results, err := classify.SelectTop(a.clf, rows, a.cfg.Threshold)
	if err != nil {
		return sum, fmt.Errorf("classification: %w", err)
	}
	sum.Results = len(results)
	for _, r := range results {
		if r.Masked() {
			sum.Masked++
		}
	}

	if err := artifact.WriteResults(filepath.Join(a.cfg.OutputDir, "results.csv"), results); err != nil {
		return sum, fmt.Errorf("write results artifact: %w", err)
	}

	log.Info().
		Int("documents", sum.Documents).
		Int("normalized", sum.Normalized).
		Int("failed", sum.Failed).
		Int("noContent", sum.NoContent).
		Int("sentences", sum.Sentences).
		Int("results", sum.Results).
		Int("masked", sum.Masked).
		Msg("batch finished")
	return sum, nil
}

// normalizeScanned runs OCR extraction over the scanned documents on a
// bounded worker pool and persists per-document artifacts. Returns the
// number of failed documents.
func (a *App) normalizeScanned(ctx context.Context, docs []ingest.Document, textDir string) int {
	if len(docs) == 0 {
		return 0
	}
	ext := &ocr.Extractor{Recognizer: a.rec, PageTimeout: a.cfg.UnitTimeout}

	var mu sync.Mutex
	failed := 0
	sem := make(chan struct{}, a.cfg.workerCount())
	var wg sync.WaitGroup
	for _, d := range docs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(d ingest.Document) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := ext.ExtractFile(ctx, d.Path)
			if err == nil {
				err = writeScannedArtifacts(textDir, d.ID, res)
			}
			if err != nil {
				derr := &ingest.DocumentError{Doc: d.ID, Op: "ocr", Err: err}
				log.Error().Err(derr).Str("doc", d.ID).Msg("ingestion failed; skipping document")
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			log.Info().Str("doc", d.ID).Int("positions", len(res.Positions)).Msg("scanned document normalized")
		}(d)
	}
	wg.Wait()
	return failed
}

// writeScannedArtifacts persists the text and position table for one
// scanned document as a unit: if the position table cannot be written the
// text artifact is removed again so no partial set remains.
func writeScannedArtifacts(textDir, doc string, res ocr.Document) error {
	if err := artifact.WriteText(textDir, doc, res.Text); err != nil {
		return err
	}
	if err := artifact.WritePositions(textDir, doc, res.Positions); err != nil {
		_ = os.Remove(artifact.TextPath(textDir, doc))
		return err
	}
	return nil
}

// normalizeMarkup extracts text from the markup documents in order and
// persists non-sentinel results. Returns the number of no-content
// sentinels; sentinels are not failures and produce no artifact.
func (a *App) normalizeMarkup(docs []ingest.Document, textDir string) int {
	if len(docs) == 0 {
		return 0
	}
	ids := make([]string, len(docs))
	paths := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		paths[i] = d.Path
	}
	noContent := 0
	for _, r := range markup.ExtractFiles(ids, paths) {
		if r.NoContent {
			noContent++
			continue
		}
		if err := artifact.WriteText(textDir, r.Doc, r.Text); err != nil {
			log.Error().Err(err).Str("doc", r.Doc).Msg("persist markup text failed; skipping document")
			continue
		}
		log.Info().Str("doc", r.Doc).Msg("markup document normalized")
	}
	return noContent
}
