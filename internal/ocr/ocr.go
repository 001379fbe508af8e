// Package ocr turns scanned PDF documents into plain text plus per-word
// position records. Page raster images are pulled out of the PDF with
// pdfcpu and handed to a Recognizer, which is the only part that knows how
// characters are actually read off an image.
package ocr

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"
)

// Position is one recognized word with its page, confidence, and bounding
// box. Positions are auxiliary output: they are persisted per document and
// never consumed downstream.
type Position struct {
	Page       int
	Word       string
	Confidence float64
	Left       int
	Top        int
	Width      int
	Height     int
}

// Page is the recognition result for a single page image.
type Page struct {
	Text  string
	Words []Position
}

// Recognizer reads text off a single page image. Implementations must be
// safe for concurrent use; the pipeline shares one instance across workers.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, format string) (Page, error)
}

// Extractor runs OCR extraction over whole documents.
type Extractor struct {
	Recognizer Recognizer
	// PageTimeout bounds recognition of a single page image. Zero means
	// no per-page deadline beyond the caller's context.
	PageTimeout time.Duration
}

// Document is the full OCR result for one source document: page texts
// concatenated in page order and all position records in page order.
type Document struct {
	Text      string
	Positions []Position
}

// ExtractFile opens and validates the PDF at path and recognizes every
// page image in page order. Any failure to open, validate, or recognize is
// returned as an error; the caller treats it as fatal for this one
// document only. A valid document whose pages carry no raster images
// yields empty text and no positions.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return Document{}, fmt.Errorf("read pdf: %w", err)
	}

	var text strings.Builder
	var positions []Position
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		images, err := pageImages(pdfCtx, pageNr)
		if err != nil {
			return Document{}, fmt.Errorf("page %d images: %w", pageNr, err)
		}
		if len(images) == 0 {
			log.Debug().Int("page", pageNr).Str("path", path).Msg("page has no raster image; skipping")
			continue
		}
		for _, img := range images {
			page, err := e.recognizePage(ctx, img.data, img.format)
			if err != nil {
				return Document{}, fmt.Errorf("recognize page %d: %w", pageNr, err)
			}
			text.WriteString(page.Text)
			for _, w := range page.Words {
				w.Page = pageNr
				positions = append(positions, w)
			}
		}
	}
	return Document{Text: text.String(), Positions: positions}, nil
}

func (e *Extractor) recognizePage(ctx context.Context, image []byte, format string) (Page, error) {
	if e.PageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.PageTimeout)
		defer cancel()
	}
	return e.Recognizer.Recognize(ctx, image, format)
}

type pageImage struct {
	data   []byte
	format string
}

// pageImages extracts the raster images embedded in one page, ordered by
// object number so repeated runs see the same sequence.
func pageImages(pdfCtx *model.Context, pageNr int) ([]pageImage, error) {
	m, err := pdfcpu.ExtractPageImages(pdfCtx, pageNr, false)
	if err != nil {
		return nil, err
	}
	objNrs := make([]int, 0, len(m))
	for nr := range m {
		objNrs = append(objNrs, nr)
	}
	sort.Ints(objNrs)

	out := make([]pageImage, 0, len(m))
	for _, nr := range objNrs {
		img := m[nr]
		if img.Reader == nil {
			continue
		}
		data, err := io.ReadAll(img)
		if err != nil {
			return nil, fmt.Errorf("image obj %d: %w", nr, err)
		}
		out = append(out, pageImage{data: data, format: img.FileType})
	}
	return out, nil
}
