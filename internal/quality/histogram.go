package quality

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// HistogramBins is the fixed bin count for the quality distribution
// artifact, spread evenly over [0,1].
const HistogramBins = 20

// Histogram buckets scores into HistogramBins bins over [0,1]. Scores are
// clamped to the range; 1.0 lands in the last bin.
func Histogram(scores []float64) [HistogramBins]int {
	var bins [HistogramBins]int
	for _, s := range scores {
		if s < 0 {
			s = 0
		}
		if s > 1 {
			s = 1
		}
		idx := int(s * HistogramBins)
		if idx == HistogramBins {
			idx = HistogramBins - 1
		}
		bins[idx]++
	}
	return bins
}

// WriteHistogramPDF renders the score distribution as a bar chart and
// writes it to outPath. Zero scores still produce a valid (empty) chart so
// the artifact is always present after a run.
func WriteHistogramPDF(scores []float64, outPath string) error {
	bins := Histogram(scores)
	maxCount := 0
	for _, c := range bins {
		if c > maxCount {
			maxCount = c
		}
	}

	pdf := gofpdf.New("L", "mm", "A5", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "OCR Quality Distribution", "", 1, "C", false, 0, "")

	const (
		left   = 20.0
		bottom = 120.0
		width  = 170.0
		height = 85.0
	)
	barW := width / HistogramBins

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(120, 150, 200)

	for i, count := range bins {
		x := left + float64(i)*barW
		var h float64
		if maxCount > 0 {
			h = height * float64(count) / float64(maxCount)
		}
		if count > 0 {
			pdf.Rect(x, bottom-h, barW, h, "FD")
		}
		// X-axis tick label on every other bin edge.
		if i%2 == 0 {
			pdf.Text(x-1.5, bottom+4, fmt.Sprintf("%.2f", float64(i)/HistogramBins))
		}
	}
	pdf.Text(left+width-2, bottom+4, "1.00")

	// Axes.
	pdf.Line(left, bottom, left+width, bottom)
	pdf.Line(left, bottom, left, bottom-height)
	if maxCount > 0 {
		pdf.Text(left-8, bottom-height+2, fmt.Sprintf("%d", maxCount))
	}
	pdf.Text(left-5, bottom+1, "0")

	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(left+width/2-12, bottom+10, "quality score")

	return pdf.OutputFileAndClose(outPath)
}
