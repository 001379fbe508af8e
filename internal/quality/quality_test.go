package quality

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScore_Fraction(t *testing.T) {
	v := NewVocabulary([]string{"the", "cat", "sat"})
	// 4 tokens, 3 recognized.
	got := v.Score("the cat sat qzxv")
	if got != 0.75 {
		t.Fatalf("expected 0.75, got %v", got)
	}
}

func TestScore_EmptyTextIsZero(t *testing.T) {
	v := NewVocabulary(DefaultWords)
	if got := v.Score(""); got != 0 {
		t.Fatalf("expected 0 for empty text, got %v", got)
	}
	if got := v.Score("   \n\t "); got != 0 {
		t.Fatalf("expected 0 for whitespace text, got %v", got)
	}
}

func TestScore_Bounds(t *testing.T) {
	v := NewVocabulary(DefaultWords)
	texts := []string{
		"the quick brown fox",
		"zzzz qqqq 1234 ????",
		"THE The the",
		"a b c d e f g h",
	}
	for _, txt := range texts {
		s := v.Score(txt)
		if s < 0 || s > 1 {
			t.Fatalf("score out of range for %q: %v", txt, s)
		}
	}
}

func TestScore_CaseInsensitiveAndPunctuation(t *testing.T) {
	v := NewVocabulary([]string{"hello"})
	// "Hello," trims to "Hello" which is alphabetic and matches.
	if got := v.Score("Hello,"); got != 1.0 {
		t.Fatalf("expected 1.0, got %v", got)
	}
	// Numbers are not alphabetic and never count as recognized.
	if got := v.Score("hello 42"); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

func TestScores_OrderPreserving(t *testing.T) {
	v := NewVocabulary([]string{"yes"})
	got := v.Scores([]string{"yes", "no", ""})
	if len(got) != 3 || got[0] != 1.0 || got[1] != 0 || got[2] != 0 {
		t.Fatalf("unexpected scores: %v", got)
	}
}

func TestLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary.txt")
	content := "# comment\nalpha\n  beta  \n\nGamma\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary: %v", err)
	}
	if v.Len() != 3 {
		t.Fatalf("expected 3 words, got %d", v.Len())
	}
	if !v.Contains("gamma") || !v.Contains("ALPHA") {
		t.Fatalf("expected case-insensitive lookup to succeed")
	}
}

func TestHistogram_Binning(t *testing.T) {
	bins := Histogram([]float64{0, 0.04, 0.05, 0.5, 0.99, 1.0})
	if bins[0] != 2 {
		t.Fatalf("expected 2 in first bin, got %d", bins[0])
	}
	if bins[1] != 1 {
		t.Fatalf("expected 1 in second bin, got %d", bins[1])
	}
	if bins[10] != 1 {
		t.Fatalf("expected 1 in bin 10, got %d", bins[10])
	}
	if bins[19] != 2 {
		t.Fatalf("expected 1.0 and 0.99 in last bin, got %d", bins[19])
	}
	total := 0
	for _, c := range bins {
		total += c
	}
	if total != 6 {
		t.Fatalf("expected 6 total, got %d", total)
	}
}

func TestWriteHistogramPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hist.pdf")
	if err := WriteHistogramPDF([]float64{0.1, 0.5, 0.5, 0.9}, out); err != nil {
		t.Fatalf("WriteHistogramPDF: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty artifact, err=%v", err)
	}
}

func TestWriteHistogramPDF_NoScores(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hist.pdf")
	if err := WriteHistogramPDF(nil, out); err != nil {
		t.Fatalf("WriteHistogramPDF with no scores: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected artifact even with zero scores: %v", err)
	}
}
