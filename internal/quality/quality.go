// Package quality computes a diagnostic OCR-quality signal: the fraction of
// tokens in a text that are recognizable vocabulary words. The signal is
// purely observational and feeds only the histogram artifact; it never
// influences segmentation, embedding, or classification.
package quality

import (
	"bufio"
	"os"
	"strings"
	"unicode"
)

// Vocabulary is the reference word list used to decide whether a token
// counts as recognized. Lookup is by lowercase form.
type Vocabulary struct {
	words map[string]struct{}
}

// NewVocabulary builds a vocabulary from the given words.
func NewVocabulary(words []string) *Vocabulary {
	v := &Vocabulary{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			v.words[w] = struct{}{}
		}
	}
	return v
}

// LoadVocabulary reads a one-word-per-line vocabulary file. Blank lines and
// lines starting with '#' are skipped.
func LoadVocabulary(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return NewVocabulary(words), nil
}

// Contains reports whether the lowercase form of w is in the vocabulary.
func (v *Vocabulary) Contains(w string) bool {
	_, ok := v.words[strings.ToLower(w)]
	return ok
}

// Len returns the vocabulary size.
func (v *Vocabulary) Len() int { return len(v.words) }

// Score returns the fraction of tokens in text that are alphabetic and
// present in the vocabulary. A text with zero tokens scores 0.
func (v *Vocabulary) Score(text string) float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0
	}
	recognized := 0
	for _, tok := range tokens {
		tok = strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if tok == "" || !isAlphabetic(tok) {
			continue
		}
		if v.Contains(tok) {
			recognized++
		}
	}
	return float64(recognized) / float64(len(tokens))
}

// Scores computes one score per input text, order preserved.
func (v *Vocabulary) Scores(texts []string) []float64 {
	out := make([]float64, len(texts))
	for i, t := range texts {
		out[i] = v.Score(t)
	}
	return out
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
