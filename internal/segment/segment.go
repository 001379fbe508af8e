// Package segment splits normalized document text into ordered sentences.
package segment

import (
	"regexp"
	"strings"
)

// DefaultMarkers are the terminal markers that end a sentence. They are
// alternatives, not a priority chain.
var DefaultMarkers = []string{"\n\n", ".", "?", "!"}

// Sentence is one segmented sentence of a document. Index is zero-based,
// contiguous, and follows source order.
type Sentence struct {
	Doc   string
	Index int
	Text  string
}

// Segmenter splits text on a configurable set of terminal markers.
type Segmenter struct {
	splitter *regexp.Regexp
}

// New builds a Segmenter for the given terminal markers. Empty input falls
// back to DefaultMarkers.
func New(markers ...string) *Segmenter {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	alts := make([]string, len(markers))
	for i, m := range markers {
		alts[i] = regexp.QuoteMeta(m)
	}
	return &Segmenter{
		splitter: regexp.MustCompile(strings.Join(alts, "|")),
	}
}

// Split segments text into sentences for the named document. Empty text
// yields no sentences; text without any terminal marker yields exactly one
// sentence spanning the whole input. Fragments that trim to nothing are
// dropped and indices stay contiguous from zero.
func (s *Segmenter) Split(doc, text string) []Sentence {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []Sentence
	for _, frag := range s.splitter.Split(text, -1) {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		out = append(out, Sentence{Doc: doc, Index: len(out), Text: frag})
	}
	if len(out) == 0 {
		// Text consisted only of markers and whitespace.
		return nil
	}
	return out
}
