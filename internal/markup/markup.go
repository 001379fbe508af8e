// Package markup extracts plain text from HTML documents. Unlike the OCR
// path, extraction never fails loudly: a document that cannot be read or
// decoded yields an explicit no-content result and the batch moves on.
package markup

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// Result is the outcome of extracting one markup document. NoContent set
// means the file could not be read or decoded; this is a sentinel, not an
// error, and Text is empty in that case.
type Result struct {
	Doc       string
	Text      string
	NoContent bool
}

// ExtractFiles extracts visible text from each named file, preserving input
// order. Each entry is either non-empty text or the no-content sentinel;
// failures never propagate as errors.
func ExtractFiles(ids []string, paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for i, p := range paths {
		id := ids[i]
		raw, err := os.ReadFile(p)
		if err != nil {
			log.Warn().Err(err).Str("doc", id).Msg("markup file unreadable; recording no content")
			results = append(results, Result{Doc: id, NoContent: true})
			continue
		}
		text, err := Extract(raw)
		if err != nil {
			log.Warn().Err(err).Str("doc", id).Msg("markup decode failed; recording no content")
			results = append(results, Result{Doc: id, NoContent: true})
			continue
		}
		results = append(results, Result{Doc: id, Text: text})
	}
	return results
}

// Extract decodes raw HTML bytes and returns the visible text joined with
// single spaces. Decoding tries windows-1252 first and falls back to UTF-8;
// an error is returned only when both fail.
func Extract(raw []byte) (string, error) {
	s, err := decode(raw)
	if err != nil {
		return "", err
	}
	return VisibleText(s), nil
}

// decode attempts the legacy single-byte encoding first, then UTF-8.
func decode(raw []byte) (string, error) {
	if s, ok := decodeWindows1252(raw); ok {
		return s, nil
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	return "", fmt.Errorf("bytes are neither valid windows-1252 nor valid UTF-8")
}

// decodeWindows1252 maps bytes through the windows-1252 table. The table
// has five undefined code points; hitting one counts as a decode failure.
func decodeWindows1252(raw []byte) (string, bool) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		r := charmap.Windows1252.DecodeByte(c)
		if r == utf8.RuneError {
			return "", false
		}
		b.WriteRune(r)
	}
	return b.String(), true
}

// VisibleText parses HTML and returns all visible text node content,
// trimmed and joined with single spaces.
func VisibleText(s string) string {
	node, err := html.Parse(bytes.NewReader([]byte(s)))
	if err != nil || node == nil {
		return ""
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			for _, f := range strings.Fields(n.Data) {
				parts = append(parts, f)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return strings.Join(parts, " ")
}
