// recognizer-stub is a small offline OCR recognizer for development and
// integration testing. It answers the /recognize contract with canned text
// derived deterministically from the submitted image bytes.
package main

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

type recognizeRequest struct {
	Image  string `json:"image"`
	Format string `json:"format"`
}

func main() {
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8089"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/recognize", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req recognizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		img, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			http.Error(w, "bad image encoding", http.StatusBadRequest)
			return
		}
		// Deterministic per image so repeated runs agree.
		digest := sha256.Sum256(img)
		text := fmt.Sprintf("Stub page text %x. The quick brown fox jumps over the lazy dog.", digest[:4])

		words := []map[string]any{}
		left := 10
		for _, word := range strings.Fields(text) {
			words = append(words, map[string]any{
				"text":       word,
				"confidence": 95.0,
				"left":       left,
				"top":        40,
				"width":      8 * len(word),
				"height":     12,
			})
			left += 8*len(word) + 6
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"text": text, "words": words})
	})

	log.Printf("recognizer-stub listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
