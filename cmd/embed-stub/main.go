// embed-stub serves a minimal OpenAI-compatible embeddings endpoint for
// offline development. Vectors are a deterministic hash projection of the
// input text, so identical texts always embed identically.
package main

import (
	"crypto/sha256"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
)

const dims = 32

type embeddingsRequest struct {
	Model string `json:"model"`
	Input any    `json:"input"`
}

func vectorFor(text string) []float32 {
	digest := sha256.Sum256([]byte(text))
	vec := make([]float32, dims)
	for i := 0; i < dims; i++ {
		vec[i] = float32(digest[i])/255*2 - 1
	}
	return vec
}

func main() {
	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "stub-embed"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		var texts []string
		switch in := req.Input.(type) {
		case string:
			texts = []string{in}
		case []any:
			for _, v := range in {
				if s, ok := v.(string); ok {
					texts = append(texts, s)
				}
			}
		default:
			http.Error(w, "unsupported input", http.StatusBadRequest)
			return
		}
		data := make([]map[string]any, len(texts))
		for i, t := range texts {
			data[i] = map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": vectorFor(t),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  model,
			"data":   data,
		})
	})

	log.Printf("embed-stub listening on %s (model=%s, dims=%d)", addr, model, dims)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
