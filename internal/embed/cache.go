package embed

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
)

// Cache stores embedding vectors on disk keyed by a digest of model name
// and input text. Identical (text, model) pairs are deterministic, so a
// hit is always valid regardless of age.
type Cache struct {
	Dir string
}

func keyFrom(model, text string) string {
	h := sha256.Sum256([]byte(model + "\n\n" + text))
	return hex.EncodeToString(h[:])
}

func (c *Cache) pathFor(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

// Get returns the cached vector for (model, text) if present.
func (c *Cache) Get(model, text string) ([]float32, bool) {
	if c == nil || c.Dir == "" {
		return nil, false
	}
	b, err := os.ReadFile(c.pathFor(keyFrom(model, text)))
	if err != nil {
		return nil, false
	}
	var vec []float32
	if err := json.Unmarshal(b, &vec); err != nil {
		return nil, false
	}
	return vec, true
}

// Save writes the vector for (model, text). Write failures are reported
// but callers may ignore them; the cache is an optimization only.
func (c *Cache) Save(model, text string, vec []float32) error {
	if c == nil || c.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return err
	}
	b, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	return os.WriteFile(c.pathFor(keyFrom(model, text)), b, 0o644)
}
