package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultRecognizeTimeout bounds a single recognition request when the
// client has no timeout of its own.
const DefaultRecognizeTimeout = 60 * time.Second

// HTTPRecognizer talks to an OCR service over HTTP. The service accepts a
// base64 page image and returns the recognized text together with per-word
// confidence and bounding boxes. Safe for concurrent use.
type HTTPRecognizer struct {
	BaseURL    string
	HTTPClient *http.Client
}

type recognizeRequest struct {
	Image  string `json:"image"`
	Format string `json:"format"`
}

type recognizeResponse struct {
	Text  string `json:"text"`
	Words []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
		Left       int     `json:"left"`
		Top        int     `json:"top"`
		Width      int     `json:"width"`
		Height     int     `json:"height"`
	} `json:"words"`
	Error string `json:"error,omitempty"`
}

// Recognize posts one page image to the service and maps the response to a
// Page. The page number on returned words is filled in by the caller.
func (r *HTTPRecognizer) Recognize(ctx context.Context, image []byte, format string) (Page, error) {
	if format == "" {
		format = "png"
	}
	body, err := json.Marshal(recognizeRequest{
		Image:  base64.StdEncoding.EncodeToString(image),
		Format: format,
	})
	if err != nil {
		return Page{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/recognize", bytes.NewReader(body))
	if err != nil {
		return Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := r.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultRecognizeTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("recognize request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return Page{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("recognizer status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var decoded recognizeResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Page{}, fmt.Errorf("decode response: %w", err)
	}
	if decoded.Error != "" {
		return Page{}, fmt.Errorf("recognizer error: %s", decoded.Error)
	}

	page := Page{Text: decoded.Text}
	for _, w := range decoded.Words {
		page.Words = append(page.Words, Position{
			Word:       w.Text,
			Confidence: w.Confidence,
			Left:       w.Left,
			Top:        w.Top,
			Width:      w.Width,
			Height:     w.Height,
		})
	}
	return page, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
