package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	domainerrors "github.com/izachstanford/smart-books-ai/internal/errors"
)

const (
	defaultOllamaURL = "http://localhost:11434"
	// DefaultModel is a small sentence-embedding model good enough for
	// book similarity.
	DefaultModel = "all-minilm"
)

// ErrEmptyText is returned when there is nothing to embed.
var ErrEmptyText = errors.New("embedding: empty text")

// OllamaClient talks to an Ollama-compatible embeddings endpoint.
type OllamaClient struct {
	http    *http.Client
	baseURL string
	model   string
	logger  *slog.Logger
}

// NewOllamaClient creates a client for the given base URL and model.
// Empty arguments fall back to the local default server and DefaultModel.
func NewOllamaClient(baseURL, model string, logger *slog.Logger) *OllamaClient {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &OllamaClient{
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: baseURL,
		model:   model,
		logger:  logger,
	}
}

// Embed requests a vector for the text from /api/embeddings.
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	requestBody, err := json.Marshal(map[string]any{
		"model":  c.model,
		"prompt": text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewReader(requestBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeEmbedding, "embeddings request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, domainerrors.Embedding(fmt.Sprintf("embeddings request: status %d - %s", resp.StatusCode, string(body)))
	}

	var response struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeEmbedding, "decode response")
	}

	if len(response.Embedding) == 0 {
		return nil, domainerrors.Embedding(fmt.Sprintf("embeddings request: model %s returned no vector", c.model))
	}

	vec := make([]float32, len(response.Embedding))
	for i, v := range response.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}
