package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/izachstanford/smart-books-ai/internal/domain"
	domainerrors "github.com/izachstanford/smart-books-ai/internal/errors"
)

func TestPrepareText(t *testing.T) {
	rec := &domain.BookRecord{
		Title:            "Dune",
		Author:           "Frank Herbert",
		Genres:           []string{"Science Fiction", "Classics"},
		DescriptionClean: "A landmark of science fiction set on the desert planet Arrakis.",
	}

	got := PrepareText(rec)
	want := "Title: Dune | Author: Frank Herbert | Genres: Science Fiction, Classics | Description: A landmark of science fiction set on the desert planet Arrakis."
	if got != want {
		t.Errorf("PrepareText() = %q, want %q", got, want)
	}
}

func TestPrepareText_SkipsEmptyParts(t *testing.T) {
	rec := &domain.BookRecord{Title: "Dune", Author: "Frank Herbert"}
	got := PrepareText(rec)
	if got != "Title: Dune | Author: Frank Herbert" {
		t.Errorf("PrepareText() = %q", got)
	}
}

func TestPrepareText_CapsDescription(t *testing.T) {
	rec := &domain.BookRecord{
		Title:            "Dune",
		DescriptionClean: strings.Repeat("x", MaxDescriptionChars+500),
	}

	got := PrepareText(rec)
	if !strings.HasSuffix(got, "...") {
		t.Error("capped description must end with ellipsis")
	}
	wantLen := len("Title: Dune | Description: ") + MaxDescriptionChars + 3
	if len(got) != wantLen {
		t.Errorf("len = %d, want %d", len(got), wantLen)
	}
}

type fakeEmbedder struct {
	calls int
	fail  map[string]bool
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.fail[text] {
		return nil, errors.New("model overloaded")
	}
	// Deterministic stand-in vector.
	return []float32{float32(len(text)), 1, 2}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	longDesc := strings.Repeat("A fine description. ", 10)
	records := []*domain.BookRecord{
		{BookKey: "isbn:1", Title: "Dune", Author: "Frank Herbert", DescriptionClean: longDesc},
		{BookKey: "isbn:2", Title: "X"}, // too short to embed
		{BookKey: "isbn:3", Title: "Hyperion", Author: "Dan Simmons", DescriptionClean: longDesc,
			Embedding: []float32{9, 9, 9}},
	}

	f := &fakeEmbedder{}
	stats, err := Run(context.Background(), f, records, testLogger())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.Embedded != 1 || stats.Skipped != 1 || stats.AlreadyOK != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if f.calls != 1 {
		t.Errorf("embedder calls = %d, want 1", f.calls)
	}
	if records[0].EmbeddingText == "" || len(records[0].Embedding) == 0 {
		t.Error("embedded record missing text or vector")
	}
	if records[2].Embedding[0] != 9 {
		t.Error("existing embedding must not be recomputed")
	}
}

func TestRun_PerRecordFailure(t *testing.T) {
	longDesc := strings.Repeat("A fine description. ", 10)
	records := []*domain.BookRecord{
		{BookKey: "isbn:1", Title: "Dune", Author: "Frank Herbert", DescriptionClean: longDesc},
		{BookKey: "isbn:2", Title: "Hyperion", Author: "Dan Simmons", DescriptionClean: longDesc},
	}

	f := &fakeEmbedder{fail: map[string]bool{PrepareText(records[0]): true}}
	stats, err := Run(context.Background(), f, records, testLogger())
	if err != nil {
		t.Fatalf("Run() error = %v, failures must not abort the batch", err)
	}
	if stats.Errors != 1 || stats.Embedded != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if records[0].Embedding != nil {
		t.Error("failed record must not carry a vector")
	}
}

// flakyEmbedder fails the first n calls with a retryable error.
type flakyEmbedder struct {
	failures int
	calls    int
}

func (f *flakyEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, domainerrors.Embedding("model overloaded")
	}
	return []float32{1, 2, 3}, nil
}

func TestRun_RetriesTransientFailures(t *testing.T) {
	old := retryDelay
	retryDelay = 0
	defer func() { retryDelay = old }()

	longDesc := strings.Repeat("A fine description. ", 10)
	records := []*domain.BookRecord{
		{BookKey: "isbn:1", Title: "Dune", Author: "Frank Herbert", DescriptionClean: longDesc},
	}

	f := &flakyEmbedder{failures: 2}
	stats, err := Run(context.Background(), f, records, testLogger())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Embedded != 1 || stats.Errors != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if f.calls != 3 {
		t.Errorf("embedder calls = %d, want 3", f.calls)
	}
}

func TestRun_RetryGivesUp(t *testing.T) {
	old := retryDelay
	retryDelay = 0
	defer func() { retryDelay = old }()

	longDesc := strings.Repeat("A fine description. ", 10)
	records := []*domain.BookRecord{
		{BookKey: "isbn:1", Title: "Dune", Author: "Frank Herbert", DescriptionClean: longDesc},
	}

	f := &flakyEmbedder{failures: maxAttempts + 1}
	stats, err := Run(context.Background(), f, records, testLogger())
	if err != nil {
		t.Fatalf("Run() error = %v, failures must not abort the batch", err)
	}
	if stats.Errors != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if f.calls != maxAttempts {
		t.Errorf("embedder calls = %d, want %d", f.calls, maxAttempts)
	}
}

func TestRun_NonRetryableFailsImmediately(t *testing.T) {
	longDesc := strings.Repeat("A fine description. ", 10)
	records := []*domain.BookRecord{
		{BookKey: "isbn:1", Title: "Dune", Author: "Frank Herbert", DescriptionClean: longDesc},
	}

	f := &fakeEmbedder{fail: map[string]bool{PrepareText(records[0]): true}}
	if _, err := Run(context.Background(), f, records, testLogger()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if f.calls != 1 {
		t.Errorf("embedder calls = %d, want 1: plain errors must not retry", f.calls)
	}
}

func TestRun_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	longDesc := strings.Repeat("A fine description. ", 10)
	records := []*domain.BookRecord{
		{BookKey: "isbn:1", Title: "Dune", Author: "Frank Herbert", DescriptionClean: longDesc},
	}

	client := NewOllamaClient("http://127.0.0.1:0", "", testLogger())
	if _, err := Run(ctx, client, records, testLogger()); err == nil {
		t.Fatal("expected context error")
	}
}

func TestOllamaClient_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "all-minilm" {
			t.Errorf("model = %q", req.Model)
		}
		w.Write([]byte(`{"embedding": [0.1, 0.2, 0.3]}`))
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "", testLogger())
	vec, err := client.Embed(context.Background(), "Title: Dune")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("vector length = %d, want 3", len(vec))
	}
}

func TestOllamaClient_EmptyText(t *testing.T) {
	client := NewOllamaClient("", "", testLogger())
	if _, err := client.Embed(context.Background(), ""); !errors.Is(err, ErrEmptyText) {
		t.Errorf("error = %v, want ErrEmptyText", err)
	}
}

func TestOllamaClient_EmptyVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embedding": []}`))
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "", testLogger())
	_, err := client.Embed(context.Background(), "text")
	if !errors.Is(err, domainerrors.ErrEmbedding) {
		t.Errorf("error = %v, want ErrEmbedding", err)
	}
}

func TestOllamaClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "out of memory", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOllamaClient(server.URL, "", testLogger())
	_, err := client.Embed(context.Background(), "text")
	if !errors.Is(err, domainerrors.ErrEmbedding) {
		t.Errorf("error = %v, want ErrEmbedding", err)
	}
}
