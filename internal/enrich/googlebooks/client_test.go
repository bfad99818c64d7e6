package googlebooks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "github.com/izachstanford/smart-books-ai/internal/errors"
)

const volumeFixture = `{
	"totalItems": 1,
	"items": [{
		"id": "wrOQLV6xB-wC",
		"volumeInfo": {
			"title": "Harry Potter and the Sorcerer's Stone",
			"authors": ["J.K. Rowling"],
			"description": "The boy who lived.",
			"categories": ["Juvenile Fiction"],
			"language": "en",
			"publishedDate": "1998-09-01",
			"imageLinks": {
				"smallThumbnail": "https://books.example.com/small.jpg",
				"thumbnail": "https://books.example.com/thumb.jpg"
			}
		}
	}]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	client.http = server.Client()
	client.baseURL = server.URL
	return client
}

func TestLookupISBN(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "isbn:9780439708180" {
			t.Errorf("q = %q, want isbn:9780439708180", got)
		}
		w.Write([]byte(volumeFixture))
	})

	vol, err := client.LookupISBN(context.Background(), "9780439708180")
	if err != nil {
		t.Fatalf("LookupISBN() error = %v", err)
	}
	if vol.ID != "wrOQLV6xB-wC" {
		t.Errorf("ID = %q", vol.ID)
	}
	if vol.Description != "The boy who lived." {
		t.Errorf("Description = %q", vol.Description)
	}
	if len(vol.Categories) != 1 || vol.Categories[0] != "Juvenile Fiction" {
		t.Errorf("Categories = %v", vol.Categories)
	}
	if got := vol.CoverURL(); got != "https://books.example.com/thumb.jpg" {
		t.Errorf("CoverURL() = %q, want the larger thumbnail", got)
	}
}

func TestLookupISBN_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems": 0}`))
	})

	_, err := client.LookupISBN(context.Background(), "9780000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestLookupISBN_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.LookupISBN(context.Background(), "9780439708180")
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("server error must not read as not-found")
	}
	if !errors.Is(err, domainerrors.ErrEnrichment) {
		t.Errorf("error = %v, want ErrEnrichment", err)
	}
}

func TestVolumeCoverURL_Fallback(t *testing.T) {
	v := &Volume{SmallThumbnail: "https://books.example.com/small.jpg"}
	if got := v.CoverURL(); got != "https://books.example.com/small.jpg" {
		t.Errorf("CoverURL() = %q", got)
	}
	if got := (&Volume{}).CoverURL(); got != "" {
		t.Errorf("CoverURL() on empty volume = %q, want empty", got)
	}
}
