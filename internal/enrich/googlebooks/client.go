// Package googlebooks is a rate-limited client for the Google Books
// volumes API, used as the primary metadata source during enrichment.
package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	domainerrors "github.com/izachstanford/smart-books-ai/internal/errors"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// ErrNotFound means the API answered but had no volume for the ISBN.
var ErrNotFound = errors.New("googlebooks: no volume for isbn")

// Volume is the subset of volumeInfo the pipeline uses.
type Volume struct {
	ID             string
	Title          string
	Authors        []string
	Description    string
	Categories     []string
	Language       string
	PublishedDate  string
	Thumbnail      string
	SmallThumbnail string
}

// CoverURL returns the best image link the volume carries, preferring
// the larger thumbnail. Empty when the volume has no images.
func (v *Volume) CoverURL() string {
	if v.Thumbnail != "" {
		return v.Thumbnail
	}
	return v.SmallThumbnail
}

// Client is a rate-limited Google Books client.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
	baseURL   string
	userAgent string
}

// New creates a new Google Books client.
// Rate limited to 3 requests per second, burst of 3, gentle enough for
// the anonymous quota.
func New(logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
		limiter:   rate.NewLimiter(rate.Limit(3), 3),
		logger:    logger,
		baseURL:   defaultBaseURL,
		userAgent: "smart-books-ai/1.0",
	}
}

// LookupISBN fetches the first volume matching the ISBN.
// Returns ErrNotFound when the API has nothing for it.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (*Volume, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", "isbn:"+isbn)
	params.Set("maxResults", "1")
	params.Set("printType", "books")

	reqURL := c.baseURL + "/volumes?" + params.Encode()

	c.logger.Debug("google books lookup",
		"isbn", isbn,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeEnrichment, "volumes request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.Enrichmentf("volumes request: status %d", resp.StatusCode)
	}

	var volumesResp struct {
		TotalItems int `json:"totalItems"`
		Items      []struct {
			ID         string `json:"id"`
			VolumeInfo struct {
				Title         string   `json:"title"`
				Authors       []string `json:"authors"`
				Description   string   `json:"description"`
				Categories    []string `json:"categories"`
				Language      string   `json:"language"`
				PublishedDate string   `json:"publishedDate"`
				ImageLinks    struct {
					Thumbnail      string `json:"thumbnail"`
					SmallThumbnail string `json:"smallThumbnail"`
				} `json:"imageLinks"`
			} `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&volumesResp); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeEnrichment, "parse response")
	}

	if len(volumesResp.Items) == 0 {
		return nil, ErrNotFound
	}

	item := volumesResp.Items[0]
	info := item.VolumeInfo
	return &Volume{
		ID:             item.ID,
		Title:          info.Title,
		Authors:        info.Authors,
		Description:    info.Description,
		Categories:     info.Categories,
		Language:       info.Language,
		PublishedDate:  info.PublishedDate,
		Thumbnail:      info.ImageLinks.Thumbnail,
		SmallThumbnail: info.ImageLinks.SmallThumbnail,
	}, nil
}
