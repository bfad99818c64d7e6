// Package openlibrary is a rate-limited client for the Open Library
// books API and its covers service, the fallback metadata source
// during enrichment.
package openlibrary

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

const (
	defaultBaseURL       = "https://openlibrary.org"
	defaultCoversBaseURL = "https://covers.openlibrary.org"
)

// ErrNotFound means the API answered but had no edition for the ISBN.
var ErrNotFound = errors.New("openlibrary: no edition for isbn")

// Edition is the subset of the jscmd=data response the pipeline uses.
type Edition struct {
	Key         string
	Description string
	Subjects    []string
}

// Client is a rate-limited Open Library client.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
	baseURL   string
	coversURL string
	userAgent string
}

// New creates a new Open Library client.
// Open Library blocks frequent anonymous traffic, so the limiter is
// conservative and the User-Agent is always set.
func New(logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
		limiter:   rate.NewLimiter(rate.Limit(2), 2),
		logger:    logger,
		baseURL:   defaultBaseURL,
		coversURL: defaultCoversBaseURL,
		userAgent: "smart-books-ai/1.0",
	}
}

// flexDescription tolerates the two shapes Open Library uses for
// descriptions, a bare string or {"type": ..., "value": ...}.
type flexDescription string

func (d *flexDescription) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = flexDescription(s)
		return nil
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*d = flexDescription(obj.Value)
	return nil
}

// LookupISBN fetches edition data for the ISBN via the books API.
// Returns ErrNotFound when the API has nothing for it.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (*Edition, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	bibkey := "ISBN:" + isbn
	params := url.Values{}
	params.Set("bibkeys", bibkey)
	params.Set("format", "json")
	params.Set("jscmd", "data")

	reqURL := c.baseURL + "/api/books?" + params.Encode()

	c.logger.Debug("open library lookup",
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
		return nil, domainerrors.Wrap(err, domainerrors.CodeEnrichment, "books request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.Enrichmentf("books request: status %d", resp.StatusCode)
	}

	var booksResp map[string]struct {
		Key         string          `json:"key"`
		Description flexDescription `json:"description"`
		Subjects    []struct {
			Name string `json:"name"`
		} `json:"subjects"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&booksResp); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeEnrichment, "parse response")
	}

	entry, ok := booksResp[bibkey]
	if !ok {
		return nil, ErrNotFound
	}

	subjects := make([]string, 0, len(entry.Subjects))
	for _, s := range entry.Subjects {
		if s.Name != "" {
			subjects = append(subjects, s.Name)
		}
	}

	return &Edition{
		Key:         entry.Key,
		Description: string(entry.Description),
		Subjects:    subjects,
	}, nil
}

// CoverURL returns the large cover image URL for an ISBN. The
// default=false query makes the covers service 404 instead of serving
// a placeholder, so existence can be probed.
func (c *Client) CoverURL(isbn string) string {
	return c.coversURL + "/b/isbn/" + isbn + "-L.jpg?default=false"
}

// ProbeCover checks whether the covers service has an image for the
// ISBN, using a HEAD request. Returns the URL and true when it exists.
func (c *Client) ProbeCover(ctx context.Context, isbn string) (string, bool) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", false
	}

	coverURL := c.CoverURL(isbn)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, coverURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	return coverURL, true
}
