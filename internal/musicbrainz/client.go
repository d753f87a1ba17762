// Package musicbrainz looks up artist genres on MusicBrainz. Requests are
// throttled to one per second and retried with exponential backoff on server
// and network errors.
package musicbrainz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/llehouerou/starchart/internal/metrics"
)

const (
	defaultBaseURL = "https://musicbrainz.org/ws/2"
	userAgent      = "Starchart/0.1 (https://github.com/llehouerou/starchart)"
	rateLimitDur   = time.Second // MusicBrainz requires 1 request per second

	maxRetries   = 3
	initialDelay = 2 * time.Second
	maxDelay     = 30 * time.Second

	// minScore is the lowest search score accepted as a name match.
	minScore = 90
)

// ErrNotFound is returned when no artist matches.
var ErrNotFound = errors.New("artist not found")

// Client provides access to the MusicBrainz API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	lastRequest time.Time
	mu          sync.Mutex
}

// NewClient creates a new MusicBrainz API client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

// ArtistGenres returns the genres of an artist, most voted first. When mbid
// is empty the artist is resolved by name first.
func (c *Client) ArtistGenres(ctx context.Context, name, mbid string) ([]string, error) {
	if mbid == "" {
		var err error
		mbid, err = c.SearchArtist(ctx, name)
		if err != nil {
			return nil, err
		}
	}

	params := url.Values{}
	params.Set("fmt", "json")
	params.Set("inc", "genres")

	var result artistResponse
	if err := c.get(ctx, "artist/"+url.PathEscape(mbid), params, &result); err != nil {
		return nil, err
	}
	return rankGenres(result.Genres), nil
}

// SearchArtist returns the MBID of the best match for name.
func (c *Client) SearchArtist(ctx context.Context, name string) (string, error) {
	params := url.Values{}
	params.Set("query", `artist:"`+strings.ReplaceAll(name, `"`, ``)+`"`)
	params.Set("fmt", "json")
	params.Set("limit", "5")

	var result searchResponse
	if err := c.get(ctx, "artist", params, &result); err != nil {
		return "", err
	}
	for _, a := range result.Artists {
		if a.Score >= minScore && strings.EqualFold(a.Name, name) {
			return a.ID, nil
		}
	}
	if len(result.Artists) > 0 && result.Artists[0].Score >= minScore {
		return result.Artists[0].ID, nil
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, name)
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordFetch("musicbrainz."+strings.SplitN(path, "/", 2)[0], time.Since(start), err) }()

	if err := c.waitForRateLimit(ctx); err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// waitForRateLimit ensures we don't exceed MusicBrainz rate limits.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if wait := rateLimitDur - time.Since(c.lastRequest); wait > 0 {
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
	c.lastRequest = time.Now()
	return nil
}

// doRequestWithRetry executes an HTTP request with exponential backoff retry.
// Retries on 5xx errors and network errors.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, delay); err != nil {
				return nil, err
			}
			delay = min(delay*2, maxDelay)
			if err := c.waitForRateLimit(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		// Success or client error (4xx) - don't retry
		if resp.StatusCode < 500 {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries+1, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// rankGenres orders genres by vote count, ties by name.
func rankGenres(genres []genre) []string {
	sorted := make([]genre, 0, len(genres))
	for _, g := range genres {
		if strings.TrimSpace(g.Name) != "" {
			sorted = append(sorted, g)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Name < sorted[j].Name
	})
	names := make([]string, len(sorted))
	for i, g := range sorted {
		names[i] = g.Name
	}
	return names
}
