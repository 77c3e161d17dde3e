package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

const (
	// titleRetries is the number of page-fetch attempts before giving up.
	titleRetries = 3
	// maxPageSize caps the HTML we read when hunting for a title (5MB).
	maxPageSize = 5 * 1024 * 1024
)

// TitleResolver derives a display title from the media's watch page when
// the collaborator's metadata carries none. Best effort only; callers fall
// back to a default title on failure.
type TitleResolver struct {
	client *http.Client
}

// NewTitleResolver creates a resolver with a bounded HTTP client.
func NewTitleResolver() *TitleResolver {
	return &TitleResolver{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Resolve fetches the page and extracts its title, retrying transient
// failures with linear backoff.
func (r *TitleResolver) Resolve(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < titleRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 2 * time.Second
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		title, err := r.resolveOnce(ctx, url)
		if err == nil {
			return title, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("after %d attempts: %w", titleRetries, lastErr)
}

func (r *TitleResolver) resolveOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	// Use a realistic browser User-Agent to avoid being blocked by sites.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	parsedURL, _ := nurl.Parse(url)
	article, err := readability.FromReader(strings.NewReader(string(body)), parsedURL)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		return "", errors.New("page has no usable title")
	}
	return title, nil
}
