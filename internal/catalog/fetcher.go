package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const defaultSourceURL = "https://ll.thespacedevs.com/2.2.0/launch/upcoming/?limit=50&mode=detailed"

// Fetcher retrieves upcoming launch records from the schedule API.
// Requests are rate limited; the public API throttles aggressively and a
// blocked key is worse than a stale catalog.
type Fetcher struct {
	sourceURL  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewFetcher creates a Fetcher for the given source URL. requestsPerHour
// bounds the request rate (burst of 1); values below 1 are clamped to 1.
func NewFetcher(sourceURL string, requestsPerHour int) *Fetcher {
	if sourceURL == "" {
		sourceURL = defaultSourceURL
	}
	if requestsPerHour < 1 {
		requestsPerHour = 1
	}

	return &Fetcher{
		sourceURL: sourceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600.0), 1),
	}
}

// SourceURL returns the configured source URL.
func (f *Fetcher) SourceURL() string {
	return f.sourceURL
}

// launchPage mirrors the paged /launch response envelope.
type launchPage struct {
	Count   int      `json:"count"`
	Results []Launch `json:"results"`
}

// Fetch performs a rate-limited GET and decodes the upcoming launches.
func (f *Fetcher) Fetch(ctx context.Context) (*Dataset, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching launch data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, f.sourceURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var page launchPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decoding launch data: %w", err)
	}

	return &Dataset{
		Source:    f.sourceURL,
		FetchedAt: time.Now().UTC(),
		Launches:  page.Results,
	}, nil
}
