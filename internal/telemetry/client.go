package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Supplier provides telemetry for a launch, when any exists. Absence of
// telemetry is expected for most launches and is reported as an error the
// resolver treats as "fall back", never as a caller-visible failure.
type Supplier interface {
	Fetch(ctx context.Context, launchID string) ([]Frame, []StageEvent, error)
}

const requestTimeout = 5 * time.Second

// payload is the wire shape of a telemetry response.
type payload struct {
	Frames []Frame      `json:"telemetry"`
	Events []StageEvent `json:"events"`
}

// fetched pairs the two halves for the generic breaker.
type fetched struct {
	frames []Frame
	events []StageEvent
}

// Client fetches telemetry over HTTP with a hard deadline and a circuit
// breaker, so a wedged upstream degrades the resolver to the simulated
// path quickly instead of stalling every resolution.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[fetched]
	logger     *slog.Logger
}

// NewClient creates a telemetry client; launch IDs are appended to baseURL.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[fetched](gobreaker.Settings{
		Name:    "telemetry",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("telemetry breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		breaker: breaker,
		logger:  logger,
	}
}

// Fetch implements Supplier.
func (c *Client) Fetch(ctx context.Context, launchID string) ([]Frame, []StageEvent, error) {
	got, err := c.breaker.Execute(func() (fetched, error) {
		return c.fetch(ctx, launchID)
	})
	if err != nil {
		return nil, nil, err
	}
	return got.frames, got.events, nil
}

func (c *Client) fetch(ctx context.Context, launchID string) (fetched, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s", c.baseURL, launchID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fetched{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fetched{}, fmt.Errorf("fetching telemetry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fetched{}, fmt.Errorf("no telemetry for launch %s", launchID)
	}
	if resp.StatusCode != http.StatusOK {
		return fetched{}, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, c.baseURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fetched{}, fmt.Errorf("reading response body: %w", err)
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return fetched{}, fmt.Errorf("decoding telemetry: %w", err)
	}

	return fetched{frames: p.Frames, events: p.Events}, nil
}
