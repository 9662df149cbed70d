package solar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

// DefaultPrimaryURL and DefaultSecondaryURL are the remote ephemeris
// endpoints. Both speak the sunrise-sunset.org response shape.
const (
	DefaultPrimaryURL   = "https://api.sunrise-sunset.org/json"
	DefaultSecondaryURL = "https://api.sunrisesunset.io/json"

	requestTimeout = 5 * time.Second
)

// Client fetches solar event times from a remote ephemeris API.
// Requests ride a circuit breaker so a dead upstream fails fast and the
// chain moves on to the next provider without burning the timeout on
// every resolution.
type Client struct {
	baseURL    string
	lat, lon   float64
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[SunTimes]
	logger     *slog.Logger
}

// NewClient creates a Client for the given endpoint and fixed location.
func NewClient(baseURL string, lat, lon float64, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultPrimaryURL
	}

	breaker := gobreaker.NewCircuitBreaker[SunTimes](gobreaker.Settings{
		Name:    "solar:" + baseURL,
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("solar breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL: baseURL,
		lat:     lat,
		lon:     lon,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		breaker: breaker,
		logger:  logger,
	}
}

// apiResponse mirrors the sunrise-sunset.org JSON body with formatted=0
// (ISO-8601 timestamps).
type apiResponse struct {
	Results struct {
		Sunrise                   string `json:"sunrise"`
		Sunset                    string `json:"sunset"`
		CivilTwilightBegin        string `json:"civil_twilight_begin"`
		CivilTwilightEnd          string `json:"civil_twilight_end"`
		NauticalTwilightBegin     string `json:"nautical_twilight_begin"`
		NauticalTwilightEnd       string `json:"nautical_twilight_end"`
		AstronomicalTwilightBegin string `json:"astronomical_twilight_begin"`
		AstronomicalTwilightEnd   string `json:"astronomical_twilight_end"`
	} `json:"results"`
	Status string `json:"status"`
}

// SunTimes implements Provider.
func (c *Client) SunTimes(ctx context.Context, date time.Time) (SunTimes, error) {
	return c.breaker.Execute(func() (SunTimes, error) {
		return c.fetch(ctx, date)
	})
}

func (c *Client) fetch(ctx context.Context, date time.Time) (SunTimes, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", c.lat))
	q.Set("lng", fmt.Sprintf("%.4f", c.lon))
	q.Set("date", date.UTC().Format("2006-01-02"))
	q.Set("formatted", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return SunTimes{}, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SunTimes{}, fmt.Errorf("fetching solar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SunTimes{}, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, c.baseURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SunTimes{}, fmt.Errorf("reading response body: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return SunTimes{}, fmt.Errorf("decoding solar response: %w", err)
	}
	if parsed.Status != "OK" {
		return SunTimes{}, fmt.Errorf("solar API status %q", parsed.Status)
	}

	st := SunTimes{Source: c.baseURL}
	fields := []struct {
		raw string
		dst *time.Time
	}{
		{parsed.Results.Sunrise, &st.Sunrise},
		{parsed.Results.Sunset, &st.Sunset},
		{parsed.Results.CivilTwilightBegin, &st.CivilTwilightBegin},
		{parsed.Results.CivilTwilightEnd, &st.CivilTwilightEnd},
		{parsed.Results.NauticalTwilightBegin, &st.NauticalTwilightBegin},
		{parsed.Results.NauticalTwilightEnd, &st.NauticalTwilightEnd},
		{parsed.Results.AstronomicalTwilightBegin, &st.AstronomicalTwilightBegin},
		{parsed.Results.AstronomicalTwilightEnd, &st.AstronomicalTwilightEnd},
	}
	for _, f := range fields {
		t, err := time.Parse(time.RFC3339, f.raw)
		if err != nil {
			return SunTimes{}, fmt.Errorf("parsing solar timestamp %q: %w", f.raw, err)
		}
		*f.dst = t.UTC()
	}

	return st, nil
}
