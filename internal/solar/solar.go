// Package solar supplies sunrise/sunset and twilight times for the observer.
//
// Providers form a fallback chain: a remote ephemeris API (primary and
// secondary endpoints behind a circuit breaker), then a local
// Astronomical-Almanac approximation that cannot fail. The illumination
// classifier treats any provider error as "no solar data" and degrades to
// its coarse strategy.
package solar

import (
	"context"
	"time"
)

// SunTimes holds the solar events for one date at the observer location.
// All times are UTC.
type SunTimes struct {
	Sunrise                   time.Time `json:"sunrise"`
	Sunset                    time.Time `json:"sunset"`
	CivilTwilightBegin        time.Time `json:"civil_twilight_begin"`
	CivilTwilightEnd          time.Time `json:"civil_twilight_end"`
	NauticalTwilightBegin     time.Time `json:"nautical_twilight_begin"`
	NauticalTwilightEnd       time.Time `json:"nautical_twilight_end"`
	AstronomicalTwilightBegin time.Time `json:"astronomical_twilight_begin"`
	AstronomicalTwilightEnd   time.Time `json:"astronomical_twilight_end"`
	Source                    string    `json:"source"`
}

// Provider returns solar event times for the given date (time-of-day part
// is ignored) at a fixed latitude/longitude.
type Provider interface {
	SunTimes(ctx context.Context, date time.Time) (SunTimes, error)
}

// Chain tries each provider in order and returns the first success.
// The last provider is expected to be infallible (the local approximator),
// so a fully exhausted chain only happens on context cancellation.
type Chain struct {
	providers []Provider
}

// NewChain builds a provider chain; providers are tried in argument order.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// SunTimes implements Provider.
func (c *Chain) SunTimes(ctx context.Context, date time.Time) (SunTimes, error) {
	var lastErr error
	for _, p := range c.providers {
		st, err := p.SunTimes(ctx, date)
		if err == nil {
			return st, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return SunTimes{}, lastErr
}
