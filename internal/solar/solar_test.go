package solar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// Bermuda.
const (
	testLat = 32.3078
	testLon = -64.7505
)

func TestApproximatorSummerEvening(t *testing.T) {
	a := NewApproximator(testLat, testLon)

	// Mid-June: Bermuda sunset is around 20:20 local (23:20 UTC, AST=UTC-4
	// with DST UTC-3 in June -> sunset ~23:20Z).
	st, err := a.SunTimes(context.Background(), time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !st.Sunrise.Before(st.Sunset) {
		t.Fatalf("sunrise %v not before sunset %v", st.Sunrise, st.Sunset)
	}

	dayLen := st.Sunset.Sub(st.Sunrise)
	if dayLen < 13*time.Hour || dayLen > 15*time.Hour {
		t.Errorf("June day length = %v, expected 13-15h at 32N", dayLen)
	}

	// Sunset near 23:20 UTC, give or take 20 minutes.
	wantSunset := time.Date(2026, 6, 15, 23, 20, 0, 0, time.UTC)
	if diff := st.Sunset.Sub(wantSunset); diff < -20*time.Minute || diff > 20*time.Minute {
		t.Errorf("June sunset = %v, expected within 20m of %v", st.Sunset, wantSunset)
	}

	if st.Source != "approximation" {
		t.Errorf("source = %q, want approximation", st.Source)
	}
}

func TestApproximatorWinterDayShorter(t *testing.T) {
	a := NewApproximator(testLat, testLon)

	summer, _ := a.SunTimes(context.Background(), time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC))
	winter, _ := a.SunTimes(context.Background(), time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC))

	if winter.Sunset.Sub(winter.Sunrise) >= summer.Sunset.Sub(summer.Sunrise) {
		t.Error("winter day should be shorter than summer day")
	}
}

func TestApproximatorTwilightOrdering(t *testing.T) {
	a := NewApproximator(testLat, testLon)
	st, _ := a.SunTimes(context.Background(), time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))

	// Morning ordering: astronomical < nautical < civil < sunrise.
	order := []time.Time{
		st.AstronomicalTwilightBegin,
		st.NauticalTwilightBegin,
		st.CivilTwilightBegin,
		st.Sunrise,
		st.Sunset,
		st.CivilTwilightEnd,
		st.NauticalTwilightEnd,
		st.AstronomicalTwilightEnd,
	}
	for i := 1; i < len(order); i++ {
		if !order[i-1].Before(order[i]) {
			t.Errorf("solar event %d (%v) not before event %d (%v)", i-1, order[i-1], i, order[i])
		}
	}
}

func TestClientParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("formatted") != "0" {
			t.Errorf("expected formatted=0, got %q", r.URL.Query().Get("formatted"))
		}
		fmt.Fprint(w, `{"status":"OK","results":{
			"sunrise":"2026-06-15T09:10:00+00:00",
			"sunset":"2026-06-15T23:18:00+00:00",
			"civil_twilight_begin":"2026-06-15T08:45:00+00:00",
			"civil_twilight_end":"2026-06-15T23:43:00+00:00",
			"nautical_twilight_begin":"2026-06-15T08:12:00+00:00",
			"nautical_twilight_end":"2026-06-16T00:16:00+00:00",
			"astronomical_twilight_begin":"2026-06-15T07:36:00+00:00",
			"astronomical_twilight_end":"2026-06-16T00:52:00+00:00"}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLat, testLon, slog.New(slog.DiscardHandler))
	st, err := c.SunTimes(context.Background(), time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Sunset.Hour() != 23 || st.Sunset.Minute() != 18 {
		t.Errorf("sunset = %v, want 23:18Z", st.Sunset)
	}
	if st.Source != srv.URL {
		t.Errorf("source = %q, want %q", st.Source, srv.URL)
	}
}

func TestClientBreakerOpensOnFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLat, testLon, slog.New(slog.DiscardHandler))
	date := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := c.SunTimes(context.Background(), date); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	// Breaker should now be open: the request fails without touching the server.
	_, err := c.SunTimes(context.Background(), date)
	if err == nil {
		t.Fatal("expected breaker-open error")
	}
}

type failingProvider struct{}

func (failingProvider) SunTimes(context.Context, time.Time) (SunTimes, error) {
	return SunTimes{}, errors.New("unavailable")
}

func TestChainFallsThrough(t *testing.T) {
	chain := NewChain(failingProvider{}, NewApproximator(testLat, testLon))

	st, err := chain.SunTimes(context.Background(), time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("chain should fall through to the approximator: %v", err)
	}
	if st.Source != "approximation" {
		t.Errorf("source = %q, want approximation", st.Source)
	}
}

func TestChainAllFail(t *testing.T) {
	chain := NewChain(failingProvider{}, failingProvider{})
	if _, err := chain.SunTimes(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error when every provider fails")
	}
}
