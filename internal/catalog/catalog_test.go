package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const samplePage = `{"count":2,"results":[
	{"id":"abc-123","name":"Falcon 9 Block 5 | Starlink Group 10-30",
	 "net":"2026-06-15T23:45:00Z",
	 "status":{"name":"Go for Launch","abbrev":"Go"},
	 "pad":{"name":"Space Launch Complex 40",
	        "location":{"name":"Cape Canaveral SFS, FL, USA","latitude":"28.4889","longitude":"-80.5778"}},
	 "mission":{"id":7001,"name":"Starlink Group 10-30","description":"A batch of satellites.",
	            "orbit":{"name":"Low Earth Orbit","abbrev":"LEO"}}},
	{"id":"def-456","name":"Antares | Cygnus CRS-2 NG-23",
	 "net":"not-a-timestamp",
	 "status":{"name":"To Be Confirmed","abbrev":"TBC"},
	 "pad":{"name":"Pad 0A","location":{"name":"Wallops Island, Virginia, USA","latitude":"37.8337","longitude":"-75.4882"}},
	 "mission":{"id":7002,"name":"CRS-2 NG-23","description":"ISS resupply.",
	            "orbit":{"name":"Low Earth Orbit","abbrev":"LEO"}}}]}`

func TestFetcherDecodesPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, 3600)
	ds, err := fetcher.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ds.Launches) != 2 {
		t.Fatalf("expected 2 launches, got %d", len(ds.Launches))
	}

	l := ds.Launches[0]
	if l.ID != "abc-123" {
		t.Errorf("id = %q", l.ID)
	}
	if l.Pad.Location.Latitude != 28.4889 {
		t.Errorf("pad latitude = %v, want 28.4889 (string-encoded float)", l.Pad.Location.Latitude)
	}
	if l.Mission.Orbit.Abbrev != "LEO" {
		t.Errorf("orbit abbrev = %q", l.Mission.Orbit.Abbrev)
	}

	net, ok := l.NETTime()
	if !ok {
		t.Fatal("expected valid NET")
	}
	if net.Hour() != 23 || net.Minute() != 45 {
		t.Errorf("NET = %v, want 23:45Z", net)
	}
}

func TestNETTimeInvalid(t *testing.T) {
	for _, raw := range []string{"", "not-a-timestamp", "2026-13-45T99:00:00Z"} {
		l := Launch{NET: raw}
		if _, ok := l.NETTime(); ok {
			t.Errorf("NET %q should not parse", raw)
		}
	}
}

func TestFetcherHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.URL, 3600)
	if _, err := fetcher.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for 500 response, got nil")
	}
}

func TestFetcherRateLimited(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"count":0,"results":[]}`))
	}))
	defer server.Close()

	// 1 request/hour: the second fetch must block until its context expires.
	fetcher := NewFetcher(server.URL, 1)

	if _, err := fetcher.Fetch(context.Background()); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := fetcher.Fetch(ctx); err == nil {
		t.Fatal("second fetch should be blocked by the rate limiter")
	}
	if calls != 1 {
		t.Errorf("server saw %d calls, want 1", calls)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore()

	if store.Get() != nil {
		t.Fatal("empty store should return nil")
	}
	if age := store.AgeSeconds(); age != -1 {
		t.Errorf("empty store age = %v, want -1", age)
	}

	ds := &Dataset{
		Source:    "test",
		FetchedAt: time.Now().Add(-10 * time.Second),
		Launches:  []Launch{{ID: "abc-123"}},
	}
	store.Set(ds)

	got := store.Get()
	if got == nil || got.Find("abc-123") == nil {
		t.Fatal("stored dataset not retrievable")
	}
	if got.Find("missing") != nil {
		t.Error("Find should return nil for unknown id")
	}
	if age := store.AgeSeconds(); age < 9 || age > 60 {
		t.Errorf("age = %.1f, want ~10s", age)
	}
}

func TestSnapshotsRoundTripAndPrune(t *testing.T) {
	dir := t.TempDir()
	snaps := NewSnapshots(dir, 2)

	for i := 0; i < 4; i++ {
		ds := &Dataset{
			Source:    "test",
			FetchedAt: time.Unix(int64(1700000000+i), 0),
			Launches:  []Launch{{ID: "abc-123", Name: "Launch", NET: "2026-06-15T23:45:00Z"}},
		}
		if err := snaps.Write(ds); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	latest, err := snaps.LoadLatest()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if latest.FetchedAt.Unix() != 1700000003 {
		t.Errorf("latest snapshot fetched_at = %v, want 1700000003", latest.FetchedAt.Unix())
	}
	if len(latest.Launches) != 1 || latest.Launches[0].ID != "abc-123" {
		t.Errorf("snapshot content mismatch: %+v", latest.Launches)
	}

	files, err := snaps.listFiles()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 files after prune, got %d", len(files))
	}
}

func TestSnapshotsEmptyDir(t *testing.T) {
	snaps := NewSnapshots(t.TempDir(), 5)
	if _, err := snaps.LoadLatest(); err == nil {
		t.Fatal("expected error for empty snapshot dir")
	}
}
