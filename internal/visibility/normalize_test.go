package visibility

import (
	"reflect"
	"testing"

	"github.com/skyward/launchspot/internal/catalog"
	"github.com/skyward/launchspot/internal/illumination"
)

func capeLaunch(mission, orbit string) *catalog.Launch {
	return &catalog.Launch{
		ID:   "test-launch",
		Name: "Falcon 9 | " + mission,
		NET:  "2026-06-20T00:50:00Z",
		Pad: catalog.Pad{
			Name: "Space Launch Complex 40",
			Location: catalog.PadLocation{
				Name:      "Cape Canaveral SFS, FL, USA",
				Latitude:  28.5618,
				Longitude: -80.5772,
			},
		},
		Mission: catalog.Mission{
			ID:    42,
			Name:  mission,
			Orbit: catalog.Orbit{Name: orbit},
		},
	}
}

func TestClassifyOrbit(t *testing.T) {
	tests := []struct {
		name    string
		mission string
		orbit   string
		want    OrbitClass
	}{
		{"polar keyword", "EarthObs-1", "Polar Orbit", OrbitPolar},
		{"sun-synchronous", "Imaging Sat", "Sun-Synchronous Orbit", OrbitPolar},
		{"gto", "EchoStar 25", "Geostationary Transfer Orbit", OrbitGTO},
		{"interplanetary", "Europa Clipper", "Heliocentric", OrbitInterplanetary},
		{"lunar", "IM-4 Moon Lander", "TLI", OrbitInterplanetary},
		{"plain leo", "Test Flight", "Low Earth Orbit", OrbitLEO},
		{"gibberish", "Mystery Payload", "Rideshare", OrbitOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyOrbit(capeLaunch(tt.mission, tt.orbit))
			if got != tt.want {
				t.Errorf("ClassifyOrbit(%q, %q) = %q, want %q", tt.mission, tt.orbit, got, tt.want)
			}
		})
	}
}

// Corridor missions in low orbits must classify ahead of the generic LEO
// keywords, so the LEO likelihood cap does not apply to them.
func TestClassifyOrbitCorridorBeatsLEO(t *testing.T) {
	l := capeLaunch("Starlink Group 10-5", "Low Earth Orbit")
	if got := ClassifyOrbit(l); got != OrbitOther {
		t.Errorf("Starlink in LEO classified %q, want %q", got, OrbitOther)
	}
	l = capeLaunch("CRS-31 Resupply", "Low Earth Orbit")
	if got := ClassifyOrbit(l); got != OrbitOther {
		t.Errorf("resupply in LEO classified %q, want %q", got, OrbitOther)
	}
}

func TestClassifyOrbitEmptyIsUnknown(t *testing.T) {
	l := capeLaunch("", "")
	if got := ClassifyOrbit(l); got != OrbitUnknown {
		t.Errorf("empty mission text classified %q, want %q", got, OrbitUnknown)
	}
}

func TestScoreTable(t *testing.T) {
	tests := []struct {
		lik  Likelihood
		want float64
	}{
		{LikelihoodHigh, 0.9},
		{LikelihoodMedium, 0.6},
		{LikelihoodLow, 0.35},
		{LikelihoodNone, 0},
	}
	for _, tt := range tests {
		if got := tt.lik.Score(); got != tt.want {
			t.Errorf("Score(%s) = %v, want %v", tt.lik, got, tt.want)
		}
	}
}

func TestNormalizeRecomputesScore(t *testing.T) {
	raw := Result{
		Likelihood: LikelihoodMedium,
		Score:      0.99, // upstream score must never be trusted
		DataSource: SourceSimulated,
	}
	got := Normalize(capeLaunch("Rideshare Mix", "Rideshare"), illumination.RegimeTwilight, raw)
	if got.Score != got.Likelihood.Score() {
		t.Errorf("score %v does not match canonical value %v for %s",
			got.Score, got.Likelihood.Score(), got.Likelihood)
	}
}

func TestNormalizeInvalidNET(t *testing.T) {
	l := capeLaunch("Test Flight", "Low Earth Orbit")
	l.NET = "tomorrow-ish"
	got := Normalize(l, illumination.RegimeNight, Result{
		Likelihood: LikelihoodHigh,
		DataSource: SourceSimulated,
	})
	if got.Likelihood != LikelihoodNone {
		t.Errorf("invalid NET gave likelihood %s, want none", got.Likelihood)
	}
	if !hasFactor(got.Factors, factorInvalidNET) {
		t.Errorf("factors %v missing %q", got.Factors, factorInvalidNET)
	}
}

func TestNormalizeLEOCap(t *testing.T) {
	l := capeLaunch("Test Flight", "Low Earth Orbit")
	for _, lik := range []Likelihood{LikelihoodHigh, LikelihoodMedium} {
		got := Normalize(l, illumination.RegimeTwilight, Result{
			Likelihood: lik,
			DataSource: SourceSimulated,
		})
		if got.Likelihood != LikelihoodLow {
			t.Errorf("LEO %s capped to %s, want low", lik, got.Likelihood)
		}
	}
	// Low and none pass through.
	got := Normalize(l, illumination.RegimeTwilight, Result{
		Likelihood: LikelihoodNone,
		DataSource: SourceSimulated,
	})
	if got.Likelihood != LikelihoodNone {
		t.Errorf("LEO none became %s", got.Likelihood)
	}
}

func TestNormalizeGTORaise(t *testing.T) {
	l := capeLaunch("EchoStar 25", "Geostationary Transfer Orbit")

	got := Normalize(l, illumination.RegimeTwilight, Result{
		Likelihood: LikelihoodMedium,
		DataSource: SourceEstimated,
	})
	if got.Likelihood != LikelihoodHigh {
		t.Errorf("GTO under twilight raised to %s, want high", got.Likelihood)
	}

	// No raise in daylight.
	got = Normalize(l, illumination.RegimeDay, Result{
		Likelihood: LikelihoodMedium,
		DataSource: SourceEstimated,
	})
	if got.Likelihood != LikelihoodMedium {
		t.Errorf("GTO in daylight became %s, want medium", got.Likelihood)
	}
}

func TestNormalizeCorridorOverride(t *testing.T) {
	l := capeLaunch("Starlink Group 11-3", "Low Earth Orbit")
	l.Pad.Name = "Space Launch Complex 4E"
	l.Pad.Location.Name = "Vandenberg SFB, CA, USA"
	l.Pad.Location.Latitude = 34.632
	l.Pad.Location.Longitude = -120.611

	got := Normalize(l, illumination.RegimeTwilight, Result{
		Likelihood: LikelihoodHigh,
		DataSource: SourceSimulated,
	})
	if got.Likelihood != LikelihoodNone {
		t.Errorf("west-coast pad gave likelihood %s, want none", got.Likelihood)
	}
	if got.Reason != reasonOffCorridor {
		t.Errorf("reason %q, want %q", got.Reason, reasonOffCorridor)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	cases := []struct {
		name   string
		launch *catalog.Launch
		regime illumination.Regime
		raw    Result
	}{
		{
			name:   "gto raise",
			launch: capeLaunch("EchoStar 25", "Geostationary Transfer Orbit"),
			regime: illumination.RegimeNight,
			raw:    Result{Likelihood: LikelihoodLow, DataSource: SourceSimulated},
		},
		{
			name:   "leo cap",
			launch: capeLaunch("Test Flight", "Low Earth Orbit"),
			regime: illumination.RegimeTwilight,
			raw:    Result{Likelihood: LikelihoodHigh, DataSource: SourceSimulated},
		},
		{
			name: "invalid net",
			launch: func() *catalog.Launch {
				l := capeLaunch("Test Flight", "Low Earth Orbit")
				l.NET = "not-a-time"
				return l
			}(),
			regime: illumination.RegimeNight,
			raw:    Result{Likelihood: LikelihoodMedium, DataSource: SourceEstimated},
		},
		{
			name: "off corridor",
			launch: func() *catalog.Launch {
				l := capeLaunch("Starlink Group 11-3", "Low Earth Orbit")
				l.Pad.Location.Name = "Vandenberg SFB, CA, USA"
				return l
			}(),
			regime: illumination.RegimeTwilight,
			raw:    Result{Likelihood: LikelihoodHigh, DataSource: SourceSimulated},
		},
		{
			name:   "overridden with duplicate factors",
			launch: capeLaunch("SpaceX Crew-12", "Low Earth Orbit"),
			regime: illumination.RegimeDay,
			raw: Result{
				Likelihood: LikelihoodMedium,
				DataSource: SourceOverridden,
				Factors:    []string{"a", "b", "a"},
			},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			once := Normalize(tt.launch, tt.regime, tt.raw)
			twice := Normalize(tt.launch, tt.regime, once)
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("normalization not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
			}
		})
	}
}

func TestNormalizeDeduplicatesFactors(t *testing.T) {
	raw := Result{
		Likelihood: LikelihoodMedium,
		DataSource: SourceSimulated,
		Factors:    []string{"dusk", "close pass", "dusk", "close pass", "dusk"},
	}
	got := Normalize(capeLaunch("Rideshare Mix", "Rideshare"), illumination.RegimeTwilight, raw)
	seen := make(map[string]bool)
	for _, f := range got.Factors {
		if seen[f] {
			t.Fatalf("duplicate factor %q in %v", f, got.Factors)
		}
		seen[f] = true
	}
	// Insertion order preserved.
	if got.Factors[0] != "dusk" || got.Factors[1] != "close pass" {
		t.Errorf("factor order not preserved: %v", got.Factors)
	}
}

func TestInputHashFields(t *testing.T) {
	base := capeLaunch("Starlink Group 11-3", "Low Earth Orbit")
	h1 := InputHash(base, false)

	changed := *base
	changed.NET = "2026-06-21T00:50:00Z"
	if InputHash(&changed, false) == h1 {
		t.Error("changing NET did not change the hash")
	}

	if InputHash(base, true) == h1 {
		t.Error("changing telemetry availability did not change the hash")
	}

	// A field outside the fingerprint must not change the hash.
	renamed := *base
	renamed.Mission.Description = "updated marketing copy"
	if InputHash(&renamed, false) != h1 {
		t.Error("description change invalidated the hash")
	}
}
