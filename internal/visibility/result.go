// Package visibility resolves launch records into visibility predictions for
// the fixed observer.
//
// The resolver is a fallback chain: telemetry-derived analysis when frames
// are available, a simulated ascent trajectory when the pad has coordinates,
// and a coarse mission-keyword estimate as the floor. Whichever path runs,
// its raw result passes through one normalization step before it is cached
// and returned, so every caller sees the same schema and scoring.
package visibility

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/skyward/launchspot/internal/catalog"
)

// Likelihood is the 4-way visibility verdict.
type Likelihood string

const (
	LikelihoodHigh   Likelihood = "high"
	LikelihoodMedium Likelihood = "medium"
	LikelihoodLow    Likelihood = "low"
	LikelihoodNone   Likelihood = "none"
)

// Score returns the canonical score for a likelihood. Scores are derived
// from the likelihood alone; upstream paths never supply their own.
func (l Likelihood) Score() float64 {
	switch l {
	case LikelihoodHigh:
		return 0.9
	case LikelihoodMedium:
		return 0.6
	case LikelihoodLow:
		return 0.35
	default:
		return 0
	}
}

// DataSource tags which computation path produced a result.
type DataSource string

const (
	SourceTelemetry  DataSource = "telemetry"
	SourceSimulated  DataSource = "simulated"
	SourceEstimated  DataSource = "estimated"
	SourceOverridden DataSource = "overridden"
)

// Window is the derived visibility window. It is recomputed whole on each
// resolution, never partially updated.
type Window struct {
	StartSec          float64 `json:"start_seconds"` // seconds after liftoff
	EndSec            float64 `json:"end_seconds"`
	DurationSec       float64 `json:"duration_seconds"`
	PeakElevationSec  float64 `json:"peak_elevation_seconds"`
	ClosestApproachKm float64 `json:"closest_approach_km"`
	ClosestBearingDeg float64 `json:"closest_approach_bearing"`
}

// Result is the resolved visibility prediction for one launch.
type Result struct {
	LaunchID            string     `json:"launch_id"`
	Likelihood          Likelihood `json:"likelihood"`
	Score               float64    `json:"score"`
	Reason              string     `json:"reason"`
	BearingDeg          float64    `json:"bearing"`
	TrajectoryDirection string     `json:"trajectory_direction"`
	WindowText          string     `json:"estimated_visible_window,omitempty"`
	Window              *Window    `json:"window,omitempty"`
	DataSource          DataSource `json:"data_source"`
	Factors             []string   `json:"factors"`
	ResolvedAt          time.Time  `json:"resolved_at"`
}

// ResultCache memoizes results by launch id and input fingerprint. A stored
// entry whose fingerprint no longer matches is a miss.
type ResultCache interface {
	Get(launchID, inputHash string) (Result, bool)
	Put(launchID, inputHash string, r Result)
}

// InputHash fingerprints exactly the inputs that affect a resolution: launch
// id, scheduled time, pad identity, telemetry availability, and mission id.
// Changes to any other launch field must not invalidate cached results.
func InputHash(l *catalog.Launch, telemetryAvailable bool) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%.4f|%.4f|%t|%d",
		l.ID, l.NET,
		l.Pad.Name, l.Pad.Location.Name,
		l.Pad.Location.Latitude, l.Pad.Location.Longitude,
		telemetryAvailable, l.Mission.ID)
	return hex.EncodeToString(h.Sum(nil))
}
