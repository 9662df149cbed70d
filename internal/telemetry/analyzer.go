package telemetry

import (
	"strings"

	"github.com/skyward/launchspot/internal/geo"
	"github.com/skyward/launchspot/internal/illumination"
)

// Rating is the analyzer's confidence that the vehicle will be seen.
// Values mirror the resolver's likelihood scale.
type Rating string

const (
	RatingHigh   Rating = "high"
	RatingMedium Rating = "medium"
	RatingLow    Rating = "low"
	RatingNone   Rating = "none"
)

// Analysis aggregates the per-frame geometry into a visibility verdict.
// Times are seconds since liftoff.
type Analysis struct {
	Visible           bool
	FirstVisibleSec   float64
	LastVisibleSec    float64
	PeakElevationSec  float64
	MaxElevationDeg   float64
	ClosestApproachKm float64
	ClosestBearingDeg float64
	VisibleFrames     int
	Rating            Rating
	Reason            string
}

const (
	// RangeCeilingKm bounds how far out a frame still counts as visible.
	RangeCeilingKm = 1500.0

	highElevationDeg = 5.0
	highDistanceKm   = 1200.0
	dayElevationDeg  = 15.0
	dayDistanceKm    = 600.0
)

// secondStageWindow returns the [start, end) time bounds of the
// second-stage flight segment from the event markers. Only the upper stage
// remains observable at the ranges involved, so analysis is restricted to
// it. End is +Inf-like (open) when no cutoff event exists.
func secondStageWindow(events []StageEvent) (start, end float64, hasEnd bool) {
	for _, ev := range events {
		name := strings.ToLower(ev.Name)
		switch {
		case strings.Contains(name, "separation"):
			start = ev.TimeOffset
		case strings.Contains(name, "seco") || strings.Contains(name, "cutoff"):
			// MECO is a first-stage event; only take cutoffs after separation.
			if strings.Contains(name, "meco") || strings.Contains(name, "main engine") {
				continue
			}
			end = ev.TimeOffset
			hasEnd = true
		}
	}
	return start, end, hasEnd
}

// Analyze derives a visibility verdict for the observer from telemetry
// frames and stage-event markers, under the given lighting regime.
// It never fails: an empty or fully below-horizon sequence yields
// RatingNone with a below-horizon reason.
func Analyze(frames []Frame, events []StageEvent, regime illumination.Regime) Analysis {
	start, end, hasEnd := secondStageWindow(events)

	a := Analysis{
		ClosestApproachKm: -1,
	}

	for _, f := range frames {
		if f.TimeOffset < start {
			continue
		}
		if hasEnd && f.TimeOffset > end {
			break
		}

		dist := geo.DistanceKm(geo.Observer, f.Position())
		elev := geo.ElevationAngleDegrees(dist, f.AltitudeM/1000)

		if a.ClosestApproachKm < 0 || dist < a.ClosestApproachKm {
			a.ClosestApproachKm = dist
			a.ClosestBearingDeg = geo.BearingDegrees(geo.Observer, f.Position())
		}

		if elev <= 0 || dist >= RangeCeilingKm {
			continue
		}

		if !a.Visible {
			a.Visible = true
			a.FirstVisibleSec = f.TimeOffset
			a.PeakElevationSec = f.TimeOffset
			a.MaxElevationDeg = elev
		}
		a.LastVisibleSec = f.TimeOffset
		a.VisibleFrames++
		if elev > a.MaxElevationDeg {
			a.MaxElevationDeg = elev
			a.PeakElevationSec = f.TimeOffset
		}
	}

	if !a.Visible {
		a.Rating = RatingNone
		a.Reason = "Vehicle stays below horizon for the entire tracked segment"
		return a
	}

	a.Rating, a.Reason = rate(regime, a.MaxElevationDeg, a.ClosestApproachKm)
	return a
}

// rate applies the fixed decision table over regime, peak elevation, and
// closest approach.
func rate(regime illumination.Regime, maxElev, closestKm float64) (Rating, string) {
	switch {
	case (regime == illumination.RegimeTwilight || regime == illumination.RegimeNight) &&
		maxElev > highElevationDeg && closestKm < highDistanceKm:
		return RatingHigh, "Upper stage passes close by against a dark sky"
	case regime == illumination.RegimeNight && maxElev > 0 && closestKm < RangeCeilingKm:
		return RatingMedium, "Visible at night near the horizon"
	case regime == illumination.RegimeDay && maxElev > dayElevationDeg && closestKm < dayDistanceKm:
		return RatingLow, "Daylight pass; only the exhaust plume may show"
	default:
		return RatingLow, "Marginal pass geometry"
	}
}
