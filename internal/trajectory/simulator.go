package trajectory

import (
	"github.com/skyward/launchspot/internal/geo"
)

// Point is one simulated (or telemetry-supplied) rocket position.
// Sequences are time-ordered and append-only once generated.
type Point struct {
	TimeOffset float64   `json:"time"` // seconds since liftoff
	Position   geo.Point `json:"position"`
	AltitudeM  float64   `json:"altitude_meters"`
	Stage      int       `json:"stage"`
	Engine     string    `json:"engine_status"`
}

const (
	// StepSeconds is the fixed simulation cadence.
	StepSeconds = 10
	// HorizonSeconds is how far past liftoff the simulation extends.
	HorizonSeconds = 900

	// Phase breakpoints (seconds after liftoff). Do not move these; the
	// visibility windows derived downstream are sensitive to them.
	phase1End       = 60
	phase2End       = 180
	altitudePlateau = 300

	// Nominal staging and second-engine cutoff used for the point tags.
	stagingSec = 180
	secoSec    = 540

	// Ground-track speeds (km/s). Phase 3 approximates orbital velocity
	// projected onto the ground.
	phase1PeakSpeed = 1.0
	orbitalSpeed    = 7.5

	// Altitude profile (km): 0-60s climbs to 100, 60-300s climbs to 400,
	// then plateau.
	phase1Altitude  = 100.0
	plateauAltitude = 400.0

	// Earth's rotation, degrees of longitude per second. The sub-vehicle
	// point drifts west in the Earth-fixed frame.
	earthRotationDegPerSec = 0.004167
)

// groundSpeedKmPerSec returns the three-phase ground-track speed at t
// seconds after liftoff.
func groundSpeedKmPerSec(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t < phase1End:
		// Sub-orbital ramp.
		return phase1PeakSpeed * t / phase1End
	case t < phase2End:
		// Accelerating second-stage phase.
		frac := (t - phase1End) / (phase2End - phase1End)
		return phase1PeakSpeed + (orbitalSpeed-phase1PeakSpeed)*frac
	default:
		return orbitalSpeed
	}
}

// altitudeKm returns the three-phase altitude profile at t seconds after
// liftoff.
func altitudeKm(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t < phase1End:
		return phase1Altitude * t / phase1End
	case t < altitudePlateau:
		frac := (t - phase1End) / (altitudePlateau - phase1End)
		return phase1Altitude + (plateauAltitude-phase1Altitude)*frac
	default:
		return plateauAltitude
	}
}

// Simulate produces the simulated ground track for a launch from pad along
// the profile's azimuth, at a fixed cadence over T+0..T+900s. The output is
// fully deterministic; there is no I/O and no failure mode.
func Simulate(pad geo.Point, profile Profile) []Point {
	numPoints := HorizonSeconds/StepSeconds + 1
	points := make([]Point, 0, numPoints)

	pos := pad
	downrange := 0.0

	for i := 0; i < numPoints; i++ {
		t := float64(i * StepSeconds)

		if i > 0 {
			// Advance along the great circle by the distance covered this
			// step, integrating the midpoint speed.
			mid := t - StepSeconds/2.0
			stepKm := groundSpeedKmPerSec(mid) * StepSeconds
			downrange += stepKm
			pos = geo.Forward(pad, profile.AzimuthDeg, downrange)
			// Earth-rotation correction applied on top of the projection.
			pos.Lon -= earthRotationDegPerSec * t
		}

		stage := 1
		if t > stagingSec {
			stage = 2
		}
		engine := "burn"
		if t > secoSec {
			engine = "coast"
		}

		points = append(points, Point{
			TimeOffset: t,
			Position:   pos,
			AltitudeM:  altitudeKm(t) * 1000,
			Stage:      stage,
			Engine:     engine,
		})
	}

	return points
}
