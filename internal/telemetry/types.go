// Package telemetry consumes externally supplied high-fidelity telemetry
// frames for a launch and derives the visibility geometry from them.
package telemetry

import "github.com/skyward/launchspot/internal/geo"

// Frame is one telemetry sample, time-ordered within its sequence.
type Frame struct {
	TimeOffset float64 `json:"time"` // seconds since liftoff
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	AltitudeM  float64 `json:"altitude"`
	Stage      int     `json:"stageNumber"`
}

// Position returns the frame's ground position.
func (f Frame) Position() geo.Point {
	return geo.Point{Lat: f.Latitude, Lon: f.Longitude}
}

// StageEvent is a named flight event marker (stage separation, engine
// cutoff) with its time offset since liftoff.
type StageEvent struct {
	TimeOffset float64 `json:"time"`
	Name       string  `json:"event"`
	EngineType string  `json:"engine-type,omitempty"`
}
