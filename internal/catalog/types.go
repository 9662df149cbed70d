// Package catalog supplies launch records from a Launch Library 2-style
// schedule API. The visibility engine only reads these records; ingestion,
// paging, and re-polling cadence live with the caller.
package catalog

import "time"

// Launch is one scheduled launch as returned by the /launch endpoint.
type Launch struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	NET     string  `json:"net"` // ISO-8601; may be absent or invalid
	Status  Status  `json:"status"`
	Pad     Pad     `json:"pad"`
	Mission Mission `json:"mission"`
}

// Status is the schedule status of a launch.
type Status struct {
	Name   string `json:"name"`
	Abbrev string `json:"abbrev"`
}

// Pad is the launch pad and its location.
type Pad struct {
	Name     string      `json:"name"`
	Location PadLocation `json:"location"`
}

// PadLocation is the pad's geographic site.
type PadLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude,string"`
	Longitude float64 `json:"longitude,string"`
}

// Mission is the payload/mission metadata.
type Mission struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Orbit       Orbit  `json:"orbit"`
}

// Orbit is the target orbit.
type Orbit struct {
	Name   string `json:"name"`   // e.g. "Low Earth Orbit"
	Abbrev string `json:"abbrev"` // e.g. "LEO"
}

// NETTime parses the scheduled liftoff time. The boolean is false when the
// NET field is missing or unparseable.
func (l *Launch) NETTime() (time.Time, bool) {
	if l.NET == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, l.NET)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// HasPadCoordinates reports whether the pad location carries usable
// coordinates.
func (l *Launch) HasPadCoordinates() bool {
	return l.Pad.Location.Latitude != 0 || l.Pad.Location.Longitude != 0
}

// Dataset is one fetched snapshot of upcoming launches.
type Dataset struct {
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
	Launches  []Launch  `json:"launches"`
}

// Find returns the launch with the given id, or nil.
func (d *Dataset) Find(id string) *Launch {
	for i := range d.Launches {
		if d.Launches[i].ID == id {
			return &d.Launches[i]
		}
	}
	return nil
}
