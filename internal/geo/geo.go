// Package geo provides spherical-Earth geometry between geographic points.
//
// All functions use the mean Earth radius R = 6371 km on a sphere. That is
// deliberately cruder than a WGS-84 ellipsoid: the visibility engine works
// with a heuristic trajectory model whose position error dwarfs the
// ellipsoidal correction, so the simpler model keeps every path consistent.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used throughout the engine.
const EarthRadiusKm = 6371.0

// Point is a geographic position in degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Observer is the fixed observation point: Bermuda.
// The engine is single-site; everything downstream assumes this location.
var Observer = Point{Lat: 32.3078, Lon: -64.7505}

// DistanceKm returns the haversine great-circle distance between two points.
// Symmetric and non-negative; zero iff the points are equal.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// BearingDegrees returns the initial compass bearing from one point toward
// another, normalized to [0, 360). 0 = North, clockwise. The degenerate
// same-point case returns 0.
func BearingDegrees(from, to Point) float64 {
	if from == to {
		return 0
	}

	lat1 := from.Lat * math.Pi / 180
	lat2 := to.Lat * math.Pi / 180
	dLon := (to.Lon - from.Lon) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	deg := math.Atan2(y, x) * 180 / math.Pi
	deg = math.Mod(deg+360, 360)
	return deg
}

// HorizonDistanceKm returns the great-circle distance to the horizon for an
// object at the given altitude: R * acos(R / (R + h)). Zero at h = 0 and
// strictly increasing in altitude.
func HorizonDistanceKm(altKm float64) float64 {
	if altKm <= 0 {
		return 0
	}
	return EarthRadiusKm * math.Acos(EarthRadiusKm/(EarthRadiusKm+altKm))
}

// ElevationAngleDegrees returns the apparent elevation angle of an object at
// the given ground distance and altitude, corrected for Earth curvature:
// the curvature drop d²/(2R) is subtracted from the altitude before taking
// the angle. Negative values mean the object is below the horizon.
func ElevationAngleDegrees(distanceKm, altKm float64) float64 {
	apparent := altKm - (distanceKm*distanceKm)/(2*EarthRadiusKm)
	return math.Atan2(apparent, distanceKm) * 180 / math.Pi
}

// Forward projects a point along a great circle by the given distance and
// initial bearing, using standard spherical trigonometry. Bearing in
// degrees, distance in kilometres.
func Forward(from Point, bearingDeg, distanceKm float64) Point {
	lat1 := from.Lat * math.Pi / 180
	lon1 := from.Lon * math.Pi / 180
	brng := bearingDeg * math.Pi / 180
	d := distanceKm / EarthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(
		math.Sin(brng)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2),
	)

	lonDeg := lon2 * 180 / math.Pi
	// Normalize longitude to [-180, 180).
	lonDeg = math.Mod(lonDeg+540, 360) - 180

	return Point{Lat: lat2 * 180 / math.Pi, Lon: lonDeg}
}

// octants are the 8-way compass names, 45° each, centred on the cardinal
// and intercardinal directions.
var octants = [8]string{
	"North", "Northeast", "East", "Southeast",
	"South", "Southwest", "West", "Northwest",
}

// CompassOctant returns the 8-way compass name for a bearing in degrees.
func CompassOctant(bearingDeg float64) string {
	b := math.Mod(bearingDeg, 360)
	if b < 0 {
		b += 360
	}
	idx := int(math.Floor((b+22.5)/45)) % 8
	return octants[idx]
}
