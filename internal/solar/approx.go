package solar

import (
	"context"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// Approximator computes solar event times locally from a simplified solar
// ephemeris (Astronomical Almanac series, NOAA sunrise equation). Accuracy
// is a couple of minutes, which is well inside the classifier's 15-minute
// buckets. It never fails, so it terminates the provider chain.
type Approximator struct {
	Lat float64
	Lon float64
}

// NewApproximator creates an Approximator for a fixed location (degrees).
func NewApproximator(lat, lon float64) *Approximator {
	return &Approximator{Lat: lat, Lon: lon}
}

// Solar zenith angles (degrees) for each event class. 90.833 accounts for
// refraction and the solar disc radius at the official rise/set.
const (
	zenithOfficial     = 90.833
	zenithCivil        = 96.0
	zenithNautical     = 102.0
	zenithAstronomical = 108.0
)

// SunTimes implements Provider.
func (a *Approximator) SunTimes(_ context.Context, date time.Time) (SunTimes, error) {
	d := date.UTC()
	year, month, day := d.Date()

	// Julian day at 12:00 UTC; go-satellite's JDay matches the epoch
	// convention used by the Almanac series below.
	jd := satellite.JDay(year, int(month), day, 12, 0, 0)
	T := (jd - 2451545.0) / 36525.0

	decl, eqTimeMin := sunDeclinationAndEqTime(T)

	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// Solar noon in minutes after 00:00 UTC.
	noonMin := 720 - 4*a.Lon - eqTimeMin

	rise := func(zenith float64) (time.Time, time.Time) {
		ha := hourAngleDeg(a.Lat, decl, zenith)
		if math.IsNaN(ha) {
			// Polar day/night for this zenith: collapse onto solar noon so
			// callers still get ordered, usable times.
			t := midnight.Add(time.Duration(noonMin * float64(time.Minute)))
			return t, t
		}
		up := midnight.Add(time.Duration((noonMin - 4*ha) * float64(time.Minute)))
		down := midnight.Add(time.Duration((noonMin + 4*ha) * float64(time.Minute)))
		return up, down
	}

	sunrise, sunset := rise(zenithOfficial)
	civilB, civilE := rise(zenithCivil)
	nautB, nautE := rise(zenithNautical)
	astroB, astroE := rise(zenithAstronomical)

	return SunTimes{
		Sunrise:                   sunrise,
		Sunset:                    sunset,
		CivilTwilightBegin:        civilB,
		CivilTwilightEnd:          civilE,
		NauticalTwilightBegin:     nautB,
		NauticalTwilightEnd:       nautE,
		AstronomicalTwilightBegin: astroB,
		AstronomicalTwilightEnd:   astroE,
		Source:                    "approximation",
	}, nil
}

// sunDeclinationAndEqTime returns the solar declination (degrees) and the
// equation of time (minutes) for Julian centuries T from J2000.0.
func sunDeclinationAndEqTime(T float64) (declDeg, eqTimeMin float64) {
	// Geometric mean longitude and anomaly of the Sun (degrees).
	L0 := normalize360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := normalize360(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := M * math.Pi / 180

	// Eccentricity of Earth's orbit.
	e := 0.016708634 - 0.000042037*T - 0.0000001267*T*T

	// Sun's equation of center (degrees).
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(Mrad) +
		(0.019993-0.000101*T)*math.Sin(2*Mrad) +
		0.000289*math.Sin(3*Mrad)

	trueLon := L0 + C

	// Apparent longitude, corrected for nutation and aberration.
	omega := 125.04 - 1934.136*T
	appLon := trueLon - 0.00569 - 0.00478*math.Sin(omega*math.Pi/180)

	// Obliquity of the ecliptic, corrected.
	eps0 := 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
	eps := eps0 + 0.00256*math.Cos(omega*math.Pi/180)
	epsRad := eps * math.Pi / 180

	declDeg = math.Asin(math.Sin(epsRad)*math.Sin(appLon*math.Pi/180)) * 180 / math.Pi

	// Equation of time (minutes), NOAA formulation.
	y := math.Tan(epsRad/2) * math.Tan(epsRad/2)
	L0rad := L0 * math.Pi / 180
	eq := y*math.Sin(2*L0rad) -
		2*e*math.Sin(Mrad) +
		4*e*y*math.Sin(Mrad)*math.Cos(2*L0rad) -
		0.5*y*y*math.Sin(4*L0rad) -
		1.25*e*e*math.Sin(2*Mrad)
	eqTimeMin = 4 * eq * 180 / math.Pi

	return declDeg, eqTimeMin
}

// hourAngleDeg returns the hour angle (degrees) at which the Sun reaches
// the given zenith angle. NaN when the Sun never reaches it on that date
// (polar day or night).
func hourAngleDeg(latDeg, declDeg, zenithDeg float64) float64 {
	lat := latDeg * math.Pi / 180
	decl := declDeg * math.Pi / 180
	zen := zenithDeg * math.Pi / 180

	cosHA := (math.Cos(zen) - math.Sin(lat)*math.Sin(decl)) / (math.Cos(lat) * math.Cos(decl))
	if cosHA < -1 || cosHA > 1 {
		return math.NaN()
	}
	return math.Acos(cosHA) * 180 / math.Pi
}

func normalize360(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}
