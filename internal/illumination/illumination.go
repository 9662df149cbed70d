// Package illumination classifies a launch time into a lighting regime for
// the observer.
//
// Two strategies exist side by side and are not reconciled: the precise
// strategy buckets the launch relative to sunrise/sunset from the solar
// provider, while the coarse strategy buckets purely by local clock hour.
// They disagree near dawn and dusk boundaries; callers that only have a
// clock fall back to coarse, and the resolver records which one was used.
package illumination

import (
	"time"

	"github.com/skyward/launchspot/internal/solar"
)

// Regime is the 3-way lighting regime used by the resolver's scoring
// tables. Twilight is the best viewing regime (sunlit exhaust plume against
// a dark sky), daylight the worst, night intermediate.
type Regime string

const (
	RegimeDay      Regime = "day"
	RegimeTwilight Regime = "twilight"
	RegimeNight    Regime = "night"
)

// Phase is the fine-grained bucket produced by the precise strategy.
type Phase string

const (
	PhaseEveningGolden   Phase = "evening_golden"   // 0-30 min after sunset
	PhaseEveningFading   Phase = "evening_fading"   // 30-60 min after sunset
	PhaseMorningIdeal    Phase = "morning_ideal"    // 0-15 min before sunrise
	PhaseMorningPossible Phase = "morning_possible" // 15-30 min before sunrise
	PhaseDaylight        Phase = "daylight"
	PhaseDeepNight       Phase = "deep_night"
)

// Quality is the qualitative viewing tag derived from the precise phase.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
	QualityInvisible Quality = "invisible"
)

// Classifier holds the observer's local time zone for the coarse strategy.
type Classifier struct {
	loc *time.Location
}

// NewClassifier creates a Classifier using the given local zone.
// A nil location selects the observer's fixed zone (Atlantic/Bermuda,
// falling back to UTC-4 when the zone database is unavailable).
func NewClassifier(loc *time.Location) *Classifier {
	if loc == nil {
		var err error
		loc, err = time.LoadLocation("Atlantic/Bermuda")
		if err != nil {
			loc = time.FixedZone("AST", -4*3600)
		}
	}
	return &Classifier{loc: loc}
}

// CoarseRegime classifies purely by local clock hour: day for [6,18],
// twilight for [5,6) and (18,20], night otherwise.
func (c *Classifier) CoarseRegime(t time.Time) Regime {
	h := t.In(c.loc).Hour()
	switch {
	case h >= 6 && h <= 18:
		return RegimeDay
	case h == 5 || h == 19 || h == 20:
		return RegimeTwilight
	default:
		return RegimeNight
	}
}

// Phase classifies a launch time against the day's solar events.
func (c *Classifier) Phase(t time.Time, st solar.SunTimes) Phase {
	switch {
	case !t.Before(st.Sunset) && t.Before(st.Sunset.Add(30*time.Minute)):
		return PhaseEveningGolden
	case !t.Before(st.Sunset.Add(30*time.Minute)) && t.Before(st.Sunset.Add(60*time.Minute)):
		return PhaseEveningFading
	case !t.After(st.Sunrise) && t.After(st.Sunrise.Add(-15*time.Minute)):
		return PhaseMorningIdeal
	case !t.After(st.Sunrise.Add(-15*time.Minute)) && t.After(st.Sunrise.Add(-30*time.Minute)):
		return PhaseMorningPossible
	case t.After(st.Sunrise.Add(15*time.Minute)) && t.Before(st.Sunset.Add(-15*time.Minute)):
		return PhaseDaylight
	default:
		return PhaseDeepNight
	}
}

// PreciseRegime maps a phase onto the 3-way regime.
func PreciseRegime(p Phase) Regime {
	switch p {
	case PhaseEveningGolden, PhaseEveningFading, PhaseMorningIdeal, PhaseMorningPossible:
		return RegimeTwilight
	case PhaseDaylight:
		return RegimeDay
	default:
		return RegimeNight
	}
}

// PhaseQuality maps a phase onto the qualitative viewing tag.
// QualityInvisible is not produced here; the resolver assigns it when a
// result is forced to likelihood none.
func PhaseQuality(p Phase) Quality {
	switch p {
	case PhaseEveningGolden, PhaseMorningIdeal:
		return QualityExcellent
	case PhaseEveningFading, PhaseMorningPossible:
		return QualityGood
	case PhaseDeepNight:
		return QualityFair
	default:
		return QualityPoor
	}
}
