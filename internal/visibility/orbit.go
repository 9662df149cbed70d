package visibility

import (
	"strings"

	"github.com/skyward/launchspot/internal/catalog"
)

// OrbitClass is the coarse target-orbit classification used by the
// normalizer's override rules.
type OrbitClass string

const (
	OrbitGTO            OrbitClass = "gto"
	OrbitLEO            OrbitClass = "leo"
	OrbitPolar          OrbitClass = "polar"
	OrbitInterplanetary OrbitClass = "interplanetary"
	OrbitUnknown        OrbitClass = "unknown"
	OrbitOther          OrbitClass = "other"
)

// orbitRule is one (keywords, class) pair. Rules are evaluated in order and
// the first match wins; do not reorder without treating it as a behavior
// change. Corridor missions (Starlink, station traffic) are classified
// before the generic LEO keywords so their northeast ascent is not capped
// like an ordinary low-orbit insertion.
type orbitRule struct {
	keywords []string
	class    OrbitClass
}

var orbitRules = []orbitRule{
	{[]string{"polar", "sun-synchronous", "sun synchronous", "sso"}, OrbitPolar},
	{[]string{"gto", "geostationary", "geosynchronous", "geo transfer", "transfer orbit"}, OrbitGTO},
	{[]string{"interplanetary", "lunar", "moon", "mars", "venus", "jupiter", "heliocentric", "escape"}, OrbitInterplanetary},
	{[]string{"starlink", "international space station", "crew", "dragon", "cygnus", "resupply", "crs-"}, OrbitOther},
	{[]string{"leo", "low earth"}, OrbitLEO},
}

// ClassifyOrbit classifies the launch's target orbit from its orbit name,
// mission name, and description keywords.
func ClassifyOrbit(l *catalog.Launch) OrbitClass {
	text := strings.ToLower(strings.Join([]string{
		l.Mission.Orbit.Name,
		l.Mission.Orbit.Abbrev,
		l.Mission.Name,
		l.Mission.Description,
	}, " "))

	if strings.TrimSpace(text) == "" {
		return OrbitUnknown
	}
	for _, rule := range orbitRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.class
			}
		}
	}
	return OrbitOther
}
