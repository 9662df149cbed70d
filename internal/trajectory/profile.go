// Package trajectory produces simulated ascent ground tracks for launches
// that have no real telemetry.
//
// The model is a heuristic three-phase kinematic profile, not an integrated
// equations-of-motion solver. The phase breakpoints (T+60s, T+180s, T+300s)
// are load-bearing: downstream visibility-window boundaries move if they
// change.
package trajectory

import "strings"

// Confidence tags how well a profile's azimuth is known for the mission
// class that selected it.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// Profile is an ascent profile: a launch azimuth and how confident the
// classification is.
type Profile struct {
	Name       string
	AzimuthDeg float64
	Confidence Confidence
}

// profileRule is one (predicate, profile) pair. Rules are evaluated in
// order and the first match wins; the ordering is part of the observable
// behavior and must not be "tidied up".
type profileRule struct {
	keywords []string
	profile  Profile
}

var profileRules = []profileRule{
	{
		keywords: []string{"starlink", "iss", "crew"},
		profile:  Profile{Name: "northeast-leo", AzimuthDeg: 50, Confidence: ConfidenceHigh},
	},
	{
		keywords: []string{"gto", "geostationary", "geosynchronous", "geo transfer"},
		profile:  Profile{Name: "east-gto", AzimuthDeg: 90, Confidence: ConfidenceMedium},
	},
	{
		keywords: []string{"sso", "sun-synchronous", "polar"},
		profile:  Profile{Name: "southeast-polar", AzimuthDeg: 140, Confidence: ConfidenceHigh},
	},
}

// defaultProfile is used when no keyword rule matches.
var defaultProfile = Profile{Name: "default-east", AzimuthDeg: 60, Confidence: ConfidenceMedium}

// ClassifyProfile selects an ascent profile from mission and orbit names.
// Matching is case-insensitive substring search, first rule wins.
func ClassifyProfile(missionName, orbitName string) Profile {
	haystack := strings.ToLower(missionName + " " + orbitName)
	for _, rule := range profileRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.profile
			}
		}
	}
	return defaultProfile
}
