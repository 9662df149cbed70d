package visibility

import (
	"strings"

	"github.com/skyward/launchspot/internal/catalog"
	"github.com/skyward/launchspot/internal/illumination"
)

// Factor strings attached by the normalizer. The transfer-burn factor also
// acts as the marker that the one-step likelihood raise has already been
// applied, which keeps normalization idempotent.
const (
	factorInvalidNET   = "Launch time invalid"
	factorUnknownSite  = "Launch site unknown"
	factorPolarOrbit   = "Polar corridor heads away from the observer"
	factorUnknownOrbit = "Target orbit unknown"
	factorLEOCap       = "Low orbit insertion ends the burn before closest approach"
	factorTransferBurn = "High-energy transfer burn stays visible at long range"
	factorOffCorridor  = "Launch site outside the East Coast corridor"
)

const reasonOffCorridor = "site outside visibility corridor"

// eastCoastKeywords identify the Florida and Virginia facilities whose
// ascents cross the observer's sky. Matched against the pad and site names.
var eastCoastKeywords = []string{
	"cape canaveral",
	"kennedy",
	"florida",
	"wallops",
	"virginia",
	"mid-atlantic",
}

// Normalize applies the override rules, factor de-duplication, and score
// derivation that every computation path's raw result goes through before
// caching. It is idempotent: normalizing an already-normalized result is a
// no-op.
//
// The crew-mission override is preserved as-is: an overridden result only
// gets factor de-duplication and the canonical score.
func Normalize(l *catalog.Launch, regime illumination.Regime, r Result) Result {
	if r.DataSource == SourceOverridden {
		r.Factors = dedupeFactors(r.Factors)
		r.Score = r.Likelihood.Score()
		return r
	}

	if _, ok := l.NETTime(); !ok {
		r.Likelihood = LikelihoodNone
		r.Factors = append(r.Factors, factorInvalidNET)
	}

	switch ClassifyOrbit(l) {
	case OrbitPolar:
		r.Likelihood = LikelihoodNone
		r.Factors = append(r.Factors, factorPolarOrbit)
	case OrbitUnknown:
		r.Likelihood = LikelihoodNone
		r.Factors = append(r.Factors, factorUnknownOrbit)
	case OrbitLEO:
		if r.Likelihood == LikelihoodHigh || r.Likelihood == LikelihoodMedium {
			r.Likelihood = LikelihoodLow
			r.Factors = append(r.Factors, factorLEOCap)
		}
	case OrbitGTO, OrbitInterplanetary:
		if regime != illumination.RegimeDay && !hasFactor(r.Factors, factorTransferBurn) {
			switch r.Likelihood {
			case LikelihoodLow:
				r.Likelihood = LikelihoodMedium
				r.Factors = append(r.Factors, factorTransferBurn)
			case LikelihoodMedium:
				r.Likelihood = LikelihoodHigh
				r.Factors = append(r.Factors, factorTransferBurn)
			}
		}
	}

	// Corridor check runs last; it is absolute and overrides everything the
	// orbit rules decided.
	site := strings.ToLower(l.Pad.Name + " " + l.Pad.Location.Name)
	switch {
	case strings.TrimSpace(site) == "":
		r.Factors = append(r.Factors, factorUnknownSite)
	case !matchesEastCoast(site):
		r.Likelihood = LikelihoodNone
		r.Reason = reasonOffCorridor
		r.Factors = append(r.Factors, factorOffCorridor)
	}

	r.Score = r.Likelihood.Score()
	r.Factors = dedupeFactors(r.Factors)
	return r
}

func matchesEastCoast(site string) bool {
	for _, kw := range eastCoastKeywords {
		if strings.Contains(site, kw) {
			return true
		}
	}
	return false
}

func hasFactor(factors []string, f string) bool {
	for _, v := range factors {
		if v == f {
			return true
		}
	}
	return false
}

// dedupeFactors removes duplicate entries, keeping insertion order.
func dedupeFactors(factors []string) []string {
	if len(factors) == 0 {
		return factors
	}
	seen := make(map[string]bool, len(factors))
	out := factors[:0]
	for _, f := range factors {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
