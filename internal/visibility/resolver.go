package visibility

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/skyward/launchspot/internal/catalog"
	"github.com/skyward/launchspot/internal/geo"
	"github.com/skyward/launchspot/internal/illumination"
	"github.com/skyward/launchspot/internal/metrics"
	"github.com/skyward/launchspot/internal/solar"
	"github.com/skyward/launchspot/internal/telemetry"
	"github.com/skyward/launchspot/internal/trajectory"
)

// ErrNilLaunch is returned for the one caller mistake no fallback can
// absorb.
var ErrNilLaunch = errors.New("visibility: nil launch")

// collaboratorTimeout bounds every remote supplier call. A timeout degrades
// to the next computation path instead of surfacing as an error.
const collaboratorTimeout = 5 * time.Second

// TrajectoryClassifier selects an ascent profile from mission metadata.
type TrajectoryClassifier interface {
	Classify(mission, orbit string) trajectory.Profile
}

type keywordClassifier struct{}

func (keywordClassifier) Classify(mission, orbit string) trajectory.Profile {
	return trajectory.ClassifyProfile(mission, orbit)
}

// crewKeywords trigger the hard override on the mission or launch name:
// station-bound flights are forced visible with a fixed west-southwest
// bearing regardless of what telemetry or simulation would say.
var crewKeywords = []string{"iss", "cygnus", "dragon", "crew", "crs"}

const crewBearingDeg = 247.0

// Config wires the resolver's collaborators. Solar, Supplier, and Cache may
// be nil; Classifier and Logger default when nil.
type Config struct {
	Solar      solar.Provider
	Supplier   telemetry.Supplier
	Cache      ResultCache
	Classifier TrajectoryClassifier
	Zone       *time.Location
	Logger     *slog.Logger
}

// Resolver turns launch records into visibility results via the fallback
// chain: telemetry analysis, simulated trajectory, keyword heuristic.
type Resolver struct {
	sun      solar.Provider
	supplier telemetry.Supplier
	cache    ResultCache
	classes  TrajectoryClassifier
	ill      *illumination.Classifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewResolver builds a resolver from the given collaborators.
func NewResolver(cfg Config) *Resolver {
	if cfg.Classifier == nil {
		cfg.Classifier = keywordClassifier{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Resolver{
		sun:      cfg.Solar,
		supplier: cfg.Supplier,
		cache:    cfg.Cache,
		classes:  cfg.Classifier,
		ill:      illumination.NewClassifier(cfg.Zone),
		logger:   cfg.Logger.With("component", "resolver"),
		now:      time.Now,
	}
}

// lighting carries the regime (and, when solar data was available, the
// precise phase) for the launch's scheduled time.
type lighting struct {
	regime     illumination.Regime
	phase      illumination.Phase
	phaseKnown bool
}

// Resolve computes the visibility result for one launch. Frames and events
// may be nil; when they are and a telemetry supplier is configured, the
// resolver fetches telemetry itself. Every internal failure degrades to a
// lower-confidence path; the only returned error is nil-launch misuse.
func (r *Resolver) Resolve(ctx context.Context, l *catalog.Launch, frames []telemetry.Frame, events []telemetry.StageEvent) (Result, error) {
	if l == nil {
		return Result{}, ErrNilLaunch
	}
	start := r.now()

	if len(frames) == 0 && r.supplier != nil {
		fctx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
		f, e, err := r.supplier.Fetch(fctx, l.ID)
		cancel()
		if err != nil {
			r.logger.Debug("telemetry unavailable", "launch", l.ID, "error", err)
			metrics.IncSupplierFailure("telemetry")
		} else {
			frames, events = f, e
		}
	}
	hasTelemetry := len(frames) > 0

	hash := InputHash(l, hasTelemetry)
	if r.cache != nil {
		if cached, ok := r.cache.Get(l.ID, hash); ok {
			return cached, nil
		}
	}

	lt := r.lighting(ctx, l)

	var res Result
	switch {
	case crewMatch(l) != "":
		res = r.overrideResult(lt)
	case hasTelemetry:
		res = r.fromTelemetry(frames, events, lt)
	case l.HasPadCoordinates():
		res = r.fromSimulation(l, lt)
	default:
		res = r.fromHeuristic(l, lt)
	}

	res = Normalize(l, lt.regime, res)
	res.LaunchID = l.ID
	res.ResolvedAt = r.now()

	if r.cache != nil {
		r.cache.Put(l.ID, hash, res)
	}
	metrics.RecordResolution(string(res.DataSource), string(res.Likelihood), r.now().Sub(start))
	r.logger.Info("resolved visibility",
		"launch", l.ID,
		"source", res.DataSource,
		"likelihood", res.Likelihood)
	return res, nil
}

// ResolveAll resolves a batch of launches, one goroutine per launch bounded
// by a semaphore. Individual launches never fail the batch.
func (r *Resolver) ResolveAll(ctx context.Context, launches []catalog.Launch) []Result {
	results := make([]Result, len(launches))
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	for i := range launches {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			res, err := r.Resolve(ctx, &launches[idx], nil, nil)
			if err != nil {
				return
			}
			results[idx] = res
		}(i)
	}

	wg.Wait()
	return results
}

// lighting classifies the launch time, preferring the precise solar-relative
// phase and degrading to the coarse local-hour regime when the solar chain
// fails. An unparseable NET is treated as night; normalization forces the
// result to none anyway.
func (r *Resolver) lighting(ctx context.Context, l *catalog.Launch) lighting {
	net, ok := l.NETTime()
	if !ok {
		return lighting{regime: illumination.RegimeNight}
	}

	lt := lighting{regime: r.ill.CoarseRegime(net)}
	if r.sun == nil {
		return lt
	}

	sctx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	st, err := r.sun.SunTimes(sctx, net)
	cancel()
	if err != nil {
		r.logger.Debug("solar data unavailable", "launch", l.ID, "error", err)
		metrics.IncSupplierFailure("solar")
		return lt
	}

	lt.phase = r.ill.Phase(net, st)
	lt.phaseKnown = true
	lt.regime = illumination.PreciseRegime(lt.phase)
	return lt
}

// crewMatch returns the matched crew keyword, or "".
func crewMatch(l *catalog.Launch) string {
	name := strings.ToLower(l.Name + " " + l.Mission.Name)
	for _, kw := range crewKeywords {
		if strings.Contains(name, kw) {
			return kw
		}
	}
	return ""
}

func (r *Resolver) overrideResult(lt lighting) Result {
	lik := LikelihoodHigh
	if lt.regime == illumination.RegimeDay {
		lik = LikelihoodMedium
	}
	return Result{
		Likelihood:          lik,
		Score:               lik.Score(),
		Reason:              "Station-bound ascents climb the coast and pass west of the observer",
		BearingDeg:          crewBearingDeg,
		TrajectoryDirection: geo.CompassOctant(crewBearingDeg),
		DataSource:          SourceOverridden,
		Factors:             []string{"Crew or station resupply flight profile"},
	}
}

func (r *Resolver) fromTelemetry(frames []telemetry.Frame, events []telemetry.StageEvent, lt lighting) Result {
	a := telemetry.Analyze(frames, events, lt.regime)

	res := Result{
		Likelihood:          Likelihood(a.Rating),
		Reason:              a.Reason,
		BearingDeg:          a.ClosestBearingDeg,
		TrajectoryDirection: geo.CompassOctant(a.ClosestBearingDeg),
		DataSource:          SourceTelemetry,
		Factors:             lightingFactors(lt),
	}
	if a.Visible {
		res.Window = &Window{
			StartSec:          a.FirstVisibleSec,
			EndSec:            a.LastVisibleSec,
			DurationSec:       a.LastVisibleSec - a.FirstVisibleSec,
			PeakElevationSec:  a.PeakElevationSec,
			ClosestApproachKm: a.ClosestApproachKm,
			ClosestBearingDeg: a.ClosestBearingDeg,
		}
		res.WindowText = windowText(a.FirstVisibleSec, a.LastVisibleSec)
		res.Factors = append(res.Factors,
			fmt.Sprintf("Closest approach %.0f km", a.ClosestApproachKm))
	}
	return res
}

func (r *Resolver) fromSimulation(l *catalog.Launch, lt lighting) Result {
	pad := geo.Point{Lat: l.Pad.Location.Latitude, Lon: l.Pad.Location.Longitude}
	profile := r.classes.Classify(l.Mission.Name, l.Mission.Orbit.Name)
	points := trajectory.Simulate(pad, profile)

	var (
		visible        bool
		first, last    float64
		peakAt         float64
		maxElev        = -90.0
		closest        = math.MaxFloat64
		closestBearing float64
	)
	for _, p := range points {
		dist := geo.DistanceKm(geo.Observer, p.Position)
		elev := geo.ElevationAngleDegrees(dist, p.AltitudeM/1000)

		if dist < closest {
			closest = dist
			closestBearing = geo.BearingDegrees(geo.Observer, p.Position)
		}
		if elev > 0 && dist < telemetry.RangeCeilingKm {
			if !visible {
				first = p.TimeOffset
				visible = true
			}
			last = p.TimeOffset
			if elev > maxElev {
				maxElev = elev
				peakAt = p.TimeOffset
			}
		}
	}

	lik, reason := rateSimulated(lt.regime, visible, maxElev, closest)

	res := Result{
		Likelihood: lik,
		Reason:     reason,
		BearingDeg: closestBearing,
		// Direction of travel comes from the ascent azimuth, not from the
		// look bearing at closest approach.
		TrajectoryDirection: geo.CompassOctant(profile.AzimuthDeg),
		DataSource:          SourceSimulated,
		Factors: append(lightingFactors(lt),
			fmt.Sprintf("Simulated %s ascent, %s confidence", profile.Name, profile.Confidence)),
	}
	if visible {
		res.Window = &Window{
			StartSec:          first,
			EndSec:            last,
			DurationSec:       last - first,
			PeakElevationSec:  peakAt,
			ClosestApproachKm: closest,
			ClosestBearingDeg: closestBearing,
		}
		res.WindowText = windowText(first, last)
		res.Factors = append(res.Factors,
			fmt.Sprintf("Closest approach %.0f km", closest))
	}
	return res
}

// rateSimulated scores a simulated pass. The thresholds parallel the
// telemetry decision table but are tighter on distance, since the kinematic
// model's downrange error grows with range.
func rateSimulated(regime illumination.Regime, visible bool, maxElev, closestKm float64) (Likelihood, string) {
	if !visible {
		return LikelihoodNone, "Simulated trajectory stays below the horizon"
	}
	switch {
	case regime == illumination.RegimeTwilight && closestKm < 800 && maxElev > 5:
		return LikelihoodHigh, "Twilight pass with good elevation"
	case regime == illumination.RegimeNight && closestKm < 800 && maxElev > 5:
		return LikelihoodHigh, "Night pass with good elevation"
	case regime == illumination.RegimeNight && closestKm < 1200 && maxElev > 0:
		return LikelihoodMedium, "Night pass at moderate range"
	case regime == illumination.RegimeDay && closestKm < 400 && maxElev > 20:
		return LikelihoodLow, "Close daylight pass, plume may be visible"
	default:
		return LikelihoodLow, "Marginal pass conditions"
	}
}

// heuristicRule is one row of the fixed fallback table used when no pad
// coordinates are available. First match on mission keywords wins.
// The 225 degree bearing and the Northeast label disagree on purpose; do
// not adjust one to match the other.
type heuristicRule struct {
	keywords  []string
	lik       Likelihood
	direction string
	bearing   float64
	reason    string
}

var heuristicRules = []heuristicRule{
	{
		keywords:  []string{"gto", "geostationary", "geosynchronous"},
		lik:       LikelihoodMedium,
		direction: "Southeast",
		bearing:   247,
		reason:    "Transfer-orbit ascents arc southeast over the Atlantic",
	},
	{
		keywords:  []string{"iss", "crew", "dragon", "cygnus", "crs", "resupply"},
		lik:       LikelihoodHigh,
		direction: "Northeast",
		bearing:   225,
		reason:    "Station-bound ascents follow the coastal corridor",
	},
	{
		keywords:  []string{"starlink"},
		lik:       LikelihoodHigh,
		direction: "Northeast",
		bearing:   225,
		reason:    "Starlink ascents follow the northeast corridor",
	},
}

var defaultHeuristic = heuristicRule{
	lik:       LikelihoodMedium,
	direction: "Northeast",
	bearing:   225,
	reason:    "Typical East Coast ascent corridor",
}

func (r *Resolver) fromHeuristic(l *catalog.Launch, lt lighting) Result {
	text := strings.ToLower(strings.Join([]string{
		l.Name, l.Mission.Name, l.Mission.Orbit.Name,
	}, " "))

	rule := defaultHeuristic
	for _, hr := range heuristicRules {
		if matchesAny(text, hr.keywords) {
			rule = hr
			break
		}
	}

	return Result{
		Likelihood:          rule.lik,
		Reason:              rule.reason,
		BearingDeg:          rule.bearing,
		TrajectoryDirection: rule.direction,
		DataSource:          SourceEstimated,
		Factors: append(lightingFactors(lt),
			"No pad coordinates, mission-class estimate only"),
	}
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// lightingFactors describes the lighting regime for the factors list.
func lightingFactors(lt lighting) []string {
	var factors []string
	switch lt.regime {
	case illumination.RegimeTwilight:
		factors = append(factors, "Twilight sky with a sunlit exhaust plume")
	case illumination.RegimeNight:
		factors = append(factors, "Night launch, engine glow only")
	default:
		factors = append(factors, "Daylight washes out the exhaust plume")
	}
	if lt.phaseKnown {
		factors = append(factors,
			fmt.Sprintf("Viewing quality %s", illumination.PhaseQuality(lt.phase)))
	}
	return factors
}

func windowText(firstSec, lastSec float64) string {
	return fmt.Sprintf("Visible from T+%s to T+%s",
		offsetText(firstSec), offsetText(lastSec))
}

func offsetText(sec float64) string {
	d := time.Duration(sec) * time.Second
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%02ds", m, s)
}
