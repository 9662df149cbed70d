// Command diag runs a canned set of launches through the visibility engine
// offline, using only the local solar approximator, and prints the results.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/skyward/launchspot/internal/catalog"
	"github.com/skyward/launchspot/internal/geo"
	"github.com/skyward/launchspot/internal/solar"
	"github.com/skyward/launchspot/internal/visibility"
)

func capePad() catalog.Pad {
	return catalog.Pad{
		Name: "Space Launch Complex 40",
		Location: catalog.PadLocation{
			Name:      "Cape Canaveral SFS, FL, USA",
			Latitude:  28.5618,
			Longitude: -80.5772,
		},
	}
}

func sampleLaunches() []catalog.Launch {
	return []catalog.Launch{
		{
			ID: "diag-starlink", Name: "Falcon 9 | Starlink Group 10-5",
			NET: "2026-06-20T00:50:00Z", Pad: capePad(),
			Mission: catalog.Mission{ID: 1, Name: "Starlink Group 10-5", Orbit: catalog.Orbit{Name: "Low Earth Orbit"}},
		},
		{
			ID: "diag-crew", Name: "Falcon 9 | SpaceX Crew-12",
			NET: "2026-06-20T00:50:00Z", Pad: capePad(),
			Mission: catalog.Mission{ID: 2, Name: "SpaceX Crew-12", Orbit: catalog.Orbit{Name: "Low Earth Orbit"}},
		},
		{
			ID: "diag-gto", Name: "Falcon 9 | EchoStar 25",
			NET: "2026-06-20T00:50:00Z", Pad: capePad(),
			Mission: catalog.Mission{ID: 3, Name: "EchoStar 25", Orbit: catalog.Orbit{Name: "Geostationary Transfer Orbit"}},
		},
		{
			ID: "diag-vandenberg", Name: "Falcon 9 | Starlink Group 11-3",
			NET: "2026-06-20T02:30:00Z",
			Pad: catalog.Pad{
				Name: "Space Launch Complex 4E",
				Location: catalog.PadLocation{
					Name:      "Vandenberg SFB, CA, USA",
					Latitude:  34.632,
					Longitude: -120.611,
				},
			},
			Mission: catalog.Mission{ID: 4, Name: "Starlink Group 11-3", Orbit: catalog.Orbit{Name: "Low Earth Orbit"}},
		},
		{
			ID: "diag-bad-net", Name: "Falcon 9 | Rideshare Mix",
			NET: "soon", Pad: capePad(),
			Mission: catalog.Mission{ID: 5, Name: "Rideshare Mix", Orbit: catalog.Orbit{Name: "Low Earth Orbit"}},
		},
	}
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	resolver := visibility.NewResolver(visibility.Config{
		Solar:  solar.NewApproximator(geo.Observer.Lat, geo.Observer.Lon),
		Logger: logger,
	})

	launches := sampleLaunches()
	results := resolver.ResolveAll(context.Background(), launches)

	for i, res := range results {
		fmt.Printf("%s (%s)\n", launches[i].Name, launches[i].ID)
		fmt.Printf("  likelihood=%s score=%.2f source=%s\n", res.Likelihood, res.Score, res.DataSource)
		fmt.Printf("  bearing=%.0f° direction=%s\n", res.BearingDeg, res.TrajectoryDirection)
		if res.WindowText != "" {
			fmt.Printf("  window: %s\n", res.WindowText)
		}
		fmt.Printf("  reason: %s\n", res.Reason)
		for _, f := range res.Factors {
			fmt.Printf("  - %s\n", f)
		}
		fmt.Println()
	}
}
