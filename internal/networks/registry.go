package networks

import (
	"fmt"
	"math"
	"sort"

	"nefsim/internal/metrics"
	"nefsim/internal/nef"
)

type builderFn func(Params) (*nef.Network, error)

var builders = map[string]builderFn{
	"combine2d":   Combine2D,
	"commchannel": CommChannel,
	"square":      Square,
	"integrator":  Integrator,
	"oscillator":  Oscillator,
}

// Get builds a named network with the given parameter overrides.
func Get(name string, p Params) (*nef.Network, error) {
	fn, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown network: %s (available: %v)", name, List())
	}
	return fn(p)
}

func List() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the metrics worth reporting for a network.
func DefaultMetrics(name string) []nef.Metric {
	ms := []nef.Metric{
		metrics.NewMeanRate(),
		metrics.NewSaturation(1.5),
	}
	switch name {
	case "combine2d":
		ms = append(ms, metrics.NewTrackingError("both", func(t float64) nef.Signal {
			return nef.Signal{math.Sin(t), math.Cos(t)}
		}, 0.5))
	case "commchannel":
		ms = append(ms, metrics.NewTrackingError("b", func(t float64) nef.Signal {
			return nef.Signal{math.Sin(4 * t)}
		}, 0.5))
	case "square":
		ms = append(ms, metrics.NewTrackingError("asquared", func(t float64) nef.Signal {
			v := math.Sin(t)
			return nef.Signal{v * v}
		}, 0.5))
	}
	return ms
}
