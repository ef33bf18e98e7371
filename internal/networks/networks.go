// Package networks provides the built-in example networks runnable from the
// CLI, each a declarative construction over internal/nef.
package networks

import (
	"math"
	"sort"

	"nefsim/internal/nef"
)

// Params adjusts a built-in network without changing its topology.
type Params struct {
	// Neurons scales the base scalar population. Zero keeps the default.
	Neurons int
	// Model selects the neuron model for every ensemble ("" keeps lif).
	Model string
	// Synapse overrides the ensemble connection filter when positive.
	Synapse float64
	// Spikes adds a spike probe per ensemble, for raster views.
	Spikes bool
}

func (p Params) neurons(def int) int {
	if p.Neurons > 0 {
		return p.Neurons
	}
	return def
}

// Combine2D is the two-into-one composition tutorial: a sine and a cosine
// node each feed a scalar ensemble, and both scalars are joined into one
// two-dimensional ensemble. Five probes record the two inputs and the three
// decoded values.
func Combine2D(p Params) (*nef.Network, error) {
	net := nef.NewNetwork("combine2d")
	n := p.neurons(100)

	if _, err := net.AddNode("sin", func(t float64) nef.Signal {
		return nef.Signal{math.Sin(t)}
	}, 1); err != nil {
		return nil, err
	}
	if _, err := net.AddNode("cos", func(t float64) nef.Signal {
		return nef.Signal{math.Cos(t)}
	}, 1); err != nil {
		return nil, err
	}

	if _, err := addEnsemble(net, "a", n, 1, 1.0, p); err != nil {
		return nil, err
	}
	if _, err := addEnsemble(net, "b", n, 1, 1.0, p); err != nil {
		return nil, err
	}
	// The pair (sin t, cos t) lives on the unit circle, so the combined
	// ensemble needs headroom beyond radius 1.
	if _, err := addEnsemble(net, "both", 2*n, 2, 1.4, p); err != nil {
		return nil, err
	}

	if err := connect(net, "sin", "a", nil, p); err != nil {
		return nil, err
	}
	if err := connect(net, "cos", "b", nil, p); err != nil {
		return nil, err
	}
	if err := connect(net, "a", "both", [][]float64{{1}, {0}}, p); err != nil {
		return nil, err
	}
	if err := connect(net, "b", "both", [][]float64{{0}, {1}}, p); err != nil {
		return nil, err
	}

	for _, target := range []string{"sin", "cos"} {
		if _, err := net.Probe(target, nef.AttrOutput); err != nil {
			return nil, err
		}
	}
	for _, target := range []string{"a", "b", "both"} {
		if _, err := net.Probe(target, nef.AttrDecoded); err != nil {
			return nil, err
		}
	}
	return net, probeSpikes(net, p)
}

// CommChannel relays a sine through two ensembles in series.
func CommChannel(p Params) (*nef.Network, error) {
	net := nef.NewNetwork("commchannel")
	n := p.neurons(100)

	if _, err := net.AddNode("in", func(t float64) nef.Signal {
		return nef.Signal{math.Sin(4 * t)}
	}, 1); err != nil {
		return nil, err
	}
	if _, err := addEnsemble(net, "a", n, 1, 1.0, p); err != nil {
		return nil, err
	}
	if _, err := addEnsemble(net, "b", n, 1, 1.0, p); err != nil {
		return nil, err
	}

	if err := connect(net, "in", "a", nil, p); err != nil {
		return nil, err
	}
	if err := connect(net, "a", "b", nil, p); err != nil {
		return nil, err
	}

	if _, err := net.Probe("in", nef.AttrOutput); err != nil {
		return nil, err
	}
	for _, target := range []string{"a", "b"} {
		if _, err := net.Probe(target, nef.AttrDecoded); err != nil {
			return nil, err
		}
	}
	return net, probeSpikes(net, p)
}

// Square decodes a nonlinear function (x squared) across a connection.
func Square(p Params) (*nef.Network, error) {
	net := nef.NewNetwork("square")
	n := p.neurons(100)

	if _, err := net.AddNode("in", func(t float64) nef.Signal {
		return nef.Signal{math.Sin(t)}
	}, 1); err != nil {
		return nil, err
	}
	if _, err := addEnsemble(net, "a", n, 1, 1.0, p); err != nil {
		return nil, err
	}
	if _, err := addEnsemble(net, "asquared", n, 1, 1.0, p); err != nil {
		return nil, err
	}

	if err := connect(net, "in", "a", nil, p); err != nil {
		return nil, err
	}
	c, err := net.Connect("a", "asquared")
	if err != nil {
		return nil, err
	}
	c.Function = func(x nef.Signal) nef.Signal { return nef.Signal{x[0] * x[0]} }
	c.FnDim = 1
	if p.Synapse > 0 {
		c.Synapse = p.Synapse
	}

	if _, err := net.Probe("in", nef.AttrOutput); err != nil {
		return nil, err
	}
	for _, target := range []string{"a", "asquared"} {
		if _, err := net.Probe(target, nef.AttrDecoded); err != nil {
			return nil, err
		}
	}
	return net, probeSpikes(net, p)
}

// Integrator accumulates a piecewise-constant input: a recurrent connection
// with synapse tau feeds the ensemble back to itself while the input is
// scaled by tau.
func Integrator(p Params) (*nef.Network, error) {
	const tau = 0.1
	net := nef.NewNetwork("integrator")
	n := p.neurons(200)

	steps := Piecewise(map[float64]float64{
		0: 0, 0.2: 1, 1: 0, 2: -2, 3: 0, 4: 1, 5: 0,
	})
	if _, err := net.AddNode("in", func(t float64) nef.Signal {
		return nef.Signal{steps(t)}
	}, 1); err != nil {
		return nil, err
	}
	if _, err := addEnsemble(net, "x", n, 1, 1.0, p); err != nil {
		return nil, err
	}

	input, err := net.Connect("in", "x")
	if err != nil {
		return nil, err
	}
	input.Transform = [][]float64{{tau}}
	input.Synapse = tau

	recurrent, err := net.Connect("x", "x")
	if err != nil {
		return nil, err
	}
	recurrent.Synapse = tau

	if _, err := net.Probe("in", nef.AttrOutput); err != nil {
		return nil, err
	}
	if _, err := net.Probe("x", nef.AttrDecoded); err != nil {
		return nil, err
	}
	return net, probeSpikes(net, p)
}

// Oscillator is a self-sustaining two-dimensional harmonic oscillator,
// started by a brief kick.
func Oscillator(p Params) (*nef.Network, error) {
	const (
		tau   = 0.1
		omega = 2 * math.Pi // one cycle per second
	)
	net := nef.NewNetwork("oscillator")
	n := p.neurons(200)

	if _, err := net.AddNode("kick", func(t float64) nef.Signal {
		if t < 0.1 {
			return nef.Signal{1, 0}
		}
		return nef.Signal{0, 0}
	}, 2); err != nil {
		return nil, err
	}
	if _, err := addEnsemble(net, "x", 2*n, 2, 1.2, p); err != nil {
		return nil, err
	}

	if err := connect(net, "kick", "x", nil, p); err != nil {
		return nil, err
	}

	recurrent, err := net.Connect("x", "x")
	if err != nil {
		return nil, err
	}
	recurrent.Transform = [][]float64{
		{1, omega * tau},
		{-omega * tau, 1},
	}
	recurrent.Synapse = tau

	if _, err := net.Probe("x", nef.AttrDecoded); err != nil {
		return nil, err
	}
	return net, probeSpikes(net, p)
}

// Piecewise returns a step function of time from breakpoint/value pairs.
func Piecewise(points map[float64]float64) func(t float64) float64 {
	times := make([]float64, 0, len(points))
	for t := range points {
		times = append(times, t)
	}
	sort.Float64s(times)

	return func(t float64) float64 {
		v := 0.0
		for _, bp := range times {
			if t < bp {
				break
			}
			v = points[bp]
		}
		return v
	}
}

func addEnsemble(net *nef.Network, name string, neurons, dims int, radius float64, p Params) (*nef.Ensemble, error) {
	ens, err := net.AddEnsemble(name, neurons, dims)
	if err != nil {
		return nil, err
	}
	ens.Radius = radius
	if p.Model != "" {
		ens.Model = p.Model
	}
	return ens, nil
}

func connect(net *nef.Network, pre, post string, transform [][]float64, p Params) error {
	c, err := net.Connect(pre, post)
	if err != nil {
		return err
	}
	c.Transform = transform
	if p.Synapse > 0 && c.Synapse > 0 {
		c.Synapse = p.Synapse
	}
	return nil
}

func probeSpikes(net *nef.Network, p Params) error {
	if !p.Spikes {
		return nil
	}
	for _, ens := range net.Ensembles() {
		if _, err := net.Probe(ens.Name, nef.AttrSpikes); err != nil {
			return err
		}
	}
	return nil
}
